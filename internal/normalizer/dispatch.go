// Package normalizer reshapes legacy CMS objects into target-platform content.
//
// The engine is a closed dispatch table keyed by (category, legacy content
// class). Lookup runs in four steps:
//
//  1. the first rule whose categories contain the category and whose legacy
//     type matches runs;
//  2. a declared rejection for the category returns OutcomeRejected;
//  3. listing categories return OutcomeRejected;
//  4. anything else passes the fields through unchanged.
//
// Normalization is pure: no shared state, safe for concurrent use.
package normalizer

import (
	"slices"

	"ezexport/internal/models"
)

// Legacy content classes with a dedicated rule.
const (
	LegacyArticle     = "article"
	LegacyHeroArticle = "guux_article"
	LegacyTabs        = "guux_tabs"
	LegacyTask        = "guux_task"
	LegacyFAQArticle  = "guux_faq_article"
	LegacyCourse      = "guux_course"
)

// ListingCategories hold pages that intentionally carry no body content.
var ListingCategories = []models.Category{
	models.CategoryCourseListPage,
	models.CategoryAuthorsListPage,
	models.CategoryArticleListPage,
	models.CategoryUndervisningstips,
}

// IsListing reports whether category is a listing category.
func IsListing(category models.Category) bool {
	return slices.Contains(ListingCategories, category)
}

type rule struct {
	apply      ruleFunc
	name       string
	legacyType string
	categories []models.Category
}

func (r rule) matches(category models.Category, legacyType string) bool {
	return r.legacyType == legacyType && slices.Contains(r.categories, category)
}

// rejection declares which legacy types are invalid for a category.
// An empty legacyTypes list rejects every type that no rule accepted.
type rejection struct {
	category    models.Category
	legacyTypes []string
}

func (r rejection) rejects(category models.Category, legacyType string) bool {
	if r.category != category {
		return false
	}

	return len(r.legacyTypes) == 0 || slices.Contains(r.legacyTypes, legacyType)
}

// Priority order matters: categories overlap between rules.
var defaultRules = []rule{
	{
		name:       "article",
		categories: []models.Category{models.CategoryNews, models.CategoryArticle, models.CategoryTextPage},
		legacyType: LegacyArticle,
		apply:      articleRule,
	},
	{
		name:       "hero-article",
		categories: []models.Category{models.CategoryNews, models.CategoryArticle},
		legacyType: LegacyHeroArticle,
		apply:      heroArticleRule,
	},
	{
		name:       "tabs",
		categories: []models.Category{models.CategoryArticle},
		legacyType: LegacyTabs,
		apply:      tabsRule,
	},
	{
		name:       "task",
		categories: []models.Category{models.CategoryTextPage},
		legacyType: LegacyTask,
		apply:      taskRule,
	},
	{
		name:       "faq",
		categories: []models.Category{models.CategoryFAQ},
		legacyType: LegacyFAQArticle,
		apply:      faqRule,
	},
	{
		name:       "course",
		categories: []models.Category{models.CategoryCourse},
		legacyType: LegacyCourse,
		apply:      courseRule,
	},
}

var defaultRejections = []rejection{
	{category: models.CategoryNews},
	{category: models.CategoryArticle},
	{
		category:    models.CategoryTextPage,
		legacyTypes: []string{"guux_task_group", "folder", "file", "guux_single_page", "link"},
	},
	{category: models.CategoryFAQ},
	{category: models.CategoryCourse},
}

// Transformer applies the rule table to legacy objects.
type Transformer struct {
	rules      []rule
	rejections []rejection
}

// NewTransformer creates a transformer with the built-in rule table.
func NewTransformer() *Transformer {
	return &Transformer{
		rules:      defaultRules,
		rejections: defaultRejections,
	}
}

// RuleFor returns the name of the rule that handles the pair, if any.
func (t *Transformer) RuleFor(category models.Category, legacyType string) (string, bool) {
	for _, r := range t.rules {
		if r.matches(category, legacyType) {
			return r.name, true
		}
	}

	return "", false
}

// Normalize converts the fields of one legacy object for the given category.
// object supplies the publish timestamp and page the source path; either may be nil.
func (t *Transformer) Normalize(
	fields []models.LegacyField,
	category models.Category,
	legacyType string,
	object *models.LegacyObject,
	page *models.PageRecord,
) models.Result {
	for _, r := range t.rules {
		if r.matches(category, legacyType) {
			rc := newRuleContext(fields, object, page)

			return models.Result{Outcome: models.OutcomeContent, Items: r.apply(rc)}
		}
	}

	for _, r := range t.rejections {
		if r.rejects(category, legacyType) {
			return models.Result{Outcome: models.OutcomeRejected}
		}
	}

	if IsListing(category) {
		return models.Result{Outcome: models.OutcomeRejected}
	}

	return models.Result{Outcome: models.OutcomePassthrough, Items: passthrough(fields)}
}

func passthrough(fields []models.LegacyField) []models.Item {
	items := make([]models.Item, 0, len(fields))

	for _, f := range fields {
		items = append(items, field(f.Name, f.Value.String()))
	}

	return items
}
