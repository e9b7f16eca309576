package normalizer

import "ezexport/internal/models"

// MetaDefaults are the constant parts of every page's meta tags.
type MetaDefaults struct {
	ContentLanguage  string
	Author           string
	Copyright        string
	OpenGraphType    string
	DescriptionWidth int
}

// DefaultMetaDefaults returns the defaults used by the production export.
func DefaultMetaDefaults() MetaDefaults {
	return MetaDefaults{
		ContentLanguage:  "no-bokmaal",
		Author:           "Gyldendal Norsk Forlag",
		Copyright:        "Gyldendal Norsk Forlag",
		OpenGraphType:    "article",
		DescriptionWidth: 160,
	}
}

// metaSource names the fields a content class takes its summary from.
// Empty names are left out of the summary.
type metaSource struct {
	title       string
	description string
	thumbnail   string
}

var metaSources = map[string]metaSource{
	LegacyArticle:     {title: "title", description: "intro", thumbnail: "image"},
	LegacyHeroArticle: {title: "title", description: "intro", thumbnail: "image"},
	LegacyTabs:        {title: "title", description: "intro"},
	"link":            {title: "name", description: "description"},
	"folder":          {title: "name", description: "description"},
	"html":            {title: "title"},
}

// MetaProjector derives meta tags from legacy objects.
type MetaProjector struct {
	defaults MetaDefaults
}

// NewMetaProjector creates a projector with the given constants.
func NewMetaProjector(defaults MetaDefaults) *MetaProjector {
	return &MetaProjector{defaults: defaults}
}

// Summarize builds the meta summary of an object from its content class alone.
// Unknown classes yield an empty summary.
func (m *MetaProjector) Summarize(contentClass string, fields []models.LegacyField) models.MetaSummary {
	src, ok := metaSources[contentClass]
	if !ok {
		return models.MetaSummary{}
	}

	var summary models.MetaSummary

	if src.title != "" {
		summary.Title = FieldValue(fields, src.title)
	}

	if src.description != "" {
		summary.Description = Summarize(FieldValue(fields, src.description), m.defaults.DescriptionWidth)
	}

	if src.thumbnail != "" {
		summary.Thumbnail = FieldValue(fields, src.thumbnail)
	}

	return summary
}

// Project expands a summary into the full tag set.
func (m *MetaProjector) Project(summary models.MetaSummary) models.MetaTags {
	return models.MetaTags{
		Title:                summary.Title,
		ContentLanguage:      m.defaults.ContentLanguage,
		Author:               m.defaults.Author,
		Copyright:            m.defaults.Copyright,
		Description:          summary.Description,
		Thumbnail:            summary.Thumbnail,
		OpenGraphTitle:       summary.Title,
		OpenGraphDescription: summary.Description,
		OpenGraphType:        m.defaults.OpenGraphType,
		OpenGraphImage:       summary.Thumbnail,
	}
}

// MetaTags summarizes and projects an object in one step.
func (m *MetaProjector) MetaTags(object *models.LegacyObject) models.MetaTags {
	if object == nil {
		return m.Project(models.MetaSummary{})
	}

	return m.Project(m.Summarize(object.ContentClass, object.Fields))
}
