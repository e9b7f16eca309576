package models

// Category is the target-platform content type a page migrates into.
type Category string

// Known categories.
const (
	CategoryNews              Category = "news"
	CategoryArticle           Category = "article"
	CategoryArticleListPage   Category = "articleListPage"
	CategoryTextPage          Category = "textPage"
	CategoryAuthorsListPage   Category = "authorsListPage"
	CategoryUndervisningstips Category = "undervisningstips"
	CategoryCourseListPage    Category = "courseListPage"
	CategoryCourse            Category = "course"
	CategoryEvent             Category = "event"
	CategoryFAQ               Category = "faq"

	// CategoryAll is a manifest filter wildcard and never reaches the normalizer.
	CategoryAll Category = "all"
)

// ValidCategories lists the categories accepted from the manifest.
var ValidCategories = []Category{
	CategoryNews,
	CategoryArticle,
	CategoryArticleListPage,
	CategoryTextPage,
	CategoryAuthorsListPage,
	CategoryUndervisningstips,
	CategoryCourseListPage,
	CategoryCourse,
	CategoryEvent,
	CategoryFAQ,
}

// PageRecord is one manifest row describing a page to migrate. Rows without
// a node id are listed but never exported.
type PageRecord struct {
	NodeID         string   `json:"nodeId"`
	ObjectID       string   `json:"objectId"`
	Category       Category `json:"category" validate:"required,category"`
	NewDestination string   `json:"newDestination"`
	URL            string   `json:"url" validate:"required,startswith=/"`
	URLFull        string   `json:"urlFull"`
	Org            string   `json:"org"`
	Tags           []string `json:"tags"`
}
