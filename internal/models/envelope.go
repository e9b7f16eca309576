package models

// MetaSummary is the title/description/thumbnail triple derived per content class.
type MetaSummary struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// MetaTags is the SEO and social metadata attached to every exported page.
type MetaTags struct {
	Title                string `json:"title"`
	ContentLanguage      string `json:"contentLanguage"`
	Author               string `json:"author"`
	Copyright            string `json:"copyright"`
	Description          string `json:"description"`
	Thumbnail            string `json:"thumbnail,omitempty"`
	OpenGraphTitle       string `json:"openGraphTitle"`
	OpenGraphDescription string `json:"openGraphDescription"`
	OpenGraphType        string `json:"openGraphType"`
	OpenGraphImage       string `json:"openGraphImage,omitempty"`
}

// PageDetails identifies an exported page.
type PageDetails struct {
	ContentType   Category `json:"contentType"`
	EzContentType string   `json:"ezContentType"`
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	Path          string   `json:"path"`
	Org           string   `json:"org"`
	Tags          []string `json:"tags"`
	Checksum      string   `json:"checksum"`
}

// PageEnvelope is one page of the content export response.
type PageEnvelope struct {
	MetaTags    MetaTags    `json:"metaTags"`
	PageDetails PageDetails `json:"pageDetails"`
	Content     []Item      `json:"content"`
}
