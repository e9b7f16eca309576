package models

// Item is one entry of a page's normalized content.
// It is either a Field or a custom record such as FAQEntry.
type Item interface {
	contentItem()
}

// Field is an alias/value content entry. Value is a string or one of the
// structured payloads below.
type Field struct {
	Alias string `json:"alias"`
	Value any    `json:"value"`
}

func (Field) contentItem() {}

// FAQEntry is a custom record that bypasses the alias/value envelope.
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Parent   string `json:"parent"`
}

func (FAQEntry) contentItem() {}

// RichText is the payload of a richTextEditor field.
type RichText struct {
	Text string `json:"text"`
}

// TextAndImage is the payload of a textAndImage block.
type TextAndImage struct {
	Manchet   *string    `json:"manchet"`
	Layout    string     `json:"layout"`
	Alignment string     `json:"alignment"`
	Text      string     `json:"text"`
	Image     ImageBlock `json:"image"`
}

// ImageBlock describes the image inside a TextAndImage block.
type ImageBlock struct {
	Caption *string `json:"caption"`
	URL     string  `json:"url"`
	Name    string  `json:"name"`
	AltText string  `json:"altText"`
}

// Schedule is the payload of a course schedule field.
type Schedule struct {
	Headline string         `json:"headline"`
	Items    []ScheduleItem `json:"items"`
}

// ScheduleItem is one program entry of a course.
type ScheduleItem struct {
	ScheduleTime        string `json:"scheduleTime"`
	ScheduleTitle       string `json:"scheduleTitle"`
	Speaker             string `json:"speaker"`
	ScheduleDescription string `json:"scheduleDescription"`
}

// Outcome classifies a normalization result.
type Outcome int

const (
	// OutcomeContent means a rule produced the items.
	OutcomeContent Outcome = iota
	// OutcomeRejected means the object does not belong to its category.
	OutcomeRejected
	// OutcomePassthrough means no rule knows the category; items mirror the input.
	OutcomePassthrough
)

// String returns a log-friendly name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeContent:
		return "content"
	case OutcomeRejected:
		return "rejected"
	case OutcomePassthrough:
		return "passthrough"
	}

	return "unknown"
}

// Result is the outcome of normalizing one legacy object.
type Result struct {
	Items   []Item
	Outcome Outcome
}

// Rejected reports whether the object was rejected for its category.
func (r Result) Rejected() bool {
	return r.Outcome == OutcomeRejected
}
