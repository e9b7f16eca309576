package normalizer

import (
	"strings"

	"ezexport/internal/models"
)

// Output aliases shared by several rules.
const (
	aliasPublishedDate  = "publishedDate"
	aliasHeadline       = "headline"
	aliasTeaser         = "teaser"
	aliasRichText       = "richTextEditor"
	aliasImage          = "image"
	aliasHeroShow       = "heroShow"
	aliasHeroBackground = "heroBackgroundImage"
)

const (
	textAndImageLayout    = "image-left"
	textAndImageAlignment = "image-top"
	scheduleHeadline      = "Program"
	speakersHeading       = "<h2>Kursholdere</h2>"
)

// ruleContext is everything a rule may consult while folding over the fields.
type ruleContext struct {
	object *models.LegacyObject
	page   *models.PageRecord
	index  fieldIndex
	fields []models.LegacyField
}

func newRuleContext(fields []models.LegacyField, object *models.LegacyObject, page *models.PageRecord) *ruleContext {
	return &ruleContext{
		fields: fields,
		index:  newFieldIndex(fields),
		object: object,
		page:   page,
	}
}

// publishedDate returns the object's publish date field, if it has a timestamp.
func (rc *ruleContext) publishedDate() (models.Field, bool) {
	if rc.object == nil || !rc.object.HasPublished() {
		return models.Field{}, false
	}

	return field(aliasPublishedDate, ToISODate(rc.object.Published.String())), true
}

func (rc *ruleContext) pagePath() string {
	if rc.page == nil {
		return ""
	}

	return rc.page.URL
}

// ruleFunc turns the fields of one legacy object into content items.
type ruleFunc func(rc *ruleContext) []models.Item

func field(alias string, value any) models.Field {
	return models.Field{Alias: alias, Value: value}
}

func richText(text string) models.Field {
	return field(aliasRichText, models.RichText{Text: text})
}

// headlineItems emits the publish date (when known) followed by the headline.
func headlineItems(rc *ruleContext, out []models.Item, headline string) []models.Item {
	if date, ok := rc.publishedDate(); ok {
		out = append(out, date)
	}

	return append(out, field(aliasHeadline, headline))
}

func teaser(value string) models.Field {
	return field(aliasTeaser, StripTags(value))
}

// articleRule handles plain articles. A body next to an image becomes a
// textAndImage block; the image is still emitted on its own.
func articleRule(rc *ruleContext) []models.Item {
	withImage := rc.index.has("image")
	out := make([]models.Item, 0, len(rc.fields)+2)

	for _, f := range rc.fields {
		value := f.Value.String()

		switch f.Name {
		case "title":
			out = headlineItems(rc, out, value)
		case "intro":
			out = append(out, teaser(value))
		case "body":
			if withImage {
				out = append(out, field("textAndImage", rc.textAndImage(value)))
			} else {
				out = append(out, richText(value))
			}
		case "image_laying":
			out = append(out,
				field(aliasHeroShow, "true"),
				field(aliasHeroBackground, value),
			)
		case "image":
			out = append(out, field(aliasImage, value))
		}
	}

	return out
}

func (rc *ruleContext) textAndImage(body string) models.TextAndImage {
	title := rc.index.value("title")

	block := models.TextAndImage{
		Layout:    textAndImageLayout,
		Alignment: textAndImageAlignment,
		Text:      body,
		Image: models.ImageBlock{
			URL:     rc.index.value("image"),
			Name:    title,
			AltText: title,
		},
	}

	if intro, ok := rc.index.lookup("intro"); ok {
		manchet := StripTags(intro)
		block.Manchet = &manchet
	}

	if caption, ok := rc.index.lookup("caption"); ok {
		stripped := StripTags(caption)
		block.Image.Caption = &stripped
	}

	return block
}

// heroArticleRule handles guux_article. An explicit date field wins over
// the object's publish timestamp; an image expands into a hero bundle.
func heroArticleRule(rc *ruleContext) []models.Item {
	hasOwnDate := rc.index.has("date")
	out := make([]models.Item, 0, len(rc.fields)+4)

	for _, f := range rc.fields {
		value := f.Value.String()

		switch f.Name {
		case "title":
			if !hasOwnDate {
				if date, ok := rc.publishedDate(); ok {
					out = append(out, date)
				}
			}

			out = append(out, field(aliasHeadline, value))
		case "intro":
			out = append(out, teaser(value))
		case "image":
			out = append(out,
				field(aliasHeroShow, "true"),
				field(aliasHeroBackground, value),
				field("heroHeadline", rc.index.value("title")),
			)

			if intro, ok := rc.index.lookup("intro"); ok {
				out = append(out, field("heroTeaser", StripTags(intro)))
			}

			out = append(out, field(aliasImage, value))
		case "date":
			out = append(out, field(aliasPublishedDate, ToISODate(value)))
		case "body":
			out = append(out, richText(value))
		}
	}

	return out
}

func tabsRule(rc *ruleContext) []models.Item {
	out := make([]models.Item, 0, len(rc.fields)+1)

	for _, f := range rc.fields {
		value := f.Value.String()

		switch f.Name {
		case "title":
			out = headlineItems(rc, out, value)
		case "intro":
			out = append(out, teaser(value))
		case "text":
			out = append(out, richText(value))
		}
	}

	return out
}

// taskRule handles guux_task, whose headline lives in "name".
func taskRule(rc *ruleContext) []models.Item {
	out := make([]models.Item, 0, len(rc.fields)+1)

	for _, f := range rc.fields {
		value := f.Value.String()

		switch f.Name {
		case "name":
			out = headlineItems(rc, out, value)
		case "intro":
			out = append(out, teaser(value))
		case "text":
			out = append(out, richText(value))
		case "image":
			out = append(out, field(aliasImage, value))
		}
	}

	return out
}

// faqRule emits one custom record per question. Every question is paired
// with the first answer field of the object.
func faqRule(rc *ruleContext) []models.Item {
	parent := ParentPath(rc.pagePath())
	answer := rc.index.value("answer")

	var out []models.Item

	for _, f := range rc.fields {
		if f.Name != "question" {
			continue
		}

		out = append(out, models.FAQEntry{
			Question: f.Value.String(),
			Answer:   answer,
			Parent:   parent,
		})
	}

	return out
}

func courseRule(rc *ruleContext) []models.Item {
	out := make([]models.Item, 0, len(rc.fields)+5)

	for _, f := range rc.fields {
		value := f.Value.String()

		switch f.Name {
		case "title":
			out = append(out,
				field("subtitle", ""),
				field("status", ""),
				field("contact", ""),
				field("title", value),
			)
		case "image":
			out = append(out, field(aliasImage, value))
		case "date":
			out = append(out, field("startDate", ToISODate(value)))
		case "date_to":
			out = append(out, field("endDate", ToISODate(value)))
		case "signup_date":
			out = append(out, field("registrationDeadline", ToISODate(value)))
		case "price":
			out = append(out, field("price", value))
		case "address":
			out = append(out, addressItems(value)...)
		case "signup_link":
			out = append(out, field("signupUrl", value))
		case "body":
			out = append(out, richText(rc.courseBody(value)))
		case "program":
			out = append(out, field("schedule", ParseSchedule(value)))
		}
	}

	return out
}

// courseBody appends the speakers section, when present, to the body text.
func (rc *ruleContext) courseBody(body string) string {
	speakers := ""
	if v, ok := rc.index.lookup("speakers"); ok {
		speakers = speakersHeading + v
	}

	return body + " " + speakers
}

// addressItems splits "street, district, ZIP CITY" into location, zip code
// and city. Any other shape is kept whole as the location.
func addressItems(address string) []models.Item {
	parts := strings.Split(address, ", ")
	if len(parts) == 3 {
		last := strings.Split(parts[2], " ")
		if len(last) > 1 {
			return []models.Item{
				field("zipCode", last[0]),
				field("city", strings.Join(last[1:], " ")),
				field("location", parts[0]+", "+parts[1]),
			}
		}
	}

	return []models.Item{field("location", address)}
}

// ParseSchedule parses an "&"-separated list of "|"-separated program
// records. Positions are time, title, speaker, description; missing
// positions are empty.
func ParseSchedule(program string) models.Schedule {
	records := strings.Split(program, "&")
	schedule := models.Schedule{
		Headline: scheduleHeadline,
		Items:    make([]models.ScheduleItem, 0, len(records)),
	}

	for _, record := range records {
		parts := strings.Split(record, "|")
		at := func(i int) string {
			if i < len(parts) {
				return parts[i]
			}

			return ""
		}

		schedule.Items = append(schedule.Items, models.ScheduleItem{
			ScheduleTime:        at(0),
			ScheduleTitle:       at(1),
			Speaker:             at(2),
			ScheduleDescription: at(3),
		})
	}

	return schedule
}
