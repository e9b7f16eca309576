package normalizer

import (
	"ezexport/internal/logger"
	"ezexport/internal/models"
	"ezexport/pkg/checksum"
)

// Processor assembles page envelopes from manifest records and legacy objects.
type Processor struct {
	transformer *Transformer
	meta        *MetaProjector
	logger      *logger.Logger
}

// NewProcessor creates a new processor instance.
func NewProcessor(defaults MetaDefaults, log *logger.Logger) *Processor {
	return &Processor{
		transformer: NewTransformer(),
		meta:        NewMetaProjector(defaults),
		logger:      log,
	}
}

// Transformer exposes the rule table the processor uses.
func (p *Processor) Transformer() *Transformer {
	return p.transformer
}

// BuildPage normalizes one page. The boolean is false when the page is
// dropped: the object is missing, has no fields, or was rejected for a
// non-listing category.
func (p *Processor) BuildPage(page models.PageRecord, object *models.LegacyObject) (models.PageEnvelope, bool) {
	if !object.Found() {
		p.debug("legacy object not found", "node_id", page.NodeID, "url", page.URL)

		return models.PageEnvelope{}, false
	}

	result := p.transformer.Normalize(object.Fields, page.Category, object.ContentClass, object, &page)

	listing := IsListing(page.Category)
	if result.Rejected() && !listing {
		p.debug("page rejected for category",
			"node_id", page.NodeID,
			"category", page.Category,
			"content_class", object.ContentClass,
		)

		return models.PageEnvelope{}, false
	}

	content := result.Items
	if listing || content == nil {
		content = []models.Item{}
	}

	rule, ok := p.transformer.RuleFor(page.Category, object.ContentClass)
	if !ok {
		rule = result.Outcome.String()
	}

	p.debug("page normalized", "node_id", page.NodeID, "rule", rule, "items", len(content))

	return models.PageEnvelope{
		PageDetails: models.PageDetails{
			ContentType:   page.Category,
			EzContentType: object.ContentClass,
			ID:            page.ObjectID,
			URL:           page.URLFull,
			Path:          page.URL,
			Org:           page.Org,
			Tags:          nonNil(page.Tags),
			Checksum:      checksum.Sum(content),
		},
		MetaTags: p.meta.MetaTags(object),
		Content:  content,
	}, true
}

// BuildPages normalizes pages in manifest order. Objects are matched to
// pages by node id, never by position.
func (p *Processor) BuildPages(pages []models.PageRecord, objects []models.LegacyObject) []models.PageEnvelope {
	byNode := make(map[string]*models.LegacyObject, len(objects))
	for i := range objects {
		id := objects[i].NodeID.String()
		if _, seen := byNode[id]; !seen {
			byNode[id] = &objects[i]
		}
	}

	envelopes := make([]models.PageEnvelope, 0, len(pages))

	for _, page := range pages {
		envelope, ok := p.BuildPage(page, byNode[page.NodeID])
		if ok {
			envelopes = append(envelopes, envelope)
		}
	}

	return envelopes
}

func (p *Processor) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}

	return tags
}
