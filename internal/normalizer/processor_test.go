package normalizer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ezexport/internal/logger"
	"ezexport/internal/models"
)

func newTestProcessor() *Processor {
	return NewProcessor(DefaultMetaDefaults(), logger.Discard())
}

func testPage(nodeID string, category models.Category) models.PageRecord {
	return models.PageRecord{
		NodeID:   nodeID,
		ObjectID: "obj-" + nodeID,
		Category: category,
		URL:      "/Sakprosa/side-" + nodeID,
		URLFull:  "https://www.example.no/Sakprosa/side-" + nodeID,
		Org:      "gl",
	}
}

func TestProcessor_BuildPage(t *testing.T) {
	p := newTestProcessor()
	object := &models.LegacyObject{
		NodeID:       "1",
		ContentClass: LegacyArticle,
		Published:    testPublished,
		Fields:       legacyFields("title", "Nyhet", "intro", "<p>Kort</p>", "body", "Tekst"),
	}

	envelope, ok := p.BuildPage(testPage("1", models.CategoryNews), object)
	require.True(t, ok)

	assert.Equal(t, models.CategoryNews, envelope.PageDetails.ContentType)
	assert.Equal(t, LegacyArticle, envelope.PageDetails.EzContentType)
	assert.Equal(t, "obj-1", envelope.PageDetails.ID)
	assert.Equal(t, "https://www.example.no/Sakprosa/side-1", envelope.PageDetails.URL)
	assert.Equal(t, "/Sakprosa/side-1", envelope.PageDetails.Path)
	assert.NotEmpty(t, envelope.PageDetails.Checksum)
	assert.Equal(t, []string{}, envelope.PageDetails.Tags)
	assert.Equal(t, "Nyhet", envelope.MetaTags.Title)
	assert.Equal(t, "Kort", envelope.MetaTags.Description)
	assert.Equal(t, []string{"publishedDate", "headline", "teaser", "richTextEditor"}, aliases(envelope.Content))
}

func TestProcessor_BuildPage_LogsRule(t *testing.T) {
	var buf bytes.Buffer

	p := NewProcessor(DefaultMetaDefaults(), logger.New("debug", logger.FormatText, &buf))

	faq := &models.LegacyObject{NodeID: "2", ContentClass: LegacyFAQArticle, Fields: legacyFields("question", "Hvorfor?", "answer", "Fordi")}
	_, ok := p.BuildPage(testPage("2", models.CategoryFAQ), faq)
	require.True(t, ok)
	assert.Contains(t, buf.String(), "rule=faq")

	buf.Reset()

	folder := &models.LegacyObject{NodeID: "3", ContentClass: "folder", Fields: legacyFields("name", "Kurs")}
	_, ok = p.BuildPage(testPage("3", models.CategoryCourseListPage), folder)
	require.True(t, ok)
	assert.Contains(t, buf.String(), "rule=rejected")
}

func TestProcessor_BuildPage_Dropped(t *testing.T) {
	p := newTestProcessor()

	t.Run("missing object", func(t *testing.T) {
		_, ok := p.BuildPage(testPage("1", models.CategoryNews), nil)
		assert.False(t, ok)
	})

	t.Run("object without fields", func(t *testing.T) {
		_, ok := p.BuildPage(testPage("1", models.CategoryNews), &models.LegacyObject{ContentClass: LegacyArticle})
		assert.False(t, ok)
	})

	t.Run("rejected for category", func(t *testing.T) {
		object := &models.LegacyObject{ContentClass: "folder", Fields: legacyFields("name", "Mappe")}
		_, ok := p.BuildPage(testPage("1", models.CategoryNews), object)
		assert.False(t, ok)
	})
}

func TestProcessor_BuildPage_ListingKeepsEmptyContent(t *testing.T) {
	p := newTestProcessor()

	for _, category := range ListingCategories {
		t.Run(string(category), func(t *testing.T) {
			object := &models.LegacyObject{ContentClass: "folder", Fields: legacyFields("name", "Kurs", "description", "Alle kurs")}

			result := p.Transformer().Normalize(object.Fields, category, object.ContentClass, object, nil)
			require.True(t, result.Rejected())

			envelope, ok := p.BuildPage(testPage("7", category), object)
			require.True(t, ok)
			assert.NotNil(t, envelope.Content)
			assert.Empty(t, envelope.Content)
			assert.Equal(t, "Kurs", envelope.MetaTags.Title)

			data, err := json.Marshal(envelope)
			require.NoError(t, err)
			assert.Contains(t, string(data), `"content":[]`)
		})
	}
}

func TestProcessor_BuildPage_EmptyRuleOutputIsKept(t *testing.T) {
	p := newTestProcessor()
	object := &models.LegacyObject{ContentClass: LegacyFAQArticle, Fields: legacyFields("title", "Ingen spørsmål")}

	envelope, ok := p.BuildPage(testPage("3", models.CategoryFAQ), object)
	require.True(t, ok)
	assert.Equal(t, []models.Item{}, envelope.Content)
}

func TestProcessor_BuildPages_MatchesByNodeID(t *testing.T) {
	p := newTestProcessor()
	pages := []models.PageRecord{
		testPage("1", models.CategoryNews),
		testPage("2", models.CategoryFAQ),
		testPage("3", models.CategoryNews),
		testPage("4", models.CategoryCourseListPage),
	}
	objects := []models.LegacyObject{
		{NodeID: "4", ContentClass: "folder", Fields: legacyFields("name", "Kurs")},
		{NodeID: "2", ContentClass: LegacyFAQArticle, Fields: legacyFields("question", "Q")},
		{NodeID: "1", ContentClass: LegacyArticle, Fields: legacyFields("title", "A")},
		{NodeID: "1", ContentClass: LegacyArticle, Fields: legacyFields("title", "duplicate")},
	}

	envelopes := p.BuildPages(pages, objects)

	require.Len(t, envelopes, 3)
	assert.Equal(t, "obj-1", envelopes[0].PageDetails.ID)
	assert.Equal(t, "A", envelopes[0].MetaTags.Title)
	assert.Equal(t, "obj-2", envelopes[1].PageDetails.ID)
	assert.Equal(t, "obj-4", envelopes[2].PageDetails.ID)
	assert.Equal(t, []models.Item{
		models.FAQEntry{Question: "Q", Answer: "", Parent: "/Sakprosa"},
	}, envelopes[1].Content)
}
