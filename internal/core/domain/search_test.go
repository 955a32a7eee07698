package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndexDocument(t *testing.T) {
	r := &Record{
		Bill:     BillAttributes{BillStage: "Introduced-in-House", BillType: "olc"},
		Form:     EmptyFormInfo(),
		DC:       DublinCore{Title: "118 HR 1 IH"},
		Text:     "A BILL To lower energy costs",
		Source:   "/data/BILLS-118hr1ih.xml",
		FileName: "BILLS-118hr1ih.xml",
	}

	doc, err := NewIndexDocument(r)

	require.NoError(t, err)
	assert.Equal(t, "BILLS-118hr1ih.xml", doc.ID)
	assert.Equal(t, "A BILL To lower energy costs", doc.Text)
	assert.Equal(t, "118 HR 1 IH", doc.Metadata[KeyDCTitle])
	assert.Equal(t, "/data/BILLS-118hr1ih.xml", doc.Metadata[KeySource])
	assert.NotContains(t, doc.Metadata, KeyText)
}

func TestNewIndexDocument_Invalid(t *testing.T) {
	_, err := NewIndexDocument(&Record{Source: "/data/x.xml"})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = NewIndexDocument(nil)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestSearchHit_Title(t *testing.T) {
	withTitle := SearchHit{ID: "a.xml", Metadata: map[string]string{KeyDCTitle: "Title A"}}
	withoutTitle := SearchHit{ID: "b.xml", Metadata: map[string]string{KeyDCTitle: ""}}
	nilMetadata := SearchHit{ID: "c.xml"}

	assert.Equal(t, "Title A", withTitle.Title())
	assert.Equal(t, "b.xml", withoutTitle.Title())
	assert.Equal(t, "c.xml", nilMetadata.Title())
}
