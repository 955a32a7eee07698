package domain

// IndexDocument is one entry handed to the vector index.
type IndexDocument struct {
	// ID is unique per collection; the record's file name.
	ID string

	// Text is the document body used for embedding.
	Text string

	// Metadata holds every extracted field except text.
	Metadata map[string]string
}

// NewIndexDocument converts a validated record into an index entry.
func NewIndexDocument(r *Record) (IndexDocument, error) {
	if err := r.Validate(); err != nil {
		return IndexDocument{}, err
	}
	return IndexDocument{
		ID:       r.ID(),
		Text:     r.Text,
		Metadata: r.Metadata(),
	}, nil
}

// SearchHit is one ranked match from a vector index query.
type SearchHit struct {
	// ID is the matched document id.
	ID string `json:"id"`

	// Metadata holds the attributes stored with the document.
	Metadata map[string]string `json:"metadata"`

	// Distance is the index-reported distance (lower is closer).
	Distance float64 `json:"distance"`
}

// Title returns the Dublin Core title, falling back to the id.
func (h SearchHit) Title() string {
	if t := h.Metadata[KeyDCTitle]; t != "" {
		return t
	}
	return h.ID
}
