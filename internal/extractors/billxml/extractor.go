// Package billxml extracts metadata and text from US congressional bill XML.
package billxml

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// DublinCoreNamespace is the namespace of the bibliographic metadata block.
const DublinCoreNamespace = "http://purl.org/dc/elements/1.1/"

// rootAttributes are read from the document element.
var rootAttributes = []string{"bill-stage", "bill-type", "dms-id", "public-private"}

// Extractor parses bill documents from disk.
type Extractor struct{}

// New creates a new bill XML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract reads and parses one file. Any I/O or parse failure is returned
// with the path; callers treat it as a per-file failure.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	record, err := e.ExtractFrom(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	record.Source = path
	record.FileName = filepath.Base(path)
	return record, nil
}

// ExtractFrom parses a document from r. Source and FileName are left empty.
func (e *Extractor) ExtractFrom(r io.Reader) (*domain.Record, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}

	return &domain.Record{
		Bill: billAttributes(doc.root),
		Form: formInfo(doc.root.find(isForm)),
		DC:   dublinCore(doc.root),
		Text: strings.Join(doc.text, " "),
	}, nil
}

// billAttributes reads the root attributes; missing ones are empty.
func billAttributes(root *node) domain.BillAttributes {
	values := make(map[string]string, len(rootAttributes))
	for _, name := range rootAttributes {
		values[normaliseKey(name)] = root.attr(name)
	}
	return domain.BillAttributes{
		BillStage:     values[domain.KeyBillStage],
		BillType:      values[domain.KeyBillType],
		DMSID:         values[domain.KeyDMSID],
		PublicPrivate: values[domain.KeyPublicPrivate],
	}
}

// formInfo collects the known form elements. Repeated elements are joined
// with domain.MultiValueSeparator. A missing form yields the empty layout.
func formInfo(form *node) domain.FormInfo {
	if form == nil {
		return domain.EmptyFormInfo()
	}

	var info domain.FormInfo
	form.walk(func(n *node) {
		if n.name.Space != "" || n.text == "" {
			return
		}
		info.Append(normaliseKey(n.name.Local), n.text)
	})
	return info
}

// dublinCore reads the first occurrence of each bibliographic element.
func dublinCore(root *node) domain.DublinCore {
	value := func(local string) string {
		n := root.find(func(n *node) bool {
			return n.name.Space == DublinCoreNamespace && n.name.Local == local
		})
		if n == nil {
			return ""
		}
		return n.text
	}

	return domain.DublinCore{
		Title:     value("title"),
		Publisher: value("publisher"),
		Date:      value("date"),
		Format:    value("format"),
		Language:  value("language"),
		Rights:    value("rights"),
	}
}

func isForm(n *node) bool {
	return n.name.Space == "" && n.name.Local == "form"
}

// normaliseKey maps an XML name such as "bill-stage" to "bill_stage".
func normaliseKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "-", "_"))
}
