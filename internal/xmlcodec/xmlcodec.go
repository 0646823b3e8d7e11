// Package xmlcodec parses and emits the vendor XML format this engine
// round-trips through: a single root element carrying every table's rows
// as flat child elements, one level deep, each column rendered as its own
// child element.
package xmlcodec

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"github.com/gridmodel/plexosdb/internal/coerce"
)

// RootTag and Namespace identify the document this codec reads and writes.
const (
	RootTag   = "MasterDataSet"
	Namespace = "http://tempuri.org/MasterDataSet.xsd"
)

// Element is a generic, loosely-typed XML node: a tag, its column
// children (for a table row), and its own text (for a column leaf).
type Element struct {
	Tag      string
	Text     string
	Children []*Element
}

// Handler holds one parsed document: its root element plus a tag-indexed
// cache of the root's direct children, built once at Parse time.
type Handler struct {
	root  *Element
	cache map[string][]*Element
}

// NewHandler returns an empty document ready for CreateTableElement calls
// and a subsequent ToXML, for callers building a document from scratch
// rather than parsing one.
func NewHandler() *Handler {
	return &Handler{root: &Element{Tag: RootTag}, cache: make(map[string][]*Element)}
}

// Parse reads a MasterDataSet document, strips the namespace prefix in
// place, and builds the tag-indexed cache used by Iter and GetRecords. A
// leading UTF-8 byte-order mark is tolerated.
func Parse(r io.Reader) (*Handler, error) {
	br := bufio.NewReader(r)
	stripBOM(br)

	dec := xml.NewDecoder(br)
	root, err := decodeElement(dec, nil)
	if err != nil {
		return nil, fmt.Errorf("xmlcodec: parse: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("xmlcodec: parse: empty document")
	}

	h := &Handler{root: root, cache: make(map[string][]*Element)}
	for _, child := range root.Children {
		h.cache[child.Tag] = append(h.cache[child.Tag], child)
	}
	return h, nil
}

func stripBOM(br *bufio.Reader) {
	bom, err := br.Peek(3)
	if err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
}

// decodeElement reads tokens until it has fully consumed one element
// (start==nil means "read the next top-level start element, i.e. the
// document root").
func decodeElement(dec *xml.Decoder, start *xml.StartElement) (*Element, error) {
	var el *Element
	if start != nil {
		el = &Element{Tag: start.Name.Local}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return el, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if el == nil {
				// First start element encountered is the document root.
				child, err := decodeElement(dec, &t)
				if err != nil {
					return nil, err
				}
				return child, nil
			}
			child, err := decodeElement(dec, &t)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, child)
		case xml.CharData:
			if el != nil {
				el.Text += string(t)
			}
		case xml.EndElement:
			return el, nil
		}
	}
}

// Iter returns the one-shot sequence of root children with the given tag,
// optionally filtered to the positions listed in ids (0-based). Callers
// must re-call Iter to iterate again; the returned slice is not cached
// against repeated mutation of the handler.
func (h *Handler) Iter(tag string, ids ...int) []*Element {
	all := h.cache[tag]
	if len(ids) == 0 {
		out := make([]*Element, len(all))
		copy(out, all)
		return out
	}
	out := make([]*Element, 0, len(ids))
	for _, id := range ids {
		if id >= 0 && id < len(all) {
			out = append(out, all[id])
		}
	}
	return out
}

// GetRecords projects every root child with the given tag to a map of
// column tag to coerced scalar value, skipping the outer element's own
// tag.
func (h *Handler) GetRecords(tag string) []map[string]any {
	elements := h.cache[tag]
	records := make([]map[string]any, 0, len(elements))
	for _, el := range elements {
		rec := make(map[string]any, len(el.Children))
		for _, col := range el.Children {
			rec[col.Tag] = coerce.Coerce(col.Text)
		}
		records = append(records, rec)
	}
	return records
}

// CreateTableElement appends one element per row to the root, tagged
// tableName, with one child per column. columnTypes maps column name to
// its declared SQL type; a "BIT" column renders 1 as "true" and 0 as
// "false", and any nil value is omitted entirely rather than emitted as
// an empty element.
func (h *Handler) CreateTableElement(rows []map[string]any, columnTypes map[string]string, tableName string) {
	for _, row := range rows {
		el := &Element{Tag: tableName}
		for col, val := range row {
			if val == nil {
				continue
			}
			el.Children = append(el.Children, &Element{Tag: col, Text: renderColumn(col, val, columnTypes[col])})
		}
		h.root.Children = append(h.root.Children, el)
		h.cache[tableName] = append(h.cache[tableName], el)
	}
}

func renderColumn(col string, val any, sqlType string) string {
	if sqlType == "BIT" {
		switch v := val.(type) {
		case bool:
			if v {
				return "true"
			}
			return "false"
		case int64:
			if v != 0 {
				return "true"
			}
			return "false"
		}
	}
	return fmt.Sprintf("%v", val)
}

// ToXML pretty-prints the document to w: top-level children sorted
// alphabetically by tag, namespace restored on the root, UTF-8 encoded.
func (h *Handler) ToXML(w io.Writer) error {
	sorted := make([]*Element, len(h.root.Children))
	copy(sorted, h.root.Children)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("xmlcodec: write header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	start := xml.StartElement{
		Name: xml.Name{Local: RootTag},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: Namespace}},
	}
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("xmlcodec: encode root: %w", err)
	}
	for _, child := range sorted {
		if err := encodeElement(enc, child); err != nil {
			return fmt.Errorf("xmlcodec: encode %q: %w", child.Tag, err)
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("xmlcodec: encode root end: %w", err)
	}
	return enc.Flush()
}

func encodeElement(enc *xml.Encoder, el *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: el.Tag}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if len(el.Children) == 0 {
		if el.Text != "" {
			if err := enc.EncodeToken(xml.CharData(el.Text)); err != nil {
				return err
			}
		}
	}
	for _, child := range el.Children {
		if err := encodeElement(enc, child); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
