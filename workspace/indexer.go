// Package workspace provides the cross-document knowledge graph that backs
// editor integration for decision-record style documentation. It indexes
// anchors, attributes, headers, and cross-references per document and
// answers workspace-wide queries (reverse anchor lookup, reachability,
// symbol search).
package workspace

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Pre-compiled patterns for structural extraction. Identifier classes are
// Unicode-aware so non-ASCII anchor and attribute names index correctly.
var (
	// anchorRe matches anchor definitions: [[my-id]]
	anchorRe = regexp.MustCompile(`\[\[([\p{L}\p{N}_-]+)\]\]`)
	// xrefRe matches cross-references: <<id>> or <<id,display label>>
	xrefRe = regexp.MustCompile(`<<([\p{L}\p{N}_-]+)(?:,[^>]*)?>>`)
	// fileXrefRe matches file-based cross-references:
	// <<path/to/doc.adoc#,label>> or <<doc.adoc#anchor>>
	fileXrefRe = regexp.MustCompile(`<<([^#,>\s]+\.(?:adoc|asciidoc))(?:#[^,>]*)?(?:,[^>]*)?\s*>>`)
	// headerRe matches section headers: a leading run of '=' followed by a title
	headerRe = regexp.MustCompile(`^(=+)\s+(.+)$`)
	// attrRe matches attribute definitions: :name: value
	attrRe = regexp.MustCompile(`^:([\p{L}\p{N}_-]+):\s*(.*)$`)
)

// Anchor is a named, addressable location within a document.
type Anchor struct {
	ID     string `json:"id"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Reference is an outgoing cross-reference to an anchor, possibly defined
// in a different document.
type Reference struct {
	Target string `json:"target"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// FileReference is an outgoing cross-reference that targets a whole
// document by workspace-relative path instead of by anchor id. Index
// pages conventionally link their entries this way.
type FileReference struct {
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Header is a section header with its nesting level (number of '=' signs).
type Header struct {
	Title string `json:"title"`
	Line  int    `json:"line"`
	Level int    `json:"level"`
}

// ExtractAnchors returns all anchor definitions in document order.
// Lines are 0-based; columns are rune offsets of the anchor id.
func ExtractAnchors(text string) []Anchor {
	var anchors []Anchor
	for lineNum, line := range strings.Split(text, "\n") {
		for _, m := range anchorRe.FindAllStringSubmatchIndex(line, -1) {
			anchors = append(anchors, Anchor{
				ID:     line[m[2]:m[3]],
				Line:   lineNum,
				Column: runeColumn(line, m[2]),
			})
		}
	}
	return anchors
}

// ExtractReferences returns all outgoing cross-references in document order.
// A display label after the comma is ignored for identity purposes. Columns
// point at the referenced id, not the opening marker.
func ExtractReferences(text string) []Reference {
	var refs []Reference
	for lineNum, line := range strings.Split(text, "\n") {
		for _, m := range xrefRe.FindAllStringSubmatchIndex(line, -1) {
			refs = append(refs, Reference{
				Target: line[m[2]:m[3]],
				Line:   lineNum,
				Column: runeColumn(line, m[2]),
			})
		}
	}
	return refs
}

// ExtractFileReferences returns all file-based cross-references in
// document order. Anchor fragments and display labels are dropped; the
// path is kept as written. Columns point at the path.
func ExtractFileReferences(text string) []FileReference {
	var refs []FileReference
	for lineNum, line := range strings.Split(text, "\n") {
		for _, m := range fileXrefRe.FindAllStringSubmatchIndex(line, -1) {
			refs = append(refs, FileReference{
				Path:   line[m[2]:m[3]],
				Line:   lineNum,
				Column: runeColumn(line, m[2]),
			})
		}
	}
	return refs
}

// ExtractHeaders returns all section headers in document order.
// Level is the length of the leading '=' run.
func ExtractHeaders(text string) []Header {
	var headers []Header
	for lineNum, line := range strings.Split(text, "\n") {
		m := headerRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		headers = append(headers, Header{
			Title: m[2],
			Line:  lineNum,
			Level: len(m[1]),
		})
	}
	return headers
}

// ExtractAttributes returns the document's attribute definitions.
// The first occurrence of a name wins; continuation lines and escaping
// are not supported.
func ExtractAttributes(text string) map[string]string {
	attrs := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		m := attrRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if _, seen := attrs[name]; seen {
			continue
		}
		attrs[name] = strings.TrimSpace(m[2])
	}
	return attrs
}

// runeColumn converts a byte offset within a line to a rune offset, so
// columns stay correct for non-ASCII content.
func runeColumn(line string, byteOffset int) int {
	return utf8.RuneCountInString(line[:byteOffset])
}
