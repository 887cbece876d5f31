package compliance

import (
	"fmt"
	"strings"
)

// Position is a 0-based line/column location within a document. Columns
// count runes.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextEdit replaces the text in Range with NewText. An empty Range is an
// insertion.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"new_text"`
}

// Fix is a rule-generated quick-fix: a minimal single-document text edit
// package resolving one specific violation.
type Fix struct {
	// Title is displayed to the user.
	Title string `json:"title"`

	// DocumentID is the document the edits apply to. A fix never spans
	// documents.
	DocumentID string `json:"document_id"`

	// Edits are the text edits to apply.
	Edits []TextEdit `json:"edits"`
}

// endOfTextPosition returns the insertion point at the end of the last
// line of text.
func endOfTextPosition(text string) Position {
	lines := strings.Split(text, "\n")
	last := len(lines) - 1
	return Position{
		Line:      last,
		Character: len([]rune(lines[last])),
	}
}

// findStatusRange locates the value of a :status: attribute and returns
// the range covering it along with the current value. Character offsets
// count runes. An empty value yields a zero-width range at the end of
// the attribute line, so a rewrite becomes an insertion.
func findStatusRange(text string) (Range, string, bool) {
	for lineNum, line := range strings.Split(text, "\n") {
		rest, found := strings.CutPrefix(line, ":status:")
		if !found {
			continue
		}
		value := strings.TrimSpace(rest)
		byteStart := len(line) - len(strings.TrimLeft(rest, " \t"))
		start := len([]rune(line[:byteStart]))
		return Range{
			Start: Position{Line: lineNum, Character: start},
			End:   Position{Line: lineNum, Character: start + len([]rune(value))},
		}, value, true
	}
	return Range{}, "", false
}

// orphanLinkEntry generates the index entry linking an orphaned document.
func orphanLinkEntry(docID string) string {
	return fmt.Sprintf("\n* link:%s[]", baseName(docID))
}

// baseName returns the filename portion of a document id.
func baseName(docID string) string {
	if i := strings.LastIndex(docID, "/"); i >= 0 {
		return docID[i+1:]
	}
	return docID
}
