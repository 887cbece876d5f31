package workspace

import (
	"sort"
	"strings"
)

// SymbolKind classifies a workspace symbol for symbol search.
type SymbolKind int

const (
	// SymbolTitle is the document title (= Title).
	SymbolTitle SymbolKind = iota
	// SymbolHeader1 is a level 1 section (== Header).
	SymbolHeader1
	// SymbolHeader2 is a level 2 section (=== Header).
	SymbolHeader2
	// SymbolHeader3Plus is a level 3 or deeper section.
	SymbolHeader3Plus
	// SymbolAnchor is an anchor definition ([[id]]).
	SymbolAnchor
)

// String returns the symbol kind name.
func (k SymbolKind) String() string {
	switch k {
	case SymbolTitle:
		return "title"
	case SymbolHeader1:
		return "header1"
	case SymbolHeader2:
		return "header2"
	case SymbolHeader3Plus:
		return "header3+"
	case SymbolAnchor:
		return "anchor"
	default:
		return "unknown"
	}
}

// symbolKindFromLevel maps a header level (number of '=' signs) to a kind.
func symbolKindFromLevel(level int) SymbolKind {
	switch level {
	case 1:
		return SymbolTitle
	case 2:
		return SymbolHeader1
	case 3:
		return SymbolHeader2
	default:
		return SymbolHeader3Plus
	}
}

// Symbol is a named location surfaced by workspace symbol search.
type Symbol struct {
	Name       string     `json:"name"`
	Kind       SymbolKind `json:"kind"`
	DocumentID string     `json:"document_id"`
	Line       int        `json:"line"`
	Column     int        `json:"column"`
}

// QuerySymbols returns header and anchor symbols whose name contains query
// (case-insensitive). An empty query matches everything. Results are
// ordered by document id, then location.
func (g *Graph) QuerySymbols(query string) []Symbol {
	queryLower := strings.ToLower(query)

	var symbols []Symbol
	for _, id := range g.DocumentIDs() {
		doc := g.documents[id]

		for _, h := range doc.Headers {
			if matchesQuery(h.Title, queryLower) {
				symbols = append(symbols, Symbol{
					Name:       h.Title,
					Kind:       symbolKindFromLevel(h.Level),
					DocumentID: id,
					Line:       h.Line,
				})
			}
		}
		for _, a := range doc.Anchors {
			if matchesQuery(a.ID, queryLower) {
				symbols = append(symbols, Symbol{
					Name:       a.ID,
					Kind:       SymbolAnchor,
					DocumentID: id,
					Line:       a.Line,
					Column:     a.Column,
				})
			}
		}
	}

	sort.SliceStable(symbols, func(i, j int) bool {
		if symbols[i].DocumentID != symbols[j].DocumentID {
			return symbols[i].DocumentID < symbols[j].DocumentID
		}
		if symbols[i].Line != symbols[j].Line {
			return symbols[i].Line < symbols[j].Line
		}
		return symbols[i].Column < symbols[j].Column
	})

	return symbols
}

func matchesQuery(name, queryLower string) bool {
	if name == "" {
		return false
	}
	return queryLower == "" || strings.Contains(strings.ToLower(name), queryLower)
}
