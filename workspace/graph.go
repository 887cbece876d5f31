package workspace

import (
	"sort"
)

// Document is the structural record for one live document. It is computed
// wholesale by the indexer on every AddDocument call and never diffed.
type Document struct {
	// ID is the opaque, stable document identifier supplied by the host.
	ID string `json:"id"`

	// Text is the raw document text the record was computed from.
	Text string `json:"text"`

	// Anchors are the anchor definitions, in document order.
	Anchors []Anchor `json:"anchors,omitempty"`

	// Attributes maps attribute name to value (first definition wins).
	Attributes map[string]string `json:"attributes,omitempty"`

	// Headers are the section headers, in document order.
	Headers []Header `json:"headers,omitempty"`

	// References are the outgoing cross-references, in document order.
	References []Reference `json:"references,omitempty"`

	// FileRefs are the outgoing file-based cross-references, in document
	// order.
	FileRefs []FileReference `json:"file_refs,omitempty"`
}

// Graph is the workspace knowledge graph: one structural record per live
// document id plus a reverse index from anchor id to the documents that
// define it.
//
// Graph is not safe for concurrent use. The hosting session serializes
// mutations on its request loop; reads are side-effect free and may run
// concurrently with each other but not with a mutation.
type Graph struct {
	documents map[string]*Document

	// anchors maps anchor id to the sorted set of document ids defining
	// it. When the same anchor is defined in more than one document, the
	// lexicographically smallest id wins reverse lookup, deterministically
	// regardless of insertion order.
	anchors map[string][]string
}

// NewGraph creates an empty workspace graph.
func NewGraph() *Graph {
	return &Graph{
		documents: make(map[string]*Document),
		anchors:   make(map[string][]string),
	}
}

// AddDocument indexes text and replaces any existing record for id.
// Extraction happens exactly once here; queries never re-scan raw text.
func (g *Graph) AddDocument(id, text string) {
	g.RemoveDocument(id)

	doc := &Document{
		ID:         id,
		Text:       text,
		Anchors:    ExtractAnchors(text),
		Attributes: ExtractAttributes(text),
		Headers:    ExtractHeaders(text),
		References: ExtractReferences(text),
		FileRefs:   ExtractFileReferences(text),
	}
	g.documents[id] = doc

	for _, a := range doc.Anchors {
		g.addAnchorOwner(a.ID, id)
	}
}

// RemoveDocument deletes the record for id and retracts its anchors from
// the reverse index. Removing an unknown id is a no-op.
func (g *Graph) RemoveDocument(id string) {
	doc, ok := g.documents[id]
	if !ok {
		return
	}
	delete(g.documents, id)

	for _, a := range doc.Anchors {
		g.removeAnchorOwner(a.ID, id)
	}
}

func (g *Graph) addAnchorOwner(anchorID, docID string) {
	owners := g.anchors[anchorID]
	i := sort.SearchStrings(owners, docID)
	if i < len(owners) && owners[i] == docID {
		return
	}
	owners = append(owners, "")
	copy(owners[i+1:], owners[i:])
	owners[i] = docID
	g.anchors[anchorID] = owners
}

func (g *Graph) removeAnchorOwner(anchorID, docID string) {
	owners := g.anchors[anchorID]
	i := sort.SearchStrings(owners, docID)
	if i >= len(owners) || owners[i] != docID {
		return
	}
	owners = append(owners[:i], owners[i+1:]...)
	if len(owners) == 0 {
		delete(g.anchors, anchorID)
	} else {
		g.anchors[anchorID] = owners
	}
}

// DocumentIDs returns the ids of all live documents in sorted order.
func (g *Graph) DocumentIDs() []string {
	ids := make([]string, 0, len(g.documents))
	for id := range g.documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DocumentCount returns the number of live documents.
func (g *Graph) DocumentCount() int {
	return len(g.documents)
}

// DocumentText returns the raw text for id. Unknown ids return ("", false)
// rather than an error: host lifecycle events may race with queries.
func (g *Graph) DocumentText(id string) (string, bool) {
	doc, ok := g.documents[id]
	if !ok {
		return "", false
	}
	return doc.Text, true
}

// DocumentAttribute returns the value of a document attribute.
func (g *Graph) DocumentAttribute(id, name string) (string, bool) {
	doc, ok := g.documents[id]
	if !ok {
		return "", false
	}
	value, ok := doc.Attributes[name]
	return value, ok
}

// DocumentRefs returns the outgoing reference ids for a document, in
// document order. Unknown ids return nil.
func (g *Graph) DocumentRefs(id string) []string {
	doc, ok := g.documents[id]
	if !ok {
		return nil
	}
	refs := make([]string, 0, len(doc.References))
	for _, r := range doc.References {
		refs = append(refs, r.Target)
	}
	return refs
}

// DocumentFileRefs returns the outgoing file reference paths for a
// document, in document order. Unknown ids return nil.
func (g *Graph) DocumentFileRefs(id string) []string {
	doc, ok := g.documents[id]
	if !ok {
		return nil
	}
	refs := make([]string, 0, len(doc.FileRefs))
	for _, r := range doc.FileRefs {
		refs = append(refs, r.Path)
	}
	return refs
}

// DefinitionURI returns the document that currently defines anchorID, or
// ("", false) if none does. With duplicate definitions the lexicographically
// smallest document id wins.
func (g *Graph) DefinitionURI(anchorID string) (string, bool) {
	owners := g.anchors[anchorID]
	if len(owners) == 0 {
		return "", false
	}
	return owners[0], true
}

// FindReachableDocuments computes the set of document ids reachable from
// the given entry points by following outgoing references. Anchor
// references resolve to their defining document; file references resolve
// to the live document whose id equals the written path. Unresolved
// references are dead ends; visited tracking makes cycles terminate.
// Entry points that are live documents are included in the result.
func (g *Graph) FindReachableDocuments(entryPoints []string) map[string]bool {
	reachable := make(map[string]bool)

	var queue []string
	for _, id := range entryPoints {
		if _, ok := g.documents[id]; ok && !reachable[id] {
			reachable[id] = true
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, target := range g.DocumentRefs(id) {
			defID, ok := g.DefinitionURI(target)
			if !ok || reachable[defID] {
				continue
			}
			reachable[defID] = true
			queue = append(queue, defID)
		}

		for _, target := range g.DocumentFileRefs(id) {
			if _, ok := g.documents[target]; !ok || reachable[target] {
				continue
			}
			reachable[target] = true
			queue = append(queue, target)
		}
	}

	return reachable
}
