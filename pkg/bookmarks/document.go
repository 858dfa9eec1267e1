package bookmarks

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatError reports a malformed or unsupported bookmarks document.
type FormatError struct {
	Path   string // node path inside the document, when known
	Reason string
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("bookmarks format: %s: %s", e.Path, e.Reason)
	}
	return "bookmarks format: " + e.Reason
}

// wireNode mirrors one node of the Firefox backup JSON. Field names and the
// comma-separated tags encoding are the browser's schema, not ours.
type wireNode struct {
	GUID         string      `json:"guid,omitempty"`
	Title        string      `json:"title"`
	Index        int         `json:"index"`
	DateAdded    int64       `json:"dateAdded,omitempty"`
	LastModified int64       `json:"lastModified,omitempty"`
	ID           int64       `json:"id,omitempty"`
	TypeCode     int         `json:"typeCode,omitempty"`
	Type         string      `json:"type"`
	Root         string      `json:"root,omitempty"`
	Charset      string      `json:"charset,omitempty"`
	URI          string      `json:"uri,omitempty"`
	Keyword      string      `json:"keyword,omitempty"`
	Tags         string      `json:"tags,omitempty"`
	Children     []*wireNode `json:"children,omitempty"`
}

// Parse reads a Firefox bookmarks backup document into a node tree.
func Parse(data []byte) (*Node, error) {
	var wire wireNode
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("not a bookmarks JSON document: %v", err)}
	}
	root, err := fromWire(&wire, "")
	if err != nil {
		return nil, err
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

func fromWire(w *wireNode, path string) (*Node, error) {
	path = path + "/" + w.Title
	n := &Node{
		ID:           w.ID,
		GUID:         w.GUID,
		Title:        w.Title,
		Root:         w.Root,
		DateAdded:    PRTime(w.DateAdded),
		LastModified: PRTime(w.LastModified),
		URI:          w.URI,
		Keyword:      w.Keyword,
		Charset:      w.Charset,
	}
	switch w.Type {
	case TypeContainer:
		n.Kind = KindContainer
	case TypeBookmark:
		n.Kind = KindBookmark
	case TypeSeparator:
		n.Kind = KindSeparator
	default:
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("unknown node type %q", w.Type)}
	}
	if w.Tags != "" {
		n.Tags = strings.Split(w.Tags, ",")
	}
	if n.Kind != KindContainer && len(w.Children) > 0 {
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("%s carries children", n.Kind)}
	}
	for _, wc := range w.Children {
		child, err := fromWire(wc, path)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// Serialize writes a node tree as a compact Firefox bookmarks document.
// Sibling order follows Children order and index fields are renumbered, so
// serializing the same tree twice yields byte-identical output.
func Serialize(root *Node) ([]byte, error) {
	wire, err := toWire(root, 0)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

func toWire(n *Node, index int) (*wireNode, error) {
	w := &wireNode{
		GUID:         n.GUID,
		Title:        n.Title,
		Index:        index,
		DateAdded:    int64(n.DateAdded),
		LastModified: int64(n.LastModified),
		ID:           n.ID,
		Root:         n.Root,
		Charset:      n.Charset,
		URI:          n.URI,
		Keyword:      n.Keyword,
		Tags:         strings.Join(n.Tags, ","),
	}
	switch n.Kind {
	case KindContainer:
		w.Type = TypeContainer
		w.TypeCode = typeCodeContainer
	case KindBookmark:
		w.Type = TypeBookmark
		w.TypeCode = typeCodeBookmark
		if n.URI == "" {
			return nil, &FormatError{Path: n.Title, Reason: "bookmark without uri"}
		}
	case KindSeparator:
		w.Type = TypeSeparator
		w.TypeCode = typeCodeSeparator
	default:
		return nil, &FormatError{Path: n.Title, Reason: fmt.Sprintf("unknown node kind %d", n.Kind)}
	}
	for i, child := range n.Children {
		wc, err := toWire(child, i)
		if err != nil {
			return nil, err
		}
		w.Children = append(w.Children, wc)
	}
	return w, nil
}
