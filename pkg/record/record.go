// Package record encodes bookmark metadata into the content of marker files
// and decodes it back. The payload is a small YAML block so a hand-edited or
// half-corrupted file still has a chance of decoding.
package record

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sdvillal/ffb2fs2ffb/pkg/bookmarks"
)

// DecodeError reports an unreadable or corrupt marker file payload. During
// import it is recovered locally: the entry is skipped, the walk continues.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode record: " + e.Reason
}

// bookmarkRecord is the .ffurl payload.
type bookmarkRecord struct {
	URI          string   `yaml:"uri"`
	Title        string   `yaml:"title,omitempty"`
	ID           int64    `yaml:"id,omitempty"`
	GUID         string   `yaml:"guid,omitempty"`
	DateAdded    int64    `yaml:"dateAdded,omitempty"`
	LastModified int64    `yaml:"lastModified,omitempty"`
	Keyword      string   `yaml:"keyword,omitempty"`
	Tags         []string `yaml:"tags,omitempty,flow"`
	Charset      string   `yaml:"charset,omitempty"`
}

// containerRecord is the __info__.ffcontainer payload.
type containerRecord struct {
	Title        string `yaml:"title,omitempty"`
	ID           int64  `yaml:"id,omitempty"`
	GUID         string `yaml:"guid,omitempty"`
	Root         string `yaml:"root,omitempty"`
	DateAdded    int64  `yaml:"dateAdded,omitempty"`
	LastModified int64  `yaml:"lastModified,omitempty"`
}

// separatorRecord is the .ffsep payload.
type separatorRecord struct {
	ID           int64  `yaml:"id,omitempty"`
	GUID         string `yaml:"guid,omitempty"`
	DateAdded    int64  `yaml:"dateAdded,omitempty"`
	LastModified int64  `yaml:"lastModified,omitempty"`
}

// EncodeBookmark serializes a bookmark node's full metadata. A bookmark
// without a target is meaningless, so a missing URI is an error rather than
// an empty payload.
func EncodeBookmark(n *bookmarks.Node) ([]byte, error) {
	if n.Kind != bookmarks.KindBookmark {
		return nil, fmt.Errorf("encode bookmark record: node %q is a %s", n.Title, n.Kind)
	}
	if n.URI == "" {
		return nil, fmt.Errorf("encode bookmark record: %q has no uri", n.Title)
	}
	return yaml.Marshal(&bookmarkRecord{
		URI:          n.URI,
		Title:        n.Title,
		ID:           n.ID,
		GUID:         n.GUID,
		DateAdded:    int64(n.DateAdded),
		LastModified: int64(n.LastModified),
		Keyword:      n.Keyword,
		Tags:         n.Tags,
		Charset:      n.Charset,
	})
}

// DecodeBookmark reads a .ffurl payload back into a node. Missing optional
// fields stay absent; a missing uri is a hard failure.
func DecodeBookmark(data []byte) (*bookmarks.Node, error) {
	var rec bookmarkRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, &DecodeError{Reason: fmt.Sprintf("malformed payload: %v", err)}
	}
	if rec.URI == "" {
		return nil, &DecodeError{Reason: "record has no uri"}
	}
	return &bookmarks.Node{
		Kind:         bookmarks.KindBookmark,
		ID:           rec.ID,
		GUID:         rec.GUID,
		Title:        rec.Title,
		DateAdded:    bookmarks.PRTime(rec.DateAdded),
		LastModified: bookmarks.PRTime(rec.LastModified),
		URI:          rec.URI,
		Keyword:      rec.Keyword,
		Tags:         rec.Tags,
		Charset:      rec.Charset,
	}, nil
}

// EncodeContainer serializes a container node's metadata, children excluded.
func EncodeContainer(n *bookmarks.Node) ([]byte, error) {
	if n.Kind != bookmarks.KindContainer {
		return nil, fmt.Errorf("encode container record: node %q is a %s", n.Title, n.Kind)
	}
	return yaml.Marshal(&containerRecord{
		Title:        n.Title,
		ID:           n.ID,
		GUID:         n.GUID,
		Root:         n.Root,
		DateAdded:    int64(n.DateAdded),
		LastModified: int64(n.LastModified),
	})
}

// DecodeContainer reads a __info__.ffcontainer payload back into a node
// with no children attached yet.
func DecodeContainer(data []byte) (*bookmarks.Node, error) {
	var rec containerRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, &DecodeError{Reason: fmt.Sprintf("malformed payload: %v", err)}
	}
	return &bookmarks.Node{
		Kind:         bookmarks.KindContainer,
		ID:           rec.ID,
		GUID:         rec.GUID,
		Title:        rec.Title,
		Root:         rec.Root,
		DateAdded:    bookmarks.PRTime(rec.DateAdded),
		LastModified: bookmarks.PRTime(rec.LastModified),
	}, nil
}

// EncodeSeparator serializes a separator node.
func EncodeSeparator(n *bookmarks.Node) ([]byte, error) {
	if n.Kind != bookmarks.KindSeparator {
		return nil, fmt.Errorf("encode separator record: node %q is a %s", n.Title, n.Kind)
	}
	return yaml.Marshal(&separatorRecord{
		ID:           n.ID,
		GUID:         n.GUID,
		DateAdded:    int64(n.DateAdded),
		LastModified: int64(n.LastModified),
	})
}

// DecodeSeparator reads a .ffsep payload back into a node. An empty file is
// fine: a separator carries no mandatory metadata.
func DecodeSeparator(data []byte) (*bookmarks.Node, error) {
	var rec separatorRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, &DecodeError{Reason: fmt.Sprintf("malformed payload: %v", err)}
	}
	return &bookmarks.Node{
		Kind:         bookmarks.KindSeparator,
		ID:           rec.ID,
		GUID:         rec.GUID,
		DateAdded:    bookmarks.PRTime(rec.DateAdded),
		LastModified: bookmarks.PRTime(rec.LastModified),
	}, nil
}
