package bookmarks

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// Kind discriminates the three node variants of the bookmark tree.
type Kind int

const (
	KindContainer Kind = iota
	KindBookmark
	KindSeparator
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindBookmark:
		return "bookmark"
	case KindSeparator:
		return "separator"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Firefox node type tags. These are a fixed external contract; the browser's
// own restore mechanism matches on them verbatim.
const (
	TypeContainer = "text/x-moz-place-container"
	TypeBookmark  = "text/x-moz-place"
	TypeSeparator = "text/x-moz-place-separator"
)

const (
	typeCodeBookmark  = 1
	typeCodeContainer = 2
	typeCodeSeparator = 3
)

// Root keys of the well-known top-level containers.
const (
	RootPlaces  = "placesRoot"
	RootMenu    = "bookmarksMenuFolder"
	RootToolbar = "toolbarFolder"
	RootUnfiled = "unfiledBookmarksFolder"
	RootTags    = "tagsFolder"
	RootMobile  = "mobileFolder"
)

// GUIDPlaces is the fixed identifier of the places root container.
const GUIDPlaces = "root________"

// RootGUIDs are the fixed identifiers of the well-known roots.
var RootGUIDs = map[string]string{
	RootMenu:    "menu________",
	RootToolbar: "toolbar_____",
	RootUnfiled: "unfiled_____",
	RootTags:    "tags________",
	RootMobile:  "mobile______",
}

// RootDirNames maps root keys to the directory names they export under.
var RootDirNames = map[string]string{
	RootMenu:    "menu",
	RootToolbar: "toolbar",
	RootUnfiled: "unfiled",
	RootTags:    "tags",
	RootMobile:  "mobile",
}

// RootKeyForDir is the inverse of RootDirNames.
func RootKeyForDir(name string) (string, bool) {
	for key, dir := range RootDirNames {
		if dir == name {
			return key, true
		}
	}
	return "", false
}

// PRTime is a Mozilla timestamp: microseconds since the Unix epoch.
type PRTime int64

// Time converts to a time.Time in UTC.
func (t PRTime) Time() time.Time {
	return time.UnixMicro(int64(t)).UTC()
}

// ToPRTime converts a time.Time into a PRTime stamp.
func ToPRTime(t time.Time) PRTime {
	return PRTime(t.UnixMicro())
}

// Node is one element of the bookmark tree.
//
// Optional fields keep their zero value when the source document omitted
// them and are omitted again on serialization, so repeated round trips are
// stable. Children is nil for leaves and for genuinely empty containers.
type Node struct {
	Kind         Kind
	ID           int64
	GUID         string
	Title        string
	Root         string
	DateAdded    PRTime
	LastModified PRTime
	URI          string
	Keyword      string
	Charset      string
	Tags         []string
	Children     []*Node
}

// Walk visits n and every descendant depth-first, parents before children.
func Walk(n *Node, visit func(n, parent *Node)) {
	var rec func(n, parent *Node)
	rec = func(n, parent *Node) {
		visit(n, parent)
		for _, child := range n.Children {
			rec(child, n)
		}
	}
	rec(n, nil)
}

// NewGUID returns a fresh identifier in Firefox's GUID format: twelve
// base64url characters encoding nine random bytes.
func NewGUID() string {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// EnsureIdentity assigns fresh ids and guids to nodes that lack them and
// reassigns duplicated ids, in traversal order. Identifiers already present
// and unique are kept verbatim so a round trip never rewrites them.
func EnsureIdentity(root *Node) {
	var maxID int64
	Walk(root, func(n, _ *Node) {
		if n.ID > maxID {
			maxID = n.ID
		}
	})
	seen := make(map[int64]bool)
	Walk(root, func(n, _ *Node) {
		if n.ID == 0 || seen[n.ID] {
			maxID++
			n.ID = maxID
		}
		seen[n.ID] = true
		if n.GUID == "" {
			n.GUID = NewGUID()
		}
	})
}

// Validate checks the structural invariants of a full tree: the root is the
// places container, every first-level child is one of the well-known roots,
// ids are unique, and only containers carry children.
func Validate(root *Node) error {
	if root.Kind != KindContainer {
		return &FormatError{Reason: "top-level node is not a container"}
	}
	if root.Root != "" && root.Root != RootPlaces {
		return &FormatError{Reason: fmt.Sprintf("unexpected top-level root key %q", root.Root)}
	}
	haveRoots := make(map[string]bool)
	for _, child := range root.Children {
		if child.Kind != KindContainer {
			return &FormatError{Reason: fmt.Sprintf("first-level node %q is not a container", child.Title)}
		}
		if _, ok := RootDirNames[child.Root]; !ok {
			return &FormatError{Reason: fmt.Sprintf("first-level container %q has no recognized root key", child.Title)}
		}
		haveRoots[child.Root] = true
	}
	// Old profiles may lack the tags and mobile roots; the other three are
	// mandatory in every backup Firefox produces.
	for _, required := range []string{RootMenu, RootToolbar, RootUnfiled} {
		if !haveRoots[required] {
			return &FormatError{Reason: fmt.Sprintf("required root %s is missing", required)}
		}
	}
	seen := make(map[int64]string)
	var walkErr error
	Walk(root, func(n, _ *Node) {
		if walkErr != nil {
			return
		}
		if n.Kind != KindContainer && len(n.Children) > 0 {
			walkErr = &FormatError{Reason: fmt.Sprintf("%s %q carries children", n.Kind, n.Title)}
			return
		}
		if n.ID != 0 {
			if prev, dup := seen[n.ID]; dup {
				walkErr = &FormatError{Reason: fmt.Sprintf("id %d duplicated between %q and %q", n.ID, prev, n.Title)}
				return
			}
			seen[n.ID] = n.Title
		}
	})
	return walkErr
}
