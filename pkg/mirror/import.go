package mirror

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sdvillal/ffb2fs2ffb/pkg/bookmarks"
	"github.com/sdvillal/ffb2fs2ffb/pkg/fsname"
	"github.com/sdvillal/ffb2fs2ffb/pkg/record"
)

// Skip records one directory entry the importer could not turn into a node.
type Skip struct {
	Path   string
	Reason string
}

// Result carries the reconstructed tree together with the entries that were
// skipped along the way. Skips are diagnostics, not failures: the tree is
// always structurally valid, it just omits what could not be decoded.
type Result struct {
	Tree    *bookmarks.Node
	Skipped []Skip
}

// ImportOptions controls one import run.
type ImportOptions struct {
	// StrayPolicy handles first-level directories outside the recognized
	// root set. Defaults to StrayFoldIntoUnfiled.
	StrayPolicy StrayPolicy
	Logger      *logrus.Logger
}

// Import reconstructs a bookmark tree from a mirror directory. Sibling
// order comes strictly from order-key prefixes; directory listing order is
// never trusted. Unrecognized or undecodable entries are skipped with a
// warning, one bad file never aborts the rest of the walk.
func Import(srcDir string, opts ImportOptions) (*Result, error) {
	if opts.StrayPolicy == "" {
		opts.StrayPolicy = StrayFoldIntoUnfiled
	}
	if !opts.StrayPolicy.Valid() {
		return nil, fmt.Errorf("unknown stray policy %q", opts.StrayPolicy)
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if info, err := os.Stat(srcDir); err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", srcDir)
	}

	imp := &importer{opts: opts}
	root, err := imp.readContainer(srcDir, "")
	if err != nil {
		return nil, err
	}
	root.Root = bookmarks.RootPlaces
	if root.GUID == "" {
		root.GUID = bookmarks.GUIDPlaces
	}
	if err := imp.fixFirstLevel(root, srcDir); err != nil {
		return nil, err
	}
	bookmarks.EnsureIdentity(root)
	if err := bookmarks.Validate(root); err != nil {
		return nil, err
	}
	return &Result{Tree: root, Skipped: imp.skipped}, nil
}

type importer struct {
	opts    ImportOptions
	skipped []Skip
}

func (imp *importer) skip(path, reason string) {
	imp.skipped = append(imp.skipped, Skip{Path: path, Reason: reason})
	imp.opts.Logger.WithField("entry", path).Warnf("skipping: %s", reason)
}

// childEntry is one classified directory entry awaiting attachment.
type childEntry struct {
	node  *bookmarks.Node
	key   int
	keyed bool
	rest  string // entry name without the order-key prefix
}

// readContainer turns one directory into a container node with its children
// attached in order-key order. entryName is the directory's own name inside
// its parent, empty for the mirror root.
func (imp *importer) readContainer(dir, entryName string) (*bookmarks.Node, error) {
	node := imp.containerNode(dir, entryName)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var children []childEntry
	for _, entry := range entries {
		name := entry.Name()
		if name == ContainerInfoName {
			continue // the directory's own metadata, consumed above
		}
		path := filepath.Join(dir, name)
		key, rest, keyed := fsname.SplitKey(name)
		child, ok := imp.classify(path, name, entry.IsDir())
		if !ok {
			continue
		}
		children = append(children, childEntry{node: child, key: key, keyed: keyed, rest: rest})
	}

	// Keyed entries first, by key then name; hand-made entries without a
	// key prefix go last, by name.
	sort.SliceStable(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.keyed != b.keyed {
			return a.keyed
		}
		if a.keyed && a.key != b.key {
			return a.key < b.key
		}
		return a.rest < b.rest
	})
	for _, c := range children {
		node.Children = append(node.Children, c.node)
	}
	return node, nil
}

// classify runs one entry through the Discovered -> Classified ->
// Decoded|Skipped pipeline. ok is false when the entry was skipped.
func (imp *importer) classify(path, name string, isDir bool) (*bookmarks.Node, bool) {
	if isDir {
		child, err := imp.readContainer(path, name)
		if err != nil {
			// Unreadable subdirectory: recover locally, keep walking.
			imp.skip(path, err.Error())
			return nil, false
		}
		return child, true
	}
	switch {
	case strings.HasSuffix(name, BookmarkExt):
		payload, err := os.ReadFile(path)
		if err != nil {
			imp.skip(path, err.Error())
			return nil, false
		}
		child, err := record.DecodeBookmark(payload)
		if err != nil {
			imp.skip(path, err.Error())
			return nil, false
		}
		reconcileTitle(child, name, true)
		return child, true
	case strings.HasSuffix(name, SeparatorExt):
		payload, err := os.ReadFile(path)
		if err != nil {
			imp.skip(path, err.Error())
			return nil, false
		}
		child, err := record.DecodeSeparator(payload)
		if err != nil {
			imp.skip(path, err.Error())
			return nil, false
		}
		return child, true
	default:
		imp.skip(path, "no recognized marker extension")
		return nil, false
	}
}

// containerNode decodes the directory's container record, or synthesizes
// one from the directory name and timestamps when the record is missing or
// corrupt.
func (imp *importer) containerNode(dir, entryName string) *bookmarks.Node {
	infoPath := filepath.Join(dir, ContainerInfoName)
	if payload, err := os.ReadFile(infoPath); err == nil {
		node, err := record.DecodeContainer(payload)
		if err == nil {
			reconcileTitle(node, entryName, false)
			return node
		}
		imp.skip(infoPath, err.Error())
	}
	node := &bookmarks.Node{
		Kind:  bookmarks.KindContainer,
		Title: strippedName(entryName, false),
	}
	if node.Title == "" {
		node.Title = filepath.Base(dir)
	}
	if info, err := os.Stat(dir); err == nil {
		node.DateAdded = bookmarks.ToPRTime(info.ModTime())
		node.LastModified = bookmarks.ToPRTime(info.ModTime())
	}
	return node
}

// reconcileTitle adopts the entry name as the node title when the user
// renamed the entry so it no longer derives from the recorded title. The
// fixed roots keep their recorded titles regardless.
func reconcileTitle(n *bookmarks.Node, entryName string, isFile bool) {
	if entryName == "" || n.Root != "" {
		return
	}
	if !fsname.Matches(entryName, n.Title) {
		n.Title = strippedName(entryName, isFile)
	}
}

// strippedName removes the order-key prefix and, for files, the marker
// extension, keeping the rest of the name verbatim.
func strippedName(entryName string, isFile bool) string {
	_, rest, _ := fsname.SplitKey(entryName)
	if isFile {
		if i := strings.LastIndex(rest, "."); i > 0 {
			rest = rest[:i]
		}
	}
	return rest
}

// fixFirstLevel enforces the fixed-root constraint on the mirror's first
// level: recognized root directories become the well-known roots, missing
// mandatory roots are synthesized empty, and anything else is handled per
// the stray policy.
func (imp *importer) fixFirstLevel(root *bookmarks.Node, srcDir string) error {
	byRoot := make(map[string]*bookmarks.Node)
	var ordered []*bookmarks.Node
	var strays []*bookmarks.Node

	for _, child := range root.Children {
		if child.Kind == bookmarks.KindContainer && child.Root == "" {
			// A hand-made directory named like a root stands in for it.
			if key, ok := bookmarks.RootKeyForDir(fsname.Slug(child.Title)); ok && byRoot[key] == nil {
				child.Root = key
				child.GUID = bookmarks.RootGUIDs[key]
			}
		}
		if child.Kind == bookmarks.KindContainer && child.Root != "" {
			if byRoot[child.Root] != nil {
				child.Root = "" // duplicated root, demote to an ordinary container
				strays = append(strays, child)
				continue
			}
			byRoot[child.Root] = child
			ordered = append(ordered, child)
			continue
		}
		strays = append(strays, child)
	}

	for _, required := range []string{bookmarks.RootMenu, bookmarks.RootToolbar, bookmarks.RootUnfiled} {
		if byRoot[required] == nil {
			node := &bookmarks.Node{
				Kind:  bookmarks.KindContainer,
				Title: bookmarks.RootDirNames[required],
				Root:  required,
				GUID:  bookmarks.RootGUIDs[required],
			}
			byRoot[required] = node
			ordered = append(ordered, node)
			imp.opts.Logger.Warnf("synthesizing missing root %s", required)
		}
	}

	if len(strays) > 0 {
		if imp.opts.StrayPolicy == StrayReject {
			return &bookmarks.FormatError{
				Path:   srcDir,
				Reason: fmt.Sprintf("%d first-level entries outside the fixed roots (stray policy is reject, first: %q)", len(strays), strays[0].Title),
			}
		}
		unfiled := byRoot[bookmarks.RootUnfiled]
		unfiled.Children = append(unfiled.Children, strays...)
		imp.opts.Logger.Warnf("folded %d first-level entries into the unfiled root", len(strays))
	}

	root.Children = ordered
	return nil
}
