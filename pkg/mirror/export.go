package mirror

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdvillal/ffb2fs2ffb/pkg/bookmarks"
	"github.com/sdvillal/ffb2fs2ffb/pkg/fsname"
	"github.com/sdvillal/ffb2fs2ffb/pkg/record"
)

// ExportOptions controls one export run.
type ExportOptions struct {
	// Overwrite allows writing into a non-empty destination. Existing
	// entries are left in place and overwritten name by name.
	Overwrite bool
}

// Export mirrors a bookmark tree under destDir. Containers become
// directories, bookmarks .ffurl files, separators .ffsep files; every
// directory holds its container's metadata record. Each sibling gets a
// monotonically increasing order-key prefix.
//
// An IO failure aborts the failing subtree and is returned; siblings
// already written stay on disk, so a partial export remains inspectable.
func Export(tree *bookmarks.Node, destDir string, opts ExportOptions) error {
	if err := bookmarks.Validate(tree); err != nil {
		return err
	}
	entries, err := os.ReadDir(destDir)
	switch {
	case err == nil:
		if len(entries) > 0 && !opts.Overwrite {
			return &DestinationConflict{Dir: destDir}
		}
	case os.IsNotExist(err):
		// Created below.
	default:
		return fmt.Errorf("read destination %s: %w", destDir, err)
	}
	return exportContainer(tree, destDir)
}

func exportContainer(n *bookmarks.Node, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	payload, err := record.EncodeContainer(n)
	if err != nil {
		return err
	}
	infoPath := filepath.Join(dir, ContainerInfoName)
	if err := os.WriteFile(infoPath, payload, 0o644); err != nil {
		return fmt.Errorf("write container record %s: %w", infoPath, err)
	}

	// The used-name set is local to this container's pass; sibling sets in
	// other containers are independent.
	alloc := fsname.NewAllocator()
	for i, child := range n.Children {
		name, err := entryName(child, i, alloc)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		switch child.Kind {
		case bookmarks.KindContainer:
			if err := exportContainer(child, path); err != nil {
				return err
			}
		case bookmarks.KindBookmark:
			payload, err := record.EncodeBookmark(child)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, payload, 0o644); err != nil {
				return fmt.Errorf("write bookmark %s: %w", path, err)
			}
		case bookmarks.KindSeparator:
			payload, err := record.EncodeSeparator(child)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, payload, 0o644); err != nil {
				return fmt.Errorf("write separator %s: %w", path, err)
			}
		}
		touch(path, child)
	}
	return nil
}

// entryName builds the order-keyed filesystem name for one child. The fixed
// roots keep their well-known directory names so the mirror's first level
// reads menu/, toolbar/, unfiled/ and so on.
func entryName(n *bookmarks.Node, index int, alloc *fsname.Allocator) (string, error) {
	if dirName, ok := bookmarks.RootDirNames[n.Root]; ok {
		return fsname.WithKey(index, alloc.Claim(dirName)), nil
	}
	switch n.Kind {
	case bookmarks.KindContainer:
		return fsname.WithKey(index, alloc.Claim(fsname.Slug(n.Title))), nil
	case bookmarks.KindBookmark:
		return fsname.WithKey(index, alloc.Claim(fsname.Slug(n.Title))) + BookmarkExt, nil
	case bookmarks.KindSeparator:
		return fsname.WithKey(index, alloc.Claim("separator")) + SeparatorExt, nil
	}
	return "", fmt.Errorf("entry name: unknown node kind %d", n.Kind)
}

// touch mirrors the node's timestamps onto the entry so file managers sort
// the way the browser would. Failures are cosmetic and ignored.
func touch(path string, n *bookmarks.Node) {
	if n.LastModified == 0 {
		return
	}
	mod := n.LastModified.Time()
	added := mod
	if n.DateAdded != 0 {
		added = n.DateAdded.Time()
	}
	_ = os.Chtimes(path, added, mod)
}
