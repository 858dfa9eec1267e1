// Package search keeps a SQLite index of bookmark leaves so large
// collections can be queried without re-walking the tree or the mirror.
package search

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sdvillal/ffb2fs2ffb/pkg/bookmarks"
)

// Hit is one search result.
type Hit struct {
	Path    string // container path inside the tree, slash separated
	Title   string
	URI     string
	Keyword string
	Tags    string
}

// Index manages the bookmark search index.
type Index struct {
	db     *sql.DB
	useFTS bool
}

// NewIndex opens (creating if needed) the index at dbPath.
func NewIndex(dbPath string) (*Index, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	idx := &Index{db: db}
	if err := idx.init(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index) init() error {
	idx.useFTS = idx.checkFTS5Support()

	schema := `
	CREATE TABLE IF NOT EXISTS bookmarks_meta (
		path TEXT PRIMARY KEY,
		title TEXT,
		uri TEXT,
		keyword TEXT,
		tags TEXT,
		date_added INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_bookmarks_meta_title ON bookmarks_meta(title);
	CREATE INDEX IF NOT EXISTS idx_bookmarks_meta_uri ON bookmarks_meta(uri);
	`
	if _, err := idx.db.Exec(schema); err != nil {
		return err
	}

	if idx.useFTS {
		ftsSchema := `
		CREATE VIRTUAL TABLE IF NOT EXISTS bookmarks_fts USING fts5(
			path UNINDEXED,
			title,
			uri,
			keyword,
			tags,
			tokenize = 'porter unicode61'
		);
		`
		if _, err := idx.db.Exec(ftsSchema); err != nil {
			// No FTS5 in this sqlite build, LIKE queries still work.
			idx.useFTS = false
		}
	}
	return nil
}

func (idx *Index) checkFTS5Support() bool {
	_, err := idx.db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS fts5_test USING fts5(content)")
	if err != nil {
		return false
	}
	_, _ = idx.db.Exec("DROP TABLE IF EXISTS fts5_test")
	return true
}

// Rebuild replaces the whole index with the bookmarks of the given tree.
func (idx *Index) Rebuild(tree *bookmarks.Node) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec("DELETE FROM bookmarks_meta"); err != nil {
		return err
	}
	if idx.useFTS {
		if _, err := tx.Exec("DELETE FROM bookmarks_fts"); err != nil {
			return err
		}
	}

	var insertErr error
	var walk func(n *bookmarks.Node, path string)
	walk = func(n *bookmarks.Node, path string) {
		if insertErr != nil {
			return
		}
		switch n.Kind {
		case bookmarks.KindContainer:
			for _, child := range n.Children {
				walk(child, path+"/"+n.Title)
			}
		case bookmarks.KindBookmark:
			tags := strings.Join(n.Tags, ",")
			entryPath := fmt.Sprintf("%s/%s", path, n.Title)
			_, insertErr = tx.Exec(`
				INSERT OR REPLACE INTO bookmarks_meta (path, title, uri, keyword, tags, date_added)
				VALUES (?, ?, ?, ?, ?, ?)
			`, entryPath, n.Title, n.URI, n.Keyword, tags, int64(n.DateAdded))
			if insertErr == nil && idx.useFTS {
				_, insertErr = tx.Exec(`
					INSERT INTO bookmarks_fts (path, title, uri, keyword, tags)
					VALUES (?, ?, ?, ?, ?)
				`, entryPath, n.Title, n.URI, n.Keyword, tags)
			}
		case bookmarks.KindSeparator:
			// Nothing searchable.
		}
	}
	walk(tree, "")
	if insertErr != nil {
		return insertErr
	}
	return tx.Commit()
}

// Search returns bookmarks matching the query in title, uri, keyword or
// tags, most recently added first for LIKE queries, by rank under FTS.
func (idx *Index) Search(query string, limit int) ([]*Hit, error) {
	if limit <= 0 {
		limit = 50
	}
	if idx.useFTS {
		hits, err := idx.searchWithFTS(query, limit)
		if err == nil {
			return hits, nil
		}
		// FTS query syntax errors fall back to LIKE.
	}
	return idx.searchWithLike(query, limit)
}

func (idx *Index) searchWithFTS(query string, limit int) ([]*Hit, error) {
	rows, err := idx.db.Query(`
		SELECT path, title, uri, keyword, tags
		FROM bookmarks_fts
		WHERE bookmarks_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHits(rows)
}

func (idx *Index) searchWithLike(query string, limit int) ([]*Hit, error) {
	pattern := "%" + strings.ReplaceAll(query, " ", "%") + "%"
	rows, err := idx.db.Query(`
		SELECT path, title, uri, keyword, tags
		FROM bookmarks_meta
		WHERE title LIKE ? OR uri LIKE ? OR keyword LIKE ? OR tags LIKE ?
		ORDER BY date_added DESC
		LIMIT ?
	`, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHits(rows)
}

func scanHits(rows *sql.Rows) ([]*Hit, error) {
	var results []*Hit
	for rows.Next() {
		hit := &Hit{}
		if err := rows.Scan(&hit.Path, &hit.Title, &hit.URI, &hit.Keyword, &hit.Tags); err != nil {
			return nil, err
		}
		results = append(results, hit)
	}
	return results, rows.Err()
}

// Close closes the index.
func (idx *Index) Close() error {
	return idx.db.Close()
}
