// Package service wires the codec and mirror packages into the operations
// the command layer exposes.
package service

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/sdvillal/ffb2fs2ffb/pkg/bookmarks"
	"github.com/sdvillal/ffb2fs2ffb/pkg/mirror"
	"github.com/sdvillal/ffb2fs2ffb/pkg/record"
	"github.com/sdvillal/ffb2fs2ffb/pkg/search"
)

// Config holds service configuration.
type Config struct {
	DataDir        string
	BrowserCommand string
	StrayPolicy    string
	Overwrite      bool
}

// Service is the core converter service.
type Service struct {
	Config *Config
	Logger *logrus.Logger
}

// New creates a new converter service.
func New(config *Config, logger *logrus.Logger) (*Service, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	policy := mirror.StrayPolicy(config.StrayPolicy)
	if config.StrayPolicy != "" && !policy.Valid() {
		return nil, fmt.Errorf("unknown stray policy %q (want %q or %q)",
			config.StrayPolicy, mirror.StrayFoldIntoUnfiled, mirror.StrayReject)
	}
	return &Service{Config: config, Logger: logger}, nil
}

// Export mirrors a bookmarks backup document into destDir.
func (s *Service) Export(bookmarksFile, destDir string) error {
	data, err := os.ReadFile(bookmarksFile)
	if err != nil {
		return fmt.Errorf("read bookmarks file: %w", err)
	}
	tree, err := bookmarks.Parse(data)
	if err != nil {
		return err
	}
	s.Logger.WithFields(logrus.Fields{"from": bookmarksFile, "to": destDir}).Info("exporting bookmarks")
	return mirror.Export(tree, destDir, mirror.ExportOptions{Overwrite: s.Config.Overwrite})
}

// Import reconstructs a bookmarks document from a mirror directory and
// writes it to destFile. Skipped entries come back in the result; they are
// diagnostics, not a failure.
func (s *Service) Import(srcDir, destFile string) (*mirror.Result, error) {
	s.Logger.WithFields(logrus.Fields{"from": srcDir, "to": destFile}).Info("importing bookmarks")
	result, err := mirror.Import(srcDir, mirror.ImportOptions{
		StrayPolicy: mirror.StrayPolicy(s.Config.StrayPolicy),
		Logger:      s.Logger,
	})
	if err != nil {
		return nil, err
	}
	data, err := bookmarks.Serialize(result.Tree)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(destFile, data, 0o644); err != nil {
		return nil, fmt.Errorf("write bookmarks file: %w", err)
	}
	return result, nil
}

// Open launches the configured browser on the URI inside one marker file.
func (s *Service) Open(ffurlPath string) error {
	data, err := os.ReadFile(ffurlPath)
	if err != nil {
		return fmt.Errorf("read marker file: %w", err)
	}
	node, err := record.DecodeBookmark(data)
	if err != nil {
		return err
	}
	browser := s.Config.BrowserCommand
	if browser == "" {
		browser = "firefox"
	}
	s.Logger.WithFields(logrus.Fields{"browser": browser, "uri": node.URI}).Info("opening bookmark")
	cmd := exec.Command(browser, node.URI)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", browser, err)
	}
	// The browser keeps running on its own; don't hold the terminal.
	return cmd.Process.Release()
}

// RebuildIndex loads a tree from source, which may be either a bookmarks
// backup document or a mirror directory, and rebuilds the search index.
func (s *Service) RebuildIndex(source string) error {
	tree, err := s.loadTree(source)
	if err != nil {
		return err
	}
	idx, err := s.openIndex()
	if err != nil {
		return err
	}
	defer idx.Close()
	return idx.Rebuild(tree)
}

// Search queries the search index.
func (s *Service) Search(query string, limit int) ([]*search.Hit, error) {
	idx, err := s.openIndex()
	if err != nil {
		return nil, err
	}
	defer idx.Close()
	return idx.Search(query, limit)
}

func (s *Service) openIndex() (*search.Index, error) {
	if err := os.MkdirAll(s.Config.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	idx, err := search.NewIndex(filepath.Join(s.Config.DataDir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return idx, nil
}

func (s *Service) loadTree(source string) (*bookmarks.Node, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		result, err := mirror.Import(source, mirror.ImportOptions{
			StrayPolicy: mirror.StrayPolicy(s.Config.StrayPolicy),
			Logger:      s.Logger,
		})
		if err != nil {
			return nil, err
		}
		return result.Tree, nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read bookmarks file: %w", err)
	}
	return bookmarks.Parse(data)
}
