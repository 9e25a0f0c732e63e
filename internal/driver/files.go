package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Ext is the extension of files picked up by directory walks.
const Ext = ".sas"

// Ignore matches paths relative to a walk root against the configured ignore
// list and the root's .gitignore.
type Ignore struct {
	matchers []*gitignore.GitIgnore
}

// NewIgnore compiles patterns (gitignore syntax) and, when present, the
// .gitignore file in root.
func NewIgnore(root string, patterns []string) (*Ignore, error) {
	ig := &Ignore{}
	if len(patterns) > 0 {
		ig.matchers = append(ig.matchers, gitignore.CompileIgnoreLines(patterns...))
	}
	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		m, err := gitignore.CompileIgnoreFile(gitignorePath)
		if err != nil {
			return nil, err
		}
		ig.matchers = append(ig.matchers, m)
	}
	return ig, nil
}

// Match reports whether the slash-separated relative path is ignored.
func (ig *Ignore) Match(rel string) bool {
	if ig == nil {
		return false
	}
	for _, m := range ig.matchers {
		if m.MatchesPath(rel) {
			return true
		}
	}
	return false
}

// ListFiles returns the sorted *.sas files under root that are not ignored.
// Hidden directories are skipped. A root that is a file is returned as is.
func ListFiles(ctx context.Context, root string, ignoreList []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	ignore, err := NewIgnore(root, ignoreList)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || ignore.Match(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), Ext) || ignore.Match(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
