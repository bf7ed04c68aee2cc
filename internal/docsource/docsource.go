// Package docsource enumerates the documents a run operates on and detects
// which repository a tree belongs to. Drivers depend on it only through the
// list of locations it yields.
package docsource

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/nbrelink/internal/foundation/errors"
)

// Location is one document within the tree.
type Location struct {
	Path string // absolute path on disk
	Rel  string // slash-separated path relative to the tree root
}

// checkpointDir holds Jupyter's automatic snapshots; never real documents.
const checkpointDir = ".ipynb_checkpoints"

// Tree enumerates documents with a fixed extension under one root directory.
type Tree struct {
	root string
	ext  string
}

// NewTree creates an enumerator for the given root and extension (".ipynb").
func NewTree(root, ext string) *Tree {
	return &Tree{root: root, ext: ext}
}

// Root returns the tree root.
func (t *Tree) Root() string { return t.root }

// Documents walks the tree and returns matching documents sorted by
// relative path, so runs process documents in a stable order.
func (t *Tree) Documents() ([]Location, error) {
	var locations []Location

	err := filepath.WalkDir(t.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != t.root && (strings.HasPrefix(name, ".") || name == checkpointDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), t.ext) {
			return nil
		}

		rel, relErr := filepath.Rel(t.root, path)
		if relErr != nil {
			return relErr
		}
		locations = append(locations, Location{
			Path: path,
			Rel:  filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk document tree").
			WithContext("root", t.root).
			Build()
	}

	sort.Slice(locations, func(i, j int) bool { return locations[i].Rel < locations[j].Rel })
	return locations, nil
}
