// Package notebook models Jupyter notebook files for link inspection and
// format-preserving rewrites.
//
// Only the pieces the pipeline touches are typed: the cells array, each
// cell's type tag and source lines. Everything else (notebook metadata, cell
// metadata, outputs, attachments) is carried as raw JSON so a rewrite never
// invents or drops fields it does not understand.
package notebook

import (
	"encoding/json"
	"os"

	"git.home.luguber.info/inful/nbrelink/internal/foundation/errors"
)

// CellTypeMarkdown tags the only cell type whose source is inspected.
const CellTypeMarkdown = "markdown"

// Notebook is the top-level nbformat object. Field order mirrors nbformat's
// sorted key order so serialized output matches what Jupyter itself writes.
type Notebook struct {
	Cells         []Cell          `json:"cells"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	NBFormat      int             `json:"nbformat,omitempty"`
	NBFormatMinor int             `json:"nbformat_minor,omitempty"`
}

// Cell is one notebook cell. Unknown-value fields stay raw; absent fields
// stay absent on re-serialization.
type Cell struct {
	Attachments    json.RawMessage `json:"attachments,omitempty"`
	CellType       string          `json:"cell_type"`
	ExecutionCount json.RawMessage `json:"execution_count,omitempty"`
	ID             string          `json:"id,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	Outputs        json.RawMessage `json:"outputs,omitempty"`
	Source         SourceLines     `json:"source"`
}

// IsMarkdown reports whether the cell's source participates in link scans.
func (c *Cell) IsMarkdown() bool { return c.CellType == CellTypeMarkdown }

// Parse parses raw notebook content.
func Parse(content []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(content, &nb); err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotebook, "failed to parse notebook").Build()
	}
	return &nb, nil
}

// ParseFile reads a notebook from disk and parses it.
func ParseFile(path string) (*Notebook, error) {
	// #nosec G304 -- path comes from internal tree enumeration.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read notebook").
			WithContext("path", path).
			Build()
	}

	nb, err := Parse(content)
	if err != nil {
		classified, ok := errors.AsClassified(err)
		if ok {
			return nil, classified.WithContext("path", path)
		}
		return nil, errors.WrapError(err, errors.CategoryNotebook, "failed to parse notebook").
			WithContext("path", path).
			Build()
	}
	return nb, nil
}

// WriteFile serializes the notebook and writes it to path, preserving the
// file mode when the file already exists.
func (nb *Notebook) WriteFile(path string) error {
	data, err := nb.Bytes()
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(path, data, mode); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write notebook").
			WithContext("path", path).
			Build()
	}
	return nil
}
