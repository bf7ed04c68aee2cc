package scan

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"git.home.luguber.info/inful/nbrelink/internal/foundation/errors"
)

// WriteSummary writes the plain-text run summary: a total-count header
// followed by one line per affected document, sorted by path.
func WriteSummary(path string, result *Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d links that need updating in %d files:\n\n", result.Total, len(result.Documents))

	docs := make([]DocumentReport, len(result.Documents))
	copy(docs, result.Documents)
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	for _, doc := range docs {
		fmt.Fprintf(&b, "%s: %d links\n", doc.Path, doc.LinkCount())
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write summary").
			WithContext("path", path).
			Build()
	}
	return nil
}
