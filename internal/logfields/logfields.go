package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeyPath        = "path"
	KeyRoot        = "root"
	KeyCell        = "cell"
	KeyLine        = "line"
	KeyCount       = "count"
	KeyTotal       = "total"
	KeyFiles       = "files"
	KeyExtension   = "extension"
	KeyRepository  = "repository"
	KeyRevision    = "revision"
	KeyURL         = "url"
	KeyReplacement = "replacement"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Root(r string) slog.Attr          { return slog.String(KeyRoot, r) }
func Cell(i int) slog.Attr             { return slog.Int(KeyCell, i) }
func Line(i int) slog.Attr             { return slog.Int(KeyLine, i) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Total(n int) slog.Attr            { return slog.Int(KeyTotal, n) }
func Files(n int) slog.Attr            { return slog.Int(KeyFiles, n) }
func Extension(e string) slog.Attr     { return slog.String(KeyExtension, e) }
func Repository(r string) slog.Attr    { return slog.String(KeyRepository, r) }
func Revision(r string) slog.Attr      { return slog.String(KeyRevision, r) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Replacement(r string) slog.Attr   { return slog.String(KeyReplacement, r) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
