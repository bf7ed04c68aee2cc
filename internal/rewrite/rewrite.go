// Package rewrite implements the mutating mode: the same classification as
// the scanner, plus in-place substitution and format-preserving
// re-serialization of changed documents.
//
// A run has two sub-passes kept in sync by construction: a non-mutating
// verification scan (reports what will be touched) followed by the mutating
// pass, both over one enumeration of the document set and one set of rules.
package rewrite

import (
	"strings"

	"git.home.luguber.info/inful/nbrelink/internal/docsource"
	"git.home.luguber.info/inful/nbrelink/internal/linkrewrite"
	"git.home.luguber.info/inful/nbrelink/internal/notebook"
	"git.home.luguber.info/inful/nbrelink/internal/report"
	"git.home.luguber.info/inful/nbrelink/internal/scan"
)

// Options controls a rewrite run.
type Options struct {
	// DryRun applies classification and substitution in memory but never
	// writes a document back.
	DryRun bool
}

// Change is one rewritten line.
type Change struct {
	Cell   int
	Line   int
	Before string // trimmed original line
	After  string // trimmed rewritten line
}

// DocumentResult is the outcome for one touched document.
type DocumentResult struct {
	Path    string // relative to the tree root
	Changes []Change
	Written bool // false under dry-run or after a write failure
}

// Result aggregates one rewrite run.
type Result struct {
	Scanned   int
	Failed    int
	Modified  []string // relative paths of changed documents, enumeration order
	Documents []DocumentResult
}

// Rewriter mutates qualifying links across a document source.
type Rewriter struct {
	rules  *linkrewrite.Rules
	source scan.Source
	sink   report.Sink
	root   string
}

// New creates a rewriter sharing the scanner's source and rules types, so
// both modes classify identically.
func New(rules *linkrewrite.Rules, source scan.Source, sink report.Sink, root string) *Rewriter {
	if sink == nil {
		sink = report.Discard{}
	}
	return &Rewriter{rules: rules, source: source, sink: sink, root: root}
}

// locationList freezes one enumeration so both sub-passes see the same set.
type locationList []docsource.Location

func (l locationList) Documents() ([]docsource.Location, error) { return l, nil }

// Run performs the verification scan, then the mutating pass. Per-document
// failures are reported and skipped; only enumeration failure aborts.
func (rw *Rewriter) Run(opts Options) (*Result, error) {
	locations, err := rw.source.Documents()
	if err != nil {
		return nil, err
	}

	runID := report.NewRunID()

	verifier := scan.New(rw.rules, locationList(locations), rw.sink, rw.root)
	verifier.RunID = runID
	verification, err := verifier.Run()
	if err != nil {
		return nil, err
	}

	result := &Result{Scanned: verification.Scanned, Failed: verification.Failed}
	if verification.Total == 0 {
		return result, nil
	}

	// Only documents the verification pass flagged can change; the shared
	// classifier guarantees clean documents stay untouched.
	affected := make(map[string]struct{}, len(verification.Documents))
	for _, doc := range verification.Documents {
		affected[doc.Path] = struct{}{}
	}

	for _, loc := range locations {
		if _, ok := affected[loc.Rel]; !ok {
			continue
		}
		docResult, err := rw.RewriteDocument(loc, opts)
		if err != nil {
			result.Failed++
			rw.sink.Emit(report.Event{Kind: report.EventDocumentFailed, RunID: runID, Path: loc.Rel, Err: err})
			continue
		}
		if len(docResult.Changes) == 0 {
			continue
		}

		result.Documents = append(result.Documents, docResult)
		result.Modified = append(result.Modified, docResult.Path)
		for _, c := range docResult.Changes {
			rw.sink.Emit(report.Event{
				Kind:   report.EventLineRewritten,
				RunID:  runID,
				Path:   docResult.Path,
				Cell:   c.Cell,
				Line:   c.Line,
				Before: c.Before,
				After:  c.After,
			})
		}
		rw.sink.Emit(report.Event{
			Kind:   report.EventDocumentRewritten,
			RunID:  runID,
			Path:   docResult.Path,
			Count:  len(docResult.Changes),
			DryRun: opts.DryRun,
		})
	}

	return result, nil
}

// RewriteDocument applies the substitution to one document. The file is only
// written back after the full in-memory pass over all markdown cells
// succeeded, and only when at least one line changed.
func (rw *Rewriter) RewriteDocument(loc docsource.Location, opts Options) (DocumentResult, error) {
	nb, err := notebook.ParseFile(loc.Path)
	if err != nil {
		return DocumentResult{Path: loc.Rel}, err
	}

	docResult := DocumentResult{Path: loc.Rel}
	for cellIdx := range nb.Cells {
		cell := &nb.Cells[cellIdx]
		if !cell.IsMarkdown() {
			continue
		}

		lines := cell.Source.Lines()
		var updated []string
		for lineIdx, line := range lines {
			out, _, changed := rw.rules.RewriteLine(line, loc.Rel)
			if !changed {
				continue
			}
			if updated == nil {
				updated = make([]string, len(lines))
				copy(updated, lines)
			}
			updated[lineIdx] = out
			docResult.Changes = append(docResult.Changes, Change{
				Cell:   cellIdx,
				Line:   lineIdx,
				Before: strings.TrimSpace(line),
				After:  strings.TrimSpace(out),
			})
		}
		if updated != nil {
			cell.Source.SetLines(updated)
		}
	}

	if len(docResult.Changes) == 0 || opts.DryRun {
		return docResult, nil
	}

	if err := nb.WriteFile(loc.Path); err != nil {
		// The in-memory change is lost for this run; the next run retries.
		return DocumentResult{Path: loc.Rel}, err
	}
	docResult.Written = true
	return docResult, nil
}
