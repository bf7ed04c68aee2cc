// Package scan implements the read-only mode: walk the document set, apply
// link classification and accumulate per-document findings without mutating
// anything.
package scan

import (
	"strings"

	"git.home.luguber.info/inful/nbrelink/internal/docsource"
	"git.home.luguber.info/inful/nbrelink/internal/linkrewrite"
	"git.home.luguber.info/inful/nbrelink/internal/notebook"
	"git.home.luguber.info/inful/nbrelink/internal/report"
)

// maxExamples caps the matched lines echoed per document on the console.
const maxExamples = 3

// Source enumerates the documents a run operates on.
type Source interface {
	Documents() ([]docsource.Location, error)
}

// Finding is one matched line within a markdown cell.
type Finding struct {
	Cell    int
	Line    int
	Content string // the original line, trimmed
	Matches []linkrewrite.Match
}

// DocumentReport collects the findings of one document.
type DocumentReport struct {
	Path     string // relative to the tree root
	Findings []Finding
}

// LinkCount returns the qualifying link total across the document's findings.
func (r DocumentReport) LinkCount() int {
	n := 0
	for _, f := range r.Findings {
		n += len(f.Matches)
	}
	return n
}

// Result aggregates one scan run.
type Result struct {
	Documents []DocumentReport // documents with findings, in enumeration order
	Total     int              // qualifying links across all documents
	Scanned   int              // documents visited
	Failed    int              // documents skipped on read/parse failure
}

// Scanner walks a document source and classifies links. It never mutates
// documents.
type Scanner struct {
	rules  *linkrewrite.Rules
	source Source
	sink   report.Sink
	root   string

	// RunID, when set, threads an existing run identity through the scan
	// events (the rewriter's verification pass shares one run with its
	// mutating pass). Empty means the scan owns its run.
	RunID string

	// Progress, when set, is called after each visited document.
	Progress func(done, total int)
}

// New creates a scanner. root is only reported, never walked directly; the
// source owns enumeration.
func New(rules *linkrewrite.Rules, source Source, sink report.Sink, root string) *Scanner {
	if sink == nil {
		sink = report.Discard{}
	}
	return &Scanner{rules: rules, source: source, sink: sink, root: root}
}

// Run scans every document. Per-document failures are reported and skipped;
// only enumeration failure aborts the run.
func (s *Scanner) Run() (*Result, error) {
	runID := s.RunID
	if runID == "" {
		runID = report.NewRunID()
	}
	s.sink.Emit(report.Event{Kind: report.EventRunStarted, RunID: runID, Root: s.root})

	locations, err := s.source.Documents()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, loc := range locations {
		docReport, err := s.ScanDocument(loc)
		result.Scanned++
		if err != nil {
			result.Failed++
			s.sink.Emit(report.Event{Kind: report.EventDocumentFailed, RunID: runID, Path: loc.Rel, Err: err})
		} else if len(docReport.Findings) > 0 {
			result.Documents = append(result.Documents, docReport)
			result.Total += docReport.LinkCount()
			s.emitFindings(runID, docReport)
		}
		if s.Progress != nil {
			s.Progress(result.Scanned, len(locations))
		}
	}

	s.sink.Emit(report.Event{
		Kind:  report.EventRunCompleted,
		RunID: runID,
		Total: result.Total,
		Files: len(result.Documents),
	})
	return result, nil
}

// ScanDocument classifies every markdown line of one document.
func (s *Scanner) ScanDocument(loc docsource.Location) (DocumentReport, error) {
	nb, err := notebook.ParseFile(loc.Path)
	if err != nil {
		return DocumentReport{Path: loc.Rel}, err
	}

	docReport := DocumentReport{Path: loc.Rel}
	for cellIdx := range nb.Cells {
		cell := &nb.Cells[cellIdx]
		if !cell.IsMarkdown() {
			continue
		}
		for lineIdx, line := range cell.Source.Lines() {
			matches := s.rules.Classify(line, loc.Rel)
			if len(matches) == 0 {
				continue
			}
			docReport.Findings = append(docReport.Findings, Finding{
				Cell:    cellIdx,
				Line:    lineIdx,
				Content: strings.TrimSpace(line),
				Matches: matches,
			})
		}
	}
	return docReport, nil
}

func (s *Scanner) emitFindings(runID string, docReport DocumentReport) {
	s.sink.Emit(report.Event{
		Kind:  report.EventDocumentFound,
		RunID: runID,
		Path:  docReport.Path,
		Count: docReport.LinkCount(),
	})
	for i, f := range docReport.Findings {
		if i == maxExamples {
			s.sink.Emit(report.Event{
				Kind:  report.EventExamplesElided,
				RunID: runID,
				Path:  docReport.Path,
				Count: len(docReport.Findings) - maxExamples,
			})
			break
		}
		s.sink.Emit(report.Event{
			Kind:   report.EventLinkExample,
			RunID:  runID,
			Path:   docReport.Path,
			Cell:   f.Cell,
			Line:   f.Line,
			Before: f.Content,
		})
	}
}
