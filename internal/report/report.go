// Package report defines the ordered event sink the scan and rewrite drivers
// write structured progress to. Keeping reporting behind a narrow interface
// keeps the classifier and drivers side-effect free and testable: the CLI
// plugs in a slog-backed sink, tests plug in an in-memory one.
package report

import (
	"sync"

	"github.com/google/uuid"
)

// EventKind discriminates sink events.
type EventKind string

const (
	// EventRunStarted opens a run; RunID and Root are set.
	EventRunStarted EventKind = "run_started"
	// EventDocumentFound reports a document with qualifying links; Count is set.
	EventDocumentFound EventKind = "document_found"
	// EventLinkExample carries one matched line, capped per document by the driver.
	EventLinkExample EventKind = "link_example"
	// EventExamplesElided notes how many matched lines were not shown; Count is set.
	EventExamplesElided EventKind = "examples_elided"
	// EventLineRewritten carries a before/after pair from the mutating pass.
	EventLineRewritten EventKind = "line_rewritten"
	// EventDocumentRewritten reports one rewritten (or dry-run) document.
	EventDocumentRewritten EventKind = "document_rewritten"
	// EventDocumentFailed reports a skipped document; Err is set.
	EventDocumentFailed EventKind = "document_failed"
	// EventRunCompleted closes a run with aggregate totals.
	EventRunCompleted EventKind = "run_completed"
)

// Event is one entry in a run's ordered report stream.
type Event struct {
	Kind   EventKind
	RunID  string
	Root   string
	Path   string // document path relative to the root
	Cell   int
	Line   int
	Before string
	After  string
	Count  int
	Total  int // run totals on EventRunCompleted
	Files  int
	DryRun bool
	Err    error
}

// Sink receives events in emission order.
type Sink interface {
	Emit(Event)
}

// NewRunID returns the identity attached to every event of one run.
func NewRunID() string { return uuid.NewString() }

// Memory is a Sink that records events for inspection, safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Emit(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

// Events returns a copy of the recorded events in emission order.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Kinds returns just the event kinds, in order. Handy in assertions.
func (m *Memory) Kinds() []EventKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EventKind, len(m.events))
	for i, e := range m.events {
		out[i] = e.Kind
	}
	return out
}

// Discard is a Sink that drops everything.
type Discard struct{}

func (Discard) Emit(Event) {}
