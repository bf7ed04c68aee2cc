package notebook

import (
	"encoding/json"
	"strings"
)

// SourceLines is a cell's source text. nbformat allows both a JSON array of
// lines (each keeping its trailing newline) and a single joined string;
// SourceLines accepts either and re-serializes in the shape it was read in.
type SourceLines struct {
	lines  []string
	joined bool // original was a single JSON string
}

// NewSourceLines builds an array-shaped source from lines.
func NewSourceLines(lines []string) SourceLines {
	return SourceLines{lines: lines}
}

// Lines returns the source as ordered lines. The slice is shared; callers
// that mutate lines go through SetLines.
func (s *SourceLines) Lines() []string { return s.lines }

// SetLines replaces the source lines, keeping the original serialization shape.
func (s *SourceLines) SetLines(lines []string) { s.lines = lines }

// Text returns the joined source text.
func (s *SourceLines) Text() string { return strings.Join(s.lines, "") }

func (s *SourceLines) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		s.lines = lines
		s.joined = false
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	s.lines = splitAfterNewlines(joined)
	s.joined = true
	return nil
}

func (s SourceLines) MarshalJSON() ([]byte, error) {
	if s.joined {
		return marshalNoEscape(strings.Join(s.lines, ""))
	}
	if s.lines == nil {
		return []byte("[]"), nil
	}
	return marshalNoEscape(s.lines)
}

// splitAfterNewlines splits text into lines that keep their newline, the
// same shape nbformat uses for array sources.
func splitAfterNewlines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
