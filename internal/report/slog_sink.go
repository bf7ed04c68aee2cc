package report

import (
	"log/slog"

	"git.home.luguber.info/inful/nbrelink/internal/logfields"
)

// SlogSink renders run events through the process logger, mirroring the
// aggregate counters and per-document examples on the console.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink wraps a logger; nil uses slog.Default.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Emit(e Event) {
	switch e.Kind {
	case EventRunStarted:
		s.logger.Info("Run started", logfields.RunID(e.RunID), logfields.Root(e.Root))
	case EventDocumentFound:
		s.logger.Info("Links found", logfields.Path(e.Path), logfields.Count(e.Count))
	case EventLinkExample:
		s.logger.Info("  Example", logfields.Path(e.Path), logfields.Cell(e.Cell), logfields.Line(e.Line), slog.String("content", e.Before))
	case EventExamplesElided:
		s.logger.Info("  ... and more", logfields.Path(e.Path), logfields.Count(e.Count))
	case EventLineRewritten:
		s.logger.Info("Line rewritten",
			logfields.Path(e.Path),
			logfields.Cell(e.Cell),
			logfields.Line(e.Line),
			slog.String("before", e.Before),
			slog.String("after", e.After))
	case EventDocumentRewritten:
		if e.DryRun {
			s.logger.Info("Would rewrite document", logfields.Path(e.Path), logfields.Count(e.Count))
		} else {
			s.logger.Info("Document rewritten", logfields.Path(e.Path), logfields.Count(e.Count))
		}
	case EventDocumentFailed:
		s.logger.Error("Document skipped", logfields.Path(e.Path), logfields.Error(e.Err))
	case EventRunCompleted:
		if e.Total == 0 {
			s.logger.Warn("No qualifying links found", logfields.RunID(e.RunID))
			return
		}
		s.logger.Info("Run completed", logfields.RunID(e.RunID), logfields.Total(e.Total), logfields.Files(e.Files))
	default:
		s.logger.Debug("Unknown report event", slog.String("kind", string(e.Kind)))
	}
}
