package images

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
)

// Stats counts what a stage did.
type Stats struct {
	Created  int
	Skipped  int
	Replaced int
	Copied   int
	Failed   int
}

func (s Stats) String() string {
	return fmt.Sprintf("created=%d skipped=%d replaced=%d copied=%d failed=%d",
		s.Created, s.Skipped, s.Replaced, s.Copied, s.Failed)
}

// Add merges o into s.
func (s *Stats) Add(o Stats) {
	s.Created += o.Created
	s.Skipped += o.Skipped
	s.Replaced += o.Replaced
	s.Copied += o.Copied
	s.Failed += o.Failed
}

// Tracker records per-file outcomes of a stage into Stats, the metrics
// recorder and the log.
type Tracker struct {
	Stats Stats
	stage string
	rec   metrics.Recorder
}

// NewTracker returns a Tracker for stage.
func NewTracker(stage string, rec metrics.Recorder) *Tracker {
	return &Tracker{stage: stage, rec: metrics.OrNoop(rec)}
}

func (t *Tracker) Created(path string, width int) {
	t.Stats.Created++
	t.rec.IncFile(t.stage, metrics.FileCreated)
	slog.Info("Created", logfields.Stage(t.stage), logfields.Path(path), logfields.Width(width))
}

func (t *Tracker) Skipped(path string) {
	t.Stats.Skipped++
	t.rec.IncFile(t.stage, metrics.FileSkipped)
	slog.Debug("Skipping (already exists)", logfields.Stage(t.stage), logfields.Path(path))
}

func (t *Tracker) Replaced(path string, saved int64) {
	t.Stats.Replaced++
	t.rec.IncFile(t.stage, metrics.FileReplaced)
	slog.Info("Optimized", logfields.Stage(t.stage), logfields.Path(path), slog.Int64("saved_bytes", saved))
}

func (t *Tracker) Copied(path string) {
	t.Stats.Copied++
	t.rec.IncFile(t.stage, metrics.FileCreated)
	slog.Info("Copied", logfields.Stage(t.stage), logfields.Path(path))
}

func (t *Tracker) Failed(path string, err error) {
	t.Stats.Failed++
	t.rec.IncFile(t.stage, metrics.FileFailed)
	slog.Error("Image processing failed", logfields.Stage(t.stage), logfields.Path(path), logfields.Error(err))
}
