package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
	ResultSkipped ResultLabel = "skipped"
)

// FileOutcome is what happened to one file inside a stage.
type FileOutcome string

const (
	FileCreated  FileOutcome = "created"
	FileSkipped  FileOutcome = "skipped"
	FileReplaced FileOutcome = "replaced"
	FileFailed   FileOutcome = "failed"
)

// Recorder receives stage and per-file observations. Implementations must be
// safe to call from the single goroutine driving a run.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncFile(stage string, outcome FileOutcome)
	IncRetry(operation string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncFile(string, FileOutcome)                {}
func (NoopRecorder) IncRetry(string)                            {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
