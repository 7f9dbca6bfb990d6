package processor

import (
	"fmt"
	"time"

	"github.com/nguyentantai21042004/speech-notes/internal/domain"
)

// Status is the outcome of one pipeline run.
type Status string

const (
	// StatusSuccess means both the transcript and the notes were persisted.
	StatusSuccess Status = "success"
	// StatusPartial means exactly one of the two artifacts was persisted.
	StatusPartial Status = "partial"
	// StatusFailure means nothing was persisted.
	StatusFailure Status = "failure"
)

// Stage names a pipeline step.
type Stage string

const (
	StageAcquisition   Stage = "acquisition"
	StageTranscription Stage = "transcription"
	StagePersistence   Stage = "persistence"
	StageSummarization Stage = "summarization"
)

// Kinds the orchestrator assigns itself. Adapter kinds pass through as-is.
const (
	KindInvalid   = "invalid"
	KindTimeout   = "timeout"
	KindCancelled = "cancelled"
	KindIO        = "io"
	KindInternal  = "internal"
)

// StageError records one failed step of a run.
type StageError struct {
	Stage   Stage
	Kind    string
	Message string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed (%s): %s", e.Stage, e.Kind, e.Message)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// RunResult is the report of a single Run. Stage, Kind and Message describe
// the first failure; Issues lists every failure in order.
type RunResult struct {
	Source         string
	Status         Status
	Stage          Stage
	Kind           string
	Message        string
	AudioPath      string
	AudioDigest    string
	TranscriptPath string
	NotesPath      string
	ExportPaths    []string
	Transcript     *domain.Transcript
	Notes          string
	HasNotes       bool
	Issues         []*StageError
	Duration       time.Duration
}

// Err returns the first recorded failure, or nil.
func (r RunResult) Err() error {
	if len(r.Issues) == 0 {
		return nil
	}
	return r.Issues[0]
}

func (r *RunResult) record(e *StageError) {
	if len(r.Issues) == 0 {
		r.Stage = e.Stage
		r.Kind = e.Kind
		r.Message = e.Message
	}
	r.Issues = append(r.Issues, e)
}

// settle derives the status from which artifacts made it to disk.
func (r *RunResult) settle() {
	switch {
	case r.TranscriptPath != "" && r.NotesPath != "":
		r.Status = StatusSuccess
	case r.TranscriptPath != "" || r.NotesPath != "":
		r.Status = StatusPartial
	default:
		r.Status = StatusFailure
	}
}

// BatchResult aggregates a batch. Results are in input order.
type BatchResult struct {
	Results   []RunResult
	Succeeded int
	Partial   int
	Failed    int
	Total     int
}

// Add appends r and updates the counters.
func (b *BatchResult) Add(r RunResult) {
	b.Results = append(b.Results, r)
	b.Total++
	switch r.Status {
	case StatusSuccess:
		b.Succeeded++
	case StatusPartial:
		b.Partial++
	default:
		b.Failed++
	}
}

// Summary renders "<not failed>/<total>". Partial runs persisted at least
// one artifact and count towards the first number.
func (b BatchResult) Summary() string {
	return fmt.Sprintf("%d/%d", b.Total-b.Failed, b.Total)
}
