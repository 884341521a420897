package protocol

import (
	"context"
	"time"

	"github.com/arthadana/alur/pkg/models"
)

// Job is one unit of background work: a named action plus the argument tuple
// needed to rebuild its transition context on the consuming side.
type Job struct {
	ID         string                 `json:"id"`
	ActionName string                 `json:"action_name"`
	Arguments  models.ActionArguments `json:"arguments"`
	Queue      string                 `json:"queue"`
	ETA        *time.Time             `json:"eta,omitempty"`
}

// JobHandle is returned from Enqueue. It identifies the dispatched job; the
// engine never awaits it, and delivery is best-effort.
type JobHandle struct {
	ID         string
	Queue      string
	EnqueuedAt time.Time
}

// EnqueueOption tweaks how a job is dispatched.
type EnqueueOption func(*Job)

// WithQueue routes the job to a named queue instead of the default one.
func WithQueue(queue string) EnqueueOption {
	return func(j *Job) { j.Queue = queue }
}

// WithCountdown delays delivery by the given duration.
func WithCountdown(d time.Duration) EnqueueOption {
	return func(j *Job) {
		eta := time.Now().Add(d)
		j.ETA = &eta
	}
}

// WithETA delays delivery until the given time.
func WithETA(eta time.Time) EnqueueOption {
	return func(j *Job) { j.ETA = &eta }
}

// TaskQueue hands background work off to workers, fire-and-forget.
type TaskQueue interface {
	Enqueue(ctx context.Context, actionName string, args models.ActionArguments, opts ...EnqueueOption) (JobHandle, error)
	Close() error
}
