// Package notify delivers captured-lead events to external automation
// systems. Delivery is best-effort and fully decoupled from lead
// persistence: each target is an independent failure domain, failures are
// logged and never retried, and no failure is ever surfaced to the
// visitor who submitted the form.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/optiflow/site-backend/internal/pkg/logger"
)

// Event is the payload fanned out after a lead is persisted.
type Event struct {
	SubmissionID uuid.UUID
	Source       string
	SubmittedAt  time.Time
	Fields       map[string]string
}

// payload flattens the event into the JSON body sent to every target.
func (e Event) payload() map[string]string {
	body := make(map[string]string, len(e.Fields)+3)
	for k, v := range e.Fields {
		body[k] = v
	}
	body["submission_id"] = e.SubmissionID.String()
	body["source"] = e.Source
	body["submitted_at"] = e.SubmittedAt.UTC().Format(time.RFC3339)
	return body
}

// Target delivers an event to one external endpoint.
type Target interface {
	Name() string
	Deliver(ctx context.Context, event Event) error
}

// Fanout dispatches events to a fixed set of targets concurrently.
type Fanout struct {
	targets []Target
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewFanout creates a fan-out dispatcher. timeout bounds each individual
// delivery; zero means 10s.
func NewFanout(targets []Target, timeout time.Duration) *Fanout {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fanout{targets: targets, timeout: timeout}
}

// Notify dispatches the event to every target in its own goroutine and
// returns immediately. Deliveries deliberately do not inherit the request
// context: the submitter's response must not wait on, or be canceled
// with, the automation calls.
func (f *Fanout) Notify(event Event) {
	for _, target := range f.targets {
		f.wg.Add(1)
		go func(t Target) {
			defer f.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
			defer cancel()

			if err := t.Deliver(ctx, event); err != nil {
				logger.Warn("lead notification failed",
					"target", t.Name(),
					"submission_id", event.SubmissionID.String(),
					"source", event.Source,
					"error", err)
				return
			}
			logger.Debug("lead notification delivered",
				"target", t.Name(),
				"submission_id", event.SubmissionID.String())
		}(target)
	}
}

// Wait blocks until all in-flight deliveries finish. Used by tests and
// graceful shutdown.
func (f *Fanout) Wait() {
	f.wg.Wait()
}
