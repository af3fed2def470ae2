// Package audit records playbook builds in a JSON-lines log.
package audit

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/newtron-network/newtask/pkg/task"
)

// Event is one playbook build
type Event struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	User      string        `json:"user"`
	Operation EventType     `json:"operation"`
	Intent    string        `json:"intent,omitempty"` // intent file path
	Playbook  string        `json:"playbook"`
	Sink      string        `json:"sink,omitempty"` // where the document went
	Hosts     []string      `json:"hosts,omitempty"`
	Tasks     int           `json:"tasks"`
	Modules   []string      `json:"modules,omitempty"` // distinct modules, first-use order
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	DryRun    bool          `json:"dry_run"`
	Duration  time.Duration `json:"duration"`
}

// EventType categorizes audit events
type EventType string

const (
	EventTypeBuild    EventType = "build"    // rendered and written
	EventTypeValidate EventType = "validate" // rendered only
)

// Filter selects events. Zero fields match everything.
type Filter struct {
	User        string
	Playbook    string
	Operation   EventType
	Module      string // fully qualified, e.g. cisco.nxos.nxos_acls
	Host        string
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// Match reports whether e satisfies every criterion of f. Limit and Offset
// apply to the result set, not to single events.
func (f Filter) Match(e *Event) bool {
	switch {
	case f.User != "" && e.User != f.User,
		f.Playbook != "" && e.Playbook != f.Playbook,
		f.Operation != "" && e.Operation != f.Operation,
		f.Module != "" && !lo.Contains(e.Modules, f.Module),
		f.Host != "" && !lo.Contains(e.Hosts, f.Host),
		!f.StartTime.IsZero() && e.Timestamp.Before(f.StartTime),
		!f.EndTime.IsZero() && e.Timestamp.After(f.EndTime),
		f.SuccessOnly && !e.Success,
		f.FailureOnly && e.Success:
		return false
	}
	return true
}

// NewEvent creates a new audit event
func NewEvent(user, playbook string, op EventType) *Event {
	return &Event{
		ID:        generateID(),
		Timestamp: time.Now(),
		User:      user,
		Playbook:  playbook,
		Operation: op,
		DryRun:    op == EventTypeValidate,
	}
}

// WithIntent records the intent file the playbook was built from
func (e *Event) WithIntent(path string) *Event {
	e.Intent = path
	return e
}

// WithSink records the output target
func (e *Event) WithSink(sink string) *Event {
	e.Sink = sink
	return e
}

// WithHosts records the target hosts
func (e *Event) WithHosts(hosts []string) *Event {
	e.Hosts = hosts
	return e
}

// WithTasks records the task count and the distinct modules used
func (e *Event) WithTasks(tasks []task.Task) *Event {
	e.Tasks = len(tasks)
	e.Modules = lo.Uniq(lo.Map(tasks, func(t task.Task, _ int) string { return t.Module }))
	return e
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDuration sets the build duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
