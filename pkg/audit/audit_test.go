package audit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/newtron-network/newtask/pkg/modules/nxos"
	"github.com/newtron-network/newtask/pkg/task"
)

func newTestLogger(t *testing.T, rotation RotationConfig) (*FileLogger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "audit.log")
	logger, err := NewFileLogger(logPath, rotation)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger, logPath
}

func committed(t *testing.T, names ...string) []task.Task {
	t.Helper()
	b := nxos.NewInterface()
	var out []task.Task
	for _, n := range names {
		if err := b.Set("name", n); err != nil {
			t.Fatal(err)
		}
		tk, err := b.Commit()
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, tk)
	}
	return out
}

func TestEvent_New(t *testing.T) {
	event := NewEvent("alice", "configure leaf", EventTypeBuild)

	if event.User != "alice" {
		t.Errorf("User = %q, want %q", event.User, "alice")
	}
	if event.Playbook != "configure leaf" {
		t.Errorf("Playbook = %q", event.Playbook)
	}
	if event.Operation != EventTypeBuild {
		t.Errorf("Operation = %q", event.Operation)
	}
	if event.DryRun {
		t.Error("build event should not be a dry run")
	}
	if event.ID == "" {
		t.Error("ID should not be empty")
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}

	if !NewEvent("alice", "x", EventTypeValidate).DryRun {
		t.Error("validate event should be a dry run")
	}
}

func TestEvent_Chaining(t *testing.T) {
	tasks := committed(t, "Ethernet1/1", "Ethernet1/2")
	event := NewEvent("alice", "configure leaf", EventTypeBuild).
		WithIntent("intents/leaf.yaml").
		WithSink("out/leaf.yml").
		WithHosts([]string{"leaf1"}).
		WithTasks(tasks).
		WithSuccess().
		WithDuration(time.Second)

	if event.Intent != "intents/leaf.yaml" || event.Sink != "out/leaf.yml" {
		t.Errorf("Intent/Sink = %q/%q", event.Intent, event.Sink)
	}
	if event.Tasks != 2 {
		t.Errorf("Tasks = %d, want 2", event.Tasks)
	}
	if len(event.Modules) != 1 || event.Modules[0] != "cisco.nxos.nxos_interface" {
		t.Errorf("Modules = %v, want one distinct module", event.Modules)
	}
	if !event.Success {
		t.Error("Success should be true")
	}
	if event.Duration != time.Second {
		t.Errorf("Duration = %v", event.Duration)
	}
}

func TestEvent_WithError(t *testing.T) {
	event := NewEvent("alice", "x", EventTypeBuild).WithError(errors.New("playbook: no hosts"))
	if event.Success {
		t.Error("Success should be false")
	}
	if event.Error != "playbook: no hosts" {
		t.Errorf("Error = %q", event.Error)
	}

	event2 := NewEvent("alice", "x", EventTypeBuild).WithError(nil)
	if event2.Success || event2.Error != "" {
		t.Errorf("WithError(nil) = %+v", event2)
	}
}

func TestFileLogger_Basic(t *testing.T) {
	logger, _ := newTestLogger(t, RotationConfig{})

	event := NewEvent("alice", "configure leaf", EventTypeBuild).
		WithTasks(committed(t, "Ethernet1/1")).
		WithSuccess()
	if err := logger.Log(event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := logger.Query(Filter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].Playbook != "configure leaf" || events[0].Tasks != 1 {
		t.Errorf("event = %+v", events[0])
	}
}

func TestFileLogger_QueryFilters(t *testing.T) {
	logger, _ := newTestLogger(t, RotationConfig{})

	events := []*Event{
		NewEvent("alice", "leaf", EventTypeBuild).WithTasks(committed(t, "Ethernet1/1")).WithHosts([]string{"leaf1", "leaf2"}).WithSuccess(),
		NewEvent("bob", "leaf", EventTypeValidate).WithSuccess(),
		NewEvent("alice", "spine", EventTypeBuild).WithError(errors.New("failed")),
	}
	for _, e := range events {
		if err := logger.Log(e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 3},
		{"by user", Filter{User: "alice"}, 2},
		{"by playbook", Filter{Playbook: "leaf"}, 2},
		{"by operation", Filter{Operation: EventTypeValidate}, 1},
		{"by module", Filter{Module: "cisco.nxos.nxos_interface"}, 1},
		{"by host", Filter{Host: "leaf2"}, 1},
		{"by user and operation", Filter{User: "alice", Operation: EventTypeValidate}, 0},
		{"success only", Filter{SuccessOnly: true}, 2},
		{"failure only", Filter{FailureOnly: true}, 1},
		{"limit", Filter{Limit: 2}, 2},
		{"offset", Filter{Offset: 1}, 2},
		{"offset beyond", Filter{Offset: 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := logger.Query(tt.filter)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Query(%+v) returned %d events, want %d", tt.filter, len(got), tt.want)
			}
		})
	}
}

func TestFileLogger_QueryNewestFirst(t *testing.T) {
	logger, _ := newTestLogger(t, RotationConfig{})
	for _, pb := range []string{"first", "second", "third"} {
		if err := logger.Log(NewEvent("alice", pb, EventTypeBuild)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := logger.Query(Filter{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Playbook != "third" || got[1].Playbook != "second" {
		t.Errorf("Query(limit 2) = %v, %v; want third, second", got[0].Playbook, got[1].Playbook)
	}
}

func TestFileLogger_QueryTimeFilter(t *testing.T) {
	logger, _ := newTestLogger(t, RotationConfig{})

	old := NewEvent("alice", "old", EventTypeBuild)
	old.Timestamp = time.Now().Add(-48 * time.Hour)
	recent := NewEvent("alice", "recent", EventTypeBuild)
	for _, e := range []*Event{old, recent} {
		if err := logger.Log(e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := logger.Query(Filter{StartTime: time.Now().Add(-time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Playbook != "recent" {
		t.Errorf("StartTime filter returned %d events", len(got))
	}

	got, err = logger.Query(Filter{EndTime: time.Now().Add(-time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Playbook != "old" {
		t.Errorf("EndTime filter returned %d events", len(got))
	}
}

func TestFileLogger_QueryNonExistent(t *testing.T) {
	logger, logPath := newTestLogger(t, RotationConfig{})
	logger.Close()
	os.Remove(logPath)

	results, err := logger.Query(Filter{})
	if err != nil {
		t.Errorf("Query on non-existent should not error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 events, got %d", len(results))
	}
}

func TestFileLogger_QueryMalformedJSON(t *testing.T) {
	logger, logPath := newTestLogger(t, RotationConfig{})
	if err := logger.Log(NewEvent("alice", "good", EventTypeBuild)); err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("{not json\n")
	f.Close()

	got, err := logger.Query(Filter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Expected malformed line to be skipped, got %d events", len(got))
	}
}

func TestFileLogger_QueryReadError(t *testing.T) {
	logger, _ := newTestLogger(t, RotationConfig{})

	logDir := filepath.Join(t.TempDir(), "audit.log")
	if err := os.Mkdir(logDir, 0755); err != nil {
		t.Fatal(err)
	}
	logger.path = logDir

	if _, err := logger.Query(Filter{}); err == nil {
		t.Error("Query should fail when trying to read a directory")
	}
}

func TestDefaultLogger(t *testing.T) {
	SetDefaultLogger(nil)
	defer SetDefaultLogger(nil)

	if err := Log(NewEvent("test", "test", EventTypeBuild)); err != nil {
		t.Errorf("Log with nil default should not error: %v", err)
	}
	results, err := Query(Filter{})
	if err != nil || len(results) != 0 {
		t.Errorf("Query with nil default = %v, %v", results, err)
	}

	logger, _ := newTestLogger(t, RotationConfig{})
	SetDefaultLogger(logger)

	if err := Log(NewEvent("alice", "leaf", EventTypeBuild).WithSuccess()); err != nil {
		t.Errorf("Log failed: %v", err)
	}
	results, err = Query(Filter{})
	if err != nil {
		t.Errorf("Query failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}

func TestFileLogger_LogRotation(t *testing.T) {
	logger, logPath := newTestLogger(t, RotationConfig{
		MaxSize:    100, // triggers on second log
		MaxBackups: 2,
	})

	for i := 0; i < 5; i++ {
		if err := logger.Log(NewEvent("alice", "leaf", EventTypeBuild).WithSuccess()); err != nil {
			t.Fatalf("Log failed on iteration %d: %v", i, err)
		}
	}

	matches, err := filepath.Glob(logPath + ".*")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) == 0 {
		t.Error("Expected rotation to create backup files")
	}
	if len(matches) > 2 {
		t.Errorf("Expected at most 2 backup files, got %d", len(matches))
	}
}

func TestFileLogger_QuerySpansBackups(t *testing.T) {
	logger, logPath := newTestLogger(t, RotationConfig{MaxSize: 100, MaxBackups: 2})

	for _, pb := range []string{"one", "two", "three", "four", "five"} {
		if err := logger.Log(NewEvent("alice", pb, EventTypeBuild)); err != nil {
			t.Fatal(err)
		}
	}

	matches, _ := filepath.Glob(logPath + ".*")
	if len(matches) != 2 {
		t.Fatalf("got %d backups, want 2", len(matches))
	}

	got, err := logger.Query(Filter{})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range got {
		names = append(names, e.Playbook)
	}
	want := []string{"five", "four", "three"}
	if len(names) != len(want) {
		t.Fatalf("Query() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Query() = %v, want %v", names, want)
			break
		}
	}
}

func TestFileLogger_ReopenKeepsSize(t *testing.T) {
	logger, logPath := newTestLogger(t, RotationConfig{MaxSize: 100})
	if err := logger.Log(NewEvent("alice", "first", EventTypeBuild)); err != nil {
		t.Fatal(err)
	}
	logger.Close()

	reopened, err := NewFileLogger(logPath, RotationConfig{MaxSize: 100})
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if err := reopened.Log(NewEvent("alice", "second", EventTypeBuild)); err != nil {
		t.Fatal(err)
	}
	if matches, _ := filepath.Glob(logPath + ".*"); len(matches) != 1 {
		t.Errorf("reopened logger should rotate the full file, got %d backups", len(matches))
	}
}

func TestFileLogger_LogAfterClose(t *testing.T) {
	logger, _ := newTestLogger(t, RotationConfig{})
	logger.Close()
	if err := logger.Log(NewEvent("alice", "x", EventTypeBuild)); err == nil {
		t.Error("Log on a closed logger should fail")
	}
}

func TestFileLogger_NewFileLoggerErrors(t *testing.T) {
	if _, err := NewFileLogger("/dev/null/impossible/audit.log", RotationConfig{}); err == nil {
		t.Error("NewFileLogger should fail when directory creation fails")
	}

	logPath := filepath.Join(t.TempDir(), "audit.log")
	if err := os.Mkdir(logPath, 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileLogger(logPath, RotationConfig{}); err == nil {
		t.Error("NewFileLogger should fail when log path is a directory")
	}
}

func TestFileLogger_CloseNilFile(t *testing.T) {
	logger := &FileLogger{path: "/tmp/test.log"}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() with nil file should not error: %v", err)
	}
}
