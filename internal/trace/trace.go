// Package trace records what happened to each task of a batch in a
// canonical, byte-stable form.
package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ExecutionTrace is the canonical record of one batch of task runs.
//
// It carries no timestamps, durations or error strings, so two runs that
// made the same decisions produce identical bytes regardless of scheduling.
type ExecutionTrace struct {
	// TasksHash identifies the task definitions that were run.
	TasksHash string
	Events    []TraceEvent
}

// TraceEventKind is the stable discriminator for TraceEvent. The string
// values are part of the canonical bytes; do not rename.
type TraceEventKind string

const (
	EventTaskScripted       TraceEventKind = "TaskScripted"
	EventTaskExecuted       TraceEventKind = "TaskExecuted"
	EventTaskFailed         TraceEventKind = "TaskFailed"
	EventTaskOutputResolved TraceEventKind = "TaskOutputResolved"
	EventTaskOutputAbsent   TraceEventKind = "TaskOutputAbsent"
)

// TraceEvent is a single logical transition of one task.
type TraceEvent struct {
	Kind TraceEventKind

	// TaskID is the task name. Required.
	TaskID string

	// Reason is a stable reason code, e.g. "exit=2" or "cancelled".
	Reason string

	// Digest is the script digest for TaskScripted events.
	Digest string

	// Artifacts lists produced output paths for TaskOutputResolved.
	Artifacts []string
}

// Validate checks basic invariants and returns a descriptive error.
func (t *ExecutionTrace) Validate() error {
	if t == nil {
		return errors.New("trace is nil")
	}
	if t.TasksHash == "" {
		return errors.New("tasksHash is required")
	}
	for i, e := range t.Events {
		if e.Kind == "" {
			return fmt.Errorf("events[%d].kind is required", i)
		}
		if e.TaskID == "" {
			return fmt.Errorf("events[%d].taskId is required for kind %q", i, e.Kind)
		}
		for j, a := range e.Artifacts {
			if a == "" {
				return fmt.Errorf("events[%d].artifacts[%d] is empty", i, j)
			}
		}
	}
	return nil
}

// Canonicalize normalizes and sorts the trace into its canonical form:
// events are stably sorted by (taskId, kindOrder, reason, digest,
// artifacts), empty artifact lists become nil and artifacts are sorted.
func (t *ExecutionTrace) Canonicalize() {
	if t == nil {
		return
	}
	for i := range t.Events {
		if len(t.Events[i].Artifacts) == 0 {
			t.Events[i].Artifacts = nil
			continue
		}
		art := make([]string, len(t.Events[i].Artifacts))
		copy(art, t.Events[i].Artifacts)
		sort.Strings(art)
		t.Events[i].Artifacts = art
	}

	sort.SliceStable(t.Events, func(i, j int) bool {
		a := t.Events[i]
		b := t.Events[j]

		if a.TaskID != b.TaskID {
			return a.TaskID < b.TaskID
		}
		if kindOrder(a.Kind) != kindOrder(b.Kind) {
			return kindOrder(a.Kind) < kindOrder(b.Kind)
		}
		if a.Reason != b.Reason {
			return a.Reason < b.Reason
		}
		if a.Digest != b.Digest {
			return a.Digest < b.Digest
		}
		return compareStringSlices(a.Artifacts, b.Artifacts)
	})
}

// kindOrder follows the compose, execute, resolve sequence of a run.
func kindOrder(k TraceEventKind) int {
	switch k {
	case EventTaskScripted:
		return 10
	case EventTaskExecuted:
		return 20
	case EventTaskFailed:
		return 30
	case EventTaskOutputResolved:
		return 40
	case EventTaskOutputAbsent:
		return 50
	default:
		return 1000
	}
}

func compareStringSlices(a, b []string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			continue
		}
		return a[i] < b[i]
	}
	return len(a) < len(b)
}

// CanonicalJSON returns the canonical JSON encoding of the trace.
// It canonicalizes a copy of the trace to avoid mutating the caller's slices.
func (t ExecutionTrace) CanonicalJSON() ([]byte, error) {
	c := ExecutionTrace{TasksHash: t.TasksHash}
	c.Events = make([]TraceEvent, len(t.Events))
	copy(c.Events, t.Events)
	c.Canonicalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(&c)
}

// Hash returns the sha256 hex digest of the canonical JSON bytes.
func (t ExecutionTrace) Hash() (string, error) {
	b, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return Digest(b), nil
}

// MarshalJSON fixes field order.
func (t ExecutionTrace) MarshalJSON() ([]byte, error) {
	if t.TasksHash == "" {
		return nil, errors.New("tasksHash is required")
	}
	var buf bytes.Buffer
	buf.WriteString(`{"tasksHash":`)
	writeJSONString(&buf, t.TasksHash)
	buf.WriteString(`,"events":[`)
	for i := range t.Events {
		if i > 0 {
			buf.WriteByte(',')
		}
		eb, err := json.Marshal(t.Events[i])
		if err != nil {
			return nil, err
		}
		buf.Write(eb)
	}
	buf.WriteString(`]}`)
	return buf.Bytes(), nil
}

// MarshalJSON fixes field order and omits empty optional fields.
func (e TraceEvent) MarshalJSON() ([]byte, error) {
	if e.Kind == "" {
		return nil, errors.New("kind is required")
	}
	var buf bytes.Buffer
	buf.WriteString(`{"kind":`)
	writeJSONString(&buf, string(e.Kind))

	if e.TaskID != "" {
		buf.WriteString(`,"taskId":`)
		writeJSONString(&buf, e.TaskID)
	}
	if e.Reason != "" {
		buf.WriteString(`,"reason":`)
		writeJSONString(&buf, e.Reason)
	}
	if e.Digest != "" {
		buf.WriteString(`,"digest":`)
		writeJSONString(&buf, e.Digest)
	}
	if len(e.Artifacts) > 0 {
		artifacts := make([]string, len(e.Artifacts))
		copy(artifacts, e.Artifacts)
		sort.Strings(artifacts)

		buf.WriteString(`,"artifacts":[`)
		for i, a := range artifacts {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(&buf, a)
		}
		buf.WriteByte(']')
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}
