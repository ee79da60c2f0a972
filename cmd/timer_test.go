package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curaious/ticktrack/internal/timer"
)

type fakeSink struct {
	mu      sync.Mutex
	fail    int
	entries []timer.Entry
}

func (f *fakeSink) CreateTimeEntry(_ context.Context, entry timer.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail > 0 {
		f.fail--
		return errors.New("service unavailable")
	}
	f.entries = append(f.entries, entry)
	return nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTimerSessionSavesOnStop(t *testing.T) {
	sink := &fakeSink{}
	s := timerSession{store: timer.NewStore(), sink: sink, projectID: "p1", taskID: timer.NoTask, description: "docs"}
	out := &syncBuffer{}

	err := s.run(context.Background(), strings.NewReader("p\nc\nx\ns\n"), out)
	require.NoError(t, err)

	require.Len(t, sink.entries, 1)
	assert.Equal(t, "p1", sink.entries[0].ProjectID)
	assert.Nil(t, sink.entries[0].TaskID)
	assert.Equal(t, "docs", *sink.entries[0].Description)
	assert.Contains(t, out.String(), "[paused]")
	assert.Contains(t, out.String(), "Unknown command")
	assert.Contains(t, out.String(), "Saved")
	assert.Equal(t, timer.Idle, s.store.Snapshot().Phase)
}

func TestTimerSessionRetriesFailedSave(t *testing.T) {
	sink := &fakeSink{fail: 1}
	s := timerSession{store: timer.NewStore(), sink: sink, projectID: "p1"}
	out := &syncBuffer{}

	err := s.run(context.Background(), strings.NewReader("s\ns\n"), out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "service unavailable")
	assert.Len(t, sink.entries, 1)
}

func TestTimerSessionReportsUnsavedEntryAtEndOfInput(t *testing.T) {
	sink := &fakeSink{fail: 1}
	s := timerSession{store: timer.NewStore(), sink: sink, projectID: "p1"}
	out := &syncBuffer{}

	err := s.run(context.Background(), strings.NewReader("s\n"), out)
	require.ErrorIs(t, err, errUnsavedEntry)
	assert.Contains(t, err.Error(), "p1")

	assert.Contains(t, out.String(), "service unavailable")
	assert.Empty(t, sink.entries)

	snap := s.store.Snapshot()
	assert.Equal(t, timer.Stopped, snap.Phase)
	assert.Equal(t, "p1", snap.ProjectID)
}

func TestTimerSessionQuitDiscards(t *testing.T) {
	sink := &fakeSink{}
	s := timerSession{store: timer.NewStore(), sink: sink, projectID: "p1"}
	out := &syncBuffer{}

	require.NoError(t, s.run(context.Background(), strings.NewReader("q\n"), out))
	assert.Empty(t, sink.entries)
	assert.Contains(t, out.String(), "Discarded")
}

func TestTimerSessionRequiresProject(t *testing.T) {
	s := timerSession{store: timer.NewStore(), sink: &fakeSink{}}
	err := s.run(context.Background(), strings.NewReader(""), &syncBuffer{})
	assert.ErrorIs(t, err, timer.ErrNoProject)
}
