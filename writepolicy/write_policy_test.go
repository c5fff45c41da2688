package writepolicy

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type recordingStore struct {
	mu   sync.Mutex
	data map[string]any
	err  error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{data: make(map[string]any)}
}

func (s *recordingStore) Load(ctx context.Context, key string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *recordingStore) Put(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.data[key] = value
	return nil
}

func (s *recordingStore) get(key string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

func TestWriteThroughIsSynchronous(t *testing.T) {
	store := newRecordingStore()
	w := NewWriteThroughPolicy(store, nil)

	w.OnWrite(context.Background(), "k", "v")
	if got := store.get("k"); got != "v" {
		t.Fatalf("expected v in store, got %v", got)
	}

	// errors are logged, never surfaced
	store.err = errors.New("down")
	w.OnWrite(context.Background(), "k2", "v2")
	w.Close()
}

func TestWriteBackFlushesOnClose(t *testing.T) {
	store := newRecordingStore()
	w := NewWriteBackPolicy(store, 16, nil)

	ctx, cancel := context.WithCancel(context.Background())
	for _, k := range []string{"a", "b", "c"} {
		w.OnWrite(ctx, k, k+"-value")
	}
	// a cancelled request context must not cancel the queued write
	cancel()

	w.Close()
	w.Close()

	for _, k := range []string{"a", "b", "c"} {
		if got := store.get(k); got != k+"-value" {
			t.Fatalf("expected %s-value for %s, got %v", k, k, got)
		}
	}
	if w.Dropped() != 0 {
		t.Fatalf("expected no dropped writes, got %d", w.Dropped())
	}
}

type blockingStore struct {
	recordingStore
	release chan struct{}
}

func (s *blockingStore) Put(ctx context.Context, key string, value any) error {
	<-s.release
	return s.recordingStore.Put(ctx, key, value)
}

func TestWriteBackDropsWhenFull(t *testing.T) {
	store := &blockingStore{
		recordingStore: recordingStore{data: make(map[string]any)},
		release:        make(chan struct{}),
	}
	w := NewWriteBackPolicy(store, 1, nil)

	// the worker holds at most one request, the buffer one more
	for i := 0; i < 10; i++ {
		w.OnWrite(context.Background(), "k", i)
	}
	close(store.release)
	w.Close()

	if w.Dropped() < 8 {
		t.Fatalf("expected at least 8 dropped writes, got %d", w.Dropped())
	}
}

func TestNewFactory(t *testing.T) {
	store := newRecordingStore()

	tests := []struct {
		mode    Mode
		wantNil bool
		wantErr bool
	}{
		{None, true, false},
		{"", true, false},
		{Through, false, false},
		{Back, false, false},
		{"sideways", true, true},
	}

	for _, tt := range tests {
		p, err := New(tt.mode, store, 4, nil)
		if (err != nil) != tt.wantErr {
			t.Fatalf("mode %q: unexpected error %v", tt.mode, err)
		}
		if (p == nil) != tt.wantNil {
			t.Fatalf("mode %q: expected nil=%v, got %v", tt.mode, tt.wantNil, p)
		}
		if p != nil {
			p.Close()
		}
	}

	if _, err := New(Back, nil, 4, nil); err == nil {
		t.Fatalf("expected an error for write-back without a store")
	}
}
