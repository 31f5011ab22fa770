package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jorgebotas/gocyto/pkg/errors"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	runs := []*Run{
		{Network: "old", StartedAt: base, Nodes: 3, Edges: 2},
		{Network: "new", StartedAt: base.Add(time.Hour), SUID: 52, Duration: 1500 * time.Millisecond},
		{Network: "broken", StartedAt: base.Add(30 * time.Minute), Status: StatusFailed, Error: "REMOTE_API: boom"},
	}
	for _, r := range runs {
		if err := s.Record(ctx, r); err != nil {
			t.Fatalf("Record: %v", err)
		}
		if r.ID == "" {
			t.Fatal("Record did not assign an ID")
		}
	}

	got, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("List returned %d runs, want 3", len(got))
	}
	order := []string{got[0].Network, got[1].Network, got[2].Network}
	if order[0] != "new" || order[1] != "broken" || order[2] != "old" {
		t.Errorf("order = %v, want newest first", order)
	}
	if got[0].SUID != 52 || got[0].Duration != 1500*time.Millisecond || got[0].Status != StatusOK {
		t.Errorf("run = %+v", got[0])
	}
	if !got[0].StartedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("StartedAt = %v", got[0].StartedAt)
	}

	limited, _ := s.List(ctx, 1)
	if len(limited) != 1 {
		t.Errorf("List(1) returned %d runs", len(limited))
	}
}

func TestGet(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	r := &Run{ID: "fixed", Network: "ppi", StartedAt: time.Now()}
	if err := s.Record(ctx, r); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "fixed")
	if err != nil || got.Network != "ppi" {
		t.Errorf("Get = %+v, %v", got, err)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get(missing) err = %v, want NOT_FOUND", err)
	}
}

func TestRecordReplaces(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	r := &Run{ID: "a", Network: "ppi", StartedAt: time.Now(), Status: StatusFailed}
	s.Record(ctx, r)
	r.Status = StatusOK
	s.Record(ctx, r)

	got, _ := s.List(ctx, 0)
	if len(got) != 1 || got[0].Status != StatusOK {
		t.Errorf("runs = %+v", got)
	}
}

func TestPrune(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	now := time.Now()
	s.Record(ctx, &Run{Network: "old", StartedAt: now.Add(-48 * time.Hour)})
	s.Record(ctx, &Run{Network: "fresh", StartedAt: now})

	n, err := s.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil || n != 1 {
		t.Errorf("Prune = %d, %v; want 1", n, err)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Record(context.Background(), &Run{Network: "ppi", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	runs, _ := s.List(context.Background(), 0)
	if len(runs) != 1 {
		t.Errorf("reopened store has %d runs, want 1", len(runs))
	}
}

func TestNewRunIDUnique(t *testing.T) {
	if NewRunID() == NewRunID() {
		t.Error("run IDs repeat")
	}
}
