package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-formkit/pkg/action"
	"github.com/goliatone/go-formkit/pkg/rules"
	"github.com/goliatone/go-formkit/pkg/sequence"
	"github.com/goliatone/go-formkit/pkg/serialfield"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "formkit.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_EnabledLanguages(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	langs, err := s.EnabledLanguages(ctx)
	if err != nil || langs != nil {
		t.Fatalf("expected no settings, got %v %v", langs, err)
	}
	if err := s.SetEnabledLanguages(ctx, []string{"en-US", "zh-CN"}); err != nil {
		t.Fatalf("SetEnabledLanguages: %v", err)
	}
	if err := s.SetEnabledLanguages(ctx, []string{"zh-CN"}); err != nil {
		t.Fatalf("SetEnabledLanguages: %v", err)
	}
	langs, err = s.EnabledLanguages(ctx)
	if err != nil {
		t.Fatalf("EnabledLanguages: %v", err)
	}
	if diff := cmp.Diff([]string{"zh-CN"}, langs); diff != "" {
		t.Fatalf("unexpected languages (-want +got):\n%s", diff)
	}
}

func TestStore_Users(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	u, err := s.User(ctx, "1")
	if err != nil || u != nil {
		t.Fatalf("expected missing user, got %#v %v", u, err)
	}
	if err := s.PutUser(ctx, action.User{ID: "1", AppLang: "zh-CN"}); err != nil {
		t.Fatalf("PutUser: %v", err)
	}
	u, err = s.User(ctx, "1")
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if diff := cmp.Diff(&action.User{ID: "1", AppLang: "zh-CN"}, u); diff != "" {
		t.Fatalf("unexpected user (-want +got):\n%s", diff)
	}
	if err := s.PutUser(ctx, action.User{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestStore_AdvanceWithGenerator(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 31, 23, 30, 0, 0, time.UTC))
	gen := sequence.New(s, sequence.WithClock(clock), sequence.WithLocation(time.UTC))
	patterns := serialfield.Patterns{
		{Type: rules.KindString, Options: map[string]any{"value": "PO"}},
		{Type: rules.KindInteger, Options: map[string]any{"digits": 3, "start": 0, "cycle": "0 0 1 * *"}},
	}

	var got []string
	for i := 0; i < 2; i++ {
		v, err := gen.Next(ctx, "orders.no", patterns)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, v)
	}
	clock.Advance(time.Hour)
	v, err := gen.Next(ctx, "orders.no", patterns)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	got = append(got, v)
	if diff := cmp.Diff([]string{"PO000", "PO001", "PO000"}, got); diff != "" {
		t.Fatalf("unexpected values (-want +got):\n%s", diff)
	}

	counter, err := s.Counter(ctx, sequence.CounterKey("orders.no", 1))
	if err != nil {
		t.Fatalf("Counter: %v", err)
	}
	if !counter.IssuedAt.Equal(clock.Now()) {
		t.Fatalf("unexpected issued at %v", counter.IssuedAt)
	}
	if _, err := s.Counter(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_AdvanceRollsBackOnError(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	boom := errors.New("boom")
	_, err := s.Advance(ctx, "k", func(sequence.Counter, bool) (sequence.Counter, error) {
		return sequence.Counter{}, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := s.Counter(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected nothing stored, got %v", err)
	}
}

func TestOpen_MemoryDatabase(t *testing.T) {
	s, err := Open(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = s.Close() }()
	if err := s.SetEnabledLanguages(context.Background(), []string{"en-US"}); err != nil {
		t.Fatalf("SetEnabledLanguages: %v", err)
	}
}
