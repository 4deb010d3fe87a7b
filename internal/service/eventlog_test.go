package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"power_relay/internal/models"
	"power_relay/internal/repository"
)

// fakeEventRepo records what reaches repository.EventRepo.
type fakeEventRepo struct {
	events    []models.RelayEvent
	err       error
	appendErr error

	calls    int
	gotQuery repository.EventQuery
	appended []models.RelayEvent

	pruned     int64
	pruneErr   error
	pruneCalls int
	gotBefore  time.Time
}

func (f *fakeEventRepo) List(_ context.Context, q repository.EventQuery) ([]models.RelayEvent, error) {
	f.calls++
	f.gotQuery = q
	return f.events, f.err
}

func (f *fakeEventRepo) Append(_ context.Context, e models.RelayEvent) error {
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) Prune(_ context.Context, before time.Time) (int64, error) {
	f.pruneCalls++
	f.gotBefore = before
	return f.pruned, f.pruneErr
}

func TestBuildQuery(t *testing.T) {
	t.Parallel()

	plus2 := time.FixedZone("UTC+2", 2*3600)

	tests := []struct {
		name    string
		in      LogFilter
		want    repository.EventQuery
		wantErr error
	}{
		{name: "empty filter", in: LogFilter{}, want: repository.EventQuery{}},
		{
			name: "bounds move to UTC",
			in: LogFilter{
				From: time.Date(2025, time.September, 10, 10, 0, 0, 0, plus2),
				To:   time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC),
			},
			want: repository.EventQuery{
				From: time.Date(2025, time.September, 10, 8, 0, 0, 0, time.UTC),
				To:   time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC),
			},
		},
		{name: "type is trimmed and upper-cased", in: LogFilter{Type: " protection "}, want: repository.EventQuery{Type: "PROTECTION"}},
		{name: "limit passes through", in: LogFilter{Limit: 50}, want: repository.EventQuery{Limit: 50}},
		{name: "negative limit means no limit", in: LogFilter{Limit: -3}, want: repository.EventQuery{}},
		{
			name: "from after to",
			in: LogFilter{
				From: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
			},
			wantErr: errInvalidTimeRange,
		},
		{name: "unknown type", in: LogFilter{Type: "start"}, wantErr: ErrInvalidEventType},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := buildQuery(tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if err != nil {
				return
			}
			if !got.From.Equal(tc.want.From) || !got.To.Equal(tc.want.To) {
				t.Fatalf("bounds = [%v, %v], want [%v, %v]", got.From, got.To, tc.want.From, tc.want.To)
			}
			if !got.From.IsZero() && got.From.Location() != time.UTC {
				t.Fatalf("from not in UTC: %v", got.From.Location())
			}
			if got.Type != tc.want.Type || got.Limit != tc.want.Limit {
				t.Fatalf("type/limit = %q/%d, want %q/%d", got.Type, got.Limit, tc.want.Type, tc.want.Limit)
			}
		})
	}
}

func TestEventLogService_ListForwardsQuery(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{events: []models.RelayEvent{{EventID: "1"}}}
	svc := NewEventLogService(repo)

	out, err := svc.List(context.Background(), LogFilter{
		From:  time.Date(2025, time.October, 1, 10, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)),
		Type:  "error",
		Limit: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].EventID != "1" {
		t.Fatalf("unexpected events: %+v", out)
	}
	want := time.Date(2025, time.October, 1, 5, 0, 0, 0, time.UTC)
	if repo.calls != 1 || !repo.gotQuery.From.Equal(want) || repo.gotQuery.Type != models.EventError || repo.gotQuery.Limit != 2 {
		t.Fatalf("repo got %+v after %d calls", repo.gotQuery, repo.calls)
	}
}

func TestEventLogService_ListRejectsBeforeRepo(t *testing.T) {
	t.Parallel()

	for name, f := range map[string]LogFilter{
		"range": {From: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), To: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		"type":  {Type: "boot"},
	} {
		repo := &fakeEventRepo{}
		_, err := NewEventLogService(repo).List(context.Background(), f)
		if !IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
		if repo.calls != 0 {
			t.Fatalf("%s: repo called %d times", name, repo.calls)
		}
	}
}

func TestEventLogService_ListRepoError(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{err: errors.New("db down")}
	_, err := NewEventLogService(repo).List(context.Background(), LogFilter{})
	if !errors.Is(err, repo.err) {
		t.Fatalf("expected repo error, got %v", err)
	}
	if IsValidation(err) {
		t.Fatal("repo failure must not look like a validation error")
	}
}

func TestEventLogService_Prune(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)
	repo := &fakeEventRepo{pruned: 4}
	svc := NewEventLogService(repo)
	svc.now = func() time.Time { return now }

	n, err := svc.Prune(context.Background(), 30*24*time.Hour)
	if err != nil || n != 4 {
		t.Fatalf("Prune = %d, %v", n, err)
	}
	if want := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC); !repo.gotBefore.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", repo.gotBefore, want)
	}

	if n, _ := svc.Prune(context.Background(), 0); n != 0 || repo.pruneCalls != 1 {
		t.Fatalf("zero keep must not prune: n=%d calls=%d", n, repo.pruneCalls)
	}
}

func TestEventLogService_RunRetentionStopsWithContext(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{pruneErr: errors.New("locked")}
	svc := NewEventLogService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		svc.RunRetention(ctx, time.Hour, time.Hour, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunRetention did not return after cancel")
	}
	if repo.pruneCalls != 1 {
		t.Fatalf("expected one prune at start, got %d", repo.pruneCalls)
	}
}

func TestEventLogService_RunRetentionDisabled(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{}
	NewEventLogService(repo).RunRetention(context.Background(), 0, time.Minute, nil)
	if repo.pruneCalls != 0 {
		t.Fatalf("disabled retention pruned %d times", repo.pruneCalls)
	}
}

type recordingPublisher struct {
	events []models.RelayEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(e models.RelayEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func TestEventRecorder_RecordAppendsAndPublishes(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{}
	pub := &recordingPublisher{}
	rec := NewEventRecorder(repo, pub, nil)
	at := time.Date(2025, time.March, 3, 8, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))
	rec.now = func() time.Time { return at }

	rec.Record(context.Background(), models.EventTimer, "Timer switched relay 1 ON", map[string]any{"channel": 0})

	if len(repo.appended) != 1 {
		t.Fatalf("expected 1 appended event, got %d", len(repo.appended))
	}
	e := repo.appended[0]
	if e.EventID == "" {
		t.Fatal("expected generated event id")
	}
	if e.Type != models.EventTimer || e.Description != "Timer switched relay 1 ON" {
		t.Fatalf("unexpected event: %+v", e)
	}
	if e.OccurredAt.Location() != time.UTC || !e.OccurredAt.Equal(at) {
		t.Fatalf("OccurredAt = %v, want %v in UTC", e.OccurredAt, at)
	}
	if len(pub.events) != 1 || pub.events[0].EventID != e.EventID {
		t.Fatalf("published %+v, want the appended event", pub.events)
	}
}

func TestEventRecorder_FailuresDoNotStopPublishing(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{appendErr: errors.New("disk full")}
	pub := &recordingPublisher{err: errors.New("broker down")}
	rec := NewEventRecorder(repo, pub, nil)

	rec.Record(context.Background(), models.EventRelay, "Relay 2 switched OFF", nil)

	if len(pub.events) != 1 {
		t.Fatalf("expected publish despite append failure, got %d", len(pub.events))
	}
	if pub.events[0].Metadata != nil {
		t.Fatalf("expected nil metadata, got %#v", pub.events[0].Metadata)
	}
}

func TestEventRecorder_NilPublisher(t *testing.T) {
	t.Parallel()

	repo := &fakeEventRepo{}
	NewEventRecorder(repo, nil, nil).Record(context.Background(), models.EventVoltage, "Output voltage set to 9V", nil)

	if len(repo.appended) != 1 {
		t.Fatalf("expected 1 appended event, got %d", len(repo.appended))
	}
}
