package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"power_relay/internal/logger"
	"power_relay/internal/models"
	"power_relay/internal/repository"

	"github.com/google/uuid"
)

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	ErrInvalidEventType = errors.New("invalid event type")
)

var eventTypes = map[string]bool{
	models.EventRelay:      true,
	models.EventTimer:      true,
	models.EventProtection: true,
	models.EventVoltage:    true,
	models.EventError:      true,
}

// EventLogService answers queries over the relay event log.
type EventLogService struct {
	eventRepo repository.EventRepo
	now       func() time.Time
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo, now: time.Now}
}

func utcOrZero(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func canonicalEventType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// buildQuery turns a caller filter into a repository query with UTC bounds
// and a known, upper-case event type.
func buildQuery(f LogFilter) (repository.EventQuery, error) {
	q := repository.EventQuery{
		From:  utcOrZero(f.From),
		To:    utcOrZero(f.To),
		Type:  canonicalEventType(f.Type),
		Limit: f.Limit,
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return repository.EventQuery{}, errInvalidTimeRange
	}
	if q.Type != "" && !eventTypes[q.Type] {
		return repository.EventQuery{}, fmt.Errorf("%w: %q", ErrInvalidEventType, f.Type)
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	return q, nil
}

// List returns matching events oldest first. A positive Limit keeps the
// newest Limit events.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.RelayEvent, error) {
	q, err := buildQuery(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, q)
}

// Prune drops events older than keep.
func (s *EventLogService) Prune(ctx context.Context, keep time.Duration) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	return s.eventRepo.Prune(ctx, s.now().Add(-keep).UTC())
}

// RunRetention prunes the log once at start and then every interval until
// ctx is done. A non-positive keep disables it.
func (s *EventLogService) RunRetention(ctx context.Context, keep, every time.Duration, log *logger.Logger) {
	if keep <= 0 || every <= 0 {
		return
	}
	log = log.Named("retention")

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		n, err := s.Prune(ctx, keep)
		switch {
		case err != nil:
			log.Errorw("event_prune_failed", "error", err)
		case n > 0:
			log.Infow("events_pruned", "count", n, "keep", keep)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// EventPublisher forwards events off the device, e.g. to an MQTT topic.
type EventPublisher interface {
	PublishEvent(e models.RelayEvent) error
}

// EventRecorder appends events to the log and hands them to the publisher.
// Failures are logged; they never fail the operation being recorded.
type EventRecorder struct {
	repo repository.EventRepo
	pub  EventPublisher
	log  *logger.Logger
	now  func() time.Time
}

// NewEventRecorder returns a recorder; pub may be nil.
func NewEventRecorder(repo repository.EventRepo, pub EventPublisher, log *logger.Logger) *EventRecorder {
	return &EventRecorder{repo: repo, pub: pub, log: log.Named("events"), now: time.Now}
}

func (r *EventRecorder) Record(ctx context.Context, typ, description string, meta map[string]any) {
	e := models.RelayEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  r.now().UTC(),
		Type:        typ,
		Description: description,
	}
	if meta != nil {
		e.Metadata = meta
	}

	if err := r.repo.Append(ctx, e); err != nil {
		r.log.Errorw("event_append_failed", "type", typ, "error", err)
	}
	if r.pub != nil {
		if err := r.pub.PublishEvent(e); err != nil {
			r.log.Warnw("event_publish_failed", "type", typ, "error", err)
		}
	}
}
