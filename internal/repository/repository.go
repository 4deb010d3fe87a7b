package repository

import (
	"context"
	"database/sql"
	"time"

	"power_relay/internal/models"
)

// Collection names in the JSON document store.
const (
	CollectionTimers     = "timers"
	CollectionProtection = "protection"
	CollectionVoltage    = "voltage"
)

// Authorization stores operator accounts. Usernames are unique ignoring case.
type Authorization interface {
	// Create returns ErrUserExists when the username is taken.
	Create(ctx context.Context, username, hash string) (int, error)
	// GetByUsername returns (nil, nil) when no such user exists.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Store persists one JSON document per collection name.
type Store interface {
	// Save replaces the named collection with the JSON encoding of v.
	Save(ctx context.Context, collection string, v any) error
	// Load decodes the named collection into v. found is false when the
	// collection was never saved; v is untouched in that case.
	Load(ctx context.Context, collection string, v any) (found bool, err error)
}

type TimerRepo interface {
	SaveTimers(ctx context.Context, timers []models.Timer) error
	LoadTimers(ctx context.Context) ([]models.Timer, error)
}

type ProtectionRepo interface {
	SaveLimits(ctx context.Context, limits models.ProtectionLimits) error
	LoadLimits(ctx context.Context) (models.ProtectionLimits, error)
}

type VoltageRepo interface {
	SaveVoltage(ctx context.Context, cfg models.VoltageConfig) error
	LoadVoltage(ctx context.Context) (cfg models.VoltageConfig, found bool, err error)
}

// EventQuery selects log entries. Zero bounds are open; Limit 0 means all.
type EventQuery struct {
	From  time.Time
	To    time.Time
	Type  string
	Limit int // newest Limit events, still returned oldest first
}

type EventRepo interface {
	Append(ctx context.Context, e models.RelayEvent) error
	List(ctx context.Context, q EventQuery) ([]models.RelayEvent, error)
	// Prune deletes events older than before and reports how many went.
	Prune(ctx context.Context, before time.Time) (int64, error)
}

type Repository struct {
	Timers     TimerRepo
	Protection ProtectionRepo
	Voltage    VoltageRepo
	EventRepo  EventRepo
	Auth       Authorization
}

func NewRepository(db *sql.DB) *Repository {
	store := NewStoreSQLite(db)
	settings := NewSettings(store)
	return &Repository{
		Timers:     settings,
		Protection: settings,
		Voltage:    settings,
		EventRepo:  NewEventSQLite(db),
		Auth:       NewUserRepository(db),
	}
}
