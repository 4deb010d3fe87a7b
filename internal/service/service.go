package service

import (
	"context"
	"time"

	"power_relay/internal/hardware"
	"power_relay/internal/logger"
	"power_relay/internal/models"
	"power_relay/internal/repository"
)

// Authorization registers operators and issues/verifies bearer tokens.
type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Relays exposes manual relay control.
type Relays interface {
	States() [models.ChannelCount]bool
	Set(ctx context.Context, channel int, on bool) error
}

// Timers manages scheduled relay actions.
type Timers interface {
	Add(ctx context.Context, t models.Timer) (uint32, error)
	Update(ctx context.Context, id uint32, p models.TimerPatch) error
	Remove(ctx context.Context, id uint32) error
	Get(id uint32) (models.Timer, bool)
	List() []models.Timer
}

// Protection manages per-channel current limits.
type Protection interface {
	SetLimit(ctx context.Context, channel int, mA uint16) error
	SetLimits(ctx context.Context, limits [models.ChannelCount]uint16) error
	Limits() [models.ChannelCount]uint16
	Status() []models.ChannelProtection
}

// Monitoring exposes read-only power readings and status snapshots.
type Monitoring interface {
	Readings() [models.ChannelCount]models.PowerReading
	GetStatus(ctx context.Context) (models.Status, error)
}

// Voltage selects the PD trigger output level.
type Voltage interface {
	Get() int
	Set(ctx context.Context, volts int) error
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.RelayEvent, error)
}

// Controller runs the background loop that ticks the watchdog and scheduler.
// Stop via context cancellation in main() for graceful shutdown.
type Controller interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Relays
	Timers
	Protection
	Monitoring
	Voltage
	EventLog
	Controller
	Authorization
}

// Deps carries what NewService wires together.
type Deps struct {
	Repos     *repository.Repository
	Relays    hardware.RelayDriver
	PD        hardware.PDController
	Monitor   hardware.PowerMonitor
	Clock     hardware.Clock
	Publisher EventPublisher   // optional
	BusFollow BusVoltageSetter // optional
	Auth      AuthConfig
	Version   string
	Log       *logger.Logger
}

type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// NewService wires repositories and hardware into concrete services and
// restores the persisted timers, limits and voltage.
func NewService(ctx context.Context, d Deps) (*Service, error) {
	events := NewEventRecorder(d.Repos.EventRepo, d.Publisher, d.Log)

	watchdog := NewWatchdog(d.Repos.Protection, d.Log)
	if err := watchdog.Load(ctx); err != nil {
		return nil, err
	}
	scheduler := NewScheduler(d.Repos.Timers, d.Log)
	if err := scheduler.Load(ctx); err != nil {
		return nil, err
	}
	voltage := NewVoltageService(d.PD, d.Repos.Voltage, events, d.BusFollow, d.Log)
	if err := voltage.Load(ctx); err != nil {
		return nil, err
	}

	relays := NewRelayService(d.Relays, watchdog, events, d.Log)
	monitoring := NewMonitoringService(relays, watchdog, voltage, d.Version)

	return &Service{
		Relays:        relays,
		Timers:        scheduler,
		Protection:    watchdog,
		Monitoring:    monitoring,
		Voltage:       voltage,
		EventLog:      NewEventLogService(d.Repos.EventRepo),
		Controller:    NewControllerService(d.Clock, d.Monitor, relays, watchdog, scheduler, monitoring, d.Log),
		Authorization: NewAuthService(d.Repos.Auth, d.Auth.SigningKey, d.Auth.TokenTTL),
	}, nil
}
