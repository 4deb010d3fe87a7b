package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"power_relay/internal/config"
	"power_relay/internal/handlers"
	"power_relay/internal/hardware"
	"power_relay/internal/logger"
	"power_relay/internal/mqtt"
	"power_relay/internal/repository"
	"power_relay/internal/repository/db"
	"power_relay/internal/server"
	"power_relay/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the controller and HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "HTTP listen port (overrides config)")
	serveCmd.Flags().Bool("simulate", false, "use in-memory relays and a simulated power monitor")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("simulate", serveCmd.Flags().Lookup("simulate"))
	rootCmd.AddCommand(serveCmd)
}

// board bundles the drivers chosen for this run.
type board struct {
	relays  hardware.RelayDriver
	pd      hardware.PDController
	monitor hardware.PowerMonitor
	bus     service.BusVoltageSetter
}

func (b board) Close() {
	_ = b.relays.Close()
	_ = b.pd.Close()
}

func serve(cfg config.Config) error {
	// init logger
	log := logger.Get(cfg.LogLevel)

	// open DB
	conn, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("init sqlite: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	hw, err := openBoard(cfg, log)
	if err != nil {
		return err
	}
	defer hw.Close()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher mqtt.Publisher
	if cfg.MQTT.Server != "" {
		publisher, err = openPublisher(cfg.MQTT)
		if err != nil {
			// The device keeps working without telemetry.
			log.Warnw("mqtt_disabled", "err", err)
		} else {
			defer func() { _ = publisher.Close() }()
		}
	}

	signingKey := cfg.Auth.SigningKey
	if signingKey == "" {
		signingKey = uuid.NewString()
		log.Warnw("auth.signing_key not set; using a random key, tokens will not survive a restart")
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	deps := service.Deps{
		Repos:   repos,
		Relays:  hw.relays,
		PD:      hw.pd,
		Monitor: hw.monitor,
		Clock:   hardware.NewSystemClock(cfg.Location()),
		Auth: service.AuthConfig{
			SigningKey: signingKey,
			TokenTTL:   cfg.Auth.TokenTTL,
		},
		BusFollow: hw.bus,
		Version:   version,
		Log:       log,
	}
	if publisher != nil {
		deps.Publisher = publisher
	}
	services, err := service.NewService(ctx, deps)
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}
	apiHandler := handlers.NewHandler(services, log)

	// start control loop and telemetry
	go services.Controller.Run(ctx, cfg.Tick)
	if publisher != nil {
		go mqtt.RunTelemetry(ctx, services.Monitoring, publisher, cfg.MQTT.Interval, log)
	}
	go service.NewEventLogService(repos.EventRepo).RunRetention(ctx, cfg.Events.Retention, cfg.Events.PruneEvery, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)
	log.Infow("power_relay started", "port", cfg.Port, "simulate", cfg.Simulate, "version", version)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
	return nil
}

// openBoard selects GPIO drivers, or in-memory ones with a simulated power
// monitor when cfg.Simulate is set.
func openBoard(cfg config.Config, log *logger.Logger) (board, error) {
	if cfg.Simulate {
		relays := hardware.NewMemoryRelays()
		sim := hardware.NewSimulator(relays, cfg.Simulator.LoadsMA, cfg.Simulator.BusV)
		log.Infow("using simulated hardware", "loads_ma", cfg.Simulator.LoadsMA)
		return board{relays: relays, pd: &hardware.MemoryPD{}, monitor: sim, bus: sim}, nil
	}

	relays, err := hardware.NewGPIORelays(cfg.GPIO.Chip, cfg.GPIO.RelayPins)
	if err != nil {
		return board{}, fmt.Errorf("open relay lines: %w", err)
	}
	pd, err := hardware.NewGPIOPD(cfg.GPIO.Chip, cfg.GPIO.PDPins)
	if err != nil {
		_ = relays.Close()
		return board{}, fmt.Errorf("open pd lines: %w", err)
	}
	// No current sensor driver on Linux yet; readings come from the model
	// of the attached loads.
	sim := hardware.NewSimulator(relays, cfg.Simulator.LoadsMA, cfg.Simulator.BusV)
	return board{relays: relays, pd: pd, monitor: sim, bus: sim}, nil
}

func openPublisher(c config.MQTTConfig) (mqtt.Publisher, error) {
	broker, err := mqtt.ParseBrokerURL(c.Server)
	if err != nil {
		return nil, err
	}
	pub, err := mqtt.NewRealPublisher(broker, c.ClientID, c.Topic)
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !server.IsClosed(err) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
