package mqtt

import (
	"context"
	"time"

	"power_relay/internal/logger"
	"power_relay/internal/models"
)

// ReadingsSource supplies the latest power sample.
type ReadingsSource interface {
	Readings() [models.ChannelCount]models.PowerReading
}

// RunTelemetry publishes src's readings every interval until ctx is canceled.
// Publish failures are logged and retried on the next interval.
func RunTelemetry(ctx context.Context, src ReadingsSource, pub Publisher, interval time.Duration, log *logger.Logger) {
	log = log.Named("telemetry")
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := pub.PublishPower(src.Readings()); err != nil {
				log.Warnw("telemetry_publish_failed", "error", err)
			}
		}
	}
}
