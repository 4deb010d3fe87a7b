// Package mqtt publishes power telemetry and relay events to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"power_relay/internal/models"
)

// DefaultPort is used when the broker URL has no port.
const DefaultPort = 1883

// DefaultTLSPort is used for mqtts:// URLs without a port.
const DefaultTLSPort = 8883

// Publisher sends telemetry and events to the broker.
type Publisher interface {
	// PublishPower sends one power sample to the telemetry topic.
	PublishPower(readings [models.ChannelCount]models.PowerReading) error

	// PublishEvent sends a relay, timer, protection or voltage event.
	PublishEvent(e models.RelayEvent) error

	// Close disconnects from the broker.
	Close() error
}

// EventsTopic returns the topic events are published to for a telemetry topic.
func EventsTopic(topic string) string {
	return topic + "/events"
}

// ChannelPayload is one channel's sample.
type ChannelPayload struct {
	Current float64 `json:"current"`
	Voltage float64 `json:"voltage"`
	Power   float64 `json:"power"`
}

// FormatPowerPayload creates {"channel1":{...},"channel2":{...},"channel3":{...}}.
func FormatPowerPayload(readings [models.ChannelCount]models.PowerReading) ([]byte, error) {
	payload := make(map[string]ChannelPayload, models.ChannelCount)
	for i, r := range readings {
		payload["channel"+strconv.Itoa(i+1)] = ChannelPayload{
			Current: r.Current,
			Voltage: r.Voltage,
			Power:   r.Power,
		}
	}
	return json.Marshal(payload)
}

// EventPayload is the wire form of a RelayEvent.
type EventPayload struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Metadata    any    `json:"metadata,omitempty"`
}

// FormatEventPayload creates the JSON payload for an event.
func FormatEventPayload(e models.RelayEvent) ([]byte, error) {
	return json.Marshal(EventPayload{
		ID:          e.EventID,
		Timestamp:   e.OccurredAt.UTC().Format(time.RFC3339),
		Type:        e.Type,
		Description: e.Description,
		Metadata:    e.Metadata,
	})
}

// Broker is a parsed broker address with optional credentials.
type Broker struct {
	URL      string // paho form, e.g. tcp://host:1883
	Username string
	Password string
}

// ParseBrokerURL accepts mqtt://[user[:pass]@]host[:port] (and mqtts://, tcp://).
func ParseBrokerURL(raw string) (Broker, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Broker{}, fmt.Errorf("parse broker url: %w", err)
	}

	var scheme string
	port := DefaultPort
	switch u.Scheme {
	case "mqtt", "tcp":
		scheme = "tcp"
	case "mqtts", "ssl", "tls":
		scheme = "ssl"
		port = DefaultTLSPort
	default:
		return Broker{}, fmt.Errorf("unsupported broker scheme %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return Broker{}, fmt.Errorf("broker url %q has no host", raw)
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 || n > 65535 {
			return Broker{}, fmt.Errorf("invalid broker port %q", p)
		}
		port = n
	}

	b := Broker{URL: scheme + "://" + net.JoinHostPort(host, strconv.Itoa(port))}
	if u.User != nil {
		b.Username = u.User.Username()
		b.Password, _ = u.User.Password()
	}
	return b, nil
}
