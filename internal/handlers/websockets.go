package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"power_relay/internal/logger"
	"power_relay/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12

	defaultPushEvery = time.Second
	minPushEvery     = 10 * time.Millisecond
	maxPushEvery     = 10 * time.Second
)

// Message types on the status stream.
const (
	wsTypeStatus   = "status"
	wsTypeError    = "error"
	wsTypeRefresh  = "refresh"
	wsTypeInterval = "interval"
)

type wsEnvelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// wsRequest is what a client may send: {"type":"refresh"} for an immediate
// snapshot, or {"type":"interval","interval_ms":500} to change the push rate.
type wsRequest struct {
	Type       string `json:"type"`
	IntervalMS int    `json:"interval_ms,omitempty"`
}

// The device is served on a local network without a fixed origin, so every
// origin is accepted.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// statusStream pushes status snapshots to one client. Only run writes to
// conn; the reader hands client requests over through requests.
type statusStream struct {
	conn     *websocket.Conn
	snapshot func(context.Context) (models.Status, error)
	log      *logger.Logger
	every    time.Duration
	requests chan wsRequest
}

// @Summary      Live status stream
// @Description  WebSocket. Pushes {"type":"status","data":Status} every interval (default 1s, 10ms..10s). Clients may send {"type":"refresh"} or {"type":"interval","interval_ms":N}.
// @Tags         status
// @Param        interval     query  string  false  "push period, e.g. 500ms"
// @Param        interval_ms  query  int     false  "push period in milliseconds"
// @Param        access_token query  string  false  "JWT when no Authorization header can be sent"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	every := pushInterval(c.Query("interval"), c.Query("interval_ms"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	s := &statusStream{
		conn:     conn,
		snapshot: h.services.Monitoring.GetStatus,
		log:      h.log.Named("ws"),
		every:    every,
		requests: make(chan wsRequest, 4),
	}
	s.run(c.Request.Context())
}

// pushInterval reads ?interval=2s, falling back to ?interval_ms=2000, then
// to the default. Values outside [minPushEvery, maxPushEvery] are ignored.
func pushInterval(interval, intervalMS string) time.Duration {
	if d, err := time.ParseDuration(interval); err == nil && validPushEvery(d) {
		return d
	}
	if ms, err := strconv.Atoi(intervalMS); err == nil && validPushEvery(time.Duration(ms)*time.Millisecond) {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultPushEvery
}

func validPushEvery(d time.Duration) bool {
	return d >= minPushEvery && d <= maxPushEvery
}

func (s *statusStream) run(ctx context.Context) {
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go s.read(done)

	if err := s.pushStatus(ctx); err != nil {
		s.log.Infow("ws_initial_push_failed", "err", err)
		return
	}

	push := time.NewTicker(s.every)
	ping := time.NewTicker(pingPeriod)
	defer push.Stop()
	defer ping.Stop()

	for {
		var err error
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = s.conn.WriteMessage(websocket.PingMessage, nil)
		case <-push.C:
			err = s.pushStatus(ctx)
		case req := <-s.requests:
			err = s.handle(ctx, req, push)
		}
		if err != nil {
			s.log.Infow("ws_write_failed", "err", err)
			return
		}
	}
}

func (s *statusStream) handle(ctx context.Context, req wsRequest, push *time.Ticker) error {
	switch req.Type {
	case wsTypeRefresh:
		return s.pushStatus(ctx)
	case wsTypeInterval:
		d := time.Duration(req.IntervalMS) * time.Millisecond
		if !validPushEvery(d) {
			return s.write(wsEnvelope{Type: wsTypeError, Error: "interval_ms must be between 10 and 10000"})
		}
		s.every = d
		push.Reset(d)
		return s.pushStatus(ctx)
	default:
		return s.write(wsEnvelope{Type: wsTypeError, Error: "unknown request type " + strconv.Quote(req.Type)})
	}
}

// read drains the socket so control frames are processed, forwarding client
// requests to the writer. It closes done when the connection goes away.
func (s *statusStream) read(done chan<- struct{}) {
	defer close(done)
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debugw("ws_read_closed", "err", err)
			return
		}
		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			req = wsRequest{Type: "malformed"}
		}
		select {
		case s.requests <- req:
		default:
			s.log.Warnw("ws_request_dropped", "type", req.Type)
		}
	}
}

// pushStatus writes a fresh snapshot. A failed snapshot is reported to the
// client rather than ending the stream.
func (s *statusStream) pushStatus(ctx context.Context) error {
	st, err := s.snapshot(ctx)
	if err != nil {
		s.log.Errorw("ws_get_status_failed", "err", err)
		return s.write(wsEnvelope{Type: wsTypeError, Error: errInternal})
	}
	return s.write(wsEnvelope{Type: wsTypeStatus, Data: st})
}

func (s *statusStream) write(env wsEnvelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}
