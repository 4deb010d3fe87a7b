package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"power_relay/internal/models"
	"power_relay/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockRelays struct {
	states   [models.ChannelCount]bool
	setErr   error
	setCalls []struct {
		channel int
		on      bool
	}
}

func (m *mockRelays) States() [models.ChannelCount]bool { return m.states }
func (m *mockRelays) Set(ctx context.Context, channel int, on bool) error {
	m.setCalls = append(m.setCalls, struct {
		channel int
		on      bool
	}{channel, on})
	if m.setErr != nil {
		return m.setErr
	}
	m.states[channel] = on
	return nil
}

type mockTimers struct {
	timers    []models.Timer
	addID     uint32
	addErr    error
	updateErr error
	removeErr error

	lastAdded   models.Timer
	lastPatch   models.TimerPatch
	lastPatchID uint32
	lastRemoved uint32
}

func (m *mockTimers) Add(ctx context.Context, t models.Timer) (uint32, error) {
	m.lastAdded = t
	if m.addErr != nil && m.addID == 0 {
		return 0, m.addErr
	}
	t.ID = m.addID
	m.timers = append(m.timers, t)
	return m.addID, m.addErr
}
func (m *mockTimers) Update(ctx context.Context, id uint32, p models.TimerPatch) error {
	m.lastPatchID = id
	m.lastPatch = p
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.timers {
		if m.timers[i].ID == id {
			m.timers[i] = p.Apply(m.timers[i])
		}
	}
	return nil
}
func (m *mockTimers) Remove(ctx context.Context, id uint32) error {
	m.lastRemoved = id
	return m.removeErr
}
func (m *mockTimers) Get(id uint32) (models.Timer, bool) {
	for _, t := range m.timers {
		if t.ID == id {
			return t, true
		}
	}
	return models.Timer{}, false
}
func (m *mockTimers) List() []models.Timer { return m.timers }

type mockProtection struct {
	limits     [models.ChannelCount]uint16
	status     []models.ChannelProtection
	setErr     error
	setCalls   int
	lastLimits [models.ChannelCount]uint16
}

func (m *mockProtection) SetLimit(ctx context.Context, channel int, mA uint16) error {
	m.limits[channel] = mA
	return m.setErr
}
func (m *mockProtection) SetLimits(ctx context.Context, l [models.ChannelCount]uint16) error {
	m.setCalls++
	m.lastLimits = l
	if m.setErr != nil {
		return m.setErr
	}
	m.limits = l
	return nil
}
func (m *mockProtection) Limits() [models.ChannelCount]uint16 { return m.limits }
func (m *mockProtection) Status() []models.ChannelProtection  { return m.status }

type mockMonitoring struct {
	status   models.Status
	readings [models.ChannelCount]models.PowerReading
	err      error
}

func (m *mockMonitoring) Readings() [models.ChannelCount]models.PowerReading { return m.readings }
func (m *mockMonitoring) GetStatus(ctx context.Context) (models.Status, error) {
	return m.status, m.err
}

type mockVoltage struct {
	volts   int
	setErr  error
	lastSet int
}

func (m *mockVoltage) Get() int { return m.volts }
func (m *mockVoltage) Set(ctx context.Context, v int) error {
	m.lastSet = v
	if m.setErr != nil {
		return m.setErr
	}
	m.volts = v
	return nil
}

type mockEventLog struct {
	resp      []models.RelayEvent
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastLimit int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.RelayEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastLimit = f.Limit
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

// doJSON sends an authorized request with an optional JSON body.
func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header = authHeader("valid")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
