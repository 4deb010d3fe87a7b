package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"power_relay/internal/service"
)

func TestVoltage_Get(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Voltage: &mockVoltage{volts: 9}})

	w := doJSON(r, http.MethodGet, "/api/v1/voltage", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"voltage":9}` {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestVoltage_Set(t *testing.T) {
	v := &mockVoltage{volts: 5}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Voltage: v})

	w := doJSON(r, http.MethodPost, "/api/v1/voltage", `{"voltage":20}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Voltage int `json:"voltage"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if v.lastSet != 20 || out.Voltage != 20 {
		t.Fatalf("lastSet=%d response=%d", v.lastSet, out.Voltage)
	}
}

func TestVoltage_SetRejectsUnsupportedLevel(t *testing.T) {
	v := &mockVoltage{volts: 5, setErr: fmt.Errorf("%w: 7", service.ErrInvalidVoltage)}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Voltage: v})

	w := doJSON(r, http.MethodPost, "/api/v1/voltage", `{"voltage":7}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if v.volts != 5 {
		t.Fatalf("voltage changed to %d", v.volts)
	}
}

func TestVoltage_SetMissingBody(t *testing.T) {
	v := &mockVoltage{volts: 5}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Voltage: v})

	if w := doJSON(r, http.MethodPost, "/api/v1/voltage", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if v.lastSet != 0 {
		t.Fatal("service must not be called")
	}
}
