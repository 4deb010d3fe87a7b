package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"power_relay/internal/models"
	"power_relay/internal/service"
)

func TestProtection_GetLimits(t *testing.T) {
	prot := &mockProtection{limits: [models.ChannelCount]uint16{500, 0, 1200}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Protection: prot})

	w := doJSON(r, http.MethodGet, "/api/v1/protection", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out models.ProtectionLimits
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out != (models.ProtectionLimits{Channel1: 500, Channel2: 0, Channel3: 1200}) {
		t.Fatalf("unexpected limits: %+v", out)
	}
}

func TestProtection_SetMergesOmittedChannels(t *testing.T) {
	prot := &mockProtection{limits: [models.ChannelCount]uint16{500, 600, 700}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Protection: prot})

	w := doJSON(r, http.MethodPost, "/api/v1/protection", `{"channel2":0,"channel3":1500}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	want := [models.ChannelCount]uint16{500, 0, 1500}
	if prot.setCalls != 1 || prot.lastLimits != want {
		t.Fatalf("SetLimits calls=%d limits=%v, want %v", prot.setCalls, prot.lastLimits, want)
	}
	var out models.ProtectionLimits
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Array() != want {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestProtection_SetErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"negative", `{"channel1":-1}`, nil, http.StatusBadRequest},
		{"too_large", `{"channel1":70000}`, nil, http.StatusBadRequest},
		{"not_saved", `{"channel1":100}`, fmt.Errorf("save limits: %w: %w", service.ErrPersistence, errors.New("io")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prot := &mockProtection{setErr: tc.err}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Protection: prot})
			w := doJSON(r, http.MethodPost, "/api/v1/protection", tc.body)
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestProtection_Status(t *testing.T) {
	prot := &mockProtection{status: []models.ChannelProtection{
		{Channel: 0, Current: 120, Limit: 500},
		{Channel: 1, Current: 900, Limit: 800, Triggered: true},
		{Channel: 2},
	}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{parseID: 1}, Protection: prot})

	w := doJSON(r, http.MethodGet, "/api/v1/protection/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Channels []models.ChannelProtection `json:"channels"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if len(out.Channels) != 3 || !out.Channels[1].Triggered || out.Channels[1].Current != 900 {
		t.Fatalf("unexpected status: %+v", out)
	}
}
