/*Package server exposes the multiviewer over HTTP: health probes for the
orchestrator and a small JSON API mapping one endpoint to one or a few
device commands. It talks to the device exclusively through the Device
interface; everything device-shaped lives in internal/device and
internal/commands.*/
package server

/*
MIT License

Copyright (c) 2024-2026 The mvbridge Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/openav/mvbridge/internal/commands"
	"github.com/openav/mvbridge/internal/device"
)

/*Device is the slice of the device handler this layer consumes.*/
type Device interface {
	Send(command string) (string, error)
	State() device.ConnectionState
	IsConnected() bool
	IsInitialized() bool
	LastContact() (time.Time, bool)
	Power() (on, known bool)
	Endpoint() string
}

/*Config fixes the server's listen address and reported version.*/
type Config struct {
	Listen  string
	Version string
}

/*Server serves the JSON API over one device.*/
type Server struct {
	cfg     Config
	dev     Device
	log     zerolog.Logger
	http    *http.Server
	startup time.Time
}

/*New builds a Server around dev. Call Start to begin listening.*/
func New(cfg Config, dev Device, log zerolog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		dev:     dev,
		log:     log,
		startup: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /healthz/live", s.handleLive)
	mux.HandleFunc("GET /healthz/ready", s.handleReady)

	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/power", s.handleSetPower)
	mux.HandleFunc("POST /api/reboot", s.handleReboot)
	mux.HandleFunc("POST /api/reset", s.handleFactoryReset)

	mux.HandleFunc("GET /api/multiview", s.handleGetMultiview)
	mux.HandleFunc("POST /api/multiview", s.handleSetMultiview)
	mux.HandleFunc("GET /api/windows", s.handleGetWindows)
	mux.HandleFunc("GET /api/windows/{window}", s.handleGetWindow)
	mux.HandleFunc("POST /api/windows/{window}", s.handleSetWindow)
	mux.HandleFunc("GET /api/input", s.handleGetInput)
	mux.HandleFunc("POST /api/input", s.handleSetInput)
	mux.HandleFunc("GET /api/pip", s.handleGetPIP)
	mux.HandleFunc("POST /api/pip", s.handleSetPIP)
	mux.HandleFunc("GET /api/pbp", s.handleGetLayout(pbpCommands))
	mux.HandleFunc("POST /api/pbp", s.handleSetLayout(pbpCommands))
	mux.HandleFunc("GET /api/triple", s.handleGetLayout(tripleCommands))
	mux.HandleFunc("POST /api/triple", s.handleSetLayout(tripleCommands))
	mux.HandleFunc("GET /api/quad", s.handleGetLayout(quadCommands))
	mux.HandleFunc("POST /api/quad", s.handleSetLayout(quadCommands))

	mux.HandleFunc("GET /api/audio", s.handleGetAudio)
	mux.HandleFunc("POST /api/audio/source", s.handleSetAudioSource)
	mux.HandleFunc("POST /api/audio/volume", s.handleSetVolume)
	mux.HandleFunc("POST /api/audio/volume/up", s.handleVolumeStep(commands.AudioVolumeUp))
	mux.HandleFunc("POST /api/audio/volume/down", s.handleVolumeStep(commands.AudioVolumeDn))
	mux.HandleFunc("POST /api/audio/mute", s.handleSetMute)
	mux.HandleFunc("POST /api/audio/mute/toggle", s.handleToggleMute)

	mux.HandleFunc("GET /api/output", s.handleGetOutput)
	mux.HandleFunc("GET /api/output/resolutions", s.handleResolutions)
	mux.HandleFunc("POST /api/output/resolution", s.handleSetResolution)
	mux.HandleFunc("POST /api/output/hdcp", s.handleSetHDCP)

	s.http = &http.Server{
		Addr:         cfg.Listen,
		Handler:      s.loggingMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

/*Start blocks serving HTTP until Shutdown or a listener error.*/
func (s *Server) Start() error {
	s.log.Info().Str("listen", s.cfg.Listen).Msg("http server listening")
	return s.http.ListenAndServe()
}

/*Shutdown drains in-flight requests and stops the listener.*/
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

/*Handler exposes the routing stack for tests.*/
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

/*errorBody mirrors the API's error envelope; RetryAfter hints callers
when a device-side failure is worth retrying.*/
type errorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeBadRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_request", Message: msg})
}

/*writeDeviceError maps the device error taxonomy onto the wire: both
kinds are retryable 503s, they differ only in the reported reason.*/
func (s *Server) writeDeviceError(w http.ResponseWriter, err error) {
	body := errorBody{Error: "device_communication_error", Message: "exchange with the device failed", RetryAfter: 5}
	if device.IsUnavailable(err) {
		body.Error = "device_unavailable"
		body.Message = "serial device not connected"
	}
	s.writeJSON(w, http.StatusServiceUnavailable, body)
}

/*requireAvailable rejects state-changing calls while the device is
unreachable, saving the caller a doomed exchange.*/
func (s *Server) requireAvailable(w http.ResponseWriter) bool {
	if s.dev.State() == device.StateUnavailable {
		s.writeDeviceError(w, device.ErrUnavailable)
		return false
	}
	return true
}

/*send renders and performs one exchange. Argument validation failures
come back as ErrTextFormat/ErrTextArgs and are the handler's bug or the
caller's bad input; device failures surface via the taxonomy.*/
func (s *Server) send(cmd commands.Command, args ...interface{}) (string, error) {
	text, err := cmd.Text(args...)
	if err != nil {
		return "", err
	}
	return s.dev.Send(text)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"name":    "mvbridge",
		"version": s.cfg.Version,
	})
}

type healthResponse struct {
	Status          string     `json:"status"`
	SerialConnected bool       `json:"serial_connected"`
	DeviceState     string     `json:"device_state"`
	LastContact     *time.Time `json:"last_contact"`
	UptimeSeconds   float64    `json:"uptime_seconds"`
}

func (s *Server) health(status string) healthResponse {
	h := healthResponse{
		Status:          status,
		SerialConnected: s.dev.IsConnected(),
		DeviceState:     s.dev.State().String(),
		UptimeSeconds:   time.Since(s.startup).Seconds(),
	}
	if t, ok := s.dev.LastContact(); ok {
		h.LastContact = &t
	}
	return h
}

/*handleLive answers the liveness probe: the process is up, nothing more.*/
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.health("ok"))
}

/*handleReady answers the readiness probe. The service is ready once the
startup connection attempt has completed; a disconnected device degrades
but does not fail readiness, because the API handles that state
gracefully.*/
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.dev.IsInitialized() {
		s.writeJSON(w, http.StatusServiceUnavailable, s.health("error"))
		return
	}
	status := "ok"
	if !s.dev.IsConnected() {
		status = "degraded"
	}
	s.writeJSON(w, http.StatusOK, s.health(status))
}
