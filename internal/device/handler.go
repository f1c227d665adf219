package device

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
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	//settleDelay is the fixed pause after writing a command, before the
	//first read, so the device has time to start answering.
	settleDelay = 100 * time.Millisecond

	//pollInterval is both the poll period while draining a reply and the
	//idle threshold that ends it.
	pollInterval = 50 * time.Millisecond

	//probeCommand queries power state; its reply doubles as the liveness
	//signal for the startup, reconnect, and heartbeat probes.
	probeCommand = "r power!"
)

/*Options fixes a Handler's communication parameters for its lifetime.*/
type Options struct {
	//Endpoint identifies the device: a device node path, serial://path:baud,
	//rs232://path:baud, or tcp://host:port (see NewLineTransport).
	Endpoint string

	//BaudRate applies to plain device-path endpoints. Default 115200.
	BaudRate int

	//Timeout bounds each transport open/write and the total drain window
	//of a read. Default 2s.
	Timeout time.Duration

	//HeartbeatInterval is the period of the liveness probe. Default 30s.
	HeartbeatInterval time.Duration

	//ReconnectBackoffMax caps the delay between reconnect attempts.
	//Default 30s.
	ReconnectBackoffMax time.Duration
}

func (o *Options) applyDefaults() {
	if o.BaudRate == 0 {
		o.BaudRate = 115200
	}
	if o.Timeout == 0 {
		o.Timeout = 2 * time.Second
	}
	if o.HeartbeatInterval == 0 {
		o.HeartbeatInterval = 30 * time.Second
	}
	if o.ReconnectBackoffMax == 0 {
		o.ReconnectBackoffMax = 30 * time.Second
	}
}

/*Handler owns the connection to one multiviewer: the transport handle,
the connection state machine, and the background heartbeat and reconnect
tasks. Every raw write/read on the transport, whether caller-issued or
probe-issued, runs under the same exchange mutex; the line is half duplex
and two in-flight exchanges would corrupt each other.*/
type Handler struct {
	opts      Options
	log       zerolog.Logger
	transport LineTransport

	//mu is the exchange lock. Held for the full write + settle + drain of
	//every exchange, and while opening or closing the transport.
	mu sync.Mutex

	//stateMu guards the observable snapshot below so callers never block
	//behind an in-flight exchange.
	stateMu     sync.RWMutex
	state       ConnectionState
	powerOn     bool
	powerKnown  bool
	lastContact time.Time
	initialized bool

	backoff      *reconnectPolicy
	settle, poll time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	reconnectMu  sync.Mutex
	reconnecting bool
	stopping     bool
}

/*New returns an unstarted Handler for the endpoint named in opts.*/
func New(opts Options, log zerolog.Logger) (*Handler, error) {
	opts.applyDefaults()
	transport, err := NewLineTransport(opts.Endpoint, opts.BaudRate, opts.Timeout)
	if err != nil {
		return nil, err
	}
	return newWithTransport(opts, log, transport), nil
}

/*newWithTransport wires an externally built transport; tests use it to
substitute a scripted fake.*/
func newWithTransport(opts Options, log zerolog.Logger, transport LineTransport) *Handler {
	opts.applyDefaults()
	return &Handler{
		opts:      opts,
		log:       log,
		transport: transport,
		state:     StateUnavailable,
		backoff:   newReconnectPolicy(reconnectFloor, opts.ReconnectBackoffMax),
		settle:    settleDelay,
		poll:      pollInterval,
	}
}

/*Start makes one immediate connection attempt, marks the handler
initialized whatever the outcome, and launches the heartbeat task. If the
attempt failed, the reconnect loop is scheduled right away rather than
waiting a heartbeat period.*/
func (h *Handler) Start(ctx context.Context) {
	h.ctx, h.cancel = context.WithCancel(ctx)
	h.log.Info().
		Str("endpoint", h.opts.Endpoint).
		Str("transport", h.transport.String()).
		Msg("device handler starting")

	h.mu.Lock()
	h.tryConnectLocked()
	h.mu.Unlock()

	h.stateMu.Lock()
	h.initialized = true
	h.stateMu.Unlock()

	if !h.transport.IsOpen() {
		h.scheduleReconnect()
	}

	h.wg.Add(1)
	go h.heartbeatLoop()
	h.log.Info().Stringer("state", h.State()).Msg("device handler started")
}

/*Stop cancels the heartbeat and any in-flight reconnect task, waits for
both to finish, then closes the transport. Safe to call once after Start;
a Handler is not restartable.*/
func (h *Handler) Stop() {
	//taking reconnectMu orders this against any in-flight
	//scheduleReconnect: its wg.Add either completed before this point or
	//never happens
	h.reconnectMu.Lock()
	h.stopping = true
	h.reconnectMu.Unlock()

	if h.cancel != nil {
		h.cancel()
	}
	h.wg.Wait()

	h.mu.Lock()
	h.disconnectLocked()
	h.mu.Unlock()
	h.log.Info().Msg("device handler stopped")
}

/*Send performs one command/response exchange. The exchange lock is held
for the full round trip, so concurrent callers are strictly serialized in
arrival order. A closed transport yields ErrUnavailable without touching
the line; an exchange that produces no reply is treated as a lost
connection, closes the transport, schedules a reconnect, and yields
ErrCommunication.*/
func (h *Handler) Send(command string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.transport.IsOpen() {
		return "", ErrUnavailable
	}

	h.log.Debug().Str("command", strings.TrimSpace(command)).Msg("sending command")
	reply, ok := h.exchangeLocked(command)
	if !ok {
		h.disconnectLocked()
		h.scheduleReconnect()
		return "", ErrCommunication
	}

	h.log.Debug().Str("response", reply).Msg("received response")
	h.recordContact()
	return reply, nil
}

/*State returns the current connection state.*/
func (h *Handler) State() ConnectionState {
	h.stateMu.RLock()
	defer h.stateMu.RUnlock()
	return h.state
}

/*IsConnected reports whether the transport is open. Note this is a
weaker statement than State()==StateOn: a freshly opened transport whose
probe went unanswered is connected yet unavailable until the next
heartbeat gives up on it.*/
func (h *Handler) IsConnected() bool {
	return h.transport.IsOpen()
}

/*IsInitialized reports whether the startup connection attempt has
completed, successfully or not. Callers use it to tell "not yet
attempted" apart from "attempted and unavailable".*/
func (h *Handler) IsInitialized() bool {
	h.stateMu.RLock()
	defer h.stateMu.RUnlock()
	return h.initialized
}

/*LastContact returns the time of the most recent successful exchange or
probe. ok is false until the first successful contact.*/
func (h *Handler) LastContact() (t time.Time, ok bool) {
	h.stateMu.RLock()
	defer h.stateMu.RUnlock()
	return h.lastContact, !h.lastContact.IsZero()
}

/*Power returns the cached power state from the latest probe. known is
false when the device has not answered a parseable power reply since the
last (re)connect.*/
func (h *Handler) Power() (on, known bool) {
	h.stateMu.RLock()
	defer h.stateMu.RUnlock()
	return h.powerOn, h.powerKnown
}

/*Endpoint returns the configured endpoint identifier.*/
func (h *Handler) Endpoint() string {
	return h.opts.Endpoint
}

/*exchangeLocked is the raw write-then-drain round trip. Callers hold
h.mu. ok is false when the write failed or nothing came back.*/
func (h *Handler) exchangeLocked(command string) (reply string, ok bool) {
	if !h.transport.IsOpen() {
		return "", false
	}
	if err := h.transport.WriteLine(command); err != nil {
		h.log.Warn().Err(err).Msg("write failed")
		return "", false
	}
	if reply = h.transport.ReadAvailable(h.settle, h.poll); reply == "" {
		return "", false
	}
	return reply, true
}

/*probeLocked issues the power-state probe and applies its outcome to the
state machine. Callers hold h.mu. A reply containing a power indicator
sets ON or OFF; any other reply still proves the device is present and
sets ON with the power unknown; silence sets UNAVAILABLE.*/
func (h *Handler) probeLocked() bool {
	reply, ok := h.exchangeLocked(probeCommand)
	if !ok {
		h.setState(StateUnavailable)
		h.clearPower()
		return false
	}

	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "power on"):
		h.setState(StateOn)
		h.setPower(true)
	case strings.Contains(lower, "power off"):
		h.setState(StateOff)
		h.setPower(false)
	default:
		h.setState(StateOn)
		h.clearPower()
	}
	h.recordContact()
	return true
}

/*tryConnectLocked attempts to open the transport and run the initial
probe. Callers hold h.mu. It reports whether the transport ended up open;
the probe outcome lands in the state machine either way.*/
func (h *Handler) tryConnectLocked() bool {
	if err := h.transport.Open(); err != nil {
		h.log.Debug().Err(err).Msg("endpoint not reachable")
		h.setState(StateUnavailable)
		return false
	}
	h.log.Info().Str("transport", h.transport.String()).Msg("connected")

	h.probeLocked()
	h.backoff.Reset()
	return true
}

/*disconnectLocked closes the transport and clears everything cached
about the device. Callers hold h.mu.*/
func (h *Handler) disconnectLocked() {
	if err := h.transport.Close(); err != nil {
		h.log.Warn().Err(err).Msg("error closing transport")
	}
	h.setState(StateUnavailable)
	h.clearPower()
	h.log.Info().Msg("disconnected")
}

/*heartbeatLoop probes the device every heartbeat period for the lifetime
of the handler. A failed tick is logged and the loop carries on.*/
func (h *Handler) heartbeatLoop() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.opts.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
		}
		h.heartbeat()
	}
}

/*heartbeat runs one liveness tick: probe when the transport is open,
otherwise make sure the reconnect loop is running.*/
func (h *Handler) heartbeat() {
	if !h.transport.IsOpen() {
		h.scheduleReconnect()
		return
	}

	h.mu.Lock()
	alive := h.probeLocked()
	if !alive {
		h.log.Warn().Msg("heartbeat got no reply, disconnecting")
		h.disconnectLocked()
	}
	h.mu.Unlock()

	if !alive {
		h.scheduleReconnect()
	}
}

/*scheduleReconnect launches the reconnect loop unless one is already
running or the handler is stopping. A schedule request while a loop is
active is a no-op.*/
func (h *Handler) scheduleReconnect() {
	h.reconnectMu.Lock()
	defer h.reconnectMu.Unlock()
	if h.reconnecting || h.stopping || h.ctx == nil || h.ctx.Err() != nil {
		return
	}
	h.reconnecting = true
	h.wg.Add(1)
	go h.reconnectLoop()
}

/*reconnectLoop retries the connection with exponential backoff until the
transport is open or the handler stops.*/
func (h *Handler) reconnectLoop() {
	defer h.wg.Done()
	defer func() {
		h.reconnectMu.Lock()
		h.reconnecting = false
		h.reconnectMu.Unlock()
	}()

	for h.ctx.Err() == nil {
		if h.transport.IsOpen() {
			return
		}

		h.mu.Lock()
		connected := h.tryConnectLocked()
		h.mu.Unlock()
		if connected {
			h.log.Info().Str("endpoint", h.opts.Endpoint).Msg("reconnected")
			return
		}

		delay := h.backoff.Next()
		h.log.Info().
			Str("endpoint", h.opts.Endpoint).
			Dur("retry_in", delay).
			Msg("reconnect attempt failed")
		select {
		case <-h.ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (h *Handler) setState(s ConnectionState) {
	h.stateMu.Lock()
	h.state = s
	h.stateMu.Unlock()
}

func (h *Handler) setPower(on bool) {
	h.stateMu.Lock()
	h.powerOn, h.powerKnown = on, true
	h.stateMu.Unlock()
}

func (h *Handler) clearPower() {
	h.stateMu.Lock()
	h.powerOn, h.powerKnown = false, false
	h.stateMu.Unlock()
}

func (h *Handler) recordContact() {
	h.stateMu.Lock()
	h.lastContact = time.Now()
	h.stateMu.Unlock()
}
