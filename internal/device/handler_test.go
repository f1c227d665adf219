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
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

/*fakeTransport is a scripted LineTransport. Each exchange consumes one
entry from replies ("" meaning the device stayed silent). It also asserts
the single-ownership property: a WriteLine arriving while a previous
exchange has not drained its reply means two exchanges interleaved on the
half-duplex line.*/
type fakeTransport struct {
	t *testing.T

	mu         sync.Mutex
	open       bool
	opens      int
	failOpens  int  //fail this many Open calls before succeeding
	alwaysFail bool //never open successfully
	replies    []string
	wrote      []string
	inExchange bool
}

func newFakeTransport(t *testing.T, replies ...string) *fakeTransport {
	return &fakeTransport{t: t, replies: replies}
}

func (f *fakeTransport) String() string { return "fake transport" }

func (f *fakeTransport) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	if f.alwaysFail || f.failOpens > 0 {
		if f.failOpens > 0 {
			f.failOpens--
		}
		return ErrUnavailable
	}
	f.open = true
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	return nil
}

func (f *fakeTransport) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *fakeTransport) WriteLine(text string) error {
	f.mu.Lock()
	if f.inExchange {
		f.t.Error("WriteLine while a previous exchange is still draining")
	}
	f.inExchange = true
	f.wrote = append(f.wrote, text)
	open := f.open
	f.mu.Unlock()

	if !open {
		f.mu.Lock()
		f.inExchange = false
		f.mu.Unlock()
		return ErrUnavailable
	}
	time.Sleep(time.Millisecond) //widen the interleave window
	return nil
}

func (f *fakeTransport) ReadAvailable(settle, poll time.Duration) string {
	time.Sleep(time.Millisecond)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inExchange = false
	if !f.open || len(f.replies) == 0 {
		return ""
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply
}

func (f *fakeTransport) setAlwaysFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alwaysFail = v
}

func (f *fakeTransport) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

func (f *fakeTransport) queueReplies(r ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, r...)
}

func (f *fakeTransport) written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.wrote))
	copy(out, f.wrote)
	return out
}

//testHandler builds an unstarted handler over ft with timings shrunk so
//tests run in milliseconds.
func testHandler(ft *fakeTransport) *Handler {
	h := newWithTransport(Options{
		Endpoint:            "/dev/ttyTEST0",
		HeartbeatInterval:   10 * time.Millisecond,
		ReconnectBackoffMax: 8 * time.Millisecond,
	}, zerolog.Nop(), ft)
	h.backoff = newReconnectPolicy(time.Millisecond, 8*time.Millisecond)
	h.settle, h.poll = 0, 0
	return h
}

//waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Error("timed out waiting for", what)
	t.FailNow()
}

func TestStartEndpointMissing(t *testing.T) {
	ft := newFakeTransport(t)
	ft.alwaysFail = true
	h := testHandler(ft)

	if h.IsInitialized() {
		t.Error("handler must not report initialized before Start")
	}

	h.Start(context.Background())
	defer h.Stop()

	if !h.IsInitialized() {
		t.Error("Start must mark the handler initialized even on failure")
	}
	if h.State() != StateUnavailable {
		t.Error("state should be unavailable, got", h.State())
	}
	if h.IsConnected() {
		t.Error("transport should not be open")
	}
	if _, ok := h.LastContact(); ok {
		t.Error("no contact has happened yet")
	}

	//the reconnect loop keeps attempting in the background
	initial := ft.openCount()
	waitFor(t, "further reconnect attempts", func() bool { return ft.openCount() > initial+2 })
}

func TestStartProbeOutcomes(t *testing.T) {
	cases := []struct {
		name       string
		reply      string
		state      ConnectionState
		powerKnown bool
		powerOn    bool
	}{
		{"powered on", "power on", StateOn, true, true},
		{"powered off", "power off", StateOff, true, false},
		{"unparseable reply still counts as present", "UHD-401MV says hi", StateOn, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ft := newFakeTransport(t, tc.reply)
			h := testHandler(ft)
			h.Start(context.Background())
			defer h.Stop()

			if h.State() != tc.state {
				t.Log("reply:", tc.reply)
				t.Error("wanted state", tc.state, "got", h.State())
			}
			on, known := h.Power()
			if known != tc.powerKnown || on != tc.powerOn {
				t.Error("wanted power", tc.powerOn, tc.powerKnown, "got", on, known)
			}
			if _, ok := h.LastContact(); !ok {
				t.Error("successful probe must record contact time")
			}
			if !h.IsConnected() {
				t.Error("transport should be open")
			}
		})
	}
}

func TestStartProbeSilent(t *testing.T) {
	//open succeeds but the device never answers: transport stays open,
	//state is unavailable until the heartbeat disconnects it
	ft := newFakeTransport(t)
	h := testHandler(ft)
	h.Start(context.Background())
	defer h.Stop()

	if h.State() != StateUnavailable {
		t.Error("silent probe should leave state unavailable, got", h.State())
	}

	//the device is truly dead: reopens fail too, so once the heartbeat
	//gives up the transport stays closed and the reconnect loop retries
	ft.setAlwaysFail(true)
	waitFor(t, "heartbeat to drop the dead connection", func() bool { return !h.IsConnected() })

	opens := ft.openCount()
	waitFor(t, "reconnect loop to keep retrying", func() bool { return ft.openCount() > opens })
	if h.State() != StateUnavailable {
		t.Error("state must stay unavailable while the device is dead, got", h.State())
	}
}

func TestSendWhileClosed(t *testing.T) {
	ft := newFakeTransport(t)
	ft.alwaysFail = true
	h := testHandler(ft)
	h.Start(context.Background())
	defer h.Stop()

	wrote := len(ft.written())
	reply, err := h.Send("r power!")
	if reply != "" || !IsUnavailable(err) {
		t.Log("reply:", reply, "err:", err)
		t.Error("Send on a closed transport must return unavailable")
	}
	if len(ft.written()) != wrote {
		t.Error("Send must not touch a closed transport")
	}
	if h.State() != StateUnavailable {
		t.Error("state must stay unavailable")
	}
}

func TestSendSuccess(t *testing.T) {
	ft := newFakeTransport(t, "power on", "resolution: 3840x2160p60")
	h := testHandler(ft)
	h.Start(context.Background())
	defer h.Stop()

	reply, err := h.Send("r output res!")
	if err != nil {
		t.Error("unexpected error:", err)
	}
	if reply != "resolution: 3840x2160p60" {
		t.Error("unexpected reply:", reply)
	}

	wrote := ft.written()
	if wrote[len(wrote)-1] != "r output res!" {
		t.Error("command text should pass through untouched, wrote", wrote)
	}
}

func TestSendNoReplyDisconnects(t *testing.T) {
	ft := newFakeTransport(t, "power on") //probe answered, then silence
	h := testHandler(ft)
	h.Start(context.Background())
	defer h.Stop()

	reply, err := h.Send("s power 1!")
	if reply != "" || !IsCommunication(err) {
		t.Log("reply:", reply, "err:", err)
		t.Error("silent exchange must return a communication error")
	}
	if h.IsConnected() {
		t.Error("transport must be closed after a lost exchange")
	}
	if h.State() != StateUnavailable {
		t.Error("state must be unavailable, got", h.State())
	}

	//and the reconnect loop must bring it back once the device answers
	ft.queueReplies("power on")
	waitFor(t, "reconnect to restore the connection", func() bool { return h.State() == StateOn })
}

func TestHeartbeatTransitions(t *testing.T) {
	ft := newFakeTransport(t, "power on")
	h := testHandler(ft)
	h.Start(context.Background())
	defer h.Stop()

	if h.State() != StateOn {
		t.Error("expected on after startup probe")
		t.FailNow()
	}

	//next heartbeat sees the device report powered off
	ft.queueReplies("power off")
	waitFor(t, "heartbeat to observe power off", func() bool { return h.State() == StateOff })

	//then the device dies outright (silent and unopenable): the
	//heartbeat closes the transport and reopens keep failing
	ft.setAlwaysFail(true)
	waitFor(t, "heartbeat to disconnect", func() bool {
		return h.State() == StateUnavailable && !h.IsConnected()
	})

	//device comes back: the reconnect loop recovers without intervention
	ft.queueReplies("power on", "power on", "power on", "power on")
	ft.setAlwaysFail(false)
	waitFor(t, "reconnect to recover", func() bool { return h.State() == StateOn })
}

func TestBackoffResetAfterReconnect(t *testing.T) {
	ft := newFakeTransport(t)
	ft.failOpens = 3
	h := testHandler(ft)
	ft.queueReplies("power on")
	h.Start(context.Background())
	defer h.Stop()

	waitFor(t, "fourth attempt to succeed", func() bool { return h.State() == StateOn })
	if got := h.backoff.Next(); got != time.Millisecond {
		t.Error("backoff must reset to the floor after a successful open, next delay is", got)
	}
}

func TestExchangesNeverInterleave(t *testing.T) {
	replies := make([]string, 0, 41)
	replies = append(replies, "power on")
	for i := 0; i < 40; i++ {
		replies = append(replies, "ack")
	}
	ft := newFakeTransport(t, replies...)
	h := testHandler(ft)
	//heartbeat probes contend for the same lock as the senders
	h.opts.HeartbeatInterval = 2 * time.Millisecond

	h.Start(context.Background())
	defer h.Stop()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				h.Send("r multiview!")
			}
		}()
	}
	wg.Wait()
	//fakeTransport flags any interleaved exchange via t.Error
}

func TestStopJoinsBackgroundTasks(t *testing.T) {
	ft := newFakeTransport(t)
	ft.alwaysFail = true
	h := testHandler(ft)
	h.Start(context.Background())

	waitFor(t, "reconnect loop to spin", func() bool { return ft.openCount() > 1 })
	h.Stop()

	//no task may touch the transport after Stop returns
	settled := ft.openCount()
	time.Sleep(20 * time.Millisecond)
	if ft.openCount() != settled {
		t.Error("a background task attempted an open after Stop")
	}
	if h.IsConnected() {
		t.Error("transport must be closed after Stop")
	}
}

func TestStopWithoutStart(t *testing.T) {
	h := testHandler(newFakeTransport(t))
	h.Stop() //must not panic or hang
}

func TestStopRacingFailedSend(t *testing.T) {
	//a Send that loses the device schedules a reconnect; doing so while
	//Stop is tearing down must neither panic the WaitGroup nor leave a
	//reconnect loop running
	ft := newFakeTransport(t, "power on")
	h := testHandler(ft)
	h.Start(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Send("r power!") //no reply queued: fails, schedules reconnect
	}()
	h.Stop()
	<-done

	settled := ft.openCount()
	h.scheduleReconnect() //must be a no-op after Stop
	time.Sleep(20 * time.Millisecond)
	if ft.openCount() != settled {
		t.Error("a reconnect loop ran after Stop")
	}
	if h.IsConnected() {
		t.Error("transport must stay closed after Stop")
	}
}
