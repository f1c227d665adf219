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
	"bytes"
	"flag"
	"fmt"
	"testing"
	"time"

	"go.bug.st/serial"
)

/*tstport is a scripted serial.Port. Reads hand out the canned chunks one
per call, then behave like a timed-out blocking read (n=0, nil error).*/
type tstport struct {
	chunks  [][]byte
	wrote   bytes.Buffer
	drained bool
	closed  bool
}

func (tp *tstport) SetMode(*serial.Mode) error            { return nil }
func (tp *tstport) SetReadTimeout(t time.Duration) error  { return nil }
func (tp *tstport) Drain() error                          { tp.drained = true; return nil }
func (tp *tstport) ResetInputBuffer() error               { return nil }
func (tp *tstport) ResetOutputBuffer() error              { return nil }
func (tp *tstport) SetDTR(dtr bool) error                 { return nil }
func (tp *tstport) SetRTS(rts bool) error                 { return nil }
func (tp *tstport) Break(time.Duration) error             { return nil }
func (tp *tstport) Close() error                          { tp.closed = true; return nil }
func (tp *tstport) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	return &serial.ModemStatusBits{}, nil
}

func (tp *tstport) Read(p []byte) (int, error) {
	if len(tp.chunks) == 0 {
		return 0, nil //read timeout: idle line
	}
	n := copy(p, tp.chunks[0])
	tp.chunks[0] = tp.chunks[0][n:]
	if len(tp.chunks[0]) == 0 {
		tp.chunks = tp.chunks[1:]
	}
	return n, nil
}

func (tp *tstport) Write(p []byte) (int, error) {
	return tp.wrote.Write(p)
}

var _ = serial.Port(&tstport{})

//fakeOpen wires a SerialTransport to a tstport without hardware.
func fakeOpen(st *SerialTransport, tp *tstport) {
	st.stat = func(string) error { return nil }
	st.openPort = func(string, *serial.Mode) (serial.Port, error) { return tp, nil }
}

func TestSerialOpenMissingDevice(t *testing.T) {
	st := NewSerialTransport("/dev/tty-that-does-not-exist-42", 115200, time.Second)
	err := st.Open()
	if err == nil {
		t.Error("opening a missing device node must fail")
		t.FailNow()
	}
	if !IsUnavailable(err) {
		t.Error("a missing device node is an unavailable error, got", err)
	}
	if st.IsOpen() {
		t.Error("transport must not report open after a failed Open")
	}
}

func TestSerialCloseIdempotent(t *testing.T) {
	st := NewSerialTransport("/dev/ttyTEST0", 115200, time.Second)
	fakeOpen(st, &tstport{})
	if err := st.Close(); err != nil {
		t.Error("closing a never-opened transport must be a no-op:", err)
	}
	if err := st.Open(); err != nil {
		t.Error("fake open failed:", err)
	}
	if err := st.Close(); err != nil {
		t.Error("first close:", err)
	}
	if err := st.Close(); err != nil {
		t.Error("second close must also succeed:", err)
	}
}

func TestSerialWriteLine(t *testing.T) {
	st := NewSerialTransport("/dev/ttyTEST0", 115200, time.Second)

	if err := st.WriteLine("r power!"); !IsUnavailable(err) {
		t.Error("write on a closed port must be unavailable, got", err)
	}

	tp := &tstport{}
	fakeOpen(st, tp)
	if err := st.Open(); err != nil {
		t.Error("fake open failed:", err)
		t.FailNow()
	}
	if err := st.WriteLine("r power!"); err != nil {
		t.Error("write failed:", err)
	}
	if got := tp.wrote.String(); got != "r power!\r\n" {
		t.Errorf("wrote %q, want CRLF-terminated command", got)
	}
	if !tp.drained {
		t.Error("WriteLine must flush the port")
	}
}

func TestSerialReadAvailable(t *testing.T) {
	st := NewSerialTransport("/dev/ttyTEST0", 115200, time.Second)
	if got := st.ReadAvailable(0, 0); got != "" {
		t.Error("read on a closed port must produce nothing, got", got)
	}

	tp := &tstport{chunks: [][]byte{
		[]byte("power on\r\n"),
		[]byte("resolution: 384"),
		[]byte("0x2160p60\r\n"),
	}}
	fakeOpen(st, tp)
	if err := st.Open(); err != nil {
		t.Error("fake open failed:", err)
		t.FailNow()
	}

	got := st.ReadAvailable(0, time.Millisecond)
	want := "power on\nresolution: 3840x2160p60"
	if got != want {
		t.Errorf("ReadAvailable = %q, want %q", got, want)
	}

	//a second drain finds the line idle
	if got := st.ReadAvailable(0, time.Millisecond); got != "" {
		t.Error("idle line must produce nothing, got", got)
	}
}

var loopbackPort = flag.String("serial-port", "", "serial device to use for loopback tests")

func TestSerialLoopback(t *testing.T) {
	if *loopbackPort == "" {
		t.Skip("no serial port defined for loopback tests - skipping")
	}
	st := NewSerialTransport(*loopbackPort, 115200, 2*time.Second)
	if err := st.Open(); err != nil {
		t.Error("open failed:", err)
		t.FailNow()
	}
	defer st.Close()

	msg := "loopback check"
	if err := st.WriteLine(msg); err != nil {
		t.Error("write failed:", err)
	}
	if got := st.ReadAvailable(settleDelay, pollInterval); got != msg {
		t.Errorf("loopback read %q, want %q", got, msg)
	}
	_ = fmt.Sprint(st) //Stringer sanity
}
