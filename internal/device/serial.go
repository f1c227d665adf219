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
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

var _ LineTransport = &SerialTransport{}

/*SerialTransport is a LineTransport over a local serial device node in
8N1 mode. The device node may disappear entirely (USB adapter unplugged,
device powered down), so Open checks for its existence before touching
the serial layer.*/
type SerialTransport struct {
	dev     string
	mode    *serial.Mode
	timeout time.Duration

	//openPort and stat are indirections for tests without hardware
	openPort func(string, *serial.Mode) (serial.Port, error)
	stat     func(string) error

	mu   sync.Mutex
	port serial.Port
}

/*NewSerialTransport returns an unopened transport for the device node at
path. timeout bounds each write and the total drain window of a read.*/
func NewSerialTransport(path string, baudRate int, timeout time.Duration) *SerialTransport {
	return &SerialTransport{
		dev: path,
		mode: &serial.Mode{
			BaudRate: baudRate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		},
		timeout:  timeout,
		openPort: serial.Open,
		stat: func(p string) error {
			_, err := os.Stat(p)
			return err
		},
	}
}

/*String conforms to the fmt.Stringer interface*/
func (st *SerialTransport) String() string {
	return fmt.Sprintf("serial connection to %v:%d 8N1", st.dev, st.mode.BaudRate)
}

/*Open closes any previously open port (ignoring errors) and attempts the
connect process again. Stale bytes in either direction belong to a
previous session, so both buffers are cleared on success.*/
func (st *SerialTransport) Open() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.port != nil {
		st.port.Close()
		st.port = nil
	}
	if err := st.stat(st.dev); err != nil {
		return errors.Wrapf(ErrUnavailable, "serial device %q not present", st.dev)
	}
	port, err := st.openPort(st.dev, st.mode)
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "unable to open serial device %q: %v", st.dev, err)
	}
	port.ResetInputBuffer()
	port.ResetOutputBuffer()
	st.port = port
	return nil
}

/*Close is idempotent and releases the handle.*/
func (st *SerialTransport) Close() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.port == nil {
		return nil
	}
	err := st.port.Close()
	st.port = nil
	return err
}

/*IsOpen reports whether the port handle is currently held.*/
func (st *SerialTransport) IsOpen() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.port != nil
}

/*WriteLine terminates, writes, and flushes one command line.*/
func (st *SerialTransport) WriteLine(text string) error {
	st.mu.Lock()
	port := st.port
	st.mu.Unlock()
	if port == nil {
		return errors.Wrap(ErrUnavailable, "write on closed serial port")
	}
	raw := []byte(terminate(text))
	n, err := port.Write(raw)
	if err != nil {
		return errors.Wrapf(ErrCommunication, "serial write: %v", err)
	}
	if n != len(raw) {
		return errors.Wrapf(ErrCommunication, "short serial write: %d of %d bytes", n, len(raw))
	}
	if err := port.Drain(); err != nil {
		return errors.Wrapf(ErrCommunication, "serial drain: %v", err)
	}
	return nil
}

/*ReadAvailable performs the settle-then-poll-until-idle drain described
on LineTransport. The poll interval doubles as the idle threshold: a read
that yields no bytes within one interval ends the reply. The configured
per-operation timeout caps the whole drain so a chattering device cannot
hold the exchange lock forever.*/
func (st *SerialTransport) ReadAvailable(settle, poll time.Duration) string {
	st.mu.Lock()
	port := st.port
	st.mu.Unlock()
	if port == nil {
		return ""
	}

	time.Sleep(settle)

	deadline := time.Now().Add(st.timeout)
	if err := port.SetReadTimeout(poll); err != nil {
		return ""
	}

	rcvd := bytes.NewBuffer(nil)
	chunk := make([]byte, 256)
	for time.Now().Before(deadline) {
		n, err := port.Read(chunk)
		if n > 0 {
			rcvd.Write(chunk[:n])
		}
		if err != nil || n == 0 { //idle for a full poll interval, or broken port
			break
		}
	}
	return collectLines(rcvd.Bytes())
}
