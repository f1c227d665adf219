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
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var _ LineTransport = &TCPTransport{}

/*TCPTransport is a LineTransport over a TCP socket, for multiviewers
reached through a serial-to-ethernet adapter. The adapter forwards raw
line bytes both ways, so the framing behaviour is identical to the local
serial case; only open/close semantics differ (dial instead of stat).*/
type TCPTransport struct {
	address string
	timeout time.Duration

	mu   sync.Mutex
	conn net.Conn
}

/*NewTCPTransport returns an unopened transport that will dial address
(host:port). timeout bounds the dial, each write, and the total drain
window of a read.*/
func NewTCPTransport(address string, timeout time.Duration) *TCPTransport {
	return &TCPTransport{address: address, timeout: timeout}
}

/*String conforms to the fmt.Stringer interface*/
func (nt *TCPTransport) String() string {
	return fmt.Sprintf("tcp connection to %v", nt.address)
}

/*Open forcibly closes any previous socket (ignoring errors) and dials
again.*/
func (nt *TCPTransport) Open() error {
	nt.mu.Lock()
	defer nt.mu.Unlock()
	if nt.conn != nil {
		nt.conn.Close()
		nt.conn = nil
	}
	conn, err := net.DialTimeout("tcp", nt.address, nt.timeout)
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "unable to dial %q: %v", nt.address, err)
	}
	nt.conn = conn
	return nil
}

/*Close is idempotent and releases the socket.*/
func (nt *TCPTransport) Close() error {
	nt.mu.Lock()
	defer nt.mu.Unlock()
	if nt.conn == nil {
		return nil
	}
	err := nt.conn.Close()
	nt.conn = nil
	return err
}

/*IsOpen reports whether the socket is currently held.*/
func (nt *TCPTransport) IsOpen() bool {
	nt.mu.Lock()
	defer nt.mu.Unlock()
	return nt.conn != nil
}

/*WriteLine terminates and writes one command line under the write
deadline.*/
func (nt *TCPTransport) WriteLine(text string) error {
	nt.mu.Lock()
	conn := nt.conn
	nt.mu.Unlock()
	if conn == nil {
		return errors.Wrap(ErrUnavailable, "write on closed socket")
	}
	raw := []byte(terminate(text))
	conn.SetWriteDeadline(time.Now().Add(nt.timeout))
	n, err := conn.Write(raw)
	if err != nil {
		return errors.Wrapf(ErrCommunication, "socket write: %v", err)
	}
	if n != len(raw) {
		return errors.Wrapf(ErrCommunication, "short socket write: %d of %d bytes", n, len(raw))
	}
	return nil
}

/*ReadAvailable mirrors SerialTransport.ReadAvailable using read deadlines
as the poll mechanism.*/
func (nt *TCPTransport) ReadAvailable(settle, poll time.Duration) string {
	nt.mu.Lock()
	conn := nt.conn
	nt.mu.Unlock()
	if conn == nil {
		return ""
	}

	time.Sleep(settle)

	deadline := time.Now().Add(nt.timeout)
	rcvd := bytes.NewBuffer(nil)
	chunk := make([]byte, 256)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(poll))
		n, err := conn.Read(chunk)
		if n > 0 {
			rcvd.Write(chunk[:n])
		}
		if err != nil { //deadline hit (idle) or broken socket
			break
		}
	}
	return collectLines(rcvd.Bytes())
}
