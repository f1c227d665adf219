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
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

/*LineTransport owns the physical connection to exactly one device
endpoint. Implementations carry their opening criteria from construction
so Open can be called again after any failure.

ReadAvailable implements the timing-based reply framing this device
family requires: wait a fixed settle delay for the remote side to start
answering, then collect arriving lines until the line goes idle for one
poll interval. It is not terminator- or length-based framing; a device
that pauses mid-reply longer than the poll interval will be truncated,
and late bytes will be picked up by the next exchange. That behaviour is
part of the observable protocol. ReadAvailable returns the collected
non-empty lines joined by "\n", or "" if nothing arrived.

A LineTransport is not safe for concurrent exchanges; Handler serializes
every caller.*/
type LineTransport interface {
	fmt.Stringer
	Open() error
	Close() error
	IsOpen() bool
	WriteLine(text string) error
	ReadAvailable(settle, poll time.Duration) string
}

var (
	serialEndpointRe = regexp.MustCompile(`^(?:serial|rs232)://([^:]+):([0-9]+)$`)
	tcpEndpointRe    = regexp.MustCompile(`^tcp://(.+:[0-9]+)$`)
)

/*NewLineTransport builds the transport matching an endpoint identifier:

	/dev/ttyUSB0           - serial device path, baud from configuration
	serial://<path>:<baud> - serial device path with explicit baud
	rs232://<path>:<baud>  - alias of the above
	tcp://<host>:<port>    - serial-to-ethernet adapter (ser2net style)

The transport is returned unopened; the connection manager decides when
to attempt contact.*/
func NewLineTransport(endpoint string, baudRate int, timeout time.Duration) (LineTransport, error) {
	switch {
	case tcpEndpointRe.MatchString(endpoint):
		m := tcpEndpointRe.FindStringSubmatch(endpoint)
		return NewTCPTransport(m[1], timeout), nil
	case serialEndpointRe.MatchString(endpoint):
		m := serialEndpointRe.FindStringSubmatch(endpoint)
		var baud int
		fmt.Sscanf(m[2], "%d", &baud)
		return NewSerialTransport(m[1], baud, timeout), nil
	case strings.HasPrefix(endpoint, "/"):
		return NewSerialTransport(endpoint, baudRate, timeout), nil
	}
	return nil, fmt.Errorf("no known transport for endpoint %q", endpoint)
}

/*collectLines applies the shared reply decoding: ASCII only (undecodable
bytes dropped), split on newlines, whitespace-trimmed, empty lines
discarded, remainder joined by a single "\n".*/
func collectLines(raw []byte) string {
	ascii := make([]rune, 0, len(raw))
	for _, b := range raw {
		if b <= unicode.MaxASCII {
			ascii = append(ascii, rune(b))
		}
	}
	var lines []string
	for _, line := range strings.Split(string(ascii), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

/*terminate normalizes outgoing command text to end in exactly one CRLF,
the terminator this device family expects.*/
func terminate(text string) string {
	return strings.TrimRight(text, "\r\n") + "\r\n"
}
