/*Package device owns communication with the multiviewer over its RS-232
line. It is deliberately ignorant of command semantics: the request layer
hands it fully formatted command text and gets back whatever the device
answered. What this package does know about is everything that can go
wrong on the wire.

The central type is Handler, which combines three responsibilities that
share one resource:

  - a connection state machine (unavailable / off / on) driven by the
    outcome of opens and probes,
  - a command channel that serializes every exchange on the half-duplex
    line under one mutex, and
  - background liveness: a periodic heartbeat probe plus a reconnect
    loop with exponential backoff.

All transport access, including the heartbeat and reconnect probes, goes
through the same mutex. The line is half duplex with timing-based reply
framing, so two interleaved exchanges would corrupt each other.

Error Handling

Nothing in this package is fatal. Every transport failure is absorbed
into one of two caller-visible kinds, ErrUnavailable and
ErrCommunication, plus the matching state transition and a scheduled
reconnect. Raw transport errors never cross the Handler boundary.
*/
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

