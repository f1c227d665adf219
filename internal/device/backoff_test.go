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
	"testing"
	"time"
)

func TestReconnectPolicySequence(t *testing.T) {
	p := newReconnectPolicy(reconnectFloor, 30*time.Second)
	want := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second, //capped
		30 * time.Second, //and it stays capped
	}
	var prev time.Duration
	for i, w := range want {
		got := p.Next()
		if got != w {
			t.Errorf("attempt %d: delay %v, want %v", i+1, got, w)
		}
		if got < prev {
			t.Error("delay decreased across consecutive failures")
		}
		prev = got
	}
}

func TestReconnectPolicyReset(t *testing.T) {
	p := newReconnectPolicy(reconnectFloor, 30*time.Second)
	for i := 0; i < 10; i++ {
		if d := p.Next(); d > 30*time.Second || d < reconnectFloor {
			t.Error("delay escaped [floor, ceiling]:", d)
		}
	}
	p.Reset()
	if got := p.Next(); got != reconnectFloor {
		t.Error("reset must return the delay to the floor, got", got)
	}
}

func TestReconnectPolicyLowCeiling(t *testing.T) {
	//a ceiling below the floor is degenerate but must still hold the cap
	p := newReconnectPolicy(time.Second, time.Second)
	for i := 0; i < 4; i++ {
		if got := p.Next(); got != time.Second {
			t.Error("delay must stay pinned at the ceiling, got", got)
		}
	}
}
