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
	"time"

	"github.com/cenkalti/backoff/v4"
)

//reconnectFloor is the fixed initial reconnect delay.
const reconnectFloor = 1 * time.Second

/*reconnectPolicy computes the delay before each reconnect attempt:
start at the floor, double on every failure, never exceed the ceiling.
No jitter: the sequence of delays for a dead device is part of the
observable behaviour (1s, 2s, 4s, ...). Reset returns the delay to the
floor and must be called on every successful connection, whichever path
achieved it.*/
type reconnectPolicy struct {
	exp *backoff.ExponentialBackOff
}

func newReconnectPolicy(floor, ceiling time.Duration) *reconnectPolicy {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = floor
	exp.RandomizationFactor = 0
	exp.Multiplier = 2
	exp.MaxInterval = ceiling
	exp.MaxElapsedTime = 0 //retry forever; giving up is not an option here
	exp.Reset()
	return &reconnectPolicy{exp: exp}
}

/*Next returns the delay to sleep before the upcoming attempt and
advances the policy.*/
func (p *reconnectPolicy) Next() time.Duration {
	return p.exp.NextBackOff()
}

/*Reset returns the delay to the floor.*/
func (p *reconnectPolicy) Reset() {
	p.exp.Reset()
}
