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

/*ConnectionState describes the relationship between this process and the
device on the other end of the line. It only ever changes through Handler
transitions.*/
type ConnectionState int

const (
	//StateUnavailable means the endpoint is missing, could not be opened,
	//or communication with it has been lost.
	StateUnavailable ConnectionState = iota

	//StateOff means the endpoint is reachable and the device answered a
	//probe reporting that it is powered off.
	StateOff

	//StateOn means the endpoint is reachable and the device answered a
	//probe. The power state may still be unknown if the reply could not
	//be parsed: a device that talks back is treated as present.
	StateOn
)

//String implements the Stringer interface
func (s ConnectionState) String() string {
	switch s {
	case StateOff:
		return "off"
	case StateOn:
		return "on"
	default:
		return "unavailable"
	}
}
