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
	stderrors "errors"

	"github.com/pkg/errors"
)

var (
	/*ErrUnavailable is returned when the endpoint cannot be opened or was
	never opened. It is not retried synchronously; only the background
	reconnect loop attempts recovery.*/
	ErrUnavailable = errors.New("device unavailable")

	/*ErrCommunication is returned when the transport was open but an
	exchange produced no reply within the polling window. Individual
	write/read timeouts surface as this kind too. It triggers a disconnect
	and a scheduled reconnect.*/
	ErrCommunication = errors.New("device communication error")
)

/*IsUnavailable reports whether err is, or wraps, ErrUnavailable.*/
func IsUnavailable(err error) bool {
	return stderrors.Is(err, ErrUnavailable)
}

/*IsCommunication reports whether err is, or wraps, ErrCommunication.*/
func IsCommunication(err error) bool {
	return stderrors.Is(err, ErrCommunication)
}
