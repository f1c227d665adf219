package server

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
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/openav/mvbridge/internal/commands"
	"github.com/openav/mvbridge/internal/device"
)

type statusResponse struct {
	Connection  string     `json:"connection"`
	Endpoint    string     `json:"endpoint"`
	LastContact *time.Time `json:"last_contact"`
	Power       *bool      `json:"power,omitempty"`
	DeviceType  string     `json:"device_type,omitempty"`
	Firmware    string     `json:"firmware,omitempty"`
}

/*handleStatus reports the connection snapshot and, when the device is
reachable, enriches it with live power/type/firmware reads. Individual
read failures degrade the answer rather than failing it.*/
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Connection: s.dev.State().String(),
		Endpoint:   s.dev.Endpoint(),
	}
	if t, ok := s.dev.LastContact(); ok {
		resp.LastContact = &t
	}

	if s.dev.State() != device.StateUnavailable {
		if reply, err := s.send(commands.GetPower); err == nil {
			if on, ok := commands.ParsePower(reply); ok {
				resp.Power = &on
			}
		}
		if reply, err := s.send(commands.GetType); err == nil {
			resp.DeviceType = strings.TrimSpace(reply)
		}
		if reply, err := s.send(commands.GetFWVersion); err == nil {
			resp.Firmware = strings.TrimSpace(reply)
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type powerRequest struct {
	Power bool `json:"power"`
}

type powerResponse struct {
	Power    bool   `json:"power"`
	Response string `json:"response,omitempty"`
}

func (s *Server) handleSetPower(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	var req powerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "body must be {\"power\": bool}")
		return
	}

	arg := 0
	if req.Power {
		arg = 1
	}
	reply, err := s.send(commands.SetPower, arg)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, powerResponse{Power: req.Power, Response: reply})
}

func (s *Server) handleReboot(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	//the device drops off the line while rebooting; a silent reply here
	//is expected and the reconnect loop picks it back up
	reply, err := s.send(commands.Reboot)
	if err != nil && !device.IsCommunication(err) {
		s.writeDeviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{
		"status":   "rebooting",
		"response": reply,
	})
}

/*handleFactoryReset erases all device settings. Unlike reboot, the
device is expected to acknowledge before reinitializing, so a silent
reply is a failure.*/
func (s *Server) handleFactoryReset(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	reply, err := s.send(commands.FactoryReset)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":   "reset",
		"response": reply,
	})
}
