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

	"github.com/openav/mvbridge/internal/commands"
)

type audioResponse struct {
	Source string `json:"source,omitempty"`
	Volume *int   `json:"volume,omitempty"`
	Muted  *bool  `json:"muted,omitempty"`
}

/*audioState composes the audio picture from three device reads. A reply
the parser cannot make sense of drops that field rather than failing the
whole request; only a device error on the first read is terminal.*/
func (s *Server) audioState(w http.ResponseWriter) (audioResponse, bool) {
	var resp audioResponse

	reply, err := s.send(commands.GetAudio)
	if err != nil {
		s.writeDeviceError(w, err)
		return resp, false
	}
	if src, ok := commands.ParseAudioSource(reply); ok {
		resp.Source = src.String()
	}

	if reply, err := s.send(commands.GetAudioVolume); err == nil {
		if vol, ok := commands.ParseVolume(reply); ok {
			resp.Volume = &vol
		}
	}
	if reply, err := s.send(commands.GetAudioMute); err == nil {
		if muted, ok := commands.ParseMute(reply); ok {
			resp.Muted = &muted
		}
	}
	return resp, true
}

func (s *Server) handleGetAudio(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	if resp, ok := s.audioState(w); ok {
		s.writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleSetAudioSource(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	var req struct {
		Source string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "body must be {\"source\": string}")
		return
	}
	src, err := commands.AudioSourceFromName(req.Source)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	if _, err := s.send(commands.SetAudioSource, int(src)); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, audioResponse{Source: src.String()})
}

func (s *Server) handleSetVolume(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	var req struct {
		Volume *int `json:"volume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Volume == nil || *req.Volume < 0 || *req.Volume > 100 {
		s.writeBadRequest(w, "body must be {\"volume\": 0-100}")
		return
	}

	if _, err := s.send(commands.SetAudioVolume, *req.Volume); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, audioResponse{Volume: req.Volume})
}

/*handleVolumeStep nudges the volume one step in the direction cmd
encodes and answers with the freshly read audio state.*/
func (s *Server) handleVolumeStep(cmd commands.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAvailable(w) {
			return
		}
		if _, err := s.send(cmd); err != nil {
			s.writeDeviceError(w, err)
			return
		}
		if resp, ok := s.audioState(w); ok {
			s.writeJSON(w, http.StatusOK, resp)
		}
	}
}

func (s *Server) handleSetMute(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	var req struct {
		Muted *bool `json:"muted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Muted == nil {
		s.writeBadRequest(w, "body must be {\"muted\": bool}")
		return
	}

	arg := 0
	if *req.Muted {
		arg = 1
	}
	if _, err := s.send(commands.SetAudioMute, arg); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, audioResponse{Muted: req.Muted})
}

/*handleToggleMute reads the current mute state, flips it, and answers
with the freshly read audio state. An unparseable mute reply is treated
as unmuted, so the toggle mutes.*/
func (s *Server) handleToggleMute(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	reply, err := s.send(commands.GetAudioMute)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	muted, _ := commands.ParseMute(reply)

	arg := 1
	if muted {
		arg = 0
	}
	if _, err := s.send(commands.SetAudioMute, arg); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	if resp, ok := s.audioState(w); ok {
		s.writeJSON(w, http.StatusOK, resp)
	}
}
