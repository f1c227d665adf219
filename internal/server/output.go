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

type outputResponse struct {
	Resolution string `json:"resolution,omitempty"`
	HDCP       string `json:"hdcp,omitempty"`
	VideoMode  string `json:"video_mode,omitempty"`
}

/*handleGetOutput composes the output picture from three device reads;
fields the device did not answer are simply omitted.*/
func (s *Server) handleGetOutput(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	var resp outputResponse

	reply, err := s.send(commands.GetOutputRes)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	if res, ok := commands.ParseResolution(reply); ok {
		resp.Resolution = res
	}

	if reply, err := s.send(commands.GetOutputHDCP); err == nil {
		if mode, ok := commands.ParseHDCP(reply); ok {
			resp.HDCP = mode.String()
		}
	}
	if reply, err := s.send(commands.GetOutputITC); err == nil {
		if mode, ok := commands.ParseVideoMode(reply); ok {
			resp.VideoMode = mode
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

/*handleResolutions lists the device's selectable output resolutions.
It never touches the device; the table is fixed firmware vocabulary.*/
func (s *Server) handleResolutions(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Code int    `json:"code"`
		Name string `json:"name"`
	}
	list := make([]entry, 0, len(commands.ResolutionNames))
	for code := 1; code <= len(commands.ResolutionNames); code++ {
		if name, ok := commands.ResolutionNames[code]; ok {
			list = append(list, entry{Code: code, Name: name})
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"resolutions": list})
}

func (s *Server) handleSetResolution(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	var req struct {
		Resolution int `json:"resolution"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "body must be {\"resolution\": code}")
		return
	}
	name, ok := commands.ResolutionNames[req.Resolution]
	if !ok {
		s.writeBadRequest(w, "unknown resolution code")
		return
	}

	if _, err := s.send(commands.SetOutputRes, req.Resolution); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, outputResponse{Resolution: name})
}

func (s *Server) handleSetHDCP(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "body must be {\"mode\": string}")
		return
	}
	mode, err := commands.HDCPModeFromName(req.Mode)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	if _, err := s.send(commands.SetOutputHDCP, int(mode)); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, outputResponse{HDCP: mode.String()})
}
