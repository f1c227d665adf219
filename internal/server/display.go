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
	"strconv"
	"strings"

	"github.com/openav/mvbridge/internal/commands"
)

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

type multiviewResponse struct {
	Mode string `json:"mode,omitempty"`
}

func (s *Server) handleGetMultiview(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	reply, err := s.send(commands.GetMultiview)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	var resp multiviewResponse
	if mode, ok := commands.ParseMultiviewMode(reply); ok {
		resp.Mode = mode.String()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetMultiview(w http.ResponseWriter, r *http.Request) {
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
	mode, err := commands.MultiviewModeFromName(req.Mode)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	if _, err := s.send(commands.SetMultiview, int(mode)); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, multiviewResponse{Mode: mode.String()})
}

type windowInput struct {
	Window int    `json:"window"`
	Input  string `json:"input,omitempty"`
}

/*handleGetWindows reads the routing of all four windows in one device
exchange.*/
func (s *Server) handleGetWindows(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	reply, err := s.send(commands.GetAllWindows)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}

	//the device answers one "window N in: HDMI M" line per window
	windows := []windowInput{}
	for _, line := range splitLines(reply) {
		if in, ok := commands.ParseWindowInput(line); ok {
			windows = append(windows, windowInput{Window: len(windows) + 1, Input: "hdmi_" + strconv.Itoa(in)})
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"windows": windows})
}

/*handleGetWindow reads the routing of a single window.*/
func (s *Server) handleGetWindow(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	window, err := strconv.Atoi(r.PathValue("window"))
	if err != nil || window < 1 || window > 4 {
		s.writeBadRequest(w, "window must be 1-4")
		return
	}
	reply, err := s.send(commands.GetWindowInput, window)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	resp := windowInput{Window: window}
	if in, ok := commands.ParseWindowInput(reply); ok {
		resp.Input = "hdmi_" + strconv.Itoa(in)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetWindow(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	window, err := strconv.Atoi(r.PathValue("window"))
	if err != nil || window < 1 || window > 4 {
		s.writeBadRequest(w, "window must be 1-4")
		return
	}
	var req struct {
		Input int `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Input < 1 || req.Input > 4 {
		s.writeBadRequest(w, "body must be {\"input\": 1-4}")
		return
	}

	if _, err := s.send(commands.SetWindowInput, window, req.Input); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, windowInput{Window: window, Input: "hdmi_" + strconv.Itoa(req.Input)})
}

type inputResponse struct {
	Input string `json:"input,omitempty"`
}

/*handleGetInput reads the single-screen input source.*/
func (s *Server) handleGetInput(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	reply, err := s.send(commands.GetInputSource)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	var resp inputResponse
	if in, ok := commands.ParseInputSource(reply); ok {
		resp.Input = "hdmi_" + strconv.Itoa(in)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetInput(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	var req struct {
		Input int `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Input < 1 || req.Input > 4 {
		s.writeBadRequest(w, "body must be {\"input\": 1-4}")
		return
	}

	if _, err := s.send(commands.SetInputSource, req.Input); err != nil {
		s.writeDeviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, inputResponse{Input: "hdmi_" + strconv.Itoa(req.Input)})
}

type pipRequest struct {
	Position string `json:"position,omitempty"`
	Size     string `json:"size,omitempty"`
}

/*handleGetPIP reads the PIP window position and size; fields the device
did not answer are omitted.*/
func (s *Server) handleGetPIP(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	var resp pipRequest
	reply, err := s.send(commands.GetPIPPosition)
	if err != nil {
		s.writeDeviceError(w, err)
		return
	}
	if pos, ok := commands.ParsePIPPosition(reply); ok {
		resp.Position = pos.String()
	}
	if reply, err := s.send(commands.GetPIPSize); err == nil {
		if size, ok := commands.ParsePIPSize(reply); ok {
			resp.Size = size.String()
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

/*handleSetPIP adjusts the PIP window; position and size are each
optional and sent as separate device commands.*/
func (s *Server) handleSetPIP(w http.ResponseWriter, r *http.Request) {
	if !s.requireAvailable(w) {
		return
	}
	var req pipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "body must carry position and/or size")
		return
	}
	if req.Position == "" && req.Size == "" {
		s.writeBadRequest(w, "nothing to set")
		return
	}

	if req.Position != "" {
		pos, err := commands.PIPPositionFromName(req.Position)
		if err != nil {
			s.writeBadRequest(w, err.Error())
			return
		}
		if _, err := s.send(commands.SetPIPPosition, int(pos)); err != nil {
			s.writeDeviceError(w, err)
			return
		}
	}
	if req.Size != "" {
		size, err := commands.PIPSizeFromName(req.Size)
		if err != nil {
			s.writeBadRequest(w, err.Error())
			return
		}
		if _, err := s.send(commands.SetPIPSize, int(size)); err != nil {
			s.writeDeviceError(w, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, req)
}

/*layoutCommands groups the four commands behind one split-layout family.
PBP, triple, and quad share the same two-way mode and aspect vocabulary,
so one pair of handlers serves all three.*/
type layoutCommands struct {
	getMode, setMode     commands.Command
	getAspect, setAspect commands.Command
}

var (
	pbpCommands = layoutCommands{
		getMode: commands.GetPBPMode, setMode: commands.SetPBPMode,
		getAspect: commands.GetPBPAspect, setAspect: commands.SetPBPAspect,
	}
	tripleCommands = layoutCommands{
		getMode: commands.GetTripleMode, setMode: commands.SetTripleMode,
		getAspect: commands.GetTripleAspect, setAspect: commands.SetTripleAspect,
	}
	quadCommands = layoutCommands{
		getMode: commands.GetQuadMode, setMode: commands.SetQuadMode,
		getAspect: commands.GetQuadAspect, setAspect: commands.SetQuadAspect,
	}
)

type layoutResponse struct {
	Mode   *int   `json:"mode,omitempty"`
	Aspect string `json:"aspect,omitempty"`
}

/*layoutState reads the current mode and aspect of one layout family. A
device error on the first read is terminal; an unparseable reply just
drops the field.*/
func (s *Server) layoutState(w http.ResponseWriter, lc layoutCommands) (layoutResponse, bool) {
	var resp layoutResponse
	reply, err := s.send(lc.getMode)
	if err != nil {
		s.writeDeviceError(w, err)
		return resp, false
	}
	if mode, ok := commands.ParseLayoutMode(reply); ok {
		resp.Mode = &mode
	}
	if reply, err := s.send(lc.getAspect); err == nil {
		if aspect, ok := commands.ParseAspect(reply); ok {
			resp.Aspect = aspect
		}
	}
	return resp, true
}

func (s *Server) handleGetLayout(lc layoutCommands) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAvailable(w) {
			return
		}
		if resp, ok := s.layoutState(w, lc); ok {
			s.writeJSON(w, http.StatusOK, resp)
		}
	}
}

/*handleSetLayout adjusts a layout family; mode and aspect are each
optional wire codes (1 or 2) and sent as separate device commands. The
response is freshly read back, not echoed.*/
func (s *Server) handleSetLayout(lc layoutCommands) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAvailable(w) {
			return
		}
		var req struct {
			Mode   *int `json:"mode"`
			Aspect *int `json:"aspect"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeBadRequest(w, "body must carry mode and/or aspect")
			return
		}
		if req.Mode == nil && req.Aspect == nil {
			s.writeBadRequest(w, "nothing to set")
			return
		}
		if req.Mode != nil && (*req.Mode < 1 || *req.Mode > 2) {
			s.writeBadRequest(w, "mode must be 1 or 2")
			return
		}
		if req.Aspect != nil && (*req.Aspect < 1 || *req.Aspect > 2) {
			s.writeBadRequest(w, "aspect must be 1 (full screen) or 2 (16:9)")
			return
		}

		if req.Mode != nil {
			if _, err := s.send(lc.setMode, *req.Mode); err != nil {
				s.writeDeviceError(w, err)
				return
			}
		}
		if req.Aspect != nil {
			if _, err := s.send(lc.setAspect, *req.Aspect); err != nil {
				s.writeDeviceError(w, err)
				return
			}
		}
		if resp, ok := s.layoutState(w, lc); ok {
			s.writeJSON(w, http.StatusOK, resp)
		}
	}
}
