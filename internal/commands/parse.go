package commands

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
	"regexp"
	"strconv"
	"strings"
)

//The device answers in loosely structured prose; every parser below is a
//substring or small-regexp match over the lowercased reply, and reports
//ok=false when the reply carries no recognizable value.

var (
	volumeRe     = regexp.MustCompile(`(?i)volume:\s*(\d+)`)
	resolutionRe = regexp.MustCompile(`(?i)resolution:\s*(.+)`)
)

//ParsePower extracts the power state from a reply.
func ParsePower(reply string) (on, ok bool) {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "power on"):
		return true, true
	case strings.Contains(lower, "power off"):
		return false, true
	}
	return false, false
}

//ParseMultiviewMode extracts the multiview mode from a reply.
func ParseMultiviewMode(reply string) (MultiviewMode, bool) {
	lower := strings.ToLower(reply)
	for _, mode := range []MultiviewMode{ModeSingle, ModePIP, ModePBP, ModeTriple, ModeQuad} {
		if strings.Contains(lower, mode.String()) {
			return mode, true
		}
	}
	return 0, false
}

//parseHDMINumber is shared by every "hdmi N" shaped reply.
func parseHDMINumber(reply string) (int, bool) {
	lower := strings.ToLower(reply)
	for n := 1; n <= 4; n++ {
		if strings.Contains(lower, "hdmi "+strconv.Itoa(n)) {
			return n, true
		}
	}
	return 0, false
}

//ParseAudioSource extracts the audio source from a reply.
func ParseAudioSource(reply string) (AudioSource, bool) {
	if strings.Contains(strings.ToLower(reply), "follow") {
		return AudioFollowWindow1, true
	}
	if n, ok := parseHDMINumber(reply); ok {
		return AudioSource(n), true
	}
	return 0, false
}

//ParseWindowInput extracts the routed input from a window reply.
func ParseWindowInput(reply string) (int, bool) {
	return parseHDMINumber(reply)
}

//ParseInputSource extracts the single-screen input from a reply.
func ParseInputSource(reply string) (int, bool) {
	return parseHDMINumber(reply)
}

//ParseVolume extracts the output volume from a reply.
func ParseVolume(reply string) (int, bool) {
	m := volumeRe.FindStringSubmatch(reply)
	if m == nil {
		return 0, false
	}
	vol, err := strconv.Atoi(m[1])
	return vol, err == nil
}

//ParseMute extracts the mute state from a reply.
func ParseMute(reply string) (muted, ok bool) {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "mute: on"):
		return true, true
	case strings.Contains(lower, "mute: off"):
		return false, true
	}
	return false, false
}

//ParseResolution extracts the resolution name from a reply.
func ParseResolution(reply string) (string, bool) {
	m := resolutionRe.FindStringSubmatch(reply)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

//ParseHDCP extracts the HDCP mode from a reply.
func ParseHDCP(reply string) (HDCPMode, bool) {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "hdcp 1.4"):
		return HDCP14, true
	case strings.Contains(lower, "hdcp 2.2"):
		return HDCP22, true
	case strings.Contains(lower, "hdcp off"):
		return HDCPOff, true
	}
	return 0, false
}

//ParseVideoMode extracts the ITC mode from a reply: "video" or "pc".
func ParseVideoMode(reply string) (string, bool) {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "video mode"):
		return "video", true
	case strings.Contains(lower, "pc mode"):
		return "pc", true
	}
	return "", false
}

//ParseLayoutMode extracts a two-way layout mode from a PBP, triple, or
//quad reply; the device reports "mode 1" or "mode 2" for all three.
func ParseLayoutMode(reply string) (int, bool) {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "mode 1"):
		return 1, true
	case strings.Contains(lower, "mode 2"):
		return 2, true
	}
	return 0, false
}

//ParsePIPPosition extracts the PIP position from a reply.
func ParsePIPPosition(reply string) (PIPPosition, bool) {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "left top"):
		return PIPLeftTop, true
	case strings.Contains(lower, "left bottom"):
		return PIPLeftBottom, true
	case strings.Contains(lower, "right top"):
		return PIPRightTop, true
	case strings.Contains(lower, "right bottom"):
		return PIPRightBottom, true
	}
	return 0, false
}

//ParsePIPSize extracts the PIP size from a reply.
func ParsePIPSize(reply string) (PIPSize, bool) {
	lower := strings.ToLower(reply)
	for _, size := range []PIPSize{PIPSmall, PIPMiddle, PIPLarge} {
		if strings.Contains(lower, size.String()) {
			return size, true
		}
	}
	return 0, false
}

//ParseAspect extracts an aspect-ratio reply: "full_screen" or "16_9".
func ParseAspect(reply string) (string, bool) {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "full"):
		return "full_screen", true
	case strings.Contains(lower, "16:9"):
		return "16_9", true
	}
	return "", false
}

//ParseAutoSwitch extracts the auto-switch state from a reply.
func ParseAutoSwitch(reply string) (enabled, ok bool) {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "auto switch on"):
		return true, true
	case strings.Contains(lower, "auto switch off"):
		return false, true
	}
	return false, false
}
