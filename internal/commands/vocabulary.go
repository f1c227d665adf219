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
	"fmt"
	"regexp"
)

//MultiviewMode selects how many windows the output composes.
type MultiviewMode int

const (
	ModeSingle MultiviewMode = iota + 1
	ModePIP
	ModePBP
	ModeTriple
	ModeQuad
)

var multiviewNames = map[MultiviewMode]string{
	ModeSingle: "single",
	ModePIP:    "pip",
	ModePBP:    "pbp",
	ModeTriple: "triple",
	ModeQuad:   "quad",
}

func (m MultiviewMode) String() string { return multiviewNames[m] }

//MultiviewModeFromName maps an API mode name onto its wire code.
func MultiviewModeFromName(name string) (MultiviewMode, error) {
	for mode, n := range multiviewNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown multiview mode %q", name)
}

//AudioSource selects what the output audio follows.
type AudioSource int

const (
	AudioFollowWindow1 AudioSource = iota
	AudioHDMI1
	AudioHDMI2
	AudioHDMI3
	AudioHDMI4
)

var audioSourceNames = map[AudioSource]string{
	AudioFollowWindow1: "follow_window_1",
	AudioHDMI1:         "hdmi_1",
	AudioHDMI2:         "hdmi_2",
	AudioHDMI3:         "hdmi_3",
	AudioHDMI4:         "hdmi_4",
}

func (a AudioSource) String() string { return audioSourceNames[a] }

//AudioSourceFromName maps an API source name onto its wire code.
func AudioSourceFromName(name string) (AudioSource, error) {
	for src, n := range audioSourceNames {
		if n == name {
			return src, nil
		}
	}
	return 0, fmt.Errorf("unknown audio source %q", name)
}

//PIPPosition places the PIP window in one of the four corners.
type PIPPosition int

const (
	PIPLeftTop PIPPosition = iota + 1
	PIPLeftBottom
	PIPRightTop
	PIPRightBottom
)

var pipPositionNames = map[PIPPosition]string{
	PIPLeftTop:     "left_top",
	PIPLeftBottom:  "left_bottom",
	PIPRightTop:    "right_top",
	PIPRightBottom: "right_bottom",
}

func (p PIPPosition) String() string { return pipPositionNames[p] }

//PIPPositionFromName maps an API position name onto its wire code.
func PIPPositionFromName(name string) (PIPPosition, error) {
	for pos, n := range pipPositionNames {
		if n == name {
			return pos, nil
		}
	}
	return 0, fmt.Errorf("unknown PIP position %q", name)
}

//PIPSize selects the PIP window size.
type PIPSize int

const (
	PIPSmall PIPSize = iota + 1
	PIPMiddle
	PIPLarge
)

var pipSizeNames = map[PIPSize]string{
	PIPSmall:  "small",
	PIPMiddle: "middle",
	PIPLarge:  "large",
}

func (p PIPSize) String() string { return pipSizeNames[p] }

//PIPSizeFromName maps an API size name onto its wire code.
func PIPSizeFromName(name string) (PIPSize, error) {
	for size, n := range pipSizeNames {
		if n == name {
			return size, nil
		}
	}
	return 0, fmt.Errorf("unknown PIP size %q", name)
}

//HDCPMode selects output HDCP behaviour.
type HDCPMode int

const (
	HDCP14 HDCPMode = iota + 1
	HDCP22
	HDCPOff
)

var hdcpNames = map[HDCPMode]string{
	HDCP14:  "hdcp_1_4",
	HDCP22:  "hdcp_2_2",
	HDCPOff: "off",
}

func (h HDCPMode) String() string { return hdcpNames[h] }

//HDCPModeFromName maps an API HDCP name onto its wire code.
func HDCPModeFromName(name string) (HDCPMode, error) {
	for mode, n := range hdcpNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown HDCP mode %q", name)
}

/*ResolutionNames maps the device's output resolution codes to their
human names, in the order the manual lists them.*/
var ResolutionNames = map[int]string{
	1:  "4096x2160p60",
	2:  "4096x2160p50",
	3:  "3840x2160p60",
	4:  "3840x2160p50",
	5:  "3840x2160p30",
	6:  "3840x2160p25",
	7:  "1920x1200p60RB",
	8:  "1920x1080p60",
	9:  "1920x1080p50",
	10: "1360x768p60",
	11: "1280x800p60",
	12: "1280x720p60",
	13: "1280x720p50",
	14: "1024x768p60",
}

var (
	respPower     = regexp.MustCompile(`(?i)power (on|off)`)
	respMultiview = regexp.MustCompile(`(?i)(single|pip|pbp|triple|quad)`)
	respWindowIn  = regexp.MustCompile(`(?i)hdmi [1-4]`)
	respVolume    = regexp.MustCompile(`(?i)volume:\s*\d+`)
)

/*The device vocabulary. Set commands echo the new state in free text;
the Response regexps below only pin down replies with a known shape.*/
var (
	Help         = Command{Name: "help", Prototype: "help!", Description: "list the device's own command summary"}
	GetType      = Command{Name: "get type", Prototype: "r type!", Description: "read the device model identifier"}
	GetFWVersion = Command{Name: "get fw version", Prototype: "r fw version!", Description: "read the firmware version"}
	GetPower     = Command{Name: "get power", Prototype: "r power!", Response: respPower, Description: "read the power state; also the liveness probe"}
	SetPower     = Command{Name: "set power", Prototype: "power %d!", ArgsRegexp: regexp.MustCompile(`^power [01]!$`), Response: respPower, Description: "power the device on (1) or off (0)"}
	Reboot       = Command{Name: "reboot", Prototype: "reboot!", Description: "reboot the device"}
	FactoryReset = Command{Name: "factory reset", Prototype: "reset!", Description: "restore factory defaults"}

	GetOutputRes  = Command{Name: "get output resolution", Prototype: "r output res!", Description: "read the output resolution"}
	SetOutputRes  = Command{Name: "set output resolution", Prototype: "s output res %d!", ArgsRegexp: regexp.MustCompile(`^s output res ([1-9]|1[0-4])!$`), Description: "set the output resolution by code"}
	GetOutputHDCP = Command{Name: "get output hdcp", Prototype: "r output hdcp!", Description: "read the output HDCP mode"}
	SetOutputHDCP = Command{Name: "set output hdcp", Prototype: "s output hdcp %d!", ArgsRegexp: regexp.MustCompile(`^s output hdcp [1-3]!$`), Description: "set the output HDCP mode"}
	GetOutputVKA  = Command{Name: "get output vka", Prototype: "r output vka!", Description: "read the video keep-active pattern"}
	SetOutputVKA  = Command{Name: "set output vka", Prototype: "s output vka %d!", ArgsRegexp: regexp.MustCompile(`^s output vka [1-2]!$`), Description: "set the video keep-active pattern"}
	GetOutputITC  = Command{Name: "get output itc", Prototype: "r output itc!", Description: "read the video/PC mode"}
	SetOutputITC  = Command{Name: "set output itc", Prototype: "s output itc %d!", ArgsRegexp: regexp.MustCompile(`^s output itc [1-2]!$`), Description: "set video (1) or PC (2) mode"}

	GetInputEDID = Command{Name: "get input edid", Prototype: "r input EDID!", Description: "read the input EDID selection"}
	SetInputEDID = Command{Name: "set input edid", Prototype: "s input EDID %d!", Description: "set the input EDID selection"}

	GetAudio       = Command{Name: "get audio source", Prototype: "r output audio!", Description: "read the output audio source"}
	SetAudioSource = Command{Name: "set audio source", Prototype: "s output audio %d!", ArgsRegexp: regexp.MustCompile(`^s output audio [0-4]!$`), Description: "set the output audio source"}
	GetAudioVolume = Command{Name: "get audio volume", Prototype: "r output audio vol!", Response: respVolume, Description: "read the output volume"}
	SetAudioVolume = Command{Name: "set audio volume", Prototype: "s output audio vol %d!", ArgsRegexp: regexp.MustCompile(`^s output audio vol (\d|[1-9]\d|100)!$`), Description: "set the output volume (0-100)"}
	AudioVolumeUp  = Command{Name: "audio volume up", Prototype: "s output audio vol+!", Description: "step the output volume up"}
	AudioVolumeDn  = Command{Name: "audio volume down", Prototype: "s output audio vol-!", Description: "step the output volume down"}
	GetAudioMute   = Command{Name: "get audio mute", Prototype: "r output audio mute!", Description: "read the output mute state"}
	SetAudioMute   = Command{Name: "set audio mute", Prototype: "s output audio mute %d!", ArgsRegexp: regexp.MustCompile(`^s output audio mute [01]!$`), Description: "mute (1) or unmute (0) the output"}

	GetAutoSwitch  = Command{Name: "get auto switch", Prototype: "r auto switch!", Description: "read single-screen auto switching"}
	SetAutoSwitch  = Command{Name: "set auto switch", Prototype: "s auto switch %d!", ArgsRegexp: regexp.MustCompile(`^s auto switch [01]!$`), Description: "enable (1) or disable (0) auto switching"}
	GetInputSource = Command{Name: "get input source", Prototype: "r in source!", Response: respWindowIn, Description: "read the single-screen input"}
	SetInputSource = Command{Name: "set input source", Prototype: "s in source %d!", ArgsRegexp: regexp.MustCompile(`^s in source [1-4]!$`), Description: "select the single-screen input"}

	GetMultiview   = Command{Name: "get multiview", Prototype: "r multiview!", Response: respMultiview, Description: "read the multiview mode"}
	SetMultiview   = Command{Name: "set multiview", Prototype: "s multiview %d!", ArgsRegexp: regexp.MustCompile(`^s multiview [1-5]!$`), Response: respMultiview, Description: "set the multiview mode"}
	GetWindowInput = Command{Name: "get window input", Prototype: "r window %d in!", ArgsRegexp: regexp.MustCompile(`^r window [1-4] in!$`), Response: respWindowIn, Description: "read one window's input"}
	GetAllWindows  = Command{Name: "get all windows", Prototype: "r window 0 in!", Description: "read every window's input"}
	SetWindowInput = Command{Name: "set window input", Prototype: "s window %d in %d!", ArgsRegexp: regexp.MustCompile(`^s window [1-4] in [1-4]!$`), Response: respWindowIn, Description: "route an input to a window"}

	GetPIPPosition = Command{Name: "get pip position", Prototype: "r PIP position!", Description: "read the PIP window position"}
	SetPIPPosition = Command{Name: "set pip position", Prototype: "s PIP position %d!", ArgsRegexp: regexp.MustCompile(`^s PIP position [1-4]!$`), Description: "set the PIP window position"}
	GetPIPSize     = Command{Name: "get pip size", Prototype: "r PIP size!", Description: "read the PIP window size"}
	SetPIPSize     = Command{Name: "set pip size", Prototype: "s PIP size %d!", ArgsRegexp: regexp.MustCompile(`^s PIP size [1-3]!$`), Description: "set the PIP window size"}

	GetPBPMode      = Command{Name: "get pbp mode", Prototype: "r PBP mode!", Description: "read the PBP layout"}
	SetPBPMode      = Command{Name: "set pbp mode", Prototype: "s PBP mode %d!", ArgsRegexp: regexp.MustCompile(`^s PBP mode [1-2]!$`), Description: "set the PBP layout"}
	GetPBPAspect    = Command{Name: "get pbp aspect", Prototype: "r PBP aspect!", Description: "read the PBP aspect ratio"}
	SetPBPAspect    = Command{Name: "set pbp aspect", Prototype: "s PBP aspect %d!", ArgsRegexp: regexp.MustCompile(`^s PBP aspect [1-2]!$`), Description: "set the PBP aspect ratio"}
	GetTripleMode   = Command{Name: "get triple mode", Prototype: "r triple mode!", Description: "read the triple layout"}
	SetTripleMode   = Command{Name: "set triple mode", Prototype: "s triple mode %d!", ArgsRegexp: regexp.MustCompile(`^s triple mode [1-2]!$`), Description: "set the triple layout"}
	GetTripleAspect = Command{Name: "get triple aspect", Prototype: "r triple aspect!", Description: "read the triple aspect ratio"}
	SetTripleAspect = Command{Name: "set triple aspect", Prototype: "s triple aspect %d!", ArgsRegexp: regexp.MustCompile(`^s triple aspect [1-2]!$`), Description: "set the triple aspect ratio"}
	GetQuadMode     = Command{Name: "get quad mode", Prototype: "r quad mode!", Description: "read the quad layout"}
	SetQuadMode     = Command{Name: "set quad mode", Prototype: "s quad mode %d!", ArgsRegexp: regexp.MustCompile(`^s quad mode [1-2]!$`), Description: "set the quad layout"}
	GetQuadAspect   = Command{Name: "get quad aspect", Prototype: "r quad aspect!", Description: "read the quad aspect ratio"}
	SetQuadAspect   = Command{Name: "set quad aspect", Prototype: "s quad aspect %d!", ArgsRegexp: regexp.MustCompile(`^s quad aspect [1-2]!$`), Description: "set the quad aspect ratio"}
)

//Vocabulary is the full UHD-401MV command set keyed by Command.Name.
func Vocabulary() Set {
	all := []Command{
		Help, GetType, GetFWVersion, GetPower, SetPower, Reboot, FactoryReset,
		GetOutputRes, SetOutputRes, GetOutputHDCP, SetOutputHDCP,
		GetOutputVKA, SetOutputVKA, GetOutputITC, SetOutputITC,
		GetInputEDID, SetInputEDID,
		GetAudio, SetAudioSource, GetAudioVolume, SetAudioVolume,
		AudioVolumeUp, AudioVolumeDn, GetAudioMute, SetAudioMute,
		GetAutoSwitch, SetAutoSwitch, GetInputSource, SetInputSource,
		GetMultiview, SetMultiview, GetWindowInput, GetAllWindows, SetWindowInput,
		GetPIPPosition, SetPIPPosition, GetPIPSize, SetPIPSize,
		GetPBPMode, SetPBPMode, GetPBPAspect, SetPBPAspect,
		GetTripleMode, SetTripleMode, GetTripleAspect, SetTripleAspect,
		GetQuadMode, SetQuadMode, GetQuadAspect, SetQuadAspect,
	}
	s := Set{}
	for _, cmd := range all {
		s[cmd.Name] = cmd
	}
	return s
}
