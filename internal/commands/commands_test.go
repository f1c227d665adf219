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
	"errors"
	"strings"
	"testing"
)

func TestCommandText(t *testing.T) {
	if text, err := GetPower.Text(); err != nil || text != "r power!" {
		t.Error("argless command should render as-is, got", text, err)
	}

	if text, err := SetMultiview.Text(int(ModeQuad)); err != nil || text != "s multiview 5!" {
		t.Error("wanted 's multiview 5!', got", text, err)
	}

	if text, err := SetWindowInput.Text(2, 4); err != nil || text != "s window 2 in 4!" {
		t.Error("wanted 's window 2 in 4!', got", text, err)
	}

	//missing argument trips the Sprintf check
	if _, err := SetMultiview.Text(); !errors.Is(err, ErrTextArgs) {
		t.Error("missing arg must return ErrTextArgs, got", err)
	}
	//extra arguments likewise
	if _, err := GetPower.Text(42); !errors.Is(err, ErrTextArgs) {
		t.Error("extra arg must return ErrTextArgs, got", err)
	}
	//an out-of-range value renders fine but fails the format check
	if _, err := SetMultiview.Text(9); !errors.Is(err, ErrTextFormat) {
		t.Error("out-of-range mode must return ErrTextFormat, got", err)
	}
	if _, err := SetAudioVolume.Text(101); !errors.Is(err, ErrTextFormat) {
		t.Error("volume above 100 must return ErrTextFormat, got", err)
	}
	if _, err := SetAudioVolume.Text(100); err != nil {
		t.Error("volume 100 is valid, got", err)
	}
}

func TestCommandMatches(t *testing.T) {
	if !GetPower.Matches("power on") || !GetPower.Matches("POWER OFF") {
		t.Error("power replies must match the power response regexp")
	}
	if GetPower.Matches("mumble") {
		t.Error("an unrelated reply must not match the power response")
	}
	//nil Response: any non-empty reply is affirmative
	if !Reboot.Matches("rebooting...") || Reboot.Matches("") {
		t.Error("nil-response commands accept any non-empty reply")
	}
}

func TestVocabulary(t *testing.T) {
	v := Vocabulary()
	if !v.Contains("get power", "set multiview", "set window input", "get quad aspect") {
		t.Error("vocabulary is missing expected commands")
	}
	if v.Contains("get power", "warp core eject") {
		t.Error("Contains must require every name")
	}
	if v.Contains() {
		t.Error("Contains with no names is false")
	}

	for name, cmd := range v {
		if name != cmd.Name {
			t.Errorf("set key %q does not match command name %q", name, cmd.Name)
		}
		_ = cmd.String()
	}

	//the rendered table carries every command name
	table := v.String()
	for name := range v {
		//tablewriter upcases headers only; rows keep their case
		if !strings.Contains(table, name) {
			t.Errorf("rendered table is missing %q", name)
		}
	}
}

func TestCloneAndMerge(t *testing.T) {
	v := Vocabulary()
	c := v.Clone()
	delete(c, "get power")
	if !v.Contains("get power") {
		t.Error("mutating a clone must not touch the original")
	}

	extra := Set{"vendor test": {Name: "vendor test", Prototype: "vendor!"}}
	m := Merge(c, extra)
	if !m.Contains("vendor test") || m.Contains("get power") {
		t.Error("merge must union the sets handed to it")
	}
}
