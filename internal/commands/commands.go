/*Package commands holds the UHD-401MV's documented RS-232 vocabulary:
templates for everything the device understands, and parsers for the
free-text replies it produces. The device communication layer knows
nothing of this package; the request layer renders a Command to text,
hands it over, and parses whatever comes back.*/
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
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

var (
	//ErrTextArgs means the arguments did not satisfy the prototype verbs.
	ErrTextArgs = errors.New("wrong arguments for command prototype")
	//ErrTextFormat means the rendered command failed its format check.
	ErrTextFormat = errors.New("rendered command does not match expected format")
)

/*Command is one entry of the device vocabulary.*/
type Command struct {
	//Name is the human name of the command, without arguments.
	Name string

	/*Prototype is fed, with any arguments, to fmt.Sprintf to form the
	text sent down the line, terminator excluded:
	    fmt.Sprintf(Prototype, args...)*/
	Prototype string

	/*ArgsRegexp validates the rendered command. This is where argument
	ranges live: a prototype like "s multiview %d!" accepts any int, the
	regexp pins it to the values the device implements. nil accepts any
	rendering that survived the Sprintf check.*/
	ArgsRegexp *regexp.Regexp

	//Response matches affirmative replies. nil treats any reply as affirmative.
	Response *regexp.Regexp

	//Description is a one-line human explanation.
	Description string
}

/*sanitize renders control sequences readably for table output*/
func sanitize(i interface{}) string {
	var str string
	switch s := i.(type) {
	case *regexp.Regexp:
		if s == nil {
			return "-"
		}
		str = s.String()
	case string:
		str = s
	}
	str = strings.ReplaceAll(str, "\r", "\\r")
	return strings.ReplaceAll(str, "\n", "\\n")
}

//String implements the Stringer interface
func (c Command) String() string {
	return fmt.Sprintf("%s: Prototype:%q Args:%q Response:%q", c.Name, sanitize(c.Prototype), sanitize(c.ArgsRegexp), sanitize(c.Response))
}

/*Text renders the command for the wire from Prototype and the optional
arguments. A rendering containing "%!" means the arguments did not fit
the prototype and returns ErrTextArgs; a rendering rejected by ArgsRegexp
returns ErrTextFormat. Line termination is the transport's job.*/
func (c Command) Text(v ...interface{}) (string, error) {
	str := fmt.Sprintf(c.Prototype, v...)
	if strings.Contains(str, "%!") {
		return str, ErrTextArgs
	}
	if c.ArgsRegexp != nil && !c.ArgsRegexp.MatchString(str) {
		return str, ErrTextFormat
	}
	return str, nil
}

/*Matches reports whether reply looks like an affirmative answer to this
command. With a nil Response any non-empty reply counts: the device
echoes state in free text and silence is the only hard failure signal.*/
func (c Command) Matches(reply string) bool {
	if c.Response == nil {
		return reply != ""
	}
	return c.Response.MatchString(reply)
}

//Set is a map of Command structures where the key should be Command.Name.
type Set map[string]Command

//String implements the Stringer() interface
func (s Set) String() string {
	names := sort.StringSlice{}
	for name := range s {
		names = append(names, name)
	}
	names.Sort()

	buf := bytes.NewBufferString("")
	tw := tablewriter.NewWriter(buf)
	tw.SetAutoWrapText(false)
	tw.SetHeader([]string{"Name", "Prototype", "Args Regex", "Resp Regex", "Description"})
	for _, name := range names {
		cmd := s[name]
		tw.Append([]string{
			name,
			sanitize(cmd.Prototype),
			sanitize(cmd.ArgsRegexp),
			sanitize(cmd.Response),
			cmd.Description,
		})
	}
	tw.Render()
	return buf.String()
}

/*Contains returns true if the set contains all of the passed named
commands. It checks the key values, not the embedded Command.Name values*/
func (s Set) Contains(named ...string) bool {
	if s == nil || len(named) == 0 {
		return false
	}
	for _, name := range named {
		if _, ok := s[name]; !ok {
			return false
		}
	}
	return true
}

/*Clone returns a copy of the set*/
func (s Set) Clone() Set {
	r := Set{}
	for name, cmd := range s {
		r[name] = cmd
	}
	return r
}

/*Merge combines multiple sets into one; later sets win on name clashes*/
func Merge(sets ...Set) Set {
	s := Set{}
	for _, set := range sets {
		for name, cmd := range set {
			s[name] = cmd
		}
	}
	return s
}
