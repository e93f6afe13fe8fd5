package terminal

import (
	"bytes"
	"net/url"
	"path/filepath"

	"github.com/charmbracelet/x/ansi"
)

// maxPendingOSC bounds how much of an unterminated OSC sequence is carried
// into the next read.
const maxPendingOSC = 4096

var (
	oscIntro = []byte("\x1b]")
	osc7     = []byte("\x1b]7;")
)

// directoryTracker extracts working directories from OSC 7 sequences
// ("ESC ] 7 ; file://host/path BEL") in shell output. Sequences may be
// split across reads.
type directoryTracker struct {
	pending []byte
}

// Feed scans chunk and returns the directories reported in it, in order.
func (d *directoryTracker) Feed(chunk []byte) []string {
	data := chunk
	if len(d.pending) > 0 {
		data = append(d.pending, chunk...)
		d.pending = nil
	}

	if i := bytes.LastIndex(data, oscIntro); i >= 0 && !oscTerminated(data[i+len(oscIntro):]) {
		if len(data)-i <= maxPendingOSC {
			d.pending = append([]byte(nil), data[i:]...)
		}
		data = data[:i]
	} else if n := len(data); n > 0 && data[n-1] == ansi.ESC {
		d.pending = []byte{ansi.ESC}
		data = data[:n-1]
	}

	if !bytes.Contains(data, osc7) {
		return nil
	}

	var dirs []string
	var state byte
	for len(data) > 0 {
		seq, _, n, newState := ansi.DecodeSequence(data, state, nil)
		if n <= 0 {
			n = 1
		}
		state = newState
		if dir, ok := parseOSC7(seq); ok {
			dirs = append(dirs, dir)
		}
		data = data[n:]
	}
	return dirs
}

func oscTerminated(body []byte) bool {
	return bytes.IndexByte(body, ansi.BEL) >= 0 || bytes.Contains(body, []byte("\x1b\\"))
}

// parseOSC7 returns the path of a complete OSC 7 sequence. The host part
// of the URL is ignored.
func parseOSC7(seq []byte) (string, bool) {
	if !bytes.HasPrefix(seq, osc7) {
		return "", false
	}
	body := seq[len(osc7):]
	switch {
	case bytes.HasSuffix(body, []byte{ansi.BEL}):
		body = body[:len(body)-1]
	case bytes.HasSuffix(body, []byte("\x1b\\")):
		body = body[:len(body)-2]
	default:
		return "", false
	}

	u, err := url.Parse(string(body))
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return "", false
	}
	return filepath.Clean(u.Path), true
}
