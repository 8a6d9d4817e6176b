package ignore

import (
	"bufio"
	"bytes"
	"strings"
)

// Marker strings are a file-format contract shared with the original hook
// and with files already annotated in user repositories. They must never
// change, even across renames of the tool itself.
const (
	FileMarker = "sops-pre-commit: ignore-file"
	LineMarker = "sops-pre-commit: ignore-line"
)

// File-level markers are only honored near the top of the file so a pasted
// log containing the token deep inside cannot silence a whole scan.
const headerLines = 3

// Directives is the immutable per-file ignore state derived once from raw
// content. It is consulted by the reporter and never mutated afterwards.
type Directives struct {
	FileIgnored bool
	Lines       map[int]bool // 1-based lines carrying a trailing ignore-line marker
}

// Resolve scans raw file content for ignore markers. It is a pure function
// of the input bytes and runs before any parsing, so a file-level ignore can
// skip extraction entirely.
func Resolve(data []byte) Directives {
	d := Directives{Lines: map[int]bool{}}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		t := sc.Text()
		if line <= headerLines && strings.Contains(t, FileMarker) {
			d.FileIgnored = true
			return d
		}
		if strings.Contains(t, LineMarker) {
			d.Lines[line] = true
		}
	}
	return d
}

// Ignored reports whether the given 1-based line carries an ignore-line marker.
func (d Directives) Ignored(line int) bool { return d.Lines[line] }
