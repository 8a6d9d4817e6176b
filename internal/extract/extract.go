// Package extract turns raw file content into parsed YAML documents with
// line metadata. Beyond plain manifests it recovers YAML-shaped regions
// embedded in mixed text (logs, shell transcripts), so that secrets pasted
// into such files are still visible to the walker.
package extract

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"

	yaml "gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// Document is one parsed structured tree plus the line offset that maps its
// node line numbers back to absolute lines in the originating file. Offset
// is 0 for whole-file parses; for an embedded region it is the number of
// file lines preceding the region.
type Document struct {
	Root   *yaml.Node
	Offset int
}

// Line returns the absolute 1-based file line for a node of this document.
func (d Document) Line(n *yaml.Node) int { return n.Line + d.Offset }

// Extract parses raw file content into zero or more Documents. It first
// attempts a whole-file (multi-document) YAML parse; if the file decodes
// cleanly end to end into structured documents, those are the result.
// Otherwise it additionally scans for YAML-shaped regions embedded in
// surrounding text and parses each region independently. Regions that fail
// to parse are discarded silently; most candidate regions in logs are not
// YAML and that is not an error.
func Extract(data []byte) []Document {
	docs, clean, structured := wholeFile(data)
	if clean && structured {
		return docs
	}
	lines := strings.Split(string(data), "\n")
	for _, r := range candidateRegions(lines) {
		region := strings.Join(lines[r[0]:r[1]], "\n")
		sub, _, ok := wholeFile([]byte(region))
		if !ok {
			continue
		}
		for _, d := range sub {
			d.Offset = r[0]
			docs = append(docs, d)
		}
	}
	klog.V(3).InfoS("extracted documents", "count", len(docs), "wholeFileClean", clean)
	return docs
}

// wholeFile decodes as many YAML documents as possible from the start of
// data. clean reports that decoding consumed the input without error;
// structured reports that at least one mapping or sequence document was
// produced (a text blob decoding as one giant scalar is not useful).
func wholeFile(data []byte) (docs []Document, clean, structured bool) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	clean = true
	for {
		var n yaml.Node
		if err := dec.Decode(&n); err != nil {
			// io.EOF ends a clean parse; anything else means the rest of
			// the file is not YAML. Either way the documents so far stand.
			clean = errors.Is(err, io.EOF)
			break
		}
		if isStructured(&n) {
			docs = append(docs, Document{Root: &n})
			structured = true
		}
	}
	return docs, clean, structured
}

func isStructured(n *yaml.Node) bool {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		k := n.Content[0].Kind
		return k == yaml.MappingNode || k == yaml.SequenceNode
	}
	return false
}

// Heuristic shape of a YAML block line. A key line is a bare or list-nested
// "key:" with the colon followed by space or end of line, which rules out
// timestamps and URLs; an item line is a "- " sequence entry.
var (
	reKeyLine  = regexp.MustCompile(`^\s*(?:- )?[A-Za-z0-9_."'/-]+"?:(?:\s|$)`)
	reItemLine = regexp.MustCompile(`^\s*- \S`)
	reDocStart = regexp.MustCompile(`^---\s*$`)
)

// minRegionLines filters out isolated "word:" lines, which are common in
// prose and log output and can never hold a secret construct on their own.
const minRegionLines = 2

// candidateRegions returns [start,end) 0-based line ranges of contiguous
// runs that look like YAML block structure. The heuristic is indentation
// based and intentionally conservative: a run starts at a key line or
// document marker and extends through key lines, item lines, blanks,
// comments, and deeper-indented continuations. It will miss exotic layouts
// (flow-style one-liners, tab indentation); that false-negative risk is
// accepted in exchange for near-zero noise on ordinary log text.
func candidateRegions(lines []string) [][2]int {
	var out [][2]int
	i := 0
	for i < len(lines) {
		if !reKeyLine.MatchString(lines[i]) && !reDocStart.MatchString(lines[i]) {
			i++
			continue
		}
		start := i
		base := indentOf(lines[i])
		j := i + 1
		for j < len(lines) {
			l := lines[j]
			switch {
			case strings.TrimSpace(l) == "", strings.HasPrefix(strings.TrimSpace(l), "#"):
				j++
			case reKeyLine.MatchString(l), reItemLine.MatchString(l), reDocStart.MatchString(l):
				j++
			case indentOf(l) > base:
				j++
			default:
				goto done
			}
		}
	done:
		// trim trailing blank lines from the region
		end := j
		for end > start && strings.TrimSpace(lines[end-1]) == "" {
			end--
		}
		if end-start >= minRegionLines {
			out = append(out, [2]int{start, end})
		}
		i = j
	}
	return out
}

func indentOf(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}
