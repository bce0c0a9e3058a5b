// Package lyrics loads and queries LRC timed-lyrics files.
package lyrics

import (
	"bufio"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"lyricsync/internal/apperr"
)

// Line is one timed lyric line.
type Line struct {
	T    float64
	Text string
}

// LRC is a parsed, time-sorted lyrics file.
type LRC struct {
	Lines []Line
}

var timeRE = regexp.MustCompile(`\[(\d+):(\d+(?:\.\d+)?)\]`)

// Load reads and parses path. A line with multiple timestamp tags
// (`[00:12.0][00:45.0]text`) produces one Line per timestamp, all sharing
// the same text, matching the original's per-match expansion.
func Load(path string) (LRC, error) {
	if path == "" {
		return LRC{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return LRC{}, apperr.Decode("opening lrc file", err)
	}
	defer f.Close()

	var lines []Line
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		raw := scanner.Text()
		matches := timeRE.FindAllStringSubmatch(raw, -1)
		if len(matches) == 0 {
			continue
		}
		text := strings.TrimSpace(timeRE.ReplaceAllString(raw, ""))
		for _, m := range matches {
			mm, _ := strconv.Atoi(m[1])
			ss, _ := strconv.ParseFloat(m[2], 64)
			lines = append(lines, Line{T: float64(mm)*60 + ss, Text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return LRC{}, apperr.Decode("reading lrc file", err)
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].T < lines[j].T })
	return LRC{Lines: lines}, nil
}

// CurrentLine returns the line active at time t (the latest line whose
// timestamp is <= t) and the line that follows it. If no line's timestamp
// is <= t, current is empty and next is the first line.
func (l LRC) CurrentLine(t float64) (current, next string) {
	if len(l.Lines) == 0 {
		return "", ""
	}

	idx := -1
	for i := range l.Lines {
		if l.Lines[i].T <= t {
			idx = i
		} else {
			break
		}
	}

	if idx == -1 {
		return "", l.Lines[0].Text
	}
	current = l.Lines[idx].Text
	if idx+1 < len(l.Lines) {
		next = l.Lines[idx+1].Text
	}
	return current, next
}
