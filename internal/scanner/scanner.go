package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/HueCodes/hornet/internal/locator"
)

// maxLineSize bounds a single line; longer lines make the file unreadable
const maxLineSize = 1024 * 1024

// byteOrderMark is dropped from the start of the first line
const byteOrderMark = "\uFEFF"

// bufferPool holds line buffers reused across scans
var bufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 64*1024)
		return &b
	},
}

// ErrFileUnreadable is returned when a file cannot be opened, read, or decoded
var ErrFileUnreadable = errors.New("file unreadable")

// UnreadableError carries the path and cause of a failed scan
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error { return e.Err }

func (e *UnreadableError) Is(target error) bool { return target == ErrFileUnreadable }

// Match is one pattern occurrence in a meaningful line
type Match struct {
	Line int    // 1-based line number
	Text string // matched substring
}

// MatchOutcome is the result of scanning one file for one pattern
type MatchOutcome struct {
	Path    string
	Matched bool
	Matches []Match
}

// IsMeaningful reports whether a line takes part in matching:
// after trimming it must be non-empty and not start with '#'.
func IsMeaningful(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && trimmed[0] != '#'
}

// Scan reads the whole file and collects every match of pattern
// found on its meaningful lines.
func Scan(file locator.DiscoveredFile, pattern *regexp.Regexp) (MatchOutcome, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return MatchOutcome{Path: file.Path}, &UnreadableError{Path: file.Path, Err: err}
	}
	defer f.Close()

	return ScanReader(file.Path, f, pattern)
}

// ScanReader is Scan over an already opened reader
func ScanReader(name string, r io.Reader, pattern *regexp.Regexp) (MatchOutcome, error) {
	outcome := MatchOutcome{Path: name}

	buf := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(buf)

	sc := bufio.NewScanner(r)
	sc.Buffer((*buf)[:0], maxLineSize)

	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := sc.Text()
		if lineNum == 1 {
			line = strings.TrimPrefix(line, byteOrderMark)
		}
		if !utf8.ValidString(line) {
			return MatchOutcome{Path: name}, &UnreadableError{
				Path: name,
				Err:  fmt.Errorf("line %d: invalid UTF-8", lineNum),
			}
		}
		if !IsMeaningful(line) {
			continue
		}
		for _, m := range pattern.FindAllString(line, -1) {
			outcome.Matches = append(outcome.Matches, Match{Line: lineNum, Text: m})
		}
	}
	if err := sc.Err(); err != nil {
		return MatchOutcome{Path: name}, &UnreadableError{Path: name, Err: err}
	}

	outcome.Matched = len(outcome.Matches) > 0
	return outcome, nil
}
