package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/HueCodes/hornet/internal/locator"
)

func TestIsMeaningful(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"USER appuser", true},
		{"  USER appuser  ", true},
		{"\tcapabilities:", true},
		{"", false},
		{"   ", false},
		{"\t\r", false},
		{"#USER appuser", false},
		{"   # USER appuser", false},
		{"#", false},
		{"RUN echo '#not a comment'", true},
		{"x", true},
	}

	for _, tt := range tests {
		if got := IsMeaningful(tt.line); got != tt.want {
			t.Errorf("IsMeaningful(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestScanReader(t *testing.T) {
	pattern := regexp.MustCompile("USER")

	tests := []struct {
		name        string
		input       string
		wantMatched bool
		wantLines   []int
	}{
		{
			name:        "user set",
			input:       "FROM alpine\nUSER appuser\n",
			wantMatched: true,
			wantLines:   []int{2},
		},
		{
			name:        "commented user",
			input:       "FROM alpine\n#USER appuser\n",
			wantMatched: false,
		},
		{
			name:        "indented comment",
			input:       "FROM alpine\n    # USER appuser\n",
			wantMatched: false,
		},
		{
			name:        "byte order mark before comment",
			input:       "\uFEFF# USER appuser\nFROM alpine\n",
			wantMatched: false,
		},
		{
			name:        "byte order mark before instruction",
			input:       "\uFEFFUSER appuser\n",
			wantMatched: true,
			wantLines:   []int{1},
		},
		{
			name:        "multiple matches on one line",
			input:       "FROM alpine\nLABEL a=USER b=USER\n",
			wantMatched: true,
			wantLines:   []int{2, 2},
		},
		{
			name:        "matches on several lines",
			input:       "USER builder\n\nRUN make\n\nUSER app\n",
			wantMatched: true,
			wantLines:   []int{1, 5},
		},
		{
			name:        "crlf line endings",
			input:       "FROM alpine\r\nUSER app\r\n",
			wantMatched: true,
			wantLines:   []int{2},
		},
		{
			name:        "no trailing newline",
			input:       "FROM alpine\nUSER app",
			wantMatched: true,
			wantLines:   []int{2},
		},
		{
			name:        "empty file",
			input:       "",
			wantMatched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ScanReader("Dockerfile", strings.NewReader(tt.input), pattern)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Matched != tt.wantMatched {
				t.Errorf("expected matched=%v, got %v", tt.wantMatched, out.Matched)
			}
			if out.Matched != (len(out.Matches) > 0) {
				t.Error("Matched must be derived from the match list")
			}
			if len(out.Matches) != len(tt.wantLines) {
				t.Fatalf("expected %d matches, got %d: %v", len(tt.wantLines), len(out.Matches), out.Matches)
			}
			for i, m := range out.Matches {
				if m.Line != tt.wantLines[i] {
					t.Errorf("match %d: expected line %d, got %d", i, tt.wantLines[i], m.Line)
				}
				if m.Text != "USER" {
					t.Errorf("match %d: expected text USER, got %q", i, m.Text)
				}
			}
		})
	}
}

func TestScanCommentNeverMatches(t *testing.T) {
	patterns := []string{"USER", "capabilities:", "allowPrivilegeEscalation: false", "limits:", "readOnlyRootFilesystem: true"}

	for _, p := range patterns {
		re := regexp.MustCompile(p)
		base := "kind: Pod\nspec:\n  containers: []\n"
		withComment := base + "# " + p + "\n"

		before, err := ScanReader("f", strings.NewReader(base), re)
		if err != nil {
			t.Fatal(err)
		}
		after, err := ScanReader("f", strings.NewReader(withComment), re)
		if err != nil {
			t.Fatal(err)
		}
		if before.Matched != after.Matched {
			t.Errorf("%q: comment line changed outcome from %v to %v", p, before.Matched, after.Matched)
		}
	}
}

func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deploy.yaml")
	content := "spec:\n  securityContext:\n    capabilities:\n      drop: [ALL]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := Scan(locator.DiscoveredFile{Path: path, Class: locator.ClassManifest}, regexp.MustCompile("capabilities:"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Matched || out.Path != path {
		t.Errorf("expected match in %s, got %+v", path, out)
	}
	if len(out.Matches) != 1 || out.Matches[0].Line != 3 {
		t.Errorf("expected one match on line 3, got %v", out.Matches)
	}
}

func TestScanUnreadable(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(dir, "gone.yaml")
		_, err := Scan(locator.DiscoveredFile{Path: path}, regexp.MustCompile("x"))
		if !errors.Is(err, ErrFileUnreadable) {
			t.Fatalf("expected ErrFileUnreadable, got %v", err)
		}
		var ue *UnreadableError
		if !errors.As(err, &ue) || ue.Path != path {
			t.Errorf("expected UnreadableError for %s, got %v", path, err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected cause to be preserved, got %v", err)
		}
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		_, err := ScanReader("bad", strings.NewReader("USER app\n\xff\xfe\n"), regexp.MustCompile("USER"))
		if !errors.Is(err, ErrFileUnreadable) {
			t.Fatalf("expected ErrFileUnreadable, got %v", err)
		}
	})

	t.Run("line too long", func(t *testing.T) {
		long := strings.Repeat("a", maxLineSize+1)
		_, err := ScanReader("long", strings.NewReader(long), regexp.MustCompile("a"))
		if !errors.Is(err, ErrFileUnreadable) {
			t.Fatalf("expected ErrFileUnreadable, got %v", err)
		}
	})
}
