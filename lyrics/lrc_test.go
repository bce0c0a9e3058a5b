package lyrics

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLRC(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.lrc")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadParsesAndSortsLines(t *testing.T) {
	path := writeLRC(t, "[00:10.00]second line\n[00:00.00]first line\n")

	lrc, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lrc.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(lrc.Lines))
	}
	if lrc.Lines[0].Text != "first line" || lrc.Lines[1].Text != "second line" {
		t.Errorf("lines not sorted by time: %+v", lrc.Lines)
	}
}

func TestLoadExpandsMultipleTimestampsPerLine(t *testing.T) {
	path := writeLRC(t, "[00:05.00][00:15.00]repeated chorus\n")

	lrc, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lrc.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(lrc.Lines))
	}
	if lrc.Lines[0].Text != "repeated chorus" || lrc.Lines[1].Text != "repeated chorus" {
		t.Errorf("both expanded lines should share the text: %+v", lrc.Lines)
	}
	if lrc.Lines[0].T != 5 || lrc.Lines[1].T != 15 {
		t.Errorf("expanded timestamps wrong: %+v", lrc.Lines)
	}
}

func TestLoadEmptyPathReturnsEmpty(t *testing.T) {
	lrc, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lrc.Lines) != 0 {
		t.Errorf("expected no lines for an empty path, got %d", len(lrc.Lines))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.lrc"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestCurrentLineBeforeFirstTimestamp(t *testing.T) {
	lrc := LRC{Lines: []Line{{T: 10, Text: "hello"}, {T: 20, Text: "world"}}}
	cur, next := lrc.CurrentLine(0)
	if cur != "" {
		t.Errorf("current = %q, want empty before the first timestamp", cur)
	}
	if next != "hello" {
		t.Errorf("next = %q, want %q", next, "hello")
	}
}

func TestCurrentLineBetweenTimestamps(t *testing.T) {
	lrc := LRC{Lines: []Line{{T: 10, Text: "hello"}, {T: 20, Text: "world"}}}
	cur, next := lrc.CurrentLine(15)
	if cur != "hello" || next != "world" {
		t.Errorf("CurrentLine(15) = (%q, %q), want (hello, world)", cur, next)
	}
}

func TestCurrentLineAfterLast(t *testing.T) {
	lrc := LRC{Lines: []Line{{T: 10, Text: "hello"}, {T: 20, Text: "world"}}}
	cur, next := lrc.CurrentLine(100)
	if cur != "world" || next != "" {
		t.Errorf("CurrentLine(100) = (%q, %q), want (world, \"\")", cur, next)
	}
}

func TestCurrentLineEmptyLRC(t *testing.T) {
	lrc := LRC{}
	cur, next := lrc.CurrentLine(5)
	if cur != "" || next != "" {
		t.Errorf("CurrentLine on empty LRC = (%q, %q), want (\"\", \"\")", cur, next)
	}
}
