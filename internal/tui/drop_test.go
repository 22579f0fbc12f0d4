package tui

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitPathTokens(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "single", in: "/tmp/a.png", want: []string{"/tmp/a.png"}},
		{name: "several", in: "/tmp/a.png /tmp/b.txt\n", want: []string{"/tmp/a.png", "/tmp/b.txt"}},
		{name: "single quotes", in: "'/tmp/my file.png'", want: []string{"/tmp/my file.png"}},
		{name: "double quotes", in: `"/tmp/my file.png" /tmp/x`, want: []string{"/tmp/my file.png", "/tmp/x"}},
		{name: "escaped space", in: `/tmp/my\ file.png`, want: []string{"/tmp/my file.png"}},
		{name: "empty quotes", in: `''`, want: []string{""}},
		{name: "unbalanced", in: `'/tmp/a`, want: nil},
		{name: "blank", in: "  \n", want: nil},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := splitPathTokens(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("splitPathTokens(%q) got %q want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDroppedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	spaced := filepath.Join(dir, "my file.png")
	plainFile := filepath.Join(dir, "notes.txt")
	for _, path := range []string{spaced, plainFile} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	got, ok := droppedFiles("'" + spaced + "' " + plainFile)
	if !ok {
		t.Fatal("expected a drop")
	}
	if want := []string{spaced, plainFile}; !reflect.DeepEqual(got, want) {
		t.Fatalf("paths got %q want %q", got, want)
	}

	if got, ok := droppedFiles("file://" + plainFile); !ok || got[0] != plainFile {
		t.Fatalf("file uri got %q (%v)", got, ok)
	}

	if _, ok := droppedFiles(plainFile + " " + filepath.Join(dir, "missing.txt")); ok {
		t.Fatal("a missing file should make the paste plain text")
	}
	if _, ok := droppedFiles(dir); ok {
		t.Fatal("directories are not dropped files")
	}
	if _, ok := droppedFiles("hello world"); ok {
		t.Fatal("plain words are not dropped files")
	}
}
