package fsreader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileExists(t *testing.T) {
	r := New()
	dir := t.TempDir()
	present := filepath.Join(dir, "present.awk")
	if err := os.WriteFile(present, []byte("BEGIN{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if !r.FileExists(present) {
		t.Error("expected FileExists to report true for a file that exists")
	}
	if r.FileExists(filepath.Join(dir, "absent.awk")) {
		t.Error("expected FileExists to report false for a missing file")
	}
}

func TestReadFileDeliversContents(t *testing.T) {
	r := New()
	dir := t.TempDir()
	target := filepath.Join(dir, "lib.awk")
	if err := os.WriteFile(target, []byte("function f(x){return x}"), 0644); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	var gotData string
	var gotErr error
	r.ReadFile(target, func(data string, err error) {
		gotData, gotErr = data, err
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ReadFile callback did not fire")
	}

	if gotErr != nil {
		t.Fatalf("unexpected error: %v", gotErr)
	}
	if gotData != "function f(x){return x}" {
		t.Errorf("got %q", gotData)
	}
}

func TestReadFileReportsMissingFile(t *testing.T) {
	r := New()
	done := make(chan struct{})
	var gotErr error
	r.ReadFile(filepath.Join(t.TempDir(), "missing.awk"), func(data string, err error) {
		gotErr = err
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ReadFile callback did not fire")
	}
	if gotErr == nil {
		t.Error("expected an error for a missing file")
	}
}
