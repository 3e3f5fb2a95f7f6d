package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestRunWritesFrame(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	if err := run(out, "", 3, 10, false); err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1600 || b.Dy() != 900 {
		t.Fatalf("bounds %v, want 1600x900", b)
	}
}

func TestRunBadConfig(t *testing.T) {
	if err := run(filepath.Join(t.TempDir(), "x.png"), "does-not-exist.yaml", 1, 0, false); err == nil {
		t.Fatal("expected an error for a missing config")
	}
}
