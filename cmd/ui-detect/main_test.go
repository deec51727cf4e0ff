package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScreen(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 160, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 160; x++ {
			img.Set(x, y, color.White)
		}
	}
	for x := 30; x < 110; x++ {
		img.Set(x, 40, color.Black)
		img.Set(x, 89, color.Black)
	}
	for y := 40; y < 90; y++ {
		img.Set(30, y, color.Black)
		img.Set(109, y, color.Black)
	}
	path := filepath.Join(dir, "screen.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code: got %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "ui-detect dev") {
		t.Errorf("version output: %q", stdout.String())
	}
}

func TestRun_MissingImage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--tm"}, &stdout, &stderr); code == 0 {
		t.Error("missing --image should fail")
	}
	if !strings.Contains(stderr.String(), "--image is required") {
		t.Errorf("stderr: %q", stderr.String())
	}
}

func TestRun_NoStrategy(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--image=x.png"}, &stdout, &stderr); code == 0 {
		t.Error("no strategy should fail")
	}
}

func TestRun_UnreadableImage(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run([]string{"--image=" + filepath.Join(dir, "nope.png"), "--cc", "--data=" + dir, "--env=" + filepath.Join(dir, ".env")}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "failed to load screenshot") {
		t.Errorf("stderr: %q", stderr.String())
	}
}

func TestRun_Cascades(t *testing.T) {
	dir := t.TempDir()
	screen := writeScreen(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "cascades.txt"), []byte("panel builtin:boxes\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"--image=" + screen,
		"--cc",
		"--data=" + dir,
		"--env=" + filepath.Join(dir, ".env"),
		"--log-level=error",
		"--out=" + filepath.Join(dir, "overlay.png"),
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code: got %d, stderr: %s", code, stderr.String())
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "Found regions:\npanel: (") {
		t.Errorf("stdout: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "overlay.png")); err != nil {
		t.Errorf("overlay not written: %v", err)
	}
}
