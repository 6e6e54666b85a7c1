package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// binaryPath holds the path to the compiled rasterconv binary. Set in TestMain.
var binaryPath string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "rasterconv-test-bin-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "rasterconv")
	dir, err := filepath.Abs(".")
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		binaryPath = ""
		os.Exit(m.Run())
	}
	os.Exit(m.Run())
}

func skipIfNoBinary(t *testing.T) {
	t.Helper()
	if binaryPath == "" {
		t.Skip("rasterconv binary not built; skipping")
	}
}

func run(t *testing.T, stdin []byte, args ...string) (stdout, stderr []byte, err error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

func createTestPNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating test PNG: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("encoding test PNG: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing test PNG: %v", err)
	}
	return path
}

func TestInfo_PNG(t *testing.T) {
	skipIfNoBinary(t)
	dir := t.TempDir()
	pngPath := createTestPNG(t, dir)

	stdout, stderr, err := run(t, nil, "info", pngPath)
	if err != nil {
		t.Fatalf("info failed: %v\nstderr: %s", err, stderr)
	}
	out := string(stdout)
	if !strings.Contains(out, "8 x 8") {
		t.Errorf("expected dimensions '8 x 8' in output:\n%s", out)
	}
	if !strings.Contains(out, "Format:     png") {
		t.Errorf("expected format 'png' in output:\n%s", out)
	}
}

func TestConv_PNGToBMP(t *testing.T) {
	skipIfNoBinary(t)
	dir := t.TempDir()
	pngPath := createTestPNG(t, dir)
	outPath := filepath.Join(dir, "output.bmp")

	_, stderr, err := run(t, nil, "conv", "-o", outPath, pngPath)
	if err != nil {
		t.Fatalf("conv failed: %v\nstderr: %s", err, stderr)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(data) < 2 || string(data[:2]) != "BM" {
		t.Errorf("output does not look like a BMP (first 2 bytes: %q)", data[:2])
	}
}

func TestConv_StdinStdout(t *testing.T) {
	skipIfNoBinary(t)
	dir := t.TempDir()
	pngPath := createTestPNG(t, dir)
	pngData, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatalf("reading test PNG: %v", err)
	}

	stdout, stderr, err := run(t, pngData, "conv", "-o", "-", "-")
	if err != nil {
		t.Fatalf("conv stdin/stdout failed: %v\nstderr: %s", err, stderr)
	}
	if len(stdout) < 2 || string(stdout[:2]) != "BM" {
		t.Error("stdout does not start with BMP magic")
	}
}

func TestConv_MissingInput(t *testing.T) {
	skipIfNoBinary(t)
	_, _, err := run(t, nil, "conv")
	if err == nil {
		t.Fatal("expected non-zero exit for missing input, got nil")
	}
}

func TestUnknownCommand(t *testing.T) {
	skipIfNoBinary(t)
	_, _, err := run(t, nil, "badcmd")
	if err == nil {
		t.Fatal("expected non-zero exit for unknown command, got nil")
	}
}

func TestNoArgs(t *testing.T) {
	skipIfNoBinary(t)
	_, _, err := run(t, nil)
	if err == nil {
		t.Fatal("expected non-zero exit for no arguments, got nil")
	}
}
