package chart

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openlaps/lapdelta/internal/config"
	"github.com/openlaps/lapdelta/internal/resample"
	"github.com/openlaps/lapdelta/internal/testutil"
)

func testData(t *testing.T) *resample.ResampledData {
	t.Helper()
	a := testutil.SyntheticLap("VER", 100, 5000, 70)
	b := testutil.SyntheticLap("SAI", 100, 5000, 71)
	data, err := resample.Resample(a, b, 50)
	testutil.AssertNoError(t, err)
	return data
}

func TestWritePNGs(t *testing.T) {
	dir := t.TempDir()
	paths, err := WritePNGs(testData(t), config.Default(), dir)
	testutil.AssertNoError(t, err)

	if len(paths) != 2 {
		t.Fatalf("got %d files, want 2", len(paths))
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("expected chart file at %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Errorf("chart file %s is empty", p)
		}
	}
	if !strings.HasSuffix(paths[0], "_speed.png") || !strings.HasSuffix(paths[1], "_delta.png") {
		t.Errorf("unexpected file names: %v", paths)
	}
}

func TestWritePNGsEmptyData(t *testing.T) {
	_, err := WritePNGs(&resample.ResampledData{}, config.Default(), t.TempDir())
	testutil.AssertError(t, err)
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	err := RenderHTML(&buf, testData(t), config.Default())
	testutil.AssertNoError(t, err)

	html := buf.String()
	for _, want := range []string{"VER", "SAI", "Delta"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comparison.html")
	testutil.AssertNoError(t, WriteHTML(testData(t), config.Default(), path))

	info, err := os.Stat(path)
	testutil.AssertNoError(t, err)
	if info.Size() == 0 {
		t.Error("chart HTML file is empty")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#3b82f6", color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}},
		{"#000000", color.RGBA{A: 0xff}},
		{"not-a-color", color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}},
	}
	for _, tt := range tests {
		if got := parseHexColor(tt.in); got != tt.want {
			t.Errorf("parseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
