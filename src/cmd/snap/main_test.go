package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"

	"screen-annotate/src/geometry"
)

type fakeGrabber struct {
	img     *image.RGBA
	err     error
	gotRect geometry.Rect
}

func (g *fakeGrabber) Full() (*image.RGBA, error) { return g.img, g.err }

func (g *fakeGrabber) Rect(r geometry.Rect) (*image.RGBA, error) {
	g.gotRect = r
	if g.err != nil {
		return nil, g.err
	}
	return image.NewRGBA(image.Rect(0, 0, r.Width, r.Height)), nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SAVE_DIR", "PEN_COLOR", "PEN_WIDTH", "CAPTURE_SCOPE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("SCREEN_ANNOTATE_ENV", "")
}

func TestParseRegion(t *testing.T) {
	r, err := parseRegion("10, 20,300,200")
	if err != nil {
		t.Fatal(err)
	}
	if r != (geometry.Rect{X: 10, Y: 20, Width: 300, Height: 200}) {
		t.Fatalf("region = %v", r)
	}
	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "0,0,0,10", "0,0,10,-1"} {
		if _, err := parseRegion(bad); err == nil {
			t.Errorf("parseRegion(%q) should fail", bad)
		}
	}
}

func TestNormalizeLegacyArgs(t *testing.T) {
	got := normalizeLegacyArgs([]string{"snap", "-region", "0,0,5,5", "-out=/tmp", "-v", "--json"})
	want := []string{"snap", "--region", "0,0,5,5", "--out=/tmp", "-v", "--json"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("arg[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFullAndRegionAreExclusive(t *testing.T) {
	for _, args := range [][]string{
		{"snap"},
		{"snap", "--full", "--region", "0,0,10,10"},
	} {
		if err := runWithArgs(args); err == nil {
			t.Errorf("runWithArgs(%v) should fail", args)
		}
	}
}

func TestRunSavesAnnotatedRegion(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	g := &fakeGrabber{}
	var out bytes.Buffer

	err := runWithOptions(snapOptions{
		region:     "5,5,100,50",
		outDir:     dir,
		lines:      []string{"10,10,90,10"},
		jsonOutput: true,
	}, g, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if g.gotRect != (geometry.Rect{X: 5, Y: 5, Width: 100, Height: 50}) {
		t.Errorf("grabbed %v", g.gotRect)
	}

	var res SnapResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if res.Width != 100 || res.Height != 50 || res.Strokes != 1 || !strings.HasPrefix(res.Path, dir) {
		t.Fatalf("result = %+v", res)
	}

	f, err := os.Open(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := img.At(50, 10).RGBA(); r>>8 < 200 {
		t.Errorf("line missing at (50,10): %v", img.At(50, 10))
	}
	if got := color.RGBAModel.Convert(img.At(50, 40)).(color.RGBA); got.A != 0 {
		t.Errorf("untouched pixel changed: %v", got)
	}
}

func TestRunPrintsPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	var out bytes.Buffer
	g := &fakeGrabber{img: image.NewRGBA(image.Rect(0, 0, 20, 20))}

	if err := runWithOptions(snapOptions{full: true, outDir: dir}, g, &out); err != nil {
		t.Fatal(err)
	}
	path := strings.TrimSpace(out.String())
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("printed path %q does not exist: %v", path, err)
	}
}

func TestRunReportsCaptureError(t *testing.T) {
	clearEnv(t)
	g := &fakeGrabber{err: errors.New("no display")}
	err := runWithOptions(snapOptions{full: true, outDir: t.TempDir()}, g, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "no display") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunRejectsBadArrow(t *testing.T) {
	clearEnv(t)
	err := runWithOptions(snapOptions{full: true, outDir: t.TempDir(), arrows: []string{"1,2"}}, &fakeGrabber{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "--arrow") {
		t.Fatalf("err = %v", err)
	}
}
