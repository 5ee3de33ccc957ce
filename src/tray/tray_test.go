package tray

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"image/png"
	"testing"
)

type fakeBackend struct {
	started bool
	items   []Item
	tooltip string
	stops   int
}

func (b *fakeBackend) Start(icon Icon, tooltip string, items []Item) error {
	b.started = true
	b.items = items
	b.tooltip = tooltip
	if len(icon.PNG) == 0 || len(icon.ICO) == 0 {
		panic("icon not rendered")
	}
	return nil
}

func (b *fakeBackend) SetTooltip(tooltip string) { b.tooltip = tooltip }
func (b *fakeBackend) Stop()                     { b.stops++ }

func TestMenuLayout(t *testing.T) {
	c := New(&fakeBackend{}, nil, Options{})
	items := c.Menu()
	if len(items) != 3 {
		t.Fatalf("menu has %d items, want 3", len(items))
	}
	if items[0].Label == "" || items[0].Action == nil {
		t.Errorf("first item should show the launcher: %+v", items[0])
	}
	if !items[1].Separator {
		t.Errorf("second item should be a separator")
	}
	if !items[2].IsQuit || items[2].Label != "Quit" {
		t.Errorf("last item should quit: %+v", items[2])
	}
}

func TestStartInstallsMenu(t *testing.T) {
	b := &fakeBackend{}
	c := New(b, nil, Options{Tooltip: "snapper"})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	if !b.started || len(b.items) != 3 || b.tooltip != "snapper" {
		t.Fatalf("backend = %+v", b)
	}
	c.SetTooltip("busy")
	if b.tooltip != "busy" {
		t.Errorf("tooltip = %q", b.tooltip)
	}
}

func TestShowItemDispatchesOnShow(t *testing.T) {
	shown := 0
	var hops int
	dispatch := func(fn func()) { hops++; fn() }
	c := New(&fakeBackend{}, dispatch, Options{OnShow: func() { shown++ }})

	c.Menu()[0].Action()
	if shown != 1 || hops != 1 {
		t.Fatalf("shown = %d, hops = %d; want 1, 1", shown, hops)
	}
}

func TestQuitHidesIconFirstAndOnce(t *testing.T) {
	b := &fakeBackend{}
	var order []string
	dispatched := 0
	dispatch := func(fn func()) { dispatched++; fn() }
	c := New(b, dispatch, Options{OnQuit: func() {
		if b.stops == 0 {
			order = append(order, "quit-before-hide")
			return
		}
		order = append(order, "quit")
	}})

	c.Menu()[2].Action()
	c.Quit()

	if b.stops != 1 {
		t.Errorf("backend stopped %d times, want 1", b.stops)
	}
	if len(order) != 1 || order[0] != "quit" {
		t.Errorf("order = %v", order)
	}
	if dispatched != 1 {
		t.Errorf("OnQuit dispatched %d times", dispatched)
	}
}

func TestRenderIcon(t *testing.T) {
	img := RenderIcon()
	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"corner", 0, 0, color.RGBA{}},
		{"body", 20, 45, bodyFill},
		{"body border", 8, 30, outline},
		{"lens", 32, 34, lensFill},
		{"shutter", 48, 15, shutterFill},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("%s at (%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestIconICO(t *testing.T) {
	ico, err := IconICO()
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.LittleEndian.Uint16(ico[2:]); got != 1 {
		t.Errorf("type = %d, want 1 (icon)", got)
	}
	if got := binary.LittleEndian.Uint16(ico[4:]); got != 1 {
		t.Errorf("count = %d", got)
	}
	if ico[6] != IconSize || ico[7] != IconSize {
		t.Errorf("entry size = %dx%d", ico[6], ico[7])
	}
	size := binary.LittleEndian.Uint32(ico[14:])
	offset := binary.LittleEndian.Uint32(ico[18:])
	if int(offset)+int(size) != len(ico) {
		t.Fatalf("entry points at %d+%d, file is %d bytes", offset, size, len(ico))
	}
	img, err := png.Decode(bytes.NewReader(ico[offset:]))
	if err != nil {
		t.Fatalf("embedded png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != IconSize || b.Dy() != IconSize {
		t.Errorf("embedded png is %v", b)
	}
}
