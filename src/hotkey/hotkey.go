package hotkey

import (
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"

	"screen-annotate/src/logutil"
)

// Binding ties a combo such as "Ctrl+Alt+A" to a callback. OnPress runs on
// the hook goroutine and must not touch UI state directly.
type Binding struct {
	Combo   string
	OnPress func()
}

// Listen registers all bindings on a single gohook event stream. The
// returned stop function ends the hook.
func Listen(bindings []Binding) (stop func(), err error) {
	m, err := NewMatcher(bindings)
	if err != nil {
		return nil, err
	}

	evChan := gohook.Start()
	if evChan == nil {
		return nil, fmt.Errorf("gohook.Start() returned nil channel")
	}
	log.Printf("hotkey: listening for %s", m)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()
		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown:
				for _, fn := range m.KeyDown(ev.Rawcode) {
					fn()
				}
			case gohook.KeyUp:
				m.KeyUp(ev.Rawcode)
			}
		}
		log.Printf("hotkey: event channel closed")
	}()

	var once sync.Once
	return func() { once.Do(gohook.End) }, nil
}

type keyState struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

func (k *keyState) matches(raw uint16) bool {
	for _, rc := range k.rawcodes {
		if rc == raw {
			return true
		}
	}
	return false
}

type combo struct {
	binding Binding
	keys    []keyState
	// latched after firing until one of the keys goes up, so key repeat
	// does not fire the combo again.
	latched bool
}

// Matcher turns raw key events into combo activations.
type Matcher struct {
	mu     sync.Mutex
	combos []*combo
}

// NewMatcher parses every binding. A combo that names an unknown key is
// rejected rather than silently matching on fewer keys.
func NewMatcher(bindings []Binding) (*Matcher, error) {
	m := &Matcher{}
	for _, b := range bindings {
		names := parseHotkey(b.Combo)
		if len(names) == 0 {
			return nil, fmt.Errorf("empty hotkey %q", b.Combo)
		}
		c := &combo{binding: b}
		for _, name := range names {
			rawcodes := keyNameToRawcodes(name)
			if len(rawcodes) == 0 {
				return nil, fmt.Errorf("cannot map key %q in hotkey %q", name, logutil.Sanitize(b.Combo))
			}
			c.keys = append(c.keys, keyState{name: name, rawcodes: rawcodes})
		}
		m.combos = append(m.combos, c)
	}
	return m, nil
}

// KeyDown records a press and returns the callbacks of every combo that
// became complete.
func (m *Matcher) KeyDown(raw uint16) []func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var fire []func()
	for _, c := range m.combos {
		hit := false
		for i := range c.keys {
			if c.keys[i].matches(raw) {
				c.keys[i].pressed = true
				hit = true
			}
		}
		if !hit || c.latched || !c.complete() {
			continue
		}
		c.latched = true
		log.Printf("hotkey: %s activated", c.binding.Combo)
		if c.binding.OnPress != nil {
			fire = append(fire, c.binding.OnPress)
		}
	}
	return fire
}

// KeyUp records a release.
func (m *Matcher) KeyUp(raw uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.combos {
		for i := range c.keys {
			if c.keys[i].matches(raw) && c.keys[i].pressed {
				c.keys[i].pressed = false
				c.latched = false
			}
		}
	}
}

func (c *combo) complete() bool {
	for i := range c.keys {
		if !c.keys[i].pressed {
			return false
		}
	}
	return true
}

func (m *Matcher) String() string {
	names := make([]string, len(m.combos))
	for i, c := range m.combos {
		names[i] = c.binding.Combo
	}
	return strings.Join(names, ", ")
}

// parseHotkey converts a hotkey string like "Ctrl+Alt+a" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(hotkeyConfig), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "control":
			part = "ctrl"
		case "win", "super":
			part = "cmd"
		}
		keys = append(keys, part)
	}
	return keys
}

// Windows virtual key codes, which gohook reports as rawcodes there.
var namedKeys = map[string][]uint16{
	"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
	"alt":   {164, 165}, // VK_LMENU, VK_RMENU
	"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
	"cmd":   {91, 92},   // VK_LWIN, VK_RWIN

	"space":     {32},
	"enter":     {13},
	"return":    {13},
	"esc":       {27},
	"escape":    {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"del":       {46},
	"insert":    {45},
	"ins":       {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pgup":      {33},
	"pagedown":  {34},
	"pgdn":      {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},

	"printscreen": {44}, // VK_SNAPSHOT
	"prtsc":       {44},
}

// keyNameToRawcodes maps a key name to its rawcodes; modifiers return both
// the left and right variants.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))
	if keyName == "win" || keyName == "super" {
		keyName = "cmd"
	}
	if codes, ok := namedKeys[keyName]; ok {
		return codes
	}

	// A-Z are 0x41-0x5A, 0-9 are 0x30-0x39
	if len(keyName) == 1 {
		switch c := keyName[0]; {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48}
		}
	}

	// F1-F24 are 0x70-0x87
	var n int
	if _, err := fmt.Sscanf(keyName, "f%d", &n); err == nil && n >= 1 && n <= 24 && keyName == fmt.Sprintf("f%d", n) {
		return []uint16{uint16(111 + n)}
	}

	log.Printf("WARNING: Unknown key name '%s', cannot map to rawcode", logutil.Sanitize(keyName))
	return nil
}
