package hotkey

import "testing"

const (
	vkLCtrl = 162
	vkRCtrl = 163
	vkLAlt  = 164
	vkA     = 65
	vkS     = 83
)

func newCountingMatcher(t *testing.T) (*Matcher, *int, *int) {
	t.Helper()
	var full, region int
	m, err := NewMatcher([]Binding{
		{Combo: "Ctrl+Alt+A", OnPress: func() { full++ }},
		{Combo: "Ctrl+Alt+S", OnPress: func() { region++ }},
	})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	return m, &full, &region
}

func press(m *Matcher, codes ...uint16) {
	for _, c := range codes {
		for _, fn := range m.KeyDown(c) {
			fn()
		}
	}
}

func TestMatcherFiresOnCompleteCombo(t *testing.T) {
	m, full, region := newCountingMatcher(t)

	press(m, vkLCtrl, vkLAlt)
	if *full != 0 || *region != 0 {
		t.Fatal("modifiers alone must not fire")
	}
	press(m, vkA)
	if *full != 1 || *region != 0 {
		t.Fatalf("full=%d region=%d, want 1/0", *full, *region)
	}
}

func TestMatcherAcceptsEitherModifierSide(t *testing.T) {
	m, full, _ := newCountingMatcher(t)
	press(m, vkRCtrl, vkLAlt, vkA)
	if *full != 1 {
		t.Fatalf("right ctrl should satisfy ctrl, full=%d", *full)
	}
}

func TestMatcherKeyRepeatDoesNotRefire(t *testing.T) {
	m, full, _ := newCountingMatcher(t)
	press(m, vkLCtrl, vkLAlt, vkA, vkA, vkA)
	if *full != 1 {
		t.Fatalf("held key fired %d times, want 1", *full)
	}

	m.KeyUp(vkA)
	press(m, vkA)
	if *full != 2 {
		t.Fatalf("re-pressing the key with modifiers held should fire again, full=%d", *full)
	}
}

func TestMatcherCombosAreIndependent(t *testing.T) {
	m, full, region := newCountingMatcher(t)
	press(m, vkLCtrl, vkLAlt, vkA)
	m.KeyUp(vkA)
	press(m, vkS)
	if *full != 1 || *region != 1 {
		t.Fatalf("full=%d region=%d, want 1/1", *full, *region)
	}
}

func TestMatcherReleaseResets(t *testing.T) {
	m, full, _ := newCountingMatcher(t)
	press(m, vkLCtrl, vkLAlt)
	m.KeyUp(vkLCtrl)
	press(m, vkA)
	if *full != 0 {
		t.Fatal("combo fired with a released modifier")
	}
}

func TestNewMatcherRejectsUnknownKeys(t *testing.T) {
	if _, err := NewMatcher([]Binding{{Combo: "Ctrl+Bogus"}}); err == nil {
		t.Fatal("expected an error for an unknown key")
	}
	if _, err := NewMatcher([]Binding{{Combo: " + "}}); err == nil {
		t.Fatal("expected an error for an empty combo")
	}
}
