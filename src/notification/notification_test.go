package notification

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2"
)

type recorder struct {
	sent []*fyne.Notification
}

func (r *recorder) SendNotification(n *fyne.Notification) { r.sent = append(r.sent, n) }

func TestTruncate(t *testing.T) {
	short := "saved"
	if got := Truncate(short); got != short {
		t.Errorf("Truncate(%q) = %q", short, got)
	}

	long := strings.Repeat("界", MaxLength+10)
	got := Truncate(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("missing ellipsis: %q", got)
	}
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n != MaxLength {
		t.Errorf("kept %d runes, want %d", n, MaxLength)
	}
}

func TestStartupAndError(t *testing.T) {
	r := &recorder{}
	n := New(r)
	n.Startup()
	n.Error("Capture failed", strings.Repeat("x", 300))

	if len(r.sent) != 2 {
		t.Fatalf("sent %d notifications", len(r.sent))
	}
	if r.sent[0].Title != AppTitle || !strings.Contains(r.sent[0].Content, "tray menu") {
		t.Errorf("startup = %+v", r.sent[0])
	}
	if r.sent[1].Title != "Capture failed" || len(r.sent[1].Content) != MaxLength+3 {
		t.Errorf("error = %q (%d chars)", r.sent[1].Title, len(r.sent[1].Content))
	}
}

func TestNilSenderOnlyLogs(t *testing.T) {
	New(nil).Error("t", "m")
	var n *Notifier
	n.Startup()
}
