package terminal

import "testing"

func TestKeyConstantsUnique(t *testing.T) {
	keys := []Key{
		KeyNone, KeyRune, KeyEnter, KeyBackspace, KeyTab, KeyEscape,
		KeyUp, KeyDown, KeyLeft, KeyRight, KeyHome, KeyEnd,
		KeyPageUp, KeyPageDown, KeyDelete,
		KeyCtrlC, KeyCtrlN, KeyCtrlP, KeyCtrlU,
	}

	seen := make(map[Key]bool)
	for _, k := range keys {
		if seen[k] {
			t.Errorf("duplicate key constant: %d", k)
		}
		seen[k] = true
	}
}

func TestEventInterface(t *testing.T) {
	var _ Event = KeyEvent{}
	var _ Event = ResizeEvent{}
	var _ Event = MouseEvent{}
	var _ Event = PasteEvent{}
}

func TestMouseEventPressed(t *testing.T) {
	tests := []struct {
		ev   MouseEvent
		want bool
	}{
		{MouseEvent{Button: MouseLeft, Action: MousePress}, true},
		{MouseEvent{Button: MouseRight, Action: MousePress}, true},
		{MouseEvent{Button: MouseLeft, Action: MouseRelease}, false},
		{MouseEvent{Button: MouseWheelUp, Action: MousePress}, false},
		{MouseEvent{Button: MouseNone, Action: MouseRelease}, false},
	}
	for _, tt := range tests {
		if got := tt.ev.Pressed(); got != tt.want {
			t.Errorf("%+v.Pressed() = %v, want %v", tt.ev, got, tt.want)
		}
	}
}
