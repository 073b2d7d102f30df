package window

import "testing"

func TestPixelRatio(t *testing.T) {
	tests := []struct {
		logical, framebuffer int
		want                 float64
	}{
		{logical: 1280, framebuffer: 1280, want: 1},
		{logical: 1280, framebuffer: 2560, want: 2},
		{logical: 800, framebuffer: 1200, want: 1.5},
		{logical: 0, framebuffer: 1200, want: 1},
		{logical: 800, framebuffer: 0, want: 1},
	}
	for _, tt := range tests {
		if got := pixelRatio(tt.logical, tt.framebuffer); got != tt.want {
			t.Errorf("pixelRatio(%d, %d) = %v, want %v", tt.logical, tt.framebuffer, got, tt.want)
		}
	}
}

func TestKeyRouting(t *testing.T) {
	var got []uint32
	w := &engineWindow{}
	w.SetKeyDownCallback(func(k uint32) { got = append(got, k) })

	if w.key(keySpace) {
		t.Error("space closed the window")
	}
	if !w.key(keyEscape) {
		t.Error("escape did not close the window")
	}
	if w.key(keySpace + 1) {
		t.Error("a plain key closed the window")
	}
	if len(got) != 1 || got[0] != keySpace+1 {
		t.Errorf("forwarded keys = %v, want only %d", got, keySpace+1)
	}
}

func TestSetSizeNotifiesOnChange(t *testing.T) {
	w := &engineWindow{width: 800, height: 600, fbWidth: 800, fbHeight: 600}
	calls := 0
	w.SetResizeCallback(func(width, height int) { calls++ })

	w.setSize(800, 600, 800, 600)
	if calls != 0 {
		t.Fatalf("unchanged size notified %d times", calls)
	}
	// Content scale change only moves the framebuffer.
	w.setSize(800, 600, 1600, 1200)
	if calls != 1 || w.PixelRatio() != 2 {
		t.Errorf("calls = %d ratio = %v, want 1 and 2", calls, w.PixelRatio())
	}
}

func TestClosedWindow(t *testing.T) {
	w := &engineWindow{}
	if w.IsRunning() {
		t.Error("window without a native handle reports running")
	}
	if w.SurfaceDescriptor() != nil {
		t.Error("closed window returned a surface descriptor")
	}
	if err := w.Close(); err == nil {
		t.Error("closing a closed window succeeded")
	}
}
