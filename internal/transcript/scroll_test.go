package transcript

import "testing"

func TestAutoScrollChasesBottom(t *testing.T) {
	s := NewScrollController()
	if got := s.Advance(100); got != 30 {
		t.Fatalf("first frame offset = %d, want 30", got)
	}
	var got int
	for i := 0; i < 14; i++ {
		got = s.Advance(100)
	}
	if got != 100 {
		t.Fatalf("offset after convergence = %d, want 100", got)
	}
	if !s.AutoScroll() {
		t.Fatalf("auto-scroll should stay engaged at the bottom")
	}
}

func TestScrollUpDetachesAutoScroll(t *testing.T) {
	s := NewScrollController()
	for i := 0; i < 30; i++ {
		s.Advance(100)
	}
	s.ScrollBy(-20)
	if s.AutoScroll() {
		t.Fatalf("scrolling up must detach auto-scroll")
	}
	if s.Target() != 80 {
		t.Fatalf("target = %d, want 80", s.Target())
	}

	// Growing content no longer drags the view down.
	for i := 0; i < 30; i++ {
		s.Advance(200)
	}
	if s.Offset() != 80 {
		t.Fatalf("detached offset = %d, want 80", s.Offset())
	}
}

func TestScrollToBottomReengages(t *testing.T) {
	s := NewScrollController()
	for i := 0; i < 30; i++ {
		s.Advance(100)
	}
	s.ScrollBy(-50)
	s.ToBottom()
	for i := 0; i < 30; i++ {
		s.Advance(100)
	}
	if s.Offset() != 100 || !s.AutoScroll() {
		t.Fatalf("offset %d auto %v, want 100/true", s.Offset(), s.AutoScroll())
	}
}

func TestScrollClampsToContent(t *testing.T) {
	s := NewScrollController()
	s.ScrollBy(-5)
	if s.Target() != 0 {
		t.Fatalf("target clamped to %d, want 0", s.Target())
	}
	for i := 0; i < 30; i++ {
		s.Advance(100)
	}
	s.ScrollBy(500)
	if got := s.Advance(100); got > 100 {
		t.Fatalf("offset %d exceeds max scroll", got)
	}
}

func TestDisableResetsState(t *testing.T) {
	s := NewScrollController()
	for i := 0; i < 10; i++ {
		s.Advance(100)
	}
	s.Disable()
	if s.Offset() != 0 || s.Target() != 0 || !s.AutoScroll() {
		t.Fatalf("disable left offset %d target %d auto %v", s.Offset(), s.Target(), s.AutoScroll())
	}
}
