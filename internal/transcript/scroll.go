package transcript

import "math"

const (
	// smoothFactor is the per-frame exponential convergence rate of the
	// animated scroll position toward its target.
	smoothFactor = 0.3
	// snapEpsilon stops the animation once the residual is invisible,
	// avoiding perpetual sub-row drift.
	snapEpsilon = 0.01
)

// ScrollController owns the target/position pair of the transcript
// viewport. The target is the authoritative integer offset; the position
// converges toward it each frame by exponential smoothing. auto tracks
// whether the view is pinned to the newest content.
type ScrollController struct {
	target int
	pos    float64
	offset int
	auto   bool
}

// NewScrollController starts pinned to the bottom.
func NewScrollController() ScrollController {
	return ScrollController{auto: true}
}

// Disable resets all scroll state for content that fits the viewport.
func (s *ScrollController) Disable() {
	s.target = 0
	s.pos = 0
	s.offset = 0
	s.auto = true
}

// Advance runs one animation frame against the current maximum scroll
// and returns the integer offset to render at. While auto-scroll is
// engaged the target snaps to the bottom so new content stays in view;
// reaching the bottom re-engages auto-scroll.
func (s *ScrollController) Advance(maxScroll int) int {
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.auto {
		s.target = maxScroll
	}
	if s.target > maxScroll {
		s.target = maxScroll
	}
	if s.target < 0 {
		s.target = 0
	}

	delta := float64(s.target) - s.pos
	if math.Abs(delta) < snapEpsilon {
		s.pos = float64(s.target)
	} else {
		s.pos += delta * smoothFactor
	}
	s.offset = int(math.Round(s.pos))
	if s.offset >= maxScroll {
		s.auto = true
	}
	return s.offset
}

// ScrollBy moves the target by delta rows. Scrolling up detaches
// auto-scroll; the next Advance clamps and may re-attach at the bottom.
func (s *ScrollController) ScrollBy(delta int) {
	s.target += delta
	if s.target < 0 {
		s.target = 0
	}
	if delta < 0 {
		s.auto = false
	}
}

// ToTop jumps the target to the first row.
func (s *ScrollController) ToTop() {
	s.target = 0
	s.auto = false
}

// ToBottom re-engages auto-scroll; Advance will chase the bottom.
func (s *ScrollController) ToBottom() {
	s.auto = true
}

// Offset is the integer row offset of the last Advance.
func (s *ScrollController) Offset() int { return s.offset }

// Target is the authoritative desired offset.
func (s *ScrollController) Target() int { return s.target }

// AutoScroll reports whether the view is pinned to the bottom.
func (s *ScrollController) AutoScroll() bool { return s.auto }

// Position is the animated position, exposed for tests.
func (s *ScrollController) Position() float64 { return s.pos }
