// ABOUTME: Video surface collaborator contract
// ABOUTME: Position, rate, and lifecycle notifications consumed by the engine
package video

// EventKind tags a video surface lifecycle notification.
type EventKind int

const (
	EventPlay EventKind = iota
	EventPause
	EventSeeking
	EventSeeked
	EventEnded
)

func (k EventKind) String() string {
	switch k {
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventSeeking:
		return "seeking"
	case EventSeeked:
		return "seeked"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is a tagged video surface notification. Position carries the
// surface's playback position in seconds at emission time.
type Event struct {
	Kind     EventKind
	Position float64
}

// Surface is the externally-owned video element the engine locks onto. The
// engine reads position and writes only the playback rate; it never drives
// the surface's own transport.
type Surface interface {
	// CurrentTime returns the playback position in seconds.
	CurrentTime() float64
	// Duration returns the media duration in seconds.
	Duration() float64
	// Paused reports whether the surface transport is paused.
	Paused() bool
	PlaybackRate() float64
	SetPlaybackRate(rate float64)
	// Events delivers lifecycle notifications in emission order.
	Events() <-chan Event
}
