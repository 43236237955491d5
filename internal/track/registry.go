// ABOUTME: Track registry keyed by id
// ABOUTME: Resolves the cross-track solo group whenever membership or flags change
package track

import (
	"sort"
	"sync"
)

// Registry maps track ids to tracks. Solo is a cross-track invariant, so
// every mutation that can change the solo group recomputes all gains.
type Registry struct {
	mu     sync.RWMutex
	tracks map[string]*Track
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tracks: make(map[string]*Track)}
}

// Add registers a track, replacing any previous track with the same id.
// Gains are recomputed so the newcomer respects an existing solo group.
func (r *Registry) Add(t *Track) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracks[t.ID] = t
	r.recompute()
}

// Get returns the track for id, or nil.
func (r *Registry) Get(id string) *Track {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tracks[id]
}

// Remove deletes and returns the track for id, or nil. Removing a soloed
// track can dissolve the solo group, so gains are recomputed.
func (r *Registry) Remove(id string) *Track {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tracks[id]
	if !ok {
		return nil
	}
	delete(r.tracks, id)
	r.recompute()
	return t
}

// Len returns the number of registered tracks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tracks)
}

// All returns the tracks sorted by id for stable iteration.
func (r *Registry) All() []*Track {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Track, 0, len(r.tracks))
	for _, t := range r.tracks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clear removes every track and returns them.
func (r *Registry) Clear() []*Track {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Track, 0, len(r.tracks))
	for _, t := range r.tracks {
		out = append(out, t)
	}
	r.tracks = make(map[string]*Track)
	return out
}

// SetVolume clamps volume to 0-100 and recomputes the track's gain.
// Reports whether the track exists.
func (r *Registry) SetVolume(id string, volume int) bool {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tracks[id]
	if !ok {
		return false
	}
	t.mu.Lock()
	t.volume = volume
	t.mu.Unlock()
	r.recompute()
	return true
}

// SetMute updates the mute flag and recomputes the track's gain.
func (r *Registry) SetMute(id string, muted bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tracks[id]
	if !ok {
		return false
	}
	t.mu.Lock()
	t.muted = muted
	t.mu.Unlock()
	r.recompute()
	return true
}

// SetSolo updates the solo flag. Solo changes affect every track's gain.
func (r *Registry) SetSolo(id string, solo bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tracks[id]
	if !ok {
		return false
	}
	t.mu.Lock()
	t.solo = solo
	t.mu.Unlock()
	r.recompute()
	return true
}

// AnySolo reports whether any registered track is soloed.
func (r *Registry) AnySolo() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.anySoloLocked()
}

func (r *Registry) anySoloLocked() bool {
	for _, t := range r.tracks {
		t.mu.Lock()
		solo := t.solo
		t.mu.Unlock()
		if solo {
			return true
		}
	}
	return false
}

// recompute publishes fresh gain levels for all tracks. Live playback
// handles observe the new gain on their next render pull; there is no
// separate propagation step.
func (r *Registry) recompute() {
	anySolo := r.anySoloLocked()
	for _, t := range r.tracks {
		t.mu.Lock()
		g := EffectiveGain(t.volume, t.muted, t.solo, anySolo)
		t.mu.Unlock()
		t.setGain(g)
	}
}
