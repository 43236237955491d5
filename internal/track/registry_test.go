// ABOUTME: Tests for the track registry
// ABOUTME: Verifies cross-track solo recomputation on every mutation path
package track

import "testing"

func newTestRegistry(ids ...string) *Registry {
	r := NewRegistry()
	for _, id := range ids {
		r.Add(New(id, "Track "+id, testBuffer()))
	}
	return r
}

func TestRegistryAddGetRemove(t *testing.T) {
	r := newTestRegistry("a", "b")

	if r.Len() != 2 {
		t.Fatalf("expected 2 tracks, got %d", r.Len())
	}
	if r.Get("a") == nil || r.Get("b") == nil {
		t.Fatal("expected both tracks retrievable")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown id")
	}

	removed := r.Remove("a")
	if removed == nil || removed.ID != "a" {
		t.Fatalf("expected removed track a, got %v", removed)
	}
	if r.Remove("a") != nil {
		t.Error("expected nil on second removal")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 track left, got %d", r.Len())
	}
}

func TestRegistryAllSorted(t *testing.T) {
	r := newTestRegistry("c", "a", "b")

	all := r.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(all))
	}
	for i, want := range []string{"a", "b", "c"} {
		if all[i].ID != want {
			t.Errorf("position %d: expected %q, got %q", i, want, all[i].ID)
		}
	}
}

func TestRegistrySoloSilencesOthers(t *testing.T) {
	r := newTestRegistry("a", "b")

	if !r.SetSolo("a", true) {
		t.Fatal("expected solo to succeed")
	}
	if !r.AnySolo() {
		t.Fatal("expected solo group active")
	}
	if got := r.Get("a").Gain(); got != 0.5 {
		t.Errorf("soloed track: expected gain 0.5, got %f", got)
	}
	if got := r.Get("b").Gain(); got != 0.0 {
		t.Errorf("non-soloed track: expected gain 0, got %f", got)
	}

	r.SetSolo("a", false)
	if got := r.Get("b").Gain(); got != 0.5 {
		t.Errorf("expected gain restored after unsolo, got %f", got)
	}
}

func TestRegistryAddJoinsExistingSoloGroup(t *testing.T) {
	r := newTestRegistry("a")
	r.SetSolo("a", true)

	r.Add(New("b", "Track b", testBuffer()))
	if got := r.Get("b").Gain(); got != 0.0 {
		t.Errorf("newcomer during solo: expected gain 0, got %f", got)
	}
}

func TestRegistryRemoveDissolvesSoloGroup(t *testing.T) {
	r := newTestRegistry("a", "b")
	r.SetSolo("a", true)

	r.Remove("a")
	if r.AnySolo() {
		t.Fatal("expected solo group dissolved")
	}
	if got := r.Get("b").Gain(); got != 0.5 {
		t.Errorf("expected gain restored after soloed track removed, got %f", got)
	}
}

func TestRegistrySetVolumeClamps(t *testing.T) {
	r := newTestRegistry("a")

	r.SetVolume("a", 150)
	if got := r.Get("a").Volume(); got != 100 {
		t.Errorf("expected clamp to 100, got %d", got)
	}
	if got := r.Get("a").Gain(); got != 1.0 {
		t.Errorf("expected gain 1.0, got %f", got)
	}

	r.SetVolume("a", -10)
	if got := r.Get("a").Volume(); got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}
}

func TestRegistryMuteDominatesVolume(t *testing.T) {
	r := newTestRegistry("a")
	r.SetVolume("a", 75)
	r.SetMute("a", true)

	if got := r.Get("a").Gain(); got != 0.0 {
		t.Errorf("expected muted gain 0, got %f", got)
	}
	r.SetMute("a", false)
	if got := r.Get("a").Gain(); got != 0.75 {
		t.Errorf("expected gain 0.75 after unmute, got %f", got)
	}
}

func TestRegistryUnknownIDMutations(t *testing.T) {
	r := newTestRegistry("a")

	if r.SetVolume("nope", 80) || r.SetMute("nope", true) || r.SetSolo("nope", true) {
		t.Error("expected mutations on unknown id to report false")
	}
}

func TestRegistryClear(t *testing.T) {
	r := newTestRegistry("a", "b")

	out := r.Clear()
	if len(out) != 2 {
		t.Errorf("expected 2 cleared tracks, got %d", len(out))
	}
	if r.Len() != 0 {
		t.Errorf("expected empty registry, got %d", r.Len())
	}
}
