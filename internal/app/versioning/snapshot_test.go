package versioning_test

import (
	"testing"

	"github.com/dalemusser/chordhub/internal/app/versioning"
)

func TestCanonical_Deterministic(t *testing.T) {
	a := versioning.Fields{"title": "Amazing Grace", "lyrics": "Amazing grace..."}
	b := versioning.Fields{"lyrics": "Amazing grace...", "title": "Amazing Grace"}

	if versioning.Canonical(a) != versioning.Canonical(b) {
		t.Error("canonical form must not depend on map iteration order")
	}
}

func TestCanonical_Empty(t *testing.T) {
	if got := versioning.Canonical(nil); got != "" {
		t.Errorf("nil fields: expected empty canonical form, got %q", got)
	}
	if got := versioning.Canonical(versioning.Fields{}); got != "" {
		t.Errorf("empty fields: expected empty canonical form, got %q", got)
	}
}

func TestCanonical_EscapingIsUnambiguous(t *testing.T) {
	// Without escaping, these two field sets would collide: a newline in a
	// value must not look like a new key=value line.
	a := versioning.Fields{"k": "v1\nk2=v2"}
	b := versioning.Fields{"k": "v1", "k2": "v2"}

	if versioning.Canonical(a) == versioning.Canonical(b) {
		t.Error("embedded newline/equals must not collide with field boundaries")
	}

	c := versioning.Fields{"k": `a\`, "k2": "b"}
	d := versioning.Fields{"k": `a`, `\k2`: "b"}
	if versioning.Canonical(c) == versioning.Canonical(d) {
		t.Error("trailing backslash must not collide with escaped key")
	}
}

func TestEqual(t *testing.T) {
	a := versioning.Fields{"title": "Song", "lyrics": "la la"}
	same := versioning.Fields{"title": "Song", "lyrics": "la la"}
	changed := versioning.Fields{"title": "Song", "lyrics": "la la la"}

	if !versioning.Equal(a, same) {
		t.Error("identical field sets should compare equal")
	}
	if versioning.Equal(a, changed) {
		t.Error("a changed lyrics field should compare unequal")
	}
	if versioning.Equal(a, versioning.Fields{"title": "Song"}) {
		t.Error("a missing field should compare unequal")
	}
}
