// Package overlap detects geometric collisions between placed symbols and
// tracks whether the user has already been warned about them.
//
// Detection is an exact pairwise test over owner-tagged boxes. Symbol counts
// per scheme are in the tens, so there is no spatial index.
package overlap

import (
	"sort"
	"strings"

	"github.com/matzehuels/drivetrain/pkg/cache"
	"github.com/matzehuels/drivetrain/pkg/geom"
)

// Set is a set of owner ids.
type Set map[string]struct{}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in sorted order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Pair is one colliding pair of owners, ordered A < B.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Detect returns every owner whose box intersects a box of a different
// owner. Boxes without an owner and pairs sharing an owner are skipped.
func Detect(boxes []geom.Bbox) Set {
	set := make(Set)
	for _, p := range Pairs(boxes) {
		set[p.A] = struct{}{}
		set[p.B] = struct{}{}
	}
	return set
}

// Pairs returns the distinct colliding owner pairs, sorted.
func Pairs(boxes []geom.Bbox) []Pair {
	seen := make(map[Pair]bool)
	var out []Pair
	for i := 0; i < len(boxes); i++ {
		a := boxes[i]
		if a.Owner == "" {
			continue
		}
		for j := i + 1; j < len(boxes); j++ {
			b := boxes[j]
			if b.Owner == "" || b.Owner == a.Owner || !a.Intersects(b) {
				continue
			}
			p := Pair{A: a.Owner, B: b.Owner}
			if p.B < p.A {
				p.A, p.B = p.B, p.A
			}
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Fingerprint returns a content address for the set: the hash of its sorted
// ids, or "" for an empty set. Equal sets always share a fingerprint.
func Fingerprint(s Set) string {
	if len(s) == 0 {
		return ""
	}
	return cache.Hash([]byte(strings.Join(s.IDs(), "\n")))
}

// Tracker decides whether the overlap warning should be shown. A dismissal
// covers exactly the overlap set it was made for: once a pass produces a
// different set the warning comes back.
//
// Tracker is not safe for concurrent use.
type Tracker struct {
	dismissed string
	last      string
}

// NewTracker returns a tracker that remembers an earlier dismissal.
func NewTracker(dismissed string) *Tracker {
	return &Tracker{dismissed: dismissed}
}

// Observe records the fingerprint of the latest pass and reports whether it
// differs from the previous one.
func (t *Tracker) Observe(fp string) (changed bool) {
	changed = fp != t.last
	t.last = fp
	return changed
}

// Dismiss suppresses the warning for the last observed overlap set.
func (t *Tracker) Dismiss() { t.dismissed = t.last }

// Dismissed returns the fingerprint the user dismissed, if any.
func (t *Tracker) Dismissed() string { return t.dismissed }

// ShouldWarn reports whether the last observed pass has overlaps the user
// has not dismissed.
func (t *Tracker) ShouldWarn() bool { return t.last != "" && t.last != t.dismissed }
