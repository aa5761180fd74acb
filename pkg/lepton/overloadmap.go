package lepton

import "github.com/cespare/xxhash/v2"

// overloadEntry is one state of a superposition: a parameter type and
// the closure it guards (spec.md §4.1, §4.7, §9 "Overloaded
// superpositions").
type overloadEntry struct {
	paramType Value
	closure   *Closure
}

// OverloadMap holds the states of an OverloadedPi/OverloadedLambda.
// spec.md §9 asks implementations to use "a linear search map or
// bucket-by-canonical-form rather than a hash keyed on syntactic
// parameter type" — entries are always available for a full linear
// scan (used by every algorithm in eval.go, infer.go, readback.go and
// unify.go that needs every state), and bucketing by xxhash of the canonicalized parameter
// type is strictly a fast path for findUnifying's common case.
type OverloadMap struct {
	entries []overloadEntry
	buckets map[uint64][]int
}

func newOverloadMap() *OverloadMap {
	return &OverloadMap{buckets: make(map[uint64][]int)}
}

func (m *OverloadMap) Len() int { return len(m.entries) }

func (m *OverloadMap) All() []overloadEntry { return m.entries }

func (m *OverloadMap) Clone() *OverloadMap {
	cp := newOverloadMap()
	cp.entries = append(cp.entries, m.entries...)
	for k, v := range m.buckets {
		cp.buckets[k] = append([]int(nil), v...)
	}
	return cp
}

func (m *OverloadMap) bucketKey(v Value) uint64 {
	s, err := canonicalString(v)
	if err != nil {
		// Canonicalization only fails if ReadBack hits a genuinely
		// malformed value; fall back to a constant bucket so
		// findUnifying's linear-scan fallback still finds it.
		return 0
	}
	return xxhash.Sum64String(s)
}

func (m *OverloadMap) add(paramType Value, closure *Closure) {
	key := m.bucketKey(paramType)
	idx := len(m.entries)
	m.entries = append(m.entries, overloadEntry{paramType: paramType, closure: closure})
	m.buckets[key] = append(m.buckets[key], idx)
}

// findUnifying returns an existing entry whose parameter type unifies
// with want, bucket-accelerated with a full-scan fallback for the rare
// case where two unifiable types canonicalize to different strings
// (e.g. two different but unifying neutral shapes).
func (m *OverloadMap) findUnifying(want Value) (*overloadEntry, bool, error) {
	key := m.bucketKey(want)
	for _, idx := range m.buckets[key] {
		ok, err := Unify(m.entries[idx].paramType, want)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return &m.entries[idx], true, nil
		}
	}
	for i := range m.entries {
		ok, err := Unify(m.entries[i].paramType, want)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return &m.entries[i], true, nil
		}
	}
	return nil, false, nil
}

// insertOverloadState inserts (paramType, closure) into m, merging with
// an existing unifying entry rather than duplicating it (spec.md §4.1:
// "normalize and merge states whose parameter types unify").
func insertOverloadState(m *OverloadMap, paramType Value, closure *Closure) error {
	existing, found, err := m.findUnifying(paramType)
	if err != nil {
		return err
	}
	if !found {
		m.add(paramType, closure)
		return nil
	}
	existing.closure = mergeTwoClosures(existing.closure, closure)
	return nil
}

// unionOverloadMaps combines a and b into a fresh map, merging any
// states whose parameter types unify across the two inputs. Used when
// collapsing several matched OverloadedLambda/Pi results back into one
// superposition (spec.md §4.1, Apply on OverloadedLambda).
func unionOverloadMaps(a, b *OverloadMap) (*OverloadMap, error) {
	merged := a.Clone()
	for _, e := range b.All() {
		if err := insertOverloadState(merged, e.paramType, e.closure); err != nil {
			return nil, err
		}
	}
	return merged, nil
}
