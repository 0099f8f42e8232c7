package tree

import "github.com/vango-dev/navstate/pkg/state"

// SegmentPath computes which segments deactivate leaving fromName,
// which activate entering toName, and their longest common ancestor
// ("intersection"). Deactivated segments are innermost-first (leaf
// toward the shared ancestor); activated segments are outermost-first
// (shared ancestor toward the new leaf).
//
// A single-entry cache keyed by the (from, to) pair short-circuits the
// common case of "should-update" predicates calling this repeatedly for
// the same transition.
func (t *Tree) SegmentPath(fromName, toName string) state.Segments {
	key := [2]string{fromName, toName}
	if cached, ok := t.segCache.Get(key); ok {
		return cached
	}

	fromIDs := NameToIDs(fromName)
	toIDs := NameToIDs(toName)

	common := 0
	for common < len(fromIDs) && common < len(toIDs) && fromIDs[common] == toIDs[common] {
		common++
	}

	intersection := ""
	if common > 0 {
		intersection = fromIDs[common-1]
	}

	deactivated := make([]string, 0, len(fromIDs)-common)
	for i := len(fromIDs) - 1; i >= common; i-- {
		deactivated = append(deactivated, fromIDs[i])
	}

	activated := append([]string(nil), toIDs[common:]...)

	result := state.Segments{
		Intersection: intersection,
		Deactivated:  deactivated,
		Activated:    activated,
	}
	t.segCache.Set(key, result)
	return result
}
