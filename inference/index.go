package inference

import "github.com/c360studio/semcomply/rules"

// dependencyIndex maps each property to the rules whose conditions read it.
type dependencyIndex struct {
	readers map[string][]int
	rules   int
}

func newDependencyIndex(rs []rules.Rule) *dependencyIndex {
	idx := &dependencyIndex{readers: make(map[string][]int), rules: len(rs)}
	for i, r := range rs {
		for _, p := range r.Properties() {
			idx.readers[p] = append(idx.readers[p], i)
		}
	}
	return idx
}

// tracker records, per subject, which rules must be re-evaluated because a
// property they read gained an object since their last evaluation.
type tracker struct {
	idx   *dependencyIndex
	seen  map[string]struct{}
	dirty map[string]map[int]struct{}
}

func newTracker(idx *dependencyIndex) *tracker {
	return &tracker{
		idx:   idx,
		seen:  make(map[string]struct{}),
		dirty: make(map[string]map[int]struct{}),
	}
}

// admit marks every rule dirty for subjects not seen before.
func (t *tracker) admit(subject string) {
	if _, ok := t.seen[subject]; ok {
		return
	}
	t.seen[subject] = struct{}{}
	set := t.set(subject)
	for i := 0; i < t.idx.rules; i++ {
		set[i] = struct{}{}
	}
}

// take reports whether rule must be evaluated for subject and clears the mark.
func (t *tracker) take(subject string, rule int) bool {
	set := t.dirty[subject]
	if _, ok := set[rule]; !ok {
		return false
	}
	delete(set, rule)
	return true
}

// touched marks the readers of property dirty for subject.
func (t *tracker) touched(subject, property string) {
	readers := t.idx.readers[property]
	if len(readers) == 0 {
		return
	}
	set := t.set(subject)
	for _, r := range readers {
		set[r] = struct{}{}
	}
}

func (t *tracker) set(subject string) map[int]struct{} {
	set, ok := t.dirty[subject]
	if !ok {
		set = make(map[int]struct{})
		t.dirty[subject] = set
	}
	return set
}
