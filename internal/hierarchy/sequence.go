package hierarchy

import (
	"sort"

	"github.com/dssolutions-mx/financial-dashboard-sub000/internal/accountcode"
)

// sequenceRun describes the consecutive run of s2 values a code belongs to.
type sequenceRun struct {
	head      string // s2 of the smallest member, as written in the report
	headValue int
	length    int
}

// SequenceIndex records numeric-sequence relationships between family-level
// codes: among codes sharing s1 with a zero tail, s2 values that form a
// consecutive integer run are read as one parent (the smallest) followed by
// its children.
type SequenceIndex struct {
	runs map[string]map[int]sequenceRun // s1 → s2 value → run
}

// NewSequenceIndex builds the index from the codes of one report.
func NewSequenceIndex(codes []accountcode.Code) *SequenceIndex {
	values := make(map[string]map[int]string)
	for _, c := range codes {
		if !c.Valid || !c.HasZeroTail() || accountcode.IsZero(c.S2()) {
			continue
		}
		n, ok := accountcode.SegmentInt(c.S2())
		if !ok {
			continue
		}
		if values[c.S1()] == nil {
			values[c.S1()] = make(map[int]string)
		}
		if _, seen := values[c.S1()][n]; !seen {
			values[c.S1()][n] = c.S2()
		}
	}

	idx := &SequenceIndex{runs: make(map[string]map[int]sequenceRun, len(values))}
	for s1, byValue := range values {
		sorted := make([]int, 0, len(byValue))
		for n := range byValue {
			sorted = append(sorted, n)
		}
		sort.Ints(sorted)

		runs := make(map[int]sequenceRun, len(sorted))
		start := 0
		for i := 1; i <= len(sorted); i++ {
			if i < len(sorted) && sorted[i] == sorted[i-1]+1 {
				continue
			}
			run := sequenceRun{head: byValue[sorted[start]], headValue: sorted[start], length: i - start}
			for _, n := range sorted[start:i] {
				runs[n] = run
			}
			start = i
		}
		idx.runs[s1] = runs
	}
	return idx
}

// Lookup returns the run head's s2 and whether c is the head. ok is false when
// c is not part of a run of at least two consecutive values.
func (s *SequenceIndex) Lookup(c accountcode.Code) (head string, isHead bool, ok bool) {
	if s == nil || !c.Valid || !c.HasZeroTail() {
		return "", false, false
	}
	n, valid := accountcode.SegmentInt(c.S2())
	if !valid {
		return "", false, false
	}
	run, found := s.runs[c.S1()][n]
	if !found || run.length < 2 {
		return "", false, false
	}
	return run.head, n == run.headValue, true
}
