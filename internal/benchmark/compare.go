package benchmark

import (
	"fmt"
	"sort"
)

// Comparison pairs the same measurement from two record sets.
type Comparison struct {
	Key      string
	MeanDiff float64 // Percentage change
	Prev     StoredRecord
	Curr     StoredRecord
}

// Regressed reports whether the current mean is more than threshold percent slower.
func (c Comparison) Regressed(threshold float64) bool {
	return c.MeanDiff > threshold
}

// Improved reports whether the current mean is more than threshold percent faster.
func (c Comparison) Improved(threshold float64) bool {
	return c.MeanDiff < -threshold
}

// Compare matches records by Key and returns the mean change from prev to curr.
// Records present on only one side are skipped.
func Compare(prev, curr []StoredRecord) []Comparison {
	prevMap := make(map[string]StoredRecord)
	for _, r := range prev {
		prevMap[r.Key()] = r
	}

	var comparisons []Comparison
	for _, c := range curr {
		p, ok := prevMap[c.Key()]
		if !ok {
			continue
		}
		comp := Comparison{
			Key:  c.Key(),
			Prev: p,
			Curr: c,
		}
		if p.Record.Mean > 0 {
			comp.MeanDiff = (c.Record.Mean - p.Record.Mean) / p.Record.Mean * 100
		}
		comparisons = append(comparisons, comp)
	}

	sort.Slice(comparisons, func(i, j int) bool {
		return comparisons[i].Key < comparisons[j].Key
	})
	return comparisons
}

// FilterTag keeps the records written by one implementation.
func FilterTag(records []StoredRecord, tag string) []StoredRecord {
	if tag == "" {
		return records
	}
	var out []StoredRecord
	for _, r := range records {
		if r.Tag == tag {
			out = append(out, r)
		}
	}
	return out
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s: %+.2f%% mean", c.Key, c.MeanDiff)
}
