// Package timeseries provides a price series keyed by millisecond timestamps,
// with carry-forward lookup and union-timeline construction across several
// independently sampled series.
//
// Unit contract: every timestamp in this package is milliseconds since the
// Unix epoch, UTC. Conversion from provider units happens at the fetch
// boundary, never here.
package timeseries

import (
	"iter"
	"slices"
	"sort"
)

// Series is a chronological price series. Timestamps are unique and the
// series is always sorted. The zero value is an empty, ready-to-use series.
type Series struct {
	ts     []int64
	values []float64
}

// Len returns the number of samples in the series.
func (s *Series) Len() int { return len(s.ts) }

// IsEmpty reports whether the series holds no samples.
func (s *Series) IsEmpty() bool { return len(s.ts) == 0 }

// First returns the earliest sample, or (0, 0) on an empty series.
func (s *Series) First() (ts int64, value float64) {
	if len(s.ts) == 0 {
		return 0, 0
	}
	return s.ts[0], s.values[0]
}

// Last returns the latest sample, or (0, 0) on an empty series.
func (s *Series) Last() (ts int64, value float64) {
	last := len(s.ts) - 1
	if last < 0 {
		return 0, 0
	}
	return s.ts[last], s.values[last]
}

type chronological struct{ *Series }

func (c chronological) Len() int           { return len(c.ts) }
func (c chronological) Less(i, j int) bool { return c.ts[i] < c.ts[j] }
func (c chronological) Swap(i, j int) {
	c.ts[i], c.ts[j] = c.ts[j], c.ts[i]
	c.values[i], c.values[j] = c.values[j], c.values[i]
}

func (s *Series) sort() { sort.Sort(chronological{s}) }

// Append adds a sample to the series. An existing sample at the same
// timestamp is overwritten: the last data wins.
func (s *Series) Append(ts int64, value float64) *Series {
	if i := slices.Index(s.ts, ts); i >= 0 {
		s.values[i] = value
		return s
	}
	s.ts, s.values = append(s.ts, ts), append(s.values, value)
	s.sort()
	return s
}

// Samples returns an iterator over all timestamp/value pairs in
// chronological order.
func (s *Series) Samples() iter.Seq2[int64, float64] {
	return func(yield func(int64, float64) bool) {
		for i, ts := range s.ts {
			if !yield(ts, s.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at exactly ts, or (0, false).
func (s *Series) Get(ts int64) (float64, bool) {
	if i, found := slices.BinarySearch(s.ts, ts); found {
		return s.values[i], true
	}
	return 0, false
}

// AsOf returns the value at ts, or the most recent earlier sample
// (carry-forward). It returns (0, false) when no sample exists on or
// before ts.
func (s *Series) AsOf(ts int64) (float64, bool) {
	i, found := slices.BinarySearch(s.ts, ts)
	if found {
		return s.values[i], true
	}
	if i == 0 {
		return 0, false
	}
	return s.values[i-1], true
}

// Within returns the sub-series of samples with from <= ts <= to.
func (s *Series) Within(from, to int64) Series {
	var out Series
	lo, _ := slices.BinarySearch(s.ts, from)
	for i := lo; i < len(s.ts) && s.ts[i] <= to; i++ {
		out.ts = append(out.ts, s.ts[i])
		out.values = append(out.values, s.values[i])
	}
	return out
}

// Union returns the sorted set of all distinct timestamps across the given
// series. The result is strictly increasing with no duplicates.
func Union(series ...*Series) []int64 {
	var out []int64
	indexes := make([]int, len(series))
	for {
		// Find the minimum not-yet-consumed timestamp across all series.
		min, found := int64(0), false
		for i, idx := range indexes {
			if idx >= series[i].Len() {
				continue
			}
			if ts := series[i].ts[idx]; !found || ts < min {
				min, found = ts, true
			}
		}
		if !found {
			return out // all series consumed
		}
		// Consume that timestamp from every series carrying it.
		for i, idx := range indexes {
			if idx < series[i].Len() && series[i].ts[idx] == min {
				indexes[i]++
			}
		}
		out = append(out, min)
	}
}
