package histogram

// Merge sums hs into a new histogram. Nil entries are skipped.
func Merge(hs []*Histogram) *Histogram {
	out := New()
	for _, h := range hs {
		if h == nil {
			continue
		}
		out.Add(h)
	}
	return out
}

// Reduce merges the per-segment histograms and returns the global mode.
//
// It walks values in ascending order and sums every histogram for a value
// before comparing, which keeps the lowest-value tie-break independent of
// the order of hs.
func Reduce(hs []*Histogram) Result {
	var r Result
	for v := 0; v < Size; v++ {
		var sum uint64
		for _, h := range hs {
			if h != nil {
				sum += h[v]
			}
		}
		if sum > r.Count {
			r = Result{Value: v, Count: sum}
		}
	}
	return r
}
