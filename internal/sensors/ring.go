package sensors

// HistorySize is how many samples the in-memory log keeps. Old entries are
// overwritten once the ring is full.
const HistorySize = 100

// Ring is a fixed-capacity sample log. Not safe for concurrent use; the
// device loop owns it and hands copies to readers.
type Ring struct {
	samples [HistorySize]Sample
	next    int
	filled  bool
}

func (r *Ring) Push(s Sample) {
	r.samples[r.next] = s
	r.next++
	if r.next == HistorySize {
		r.next = 0
		r.filled = true
	}
}

func (r *Ring) Len() int {
	if r.filled {
		return HistorySize
	}

	return r.next
}

// Samples returns the log oldest first.
func (r *Ring) Samples() []Sample {
	if !r.filled {
		out := make([]Sample, r.next)
		copy(out, r.samples[:r.next])

		return out
	}

	out := make([]Sample, 0, HistorySize)
	out = append(out, r.samples[r.next:]...)
	out = append(out, r.samples[:r.next]...)

	return out
}

// Temps returns just the temperature series, oldest first, for the
// sensors screen graph.
func (r *Ring) Temps() []float64 {
	samples := r.Samples()
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.TempC
	}

	return out
}

// TempStats reports min, max and average over the logged temperatures.
// Returns zeros on an empty ring.
func (r *Ring) TempStats() (low, high, avg float64) {
	samples := r.Samples()
	if len(samples) == 0 {
		return 0, 0, 0
	}

	low = samples[0].TempC
	high = samples[0].TempC
	var sum float64
	for _, s := range samples {
		if s.TempC < low {
			low = s.TempC
		}
		if s.TempC > high {
			high = s.TempC
		}
		sum += s.TempC
	}

	return low, high, sum / float64(len(samples))
}
