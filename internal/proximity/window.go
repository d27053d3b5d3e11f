package proximity

// window is a fixed-capacity ring of RSSI samples.
type window struct {
	samples []int
	next    int
	count   int
}

func newWindow(size int) *window {
	return &window{samples: make([]int, size)}
}

func (w *window) push(rssi int) {
	w.samples[w.next] = rssi
	w.next = (w.next + 1) % len(w.samples)
	if w.count < len(w.samples) {
		w.count++
	}
}

func (w *window) len() int {
	return w.count
}

// average truncates toward zero, matching integer division on the sum.
func (w *window) average() int {
	if w.count == 0 {
		return 0
	}
	sum := 0
	for i := 0; i < w.count; i++ {
		sum += w.samples[i]
	}
	return sum / w.count
}

func (w *window) countAbove(threshold int) int {
	n := 0
	for i := 0; i < w.count; i++ {
		if w.samples[i] > threshold {
			n++
		}
	}
	return n
}
