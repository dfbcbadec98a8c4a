package telemetry

import "sync"

// Recorder копит статистику ходов в памяти, пока ее не заберут.
type Recorder struct {
	mu      sync.Mutex
	pending []TurnStat
	last    TurnStat
	total   int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(s TurnStat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, s)
	r.last = s
	r.total++
}

// Drain отдает накопленное и очищает буфер.
func (r *Recorder) Drain() []TurnStat {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	return out
}

// Last - последний записанный срез.
func (r *Recorder) Last() (TurnStat, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.total > 0
}

// Total - сколько срезов записано за все время.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
