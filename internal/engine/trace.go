package engine

// Activation - одна активация монстра планировщиком.
type Activation struct {
	Turn         int64  `csv:"turn" json:"turn"`
	Index        int    `csv:"index" json:"index"`
	Race         string `csv:"race" json:"race"`
	EnergyBefore int    `csv:"energy_before" json:"energyBefore"`
	EnergyAfter  int    `csv:"energy_after" json:"energyAfter"`
	Outcome      string `csv:"outcome" json:"outcome"`
}

// Trace копит активации в памяти. Limit > 0 ограничивает размер: при
// переполнении отбрасывается старая половина.
type Trace struct {
	Records []Activation
	Limit   int
}

func NewTrace(limit int) *Trace {
	return &Trace{Limit: limit}
}

func (t *Trace) add(a Activation) {
	if t == nil {
		return
	}
	if t.Limit > 0 && len(t.Records) >= t.Limit {
		half := len(t.Records) / 2
		t.Records = append(t.Records[:0], t.Records[half:]...)
	}
	t.Records = append(t.Records, a)
}

// Len - число записей; nil-трасса пуста.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// CountByIndex считает активации по слотам.
func (t *Trace) CountByIndex() map[int]int {
	out := make(map[int]int)
	if t == nil {
		return out
	}
	for _, r := range t.Records {
		out[r.Index]++
	}
	return out
}

// Since возвращает записи начиная с хода turn.
func (t *Trace) Since(turn int64) []Activation {
	if t == nil {
		return nil
	}
	for i, r := range t.Records {
		if r.Turn >= turn {
			return t.Records[i:]
		}
	}
	return nil
}

// Reset очищает трассу.
func (t *Trace) Reset() {
	if t != nil {
		t.Records = t.Records[:0]
	}
}
