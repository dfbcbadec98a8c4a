package domain

import (
	"fmt"
	"strconv"
)

// ActorRef - 64-битная ссылка на слот реестра.
//
// Формат битов (от старших к младшим):
//
//	[ reserved (16) | Generation (16) | Index (32) ]
//
// Generation увеличивается при каждом переиспользовании слота и при
// перемещении сущности во время компактизации, поэтому ссылка, взятая до
// этого, перестает резолвиться. Index 0 зарезервирован и означает "никто".
type ActorRef uint64

// NilActorRef - нулевая ссылка.
const NilActorRef ActorRef = 0

// PlayerIndex - слот игрока. Он никогда не удаляется и не переезжает.
const PlayerIndex = 1

const (
	bitsIndex = 32
	bitsGen   = 16

	shiftGen = bitsIndex

	maskIndex = (1 << bitsIndex) - 1
	maskGen   = (1 << bitsGen) - 1
)

// PackActorRef собирает ссылку из индекса и поколения.
func PackActorRef(gen uint16, index int) ActorRef {
	return ActorRef((uint64(gen) << shiftGen) | (uint64(index) & maskIndex))
}

// Index возвращает индекс слота.
func (r ActorRef) Index() int {
	return int(r & maskIndex)
}

// Generation возвращает поколение слота.
func (r ActorRef) Generation() uint16 {
	return uint16((r >> shiftGen) & maskGen)
}

// IsNil проверяет, что ссылка никуда не указывает.
func (r ActorRef) IsNil() bool {
	return r.Index() == 0
}

func (r ActorRef) String() string {
	if r.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("[gen=%d idx=%d]", r.Generation(), r.Index())
}

// MarshalJSON сериализует ссылку строкой, чтобы не терять точность uint64
// на стороне JavaScript-клиента.
func (r ActorRef) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(r), 10) + `"`), nil
}

// UnmarshalJSON принимает как строку, так и число.
func (r *ActorRef) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 1 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*r = NilActorRef
		return nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("actor ref %q: %w", s, err)
	}
	*r = ActorRef(v)
	return nil
}

// ParseActorRef разбирает ссылку в том виде, в каком ее отдает MarshalJSON.
func ParseActorRef(s string) (ActorRef, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NilActorRef, fmt.Errorf("actor ref %q: %w", s, err)
	}
	return ActorRef(v), nil
}
