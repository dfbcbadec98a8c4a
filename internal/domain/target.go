package domain

import (
	"encoding/json"
	"fmt"

	"codeberg.org/anaseto/gruid"
)

// TargetKind - тег цели.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetPlayer
	TargetMonster
	TargetLocation
)

var targetKindNames = map[TargetKind]string{
	TargetNone:     "NONE",
	TargetPlayer:   "PLAYER",
	TargetMonster:  "MONSTER",
	TargetLocation: "LOCATION",
}

func (k TargetKind) String() string {
	if s, ok := targetKindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Target - то, за чем охотится сущность.
// Ref заполнен только для TargetMonster, Grid только для TargetLocation.
type Target struct {
	Kind TargetKind
	Ref  ActorRef
	Grid gruid.Point
}

func PlayerTarget() Target                { return Target{Kind: TargetPlayer} }
func MonsterTarget(ref ActorRef) Target   { return Target{Kind: TargetMonster, Ref: ref} }
func LocationTarget(p gruid.Point) Target { return Target{Kind: TargetLocation, Grid: p} }
func NoTarget() Target                    { return Target{} }

func (t Target) String() string {
	switch t.Kind {
	case TargetMonster:
		return fmt.Sprintf("MONSTER%s", t.Ref)
	case TargetLocation:
		return fmt.Sprintf("LOCATION(%d,%d)", t.Grid.X, t.Grid.Y)
	default:
		return t.Kind.String()
	}
}

type targetJSON struct {
	Kind string    `json:"kind"`
	Ref  *ActorRef `json:"ref,omitempty"`
	X    *int      `json:"x,omitempty"`
	Y    *int      `json:"y,omitempty"`
}

// MarshalJSON пишет цель в виде индексов, без указателей.
func (t Target) MarshalJSON() ([]byte, error) {
	out := targetJSON{Kind: t.Kind.String()}
	switch t.Kind {
	case TargetMonster:
		ref := t.Ref
		out.Ref = &ref
	case TargetLocation:
		x, y := t.Grid.X, t.Grid.Y
		out.X, out.Y = &x, &y
	}
	return json.Marshal(out)
}

func (t *Target) UnmarshalJSON(data []byte) error {
	var in targetJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	for kind, name := range targetKindNames {
		if name != in.Kind {
			continue
		}
		*t = Target{Kind: kind}
		switch kind {
		case TargetMonster:
			if in.Ref == nil {
				return fmt.Errorf("monster target without ref")
			}
			t.Ref = *in.Ref
		case TargetLocation:
			if in.X == nil || in.Y == nil {
				return fmt.Errorf("location target without grid")
			}
			t.Grid = gruid.Point{X: *in.X, Y: *in.Y}
		}
		return nil
	}
	return fmt.Errorf("unknown target kind %q", in.Kind)
}
