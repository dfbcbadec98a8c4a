package engine

import (
	"context"

	"dungeon-core/internal/config"
	"dungeon-core/internal/domain"
	"dungeon-core/internal/systems"
	"dungeon-core/pkg/logger"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// Status - почему планировщик вернул управление.
type Status uint8

const (
	StatusAwaitingInput Status = iota // игрок ждет команды
	StatusDead                        // игрок погиб
	StatusTurnLimit                   // исчерпан лимит ходов мира
	StatusCancelled                   // контекст отменен
)

func (s Status) String() string {
	switch s {
	case StatusAwaitingInput:
		return "awaiting_input"
	case StatusDead:
		return "dead"
	case StatusTurnLimit:
		return "turn_limit"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PlayerController делает ход за игрока.
type PlayerController interface {
	// Act выполняет одно действие и возвращает потраченную энергию.
	// 0 значит "команды нет", планировщик вернет StatusAwaitingInput.
	Act(w *systems.World) int
}

// ControllerFunc позволяет использовать функцию как PlayerController.
type ControllerFunc func(w *systems.World) int

func (f ControllerFunc) Act(w *systems.World) int { return f(w) }

// levelRequest - отложенная смена уровня.
type levelRequest struct {
	lvl *domain.Level
	at  gruid.Point
}

// Scheduler - энергетические часы мира. Игрок и монстры копят энергию
// каждый ход мира и действуют, когда ее набралось на один ход.
type Scheduler struct {
	w      *systems.World
	cfg    *config.Config
	player PlayerController
	house  domain.Housekeeper
	levels domain.LevelChanger

	pending *levelRequest
	limited bool
	stopAt  int64

	Trace *Trace

	log *logrus.Entry
}

// SchedulerOption настраивает планировщик.
type SchedulerOption func(s *Scheduler)

// WithHousekeeper подключает медленный проход по миру.
func WithHousekeeper(h domain.Housekeeper) SchedulerOption {
	return func(s *Scheduler) { s.house = h }
}

// WithLevelChanger подключает обработчик смены уровня.
func WithLevelChanger(l domain.LevelChanger) SchedulerOption {
	return func(s *Scheduler) { s.levels = l }
}

// WithTrace включает запись активаций.
func WithTrace(t *Trace) SchedulerOption {
	return func(s *Scheduler) { s.Trace = t }
}

func NewScheduler(w *systems.World, player PlayerController, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		w:      w,
		cfg:    w.Cfg,
		player: player,
		log:    logger.For("scheduler"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// World возвращает мир, которым управляет планировщик.
func (s *Scheduler) World() *systems.World { return s.w }

// RequestLevelChange откладывает смену уровня до границы хода. Монстры,
// еще не сходившие в этом ходу, свой ход уже не получат.
func (s *Scheduler) RequestLevelChange(lvl *domain.Level, playerGrid gruid.Point) {
	s.pending = &levelRequest{lvl: lvl, at: playerGrid}
}

// LevelPending - смена уровня запрошена, но еще не выполнена.
func (s *Scheduler) LevelPending() bool { return s.pending != nil }

// Run крутит игровой цикл, пока игрок не потребует ввода, не погибнет
// или не отменится контекст.
func (s *Scheduler) Run(ctx context.Context) Status {
	s.limited = false
	return s.run(ctx)
}

// RunTurns - то же, что Run, но не больше n ходов мира. При n <= 0 мир
// не трогается вовсе.
func (s *Scheduler) RunTurns(ctx context.Context, n int) Status {
	if n <= 0 {
		return StatusTurnLimit
	}
	s.limited, s.stopAt = true, s.w.Turn+int64(n)
	defer func() { s.limited = false }()
	return s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) Status {
	w := s.w
	move := s.cfg.Scheduler.MoveEnergy

	// Игрок, у которого хватает энергии, доигрывает свой ход
	if p := w.Player(); p != nil && p.Energy >= move && !w.PlayerDead() {
		if !s.playerAct() {
			return StatusAwaitingInput
		}
	}

	for {
		if w.PlayerDead() {
			s.log.WithField("turn", w.Turn).Info("Player is dead, loop stopped")
			return StatusDead
		}
		if err := ctx.Err(); err != nil {
			return StatusCancelled
		}
		if s.limited && w.Turn >= s.stopAt {
			return StatusTurnLimit
		}

		if s.pending == nil {
			s.ProcessMonsters(0)
			s.resetHandled()
			if s.house != nil && w.Turn%int64(s.cfg.Scheduler.HousekeepingInterval) == 0 {
				s.house.ProcessWorld(w.Turn)
			}
			if p := w.Player(); p != nil {
				p.Energy += TurnEnergy(p.EffectiveSpeed(), move)
			}
			w.Turn++
		}

		if s.pending != nil {
			s.changeLevel()
		}

		for p := w.Player(); p != nil && p.Energy >= move; p = w.Player() {
			s.ProcessMonsters(p.Energy + 1)
			if w.PlayerDead() || s.pending != nil {
				break
			}
			if !s.playerAct() {
				return StatusAwaitingInput
			}
		}
	}
}

// playerAct дает игроку одно действие. false - команды нет.
func (s *Scheduler) playerAct() bool {
	used := s.player.Act(s.w)
	if used <= 0 {
		return false
	}
	if p := s.w.Player(); p != nil {
		p.Energy -= used
	}
	return true
}

// resetHandled снимает отметки "уже ходил" со всех слотов.
func (s *Scheduler) resetHandled() {
	for i := domain.PlayerIndex; i < s.w.Actors.Max(); i++ {
		if a := s.w.Actors.At(i); a != nil {
			a.Handled = false
		}
	}
}

func (s *Scheduler) changeLevel() {
	req := s.pending
	s.pending = nil
	if req.lvl != nil {
		if err := s.w.ChangeLevel(req.lvl, req.at); err != nil {
			s.log.WithError(err).Error("Level change failed")
			return
		}
	}
	if s.levels != nil {
		s.levels.ChangeLevel()
	}
}

// ActorSnapshot - строка отладочного дампа реестра.
type ActorSnapshot struct {
	Index   int             `json:"index"`
	Ref     domain.ActorRef `json:"ref"`
	Name    string          `json:"name"`
	Grid    gruid.Point     `json:"grid"`
	HP      int             `json:"hp"`
	Speed   int             `json:"speed"`
	Energy  int             `json:"energy"`
	Active  bool            `json:"active"`
	Handled bool            `json:"handled"`
}

// DebugDump возвращает снимок живых слотов для отладки
func (s *Scheduler) DebugDump() []ActorSnapshot {
	// Пустой слайс, а не nil: в JSON будет "[]", а не "null"
	result := make([]ActorSnapshot, 0, s.w.Actors.Count())
	for i := domain.PlayerIndex; i < s.w.Actors.Max(); i++ {
		a := s.w.Actors.At(i)
		if a == nil {
			continue
		}
		result = append(result, ActorSnapshot{
			Index:   i,
			Ref:     s.w.Actors.RefAt(i),
			Name:    a.Name,
			Grid:    a.Grid,
			HP:      a.HP,
			Speed:   a.EffectiveSpeed(),
			Energy:  a.Energy,
			Active:  a.Active,
			Handled: a.Handled,
		})
	}
	return result
}
