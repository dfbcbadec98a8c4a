package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dungeon-core/internal/config"
	"dungeon-core/internal/domain"
	"dungeon-core/internal/engine/handlers"
	"dungeon-core/internal/systems"
	"dungeon-core/internal/telemetry"
	"dungeon-core/pkg/api"
	"dungeon-core/pkg/dungeon"
	"dungeon-core/pkg/logger"
	"dungeon-core/pkg/utils"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

const traceLimit = 4096

// ErrLevelPending - спуск уже запрошен и еще не выполнен.
var ErrLevelPending = errors.New("level change already pending")

// Session - одна игровая сессия: мир, планировщик и очередь команд игрока.
// Все изменения мира идут под mu, из одной горутины Run.
type Session struct {
	mu sync.Mutex

	cfg  *config.Config
	rng  utils.RNG
	Seed int64

	World   *systems.World
	Stash   *systems.Stash
	Sched   *Scheduler
	Journal *Journal
	Stats   *telemetry.Recorder

	handlers map[domain.ActionType]handlers.HandlerFunc

	// CommandChan принимает команды из сети
	CommandChan chan domain.InternalCommand
	queue       []domain.InternalCommand

	explored   map[gruid.Point]bool
	omniscient bool
	status     Status

	next     *dungeon.Layout
	heroRef  domain.ActorRef
	activity map[int]int

	out     *telemetry.Output
	publish func(*api.ServerResponse)

	// record - все исполненные команды, по ним партия воспроизводится
	record *domain.ReplaySession

	log *logrus.Entry
}

// NewSession строит поверхность, ставит игрока и готовит планировщик.
func NewSession(cfg *config.Config, seed int64, hs map[domain.ActionType]handlers.HandlerFunc) (*Session, error) {
	rng := utils.NewRand(seed)
	layout := dungeon.GenerateSurface(cfg.Arena.Width, cfg.Arena.Height, rng)

	s := &Session{
		cfg:         cfg,
		rng:         rng,
		Seed:        seed,
		Stats:       telemetry.NewRecorder(),
		handlers:    hs,
		CommandChan: make(chan domain.InternalCommand, 100),
		explored:    make(map[gruid.Point]bool),
		activity:    make(map[int]int),
		record:      &domain.ReplaySession{Seed: seed, Timestamp: time.Now().Unix()},
		log:         logger.For("session").WithField("seed", seed),
	}

	w := systems.NewWorld(cfg, layout.Level, rng)
	combat := systems.NewSkirmish(w)
	stash := systems.NewStash(w)
	combat.Loot = stash
	w.Combat = combat
	w.Objects = stash
	s.Journal = NewJournal(s.nameOf)
	w.Notify = s.Journal
	s.World, s.Stash = w, stash

	if _, err := w.Actors.PlacePlayer(dungeon.CreatePlayer("", layout.Start)); err != nil {
		return nil, fmt.Errorf("placing player: %w", err)
	}
	populate(w, stash, layout)

	s.Sched = NewScheduler(w, s,
		WithHousekeeper(systems.NewUpkeep(w)),
		WithLevelChanger(s),
		WithTrace(NewTrace(traceLimit)),
	)
	return s, nil
}

// OnUpdate подключает получателя снимков (рассылку по сети).
func (s *Session) OnUpdate(fn func(*api.ServerResponse)) {
	s.publish = fn
}

// WithOutput подключает запись телеметрии.
func (s *Session) WithOutput(out *telemetry.Output) {
	s.out = out
}

// Run крутит сессию до отмены контекста или смерти игрока.
func (s *Session) Run(ctx context.Context) {
	interval := s.cfg.Server.TickInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("Session loop started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Session loop stopped")
			return
		case cmd := <-s.CommandChan:
			s.mu.Lock()
			s.accept(cmd)
			s.mu.Unlock()
		case <-ticker.C:
			if s.Tick(ctx) == StatusDead {
				s.log.WithField("turn", s.World.Turn).Info("Player died, session over")
				return
			}
		}
	}
}

// Tick разбирает накопленные команды, двигает мир до следующего запроса
// ввода и рассылает снимок.
func (s *Session) Tick(ctx context.Context) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

drain:
	for {
		select {
		case cmd := <-s.CommandChan:
			s.accept(cmd)
		default:
			break drain
		}
	}

	if s.status != StatusDead {
		s.status = s.Sched.Run(ctx)
	}
	s.flushTelemetry()
	if s.publish != nil {
		state := s.buildState()
		state.Logs = s.Journal.Drain()
		s.publish(state)
	}
	return s.status
}

// Turn - номер хода мира.
func (s *Session) Turn() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.World.Turn
}

// DetachOutput отключает телеметрию и отдает ее для закрытия.
func (s *Session) DetachOutput() *telemetry.Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.out
	s.out = nil
	return out
}

// Recording возвращает копию записи партии.
func (s *Session) Recording() *domain.ReplaySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := *s.record
	rec.Depth = s.World.Level.Depth
	rec.Actions = append([]domain.ReplayAction(nil), s.record.Actions...)
	return &rec
}

// Status - чем закончился последний тик.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// accept - бесплатные команды выполняются сразу, остальные ждут хода игрока.
func (s *Session) accept(cmd domain.InternalCommand) {
	if cmd.Action.Immediate() {
		s.execute(cmd)
		return
	}
	s.queue = append(s.queue, cmd)
}

// Act реализует PlayerController: берет команды из очереди, пока одна из
// них не потратит ход.
func (s *Session) Act(_ *systems.World) int {
	for len(s.queue) > 0 {
		cmd := s.queue[0]
		s.queue = s.queue[1:]
		if res := s.execute(cmd); res.Energy > 0 {
			return res.Energy
		}
	}
	return 0
}

func (s *Session) execute(cmd domain.InternalCommand) handlers.Result {
	h, ok := s.handlers[cmd.Action]
	if !ok {
		s.log.WithField("action", cmd.Action).Warn("No handler for action")
		return handlers.Result{}
	}

	s.record.Actions = append(s.record.Actions, domain.ReplayAction{
		Turn:    s.World.Turn,
		Token:   cmd.Token,
		Action:  cmd.Action,
		Payload: cmd.Payload,
	})

	ctx := handlers.Context{
		World:    s.World,
		Stash:    s.Stash,
		Actor:    s.World.Actors.PlayerRef(),
		Switcher: s,
	}
	res, err := h(ctx, cmd.Payload)
	if err != nil {
		s.log.WithError(err).WithField("action", cmd.Action).Warn("Command failed")
		s.Journal.Add(err.Error(), "ERROR")
		return handlers.Result{}
	}
	if res.Msg != "" {
		s.Journal.Add(res.Msg, res.MsgType)
	}
	if res.Event != nil {
		s.processEvent(ctx, res.Event)
	}
	return res
}

// Descend готовит следующий уровень. Подмена произойдет на границе хода.
func (s *Session) Descend() error {
	if s.Sched.LevelPending() {
		return ErrLevelPending
	}
	depth := s.World.Level.Depth + 1
	layout := dungeon.Generate(depth, s.cfg.Arena.Width, s.cfg.Arena.Height, s.cfg.Arena.Monsters+depth, s.rng)
	s.next = &layout
	s.heroRef = s.World.Actors.PlayerRef()
	s.Sched.RequestLevelChange(layout.Level, layout.Start)
	return nil
}

// ChangeLevel реализует domain.LevelChanger: мир уже на новом уровне,
// осталось его заселить.
func (s *Session) ChangeLevel() {
	s.Stash.Reset(s.heroRef)
	if s.next != nil {
		populate(s.World, s.Stash, *s.next)
		s.next = nil
	}
	s.explored = make(map[gruid.Point]bool)
	s.activity = make(map[int]int)
	s.queue = s.queue[:0]
}

// ToggleOmniscience переключает "божье зрение".
func (s *Session) ToggleOmniscience() bool {
	s.omniscient = !s.omniscient
	return s.omniscient
}

func (s *Session) nameOf(ref domain.ActorRef) string {
	if a := s.World.Actors.Get(ref); a != nil {
		return a.Name
	}
	return "Кто-то"
}

// flushTelemetry переносит трассу тика в сводку и в CSV.
func (s *Session) flushTelemetry() {
	w := s.World
	rows := append([]Activation(nil), s.Sched.Trace.Records...)
	s.Sched.Trace.Reset()
	for _, r := range rows {
		s.activity[r.Index]++
	}

	stat := telemetry.TurnStat{
		Turn:        w.Turn,
		Depth:       w.Level.Depth,
		Live:        w.Actors.Count(),
		Activations: len(rows),
		Sources:     w.Senses.Sources(),
	}
	if p := w.Player(); p != nil {
		stat.PlayerHP = p.HP
	}
	s.Stats.Record(stat)

	if s.out == nil {
		return
	}
	if len(rows) > 0 {
		if err := s.out.WriteActivations(rows); err != nil {
			s.log.WithError(err).Warn("Telemetry write failed")
		}
	}
	if err := s.out.WriteTurns(s.Stats.Drain()); err != nil {
		s.log.WithError(err).Warn("Telemetry write failed")
	}
}

// Summary - сводка активаций на текущем уровне.
func (s *Session) Summary() telemetry.RateSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return telemetry.Summarize(s.activity)
}

// Snapshot - отладочный дамп реестра.
func (s *Session) Snapshot() []ActorSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Sched.DebugDump()
}

// PlayerID - идентификатор героя для клиентов.
func (s *Session) PlayerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RefID(s.World.Actors.PlayerRef())
}

// State строит снимок вне тика (для нового подписчика).
func (s *Session) State() *api.ServerResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildState()
}
