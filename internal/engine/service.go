package engine

import (
	"context"
	"fmt"

	"dungeon-core/internal/config"
	"dungeon-core/internal/domain"
	"dungeon-core/internal/engine/handlers"
	"dungeon-core/internal/engine/handlers/actions"
	"dungeon-core/internal/engine/handlers/admin"
	"dungeon-core/internal/infrastructure/storage"
	"dungeon-core/internal/network"
	"dungeon-core/internal/telemetry"
	"dungeon-core/pkg/api"
	"dungeon-core/pkg/logger"

	"github.com/sirupsen/logrus"
)

// GameService связывает сессию с сетью: принимает команды клиентов и
// рассылает им снимки.
type GameService struct {
	Cfg     *config.Config
	Session *Session
	Hub     *network.Broadcaster
	Output  *telemetry.Output

	actionHandlers map[domain.ActionType]handlers.HandlerFunc
	replaySaved    bool

	log *logrus.Entry
}

func NewService(cfg *config.Config, seed int64) (*GameService, error) {
	s := &GameService{
		Cfg:            cfg,
		Hub:            network.NewBroadcaster(),
		actionHandlers: make(map[domain.ActionType]handlers.HandlerFunc),
		log:            logger.For("service"),
	}
	s.registerHandlers()

	session, err := NewSession(cfg, seed, s.actionHandlers)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	s.Session = session

	out, err := telemetry.NewOutput(cfg.Telemetry.Dir)
	if err != nil {
		return nil, err
	}
	s.Output = out
	session.WithOutput(out)
	session.OnUpdate(s.publishUpdate)

	s.log.WithFields(logrus.Fields{"seed": seed, "telemetry": out.Dir()}).Info("Game service ready")
	return s, nil
}

func (s *GameService) registerHandlers() {
	// Игровые действия
	s.actionHandlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
	s.actionHandlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	s.actionHandlers[domain.ActionAttack] = handlers.WithPayload(actions.HandleAttack)
	s.actionHandlers[domain.ActionWait] = handlers.WithEmptyPayload(actions.HandleWait)
	s.actionHandlers[domain.ActionRest] = handlers.WithEmptyPayload(actions.HandleRest)
	s.actionHandlers[domain.ActionShout] = handlers.WithPayload(actions.HandleShout)
	s.actionHandlers[domain.ActionInteract] = handlers.WithPayload(actions.HandleInteract)
	s.actionHandlers[domain.ActionPickup] = handlers.WithPayload(actions.HandlePickup)
	s.actionHandlers[domain.ActionDrop] = handlers.WithPayload(actions.HandleDrop)

	// Админка
	s.actionHandlers[domain.ActionTeleport] = handlers.WithPayload(admin.HandleTeleport)
	s.actionHandlers[domain.ActionSpawn] = handlers.WithPayload(admin.HandleSpawn)
	s.actionHandlers[domain.ActionHeal] = handlers.WithEmptyPayload(admin.HandleHeal)
	s.actionHandlers[domain.ActionKill] = handlers.WithPayload(admin.HandleKill)
	s.actionHandlers[domain.ActionOmni] = handlers.WithEmptyPayload(admin.HandleToggleOmni)
}

// Start запускает игровой цикл в отдельной горутине.
func (s *GameService) Start(ctx context.Context) {
	go s.Session.Run(ctx)
}

// ProcessCommand принимает команду от внешнего мира (WebSocket, бот).
// Неизвестные действия отбрасываются, переполненная очередь тоже.
func (s *GameService) ProcessCommand(externalCmd api.ClientCommand) {
	actionType := domain.ParseAction(externalCmd.Action)
	if actionType == domain.ActionUnknown {
		s.log.WithField("action", externalCmd.Action).Warn("Unknown action")
		return
	}

	select {
	case s.Session.CommandChan <- domain.InternalCommand{
		Action:  actionType,
		Token:   externalCmd.Token,
		Payload: externalCmd.Payload,
	}:
	default:
		s.log.WithField("action", actionType).Warn("Command queue full, dropped")
	}
}

// PlayerID - идентификатор героя для клиентов.
func (s *GameService) PlayerID() string {
	return s.Session.PlayerID()
}

// publishUpdate рассылает снимок всем подписчикам. Все наблюдают за
// одним героем, поэтому снимок общий.
func (s *GameService) publishUpdate(state *api.ServerResponse) {
	if s.Hub.SubscriberCount() == 0 {
		return
	}
	s.Hub.Broadcast(*state)
}

// Close дописывает сводку и закрывает телеметрию.
// Тик, идущий параллельно, дописать в закрытые файлы уже не сможет.
func (s *GameService) Close() error {
	s.saveReplay()

	out := s.Session.DetachOutput()
	if out == nil {
		return nil
	}
	if err := out.WriteSummary(s.Session.Summary()); err != nil {
		s.log.WithError(err).Warn("Summary write failed")
	}
	return out.Close()
}

// saveReplay сохраняет запись партии один раз, при первом Close.
func (s *GameService) saveReplay() {
	if s.Cfg.Replay.Dir == "" || s.replaySaved {
		return
	}
	s.replaySaved = true

	rs, err := storage.NewReplayService(s.Cfg.Replay.Dir)
	if err != nil {
		s.log.WithError(err).Warn("Replay storage unavailable")
		return
	}
	if _, err := rs.Save(s.Session.Recording()); err != nil {
		s.log.WithError(err).Warn("Replay save failed")
	}
}
