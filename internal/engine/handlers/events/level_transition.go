package events

import (
	"encoding/json"
	"fmt"

	"dungeon-core/internal/engine/handlers"
	"dungeon-core/pkg/logger"
)

// HandleLevelTransition - игрок ступил на лестницу. Новый уровень строится
// сразу, а подменяется на границе хода мира.
func HandleLevelTransition(ctx handlers.Context, eventData json.RawMessage) (handlers.Result, error) {
	var transition struct {
		Depth int `json:"depth"`
	}
	if err := json.Unmarshal(eventData, &transition); err != nil {
		logger.Log.WithError(err).Error("Error parsing LEVEL_TRANSITION event")
		return handlers.EmptyResult(), nil
	}
	if ctx.Switcher == nil {
		return handlers.EmptyResult(), nil
	}
	if err := ctx.Switcher.Descend(); err != nil {
		return handlers.Result{}, fmt.Errorf("descend to %d: %w", transition.Depth, err)
	}

	name := "Кто-то"
	if self := ctx.Self(); self != nil {
		name = self.Name
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("%s спускается глубже...", name),
		MsgType: "INFO",
	}, nil
}
