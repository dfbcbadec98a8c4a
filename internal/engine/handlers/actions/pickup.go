package actions

import (
	"fmt"
	"strings"

	"dungeon-core/internal/engine/handlers"
	"dungeon-core/pkg/api"
	"dungeon-core/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HandlePickup обрабатывает команду PICKUP - подбор предмета с земли.
// Без itemId подбирается все, что лежит под ногами.
func HandlePickup(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	self := ctx.Self()
	if self == nil {
		return handlers.Refused("Вы мертвы."), nil
	}
	if ctx.Stash == nil {
		return handlers.Refused("Здесь нечего подбирать."), nil
	}

	ids := []string{p.ItemID}
	if p.ItemID == "" {
		ids = ids[:0]
		for _, it := range ctx.Stash.At(self.Grid) {
			ids = append(ids, it.ID)
		}
	}
	if len(ids) == 0 {
		return handlers.Refused("Здесь нечего подбирать."), nil
	}

	var names []string
	for _, id := range ids {
		it, err := ctx.Stash.Take(ctx.Actor, id)
		if err != nil {
			logger.For("pickup_handler").WithFields(logrus.Fields{
				"actor":   ctx.Actor,
				"item_id": id,
			}).WithError(err).Warn("Pickup failed")
			continue
		}
		names = append(names, it.Name)
	}
	if len(names) == 0 {
		return handlers.Refused("Не удалось ничего подобрать."), nil
	}
	self.Resting = false
	return handlers.Spent(ctx, fmt.Sprintf("%s подбирает: %s.", self.Name, strings.Join(names, ", ")), "INFO"), nil
}
