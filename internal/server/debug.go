package server

import (
	"encoding/json"
	"net/http"

	"dungeon-core/internal/engine"
	"dungeon-core/internal/network"
	"dungeon-core/internal/telemetry"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/actors", h.handleActors)
	mux.HandleFunc("/debug/stats", h.handleStats)
}

// /debug/actors - живые слоты реестра: энергия, скорость, флаги хода
func (h *DebugHandler) handleActors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Session.Snapshot())
}

// /debug/stats - сводка активаций, последний ход мира и доставка снимков
func (h *DebugHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	type statsView struct {
		Status      string                    `json:"status"`
		Activations telemetry.RateSummary     `json:"activations"`
		Last        *telemetry.TurnStat       `json:"last,omitempty"`
		Subscribers []network.SubscriberStats `json:"subscribers"`
	}

	view := statsView{
		Status:      h.Service.Session.Status().String(),
		Activations: h.Service.Session.Summary(),
		Subscribers: h.Service.Hub.Subscribers(),
	}
	if last, ok := h.Service.Session.Stats.Last(); ok {
		view.Last = &last
	}
	writeJSON(w, view)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}

	_ = json.NewEncoder(w).Encode(data)
}
