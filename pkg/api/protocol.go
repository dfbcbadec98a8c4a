package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Он представляет собой полный "снимок" мира, видимого для конкретного клиента.
// Отправляется каждый раз, когда наступает ход сущности, которой управляет клиент.
type ServerResponse struct {
	// Type тип сообщения. На данный момент всегда "UPDATE".
	Type string `json:"type"`

	// Tick номер хода мира. Увеличивается с каждым ходом.
	Tick int64 `json:"tick"`

	// Status почему симуляция остановилась: awaiting_input, dead, ...
	Status string `json:"status,omitempty"`

	// ActiveEntityID ID сущности, чей ход сейчас.
	// КЛИЕНТ ДОЛЖЕН СРАВНИВАТЬ ЭТО ПОЛЕ СО СВОИМ ID. Если они совпадают,
	// значит, можно принимать ввод от игрока.
	ActiveEntityID string `json:"activeEntityId,omitempty"`

	// MyEntityID ID сущности, которой управляет данный клиент.
	MyEntityID string `json:"myEntityId,omitempty"`

	// Grid метаданные о размере всей карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Map срез всех видимых и/или исследованных тайлов.
	Map []TileView `json:"map,omitempty"`

	// Entities срез всех видимых сущностей.
	Entities []EntityView `json:"entities,omitempty"`

	// Items предметы на полу в поле зрения.
	Items []ItemView `json:"items,omitempty"`

	// Logs срез новых сообщений, сгенерированных с прошлого хода.
	Logs []LogEntry `json:"logs,omitempty"`
}

// GridMeta содержит общие размеры карты, чтобы клиент знал,
// какую сетку для рендеринга нужно подготовить.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// TileView это DTO (Data Transfer Object) для одного тайла карты.
// Содержит всю необходимую информацию для его рендеринга.
type TileView struct {
	X int `json:"x"`
	Y int `json:"y"`

	// Symbol и Color - визуальное представление тайла (e.g. "#" для стены).
	Symbol string `json:"symbol"`
	Color  string `json:"color"`

	// Terrain класс местности (floor, granite wall, water, ...).
	Terrain string `json:"terrain"`

	// IsWall true, если тайл является непроходимым препятствием.
	IsWall bool `json:"isWall"`

	// IsStairs true для лестницы вниз.
	IsStairs bool `json:"isStairs,omitempty"`

	// IsVisible true, если тайл находится в текущем поле зрения. Рендерится ярко.
	IsVisible bool `json:"isVisible"`

	// IsExplored true, если тайл когда-либо был увиден. Используется для "тумана войны".
	// Если IsVisible=false, а IsExplored=true, рендерится тускло.
	IsExplored bool `json:"isExplored"`
}

// EntityView это DTO для игровой сущности.
type EntityView struct {
	ID   string `json:"id"`
	Type string `json:"type"` // PLAYER, MONSTER
	Name string `json:"name"`

	Pos struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"pos"`

	Render struct {
		Symbol string `json:"symbol"`
		Color  string `json:"color"`
	} `json:"render"`

	// Stats характеристики сущности. Поле может отсутствовать (omitempty),
	// если клиент не имеет права видеть статы этой сущности.
	Stats *StatsView `json:"stats,omitempty"`

	// Mind внутреннее состояние монстра, только для "божьего зрения".
	Mind *MindView `json:"mind,omitempty"`
}

// StatsView это DTO для характеристик сущности.
// Некоторые поля могут отсутствовать, если сервер скрывает их от клиента.
type StatsView struct {
	HP     int  `json:"hp"`
	MaxHP  int  `json:"maxHp"`
	Speed  int  `json:"speed,omitempty"`
	Energy int  `json:"energy,omitempty"`
	IsDead bool `json:"isDead"`
}

// MindView показывает, что монстр думает о цели.
type MindView struct {
	Target    string         `json:"target"`
	Active    bool           `json:"active"`
	MinRange  int            `json:"minRange"`
	BestRange int            `json:"bestRange"`
	Timed     map[string]int `json:"timed,omitempty"`
	Group     string         `json:"group,omitempty"`
}

// LogEntry представляет одну запись в игровом логе (чате).
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, SPEECH, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// ItemView представляет предмет для клиента
type ItemView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Holder string `json:"holder,omitempty"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token ID сущности, от имени которой выполняется действие.
	// Обязателен только для первого сообщения "LOGIN".
	Token string `json:"token,omitempty"`

	// Action название действия, которое нужно выполнить.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// DirectionPayload используется для действий, связанных с направлением (e.g. MOVE).
type DirectionPayload struct {
	Dx int `json:"dx"` // Смещение по X (-1, 0, 1)
	Dy int `json:"dy"` // Смещение по Y (-1, 0, 1)
}

// EntityPayload используется для действий, нацеленных на другую сущность (e.g. ATTACK, KILL).
type EntityPayload struct {
	TargetID string `json:"targetId"`
}

// PositionPayload используется для действий, нацеленных на точку на карте (e.g. TELEPORT).
type PositionPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ItemPayload используется для действий с предметами (PICKUP, DROP).
// Пустой ItemID у PICKUP значит "все, что лежит под ногами".
type ItemPayload struct {
	ItemID string `json:"itemId"`
}

// ShoutPayload - крик игрока (SHOUT). Шумит на весь уровень.
type ShoutPayload struct {
	Text string `json:"text"`
}
