package protocol

// 线上格式沿用浏览器端既有的 camelCase 字段名，
// 颜色在线上始终是 "black" / "white" 字符串。

// --- 客户端请求 Payloads ---

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	Username string `json:"username"`
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}

// ToggleReadyPayload 准备状态变更请求
type ToggleReadyPayload struct {
	Ready bool `json:"ready"`
}

// PlaceStonePayload 落子请求
type PlaceStonePayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID string `json:"playerId"`
}

// PlayerInfo 玩家在房间内的公开信息
type PlayerInfo struct {
	Username string `json:"username"`
	Color    string `json:"color"`
	Ready    bool   `json:"ready"`
}

// RoomPayload 房间创建/加入成功响应
type RoomPayload struct {
	RoomCode string       `json:"roomCode"`
	Players  []PlayerInfo `json:"players"`
}

// JoinErrorPayload 加入失败响应
type JoinErrorPayload struct {
	Message string `json:"message"`
}

// RoomUpdatedPayload 房间状态广播
type RoomUpdatedPayload struct {
	Code    string       `json:"code"`
	Players []PlayerInfo `json:"players"`
}

// GameStartedPayload 对局开始通知（逐个玩家发送，带各自的执子颜色）
type GameStartedPayload struct {
	YourColor   string `json:"yourColor"`
	BlackPlayer string `json:"blackPlayer"`
	WhitePlayer string `json:"whitePlayer"`
}

// StonePlacedPayload 落子广播
type StonePlacedPayload struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Color     string `json:"color"`
	NextColor string `json:"nextColor"`
}

// ActionErrorPayload 非法操作响应
type ActionErrorPayload struct {
	Message string `json:"message"`
}

// GameOverPayload 对局结束广播
// 胜局: winner/winnerName/winningCells；平局: winner 为空 + draw=true
type GameOverPayload struct {
	Winner       string   `json:"winner,omitempty"`
	WinnerName   string   `json:"winnerName,omitempty"`
	WinningCells [][2]int `json:"winningCells,omitempty"`
	Draw         bool     `json:"draw,omitempty"`
}

// ErrorPayload 通用错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
