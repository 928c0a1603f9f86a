package apperrors

import (
	"github.com/palemoky/gomoku/internal/protocol"
)

// GameError 游戏错误（房间和对局共享），全部可恢复，
// 只回报给出错的连接，不影响房间里的其他人。
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 加入房间错误
var (
	ErrRoomNotFound   = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull       = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrGameInProgress = &GameError{Code: protocol.ErrCodeGameInProgress, Message: "游戏已开始"}
)

// 落子错误
var (
	ErrUnknownPlayer = &GameError{Code: protocol.ErrCodeUnknownPlayer, Message: "玩家不存在"}
	ErrNotRunning    = &GameError{Code: protocol.ErrCodeNotRunning, Message: "游戏未开始"}
	ErrNotYourTurn   = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到你"}
	ErrCellOccupied  = &GameError{Code: protocol.ErrCodeCellOccupied, Message: "这里已经有棋子了"}
	ErrOutOfBounds   = &GameError{Code: protocol.ErrCodeOutOfBounds, Message: "落子位置超出棋盘"}
)
