package protocol

// 错误码
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001

	// 加入房间错误
	ErrCodeRoomNotFound   = 2001
	ErrCodeRoomFull       = 2002
	ErrCodeGameInProgress = 2003

	// 落子错误
	ErrCodeUnknownPlayer = 3001
	ErrCodeNotRunning    = 3002
	ErrCodeNotYourTurn   = 3003
	ErrCodeCellOccupied  = 3004
	ErrCodeOutOfBounds   = 3005

	// 系统
	ErrCodeRoomExpired = 5001
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:        "未知错误",
	ErrCodeInvalidMsg:     "无效的消息格式",
	ErrCodeRoomNotFound:   "房间不存在",
	ErrCodeRoomFull:       "房间已满",
	ErrCodeGameInProgress: "游戏已开始",
	ErrCodeUnknownPlayer:  "玩家不存在",
	ErrCodeNotRunning:     "游戏未开始",
	ErrCodeNotYourTurn:    "还没轮到你",
	ErrCodeCellOccupied:   "这里已经有棋子了",
	ErrCodeOutOfBounds:    "落子位置超出棋盘",
	ErrCodeRoomExpired:    "房间超时已关闭",
}
