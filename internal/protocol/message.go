package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 房间操作
	MsgCreateRoom  MessageType = "create_room"  // 创建房间
	MsgJoinRoom    MessageType = "join_room"    // 加入房间
	MsgToggleReady MessageType = "toggle_ready" // 准备/取消准备
	MsgLeaveRoom   MessageType = "leave_room"   // 离开房间

	// 对局操作
	MsgPlaceStone MessageType = "place_stone" // 落子

	// 再来一局协商
	MsgPlayAgain       MessageType = "play_again"        // 请求再来一局
	MsgPlayAgainAccept MessageType = "play_again_accept" // 接受
	MsgPlayAgainReject MessageType = "play_again_reject" // 拒绝
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功

	// 房间相关
	MsgRoomCreated MessageType = "room_created" // 房间创建成功
	MsgRoomJoined  MessageType = "room_joined"  // 加入房间成功
	MsgJoinError   MessageType = "join_error"   // 加入失败
	MsgRoomUpdated MessageType = "room_updated" // 房间状态变化

	// 对局流程
	MsgGameStarted   MessageType = "game_started"   // 对局开始
	MsgGameRestarted MessageType = "game_restarted" // 再来一局开始
	MsgStonePlaced   MessageType = "stone_placed"   // 有人落子
	MsgActionError   MessageType = "action_error"   // 非法操作
	MsgGameOver      MessageType = "game_over"      // 对局结束
	MsgOpponentLeft  MessageType = "opponent_left"  // 对手离开

	// 再来一局协商
	MsgPlayAgainRequest  MessageType = "play_again_request"  // 对手请求再来一局
	MsgPlayAgainRejected MessageType = "play_again_rejected" // 对手拒绝

	// 错误
	MsgError MessageType = "error" // 通用错误消息
)
