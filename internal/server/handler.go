package server

import (
	"errors"
	"log"
	"strings"

	"github.com/palemoky/gomoku/internal/apperrors"
	"github.com/palemoky/gomoku/internal/game/room"
	"github.com/palemoky/gomoku/internal/protocol"
)

// 昵称最长字符数，超出截断
const maxUsernameLen = 20

// Handler 入站消息分发器。
// 只做解析、路由和回执，游戏规则全部在房间层判定。
type Handler struct {
	sender room.Sender
	rooms  *room.Manager
}

// NewHandler 创建消息处理器
func NewHandler(sender room.Sender, rooms *room.Manager) *Handler {
	return &Handler{
		sender: sender,
		rooms:  rooms,
	}
}

// Handle 按消息类型分发
func (h *Handler) Handle(connID string, msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgCreateRoom:
		h.handleCreateRoom(connID, msg)
	case protocol.MsgJoinRoom:
		h.handleJoinRoom(connID, msg)
	case protocol.MsgToggleReady:
		h.handleToggleReady(connID, msg)
	case protocol.MsgLeaveRoom:
		h.rooms.LeaveRoom(connID)
	case protocol.MsgPlaceStone:
		h.handlePlaceStone(connID, msg)
	case protocol.MsgPlayAgain:
		h.relayToOpponent(connID, protocol.MsgPlayAgainRequest)
	case protocol.MsgPlayAgainAccept:
		h.handlePlayAgainAccept(connID)
	case protocol.MsgPlayAgainReject:
		h.relayToOpponent(connID, protocol.MsgPlayAgainRejected)
	default:
		log.Printf("未知消息类型: %s", msg.Type)
		h.sender.Send(connID, protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
	}
}

// handleCreateRoom 创建房间。已在房间里的连接先退出旧房间。
func (h *Handler) handleCreateRoom(connID string, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil {
		h.sender.Send(connID, protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	h.rooms.LeaveRoom(connID)

	r, err := h.rooms.CreateRoom(connID, sanitizeUsername(payload.Username))
	if err != nil {
		h.sender.Send(connID, protocol.NewErrorMessage(protocol.ErrCodeUnknown))
		return
	}

	h.sender.Send(connID, protocol.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomPayload{
		RoomCode: r.Code,
		Players:  r.Players(),
	}))
}

// handleJoinRoom 按房间号加入
func (h *Handler) handleJoinRoom(connID string, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		h.sender.Send(connID, protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	h.rooms.LeaveRoom(connID)

	r, err := h.rooms.JoinRoom(connID, payload.RoomCode, sanitizeUsername(payload.Username))
	if err != nil {
		h.sender.Send(connID, protocol.MustNewMessage(protocol.MsgJoinError, protocol.JoinErrorPayload{
			Message: joinErrorText(err),
		}))
		return
	}

	h.sender.Send(connID, protocol.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomPayload{
		RoomCode: r.Code,
		Players:  r.Players(),
	}))
}

// handleToggleReady 切换准备状态
func (h *Handler) handleToggleReady(connID string, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.ToggleReadyPayload](msg)
	if err != nil {
		h.sender.Send(connID, protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.rooms.RoomFor(connID)
	if r == nil {
		return
	}
	r.SetReady(connID, payload.Ready)
}

// handlePlaceStone 落子，规则校验失败时回执动作错误
func (h *Handler) handlePlaceStone(connID string, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PlaceStonePayload](msg)
	if err != nil {
		h.sender.Send(connID, protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.rooms.RoomFor(connID)
	if r == nil {
		h.sendActionError(connID, apperrors.ErrUnknownPlayer)
		return
	}

	if err := r.PlaceStone(connID, payload.Row, payload.Col); err != nil {
		h.sendActionError(connID, err)
	}
}

// handlePlayAgainAccept 接受再来一局，由房间重开对局
func (h *Handler) handlePlayAgainAccept(connID string) {
	r := h.rooms.RoomFor(connID)
	if r == nil {
		return
	}
	r.Restart()
}

// relayToOpponent 把再来一局的请求 / 拒绝原样转给对手
func (h *Handler) relayToOpponent(connID string, msgType protocol.MessageType) {
	r := h.rooms.RoomFor(connID)
	if r == nil {
		return
	}

	opponent, ok := r.OpponentConn(connID)
	if !ok {
		return
	}
	h.sender.Send(opponent, protocol.MustNewMessage(msgType, nil))
}

// sendActionError 回执落子类错误
func (h *Handler) sendActionError(connID string, err error) {
	h.sender.Send(connID, protocol.MustNewMessage(protocol.MsgActionError, protocol.ActionErrorPayload{
		Message: err.Error(),
	}))
}

// joinErrorText 加入失败的提示文本
func joinErrorText(err error) string {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		return gameErr.Message
	}
	return err.Error()
}

// sanitizeUsername 整理昵称：去首尾空白、截断超长、空名随机生成
func sanitizeUsername(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return GenerateNickname()
	}

	runes := []rune(name)
	if len(runes) > maxUsernameLen {
		return string(runes[:maxUsernameLen])
	}
	return name
}
