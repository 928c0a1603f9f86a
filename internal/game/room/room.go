package room

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/palemoky/gomoku/internal/apperrors"
	"github.com/palemoky/gomoku/internal/game"
	"github.com/palemoky/gomoku/internal/protocol"
	"github.com/palemoky/gomoku/internal/server/storage"
)

// Sender 出站投递能力，由传输层注入。
// 房间只持有连接 ID，不持有连接本身，投递是 fire-and-forget。
type Sender interface {
	Send(connID string, msg *protocol.Message)
}

// Phase 房间生命周期阶段
type Phase int

const (
	PhaseLobby      Phase = iota // 等人 / 等准备
	PhaseInProgress              // 对局进行中
	PhaseFinished                // 对局刚结束，等待再来一局
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseInProgress:
		return "in_progress"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Player 房间中的玩家，归属房间独占
type Player struct {
	ConnID   string     // 传输层连接句柄
	Username string     // 显示名，可重复
	Ready    bool       // 仅大厅阶段有意义
	Color    game.Color // 黑先手；两人在场时必然一黑一白
}

// Room 一局对弈的全部状态。
// 所有修改操作串行执行（单把互斥锁），广播基于已一致的快照，
// 因此不需要额外加锁。
type Room struct {
	Code      string    // 房间号，创建时分配，不可变
	CreatedAt time.Time // 用于超时淘汰

	mu      sync.Mutex
	players []*Player // 按加入顺序，至多 2 人
	board   *game.Board
	phase   Phase
	turn    game.Color // 仅 in_progress 阶段有意义

	sender Sender
}

// New 创建空房间
func New(code string, sender Sender) *Room {
	return &Room{
		Code:      code,
		CreatedAt: time.Now(),
		phase:     PhaseLobby,
		sender:    sender,
	}
}

// AddPlayer 加入玩家。先来执黑、后来执白，成功后广播房间状态。
func (r *Room) AddPlayer(connID, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= 2 {
		return apperrors.ErrRoomFull
	}
	if r.phase != PhaseLobby {
		return apperrors.ErrGameInProgress
	}

	color := game.ColorBlack
	if len(r.players) == 1 {
		color = game.ColorWhite
	}

	r.players = append(r.players, &Player{
		ConnID:   connID,
		Username: username,
		Color:    color,
	})

	log.Printf("👤 玩家 %s 加入房间 %s，执%s", username, r.Code, colorName(color))
	r.broadcastRoomUpdate()

	return nil
}

// RemovePlayer 移除玩家，玩家不在房间时为 no-op。
// 对局进行中离开会通知剩下的一方，但房间不强制解散——
// 剩下的玩家可以留在房间里等新对手。
// 返回房间是否已空（空房间由注册表负责摘除）。
func (r *Room) RemovePlayer(connID string) (removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.players {
		if p.ConnID == connID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, len(r.players) == 0
	}

	p := r.players[idx]
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	log.Printf("👋 玩家 %s 离开房间 %s", p.Username, r.Code)

	if r.phase == PhaseInProgress {
		r.broadcast(protocol.MustNewMessage(protocol.MsgOpponentLeft, nil))
	}
	r.phase = PhaseLobby

	// 剩一个人时回到干净的大厅状态：执黑、未准备
	if len(r.players) == 1 {
		r.players[0].Color = game.ColorBlack
		r.players[0].Ready = false
	}

	if len(r.players) > 0 {
		r.broadcastRoomUpdate()
	}

	return true, len(r.players) == 0
}

// SetReady 更新准备状态，连接不在房间时为 no-op。
// 两人都准备好即自动开局。
func (r *Room) SetReady(connID string, ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerByConn(connID)
	if p == nil {
		return
	}

	p.Ready = ready
	r.broadcastRoomUpdate()

	if r.phase == PhaseLobby && len(r.players) == 2 &&
		r.players[0].Ready && r.players[1].Ready {
		r.startGame()
	}
}

// startGame 开局，调用方必须持有 r.mu。
// 先来执黑只是大厅里的临时分配，开局时公平抛硬币重新定先手，
// 避免反复对局时总是房主先走。
func (r *Room) startGame() {
	r.board = game.NewBoard()
	r.phase = PhaseInProgress
	r.turn = game.ColorBlack

	if rand.Intn(2) == 0 {
		r.players[0].Color, r.players[1].Color = r.players[1].Color, r.players[0].Color
	}

	r.announceStart(protocol.MsgGameStarted)

	black, white := r.usernamesByColor()
	log.Printf("🎮 房间 %s 开局！黑方: %s, 白方: %s", r.Code, black, white)
}

// PlaceStone 落子。出错不改动任何状态；成功后广播落子，
// 随即检查胜负与平局，否则交换回合。
func (r *Room) PlaceStone(connID string, row, col int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerByConn(connID)
	if p == nil {
		return apperrors.ErrUnknownPlayer
	}
	if r.phase != PhaseInProgress {
		return apperrors.ErrNotRunning
	}
	// 传输层理应已经筛掉越界坐标，但房间自己也必须拒绝而不是崩溃
	if !game.InBounds(row, col) {
		return apperrors.ErrOutOfBounds
	}
	if p.Color != r.turn {
		return apperrors.ErrNotYourTurn
	}
	if r.board.Cell(row, col) != game.ColorNone {
		return apperrors.ErrCellOccupied
	}

	r.board.Place(row, col, p.Color)

	r.broadcast(protocol.MustNewMessage(protocol.MsgStonePlaced, protocol.StonePlacedPayload{
		Row:       row,
		Col:       col,
		Color:     string(p.Color),
		NextColor: string(p.Color.Opposite()),
	}))

	if win, cells := r.board.CheckWin(row, col); win {
		r.phase = PhaseFinished
		r.broadcast(protocol.MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
			Winner:       string(p.Color),
			WinnerName:   p.Username,
			WinningCells: cells,
		}))
		log.Printf("🏆 房间 %s 对局结束，%s (%s) 获胜", r.Code, p.Username, colorName(p.Color))
		return nil
	}

	// 平局只在没人获胜且 225 格全部占满时成立
	if r.board.IsFull() {
		r.phase = PhaseFinished
		r.broadcast(protocol.MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
			Draw: true,
		}))
		log.Printf("🤝 房间 %s 平局", r.Code)
		return nil
	}

	r.turn = r.turn.Opposite()
	return nil
}

// Restart 再来一局。协商（请求/接受/拒绝）在分发层完成，
// 这里只负责重开：双方交换颜色（上局后手变先手）、棋盘清空、黑方先走。
func (r *Room) Restart() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) != 2 || r.phase != PhaseFinished {
		return
	}

	for _, p := range r.players {
		p.Color = p.Color.Opposite()
	}

	r.board = game.NewBoard()
	r.phase = PhaseInProgress
	r.turn = game.ColorBlack

	r.announceStart(protocol.MsgGameRestarted)

	log.Printf("🔁 房间 %s 再来一局", r.Code)
}

// announceStart 逐个玩家发送开局通知，带各自的执子颜色。
// 调用方必须持有 r.mu。
func (r *Room) announceStart(msgType protocol.MessageType) {
	black, white := r.usernamesByColor()
	for _, p := range r.players {
		r.sender.Send(p.ConnID, protocol.MustNewMessage(msgType, protocol.GameStartedPayload{
			YourColor:   string(p.Color),
			BlackPlayer: black,
			WhitePlayer: white,
		}))
	}
}

// OpponentConn 返回对手的连接 ID，供分发层转发再来一局协商
func (r *Room) OpponentConn(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		if p.ConnID != connID {
			return p.ConnID, true
		}
	}
	return "", false
}

// HasPlayer 连接是否是本房间成员
func (r *Room) HasPlayer(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerByConn(connID) != nil
}

// PlayerCount 当前人数
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Phase 当前阶段
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Turn 当前轮到的颜色
func (r *Room) Turn() game.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.turn
}

// Players 玩家公开信息快照
func (r *Room) Players() []protocol.PlayerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerInfos()
}

// ConnIDs 所有成员的连接 ID 快照
func (r *Room) ConnIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.ConnID)
	}
	return ids
}

// Evictable 房间是否可淘汰：没人了，或者超龄。
// 注册表在持有自身锁时调用，成员变动也都经过注册表锁，
// 所以不会淘汰一个正在变成非空的房间。
func (r *Room) Evictable(now time.Time, maxAge time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) == 0 || now.Sub(r.CreatedAt) > maxAge
}

// StoreData 生成 Redis 镜像摘要
func (r *Room) StoreData() *storage.RoomData {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]storage.PlayerData, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, storage.PlayerData{
			Username: p.Username,
			Color:    string(p.Color),
			Ready:    p.Ready,
		})
	}

	return &storage.RoomData{
		Code:      r.Code,
		Phase:     r.phase.String(),
		Players:   players,
		CreatedAt: r.CreatedAt.Unix(),
	}
}

// --- 内部方法，调用方必须持有 r.mu ---

func (r *Room) playerByConn(connID string) *Player {
	for _, p := range r.players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (r *Room) playerInfos() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, protocol.PlayerInfo{
			Username: p.Username,
			Color:    string(p.Color),
			Ready:    p.Ready,
		})
	}
	return infos
}

func (r *Room) usernamesByColor() (black, white string) {
	for _, p := range r.players {
		if p.Color == game.ColorBlack {
			black = p.Username
		} else {
			white = p.Username
		}
	}
	return black, white
}

func (r *Room) broadcast(msg *protocol.Message) {
	for _, p := range r.players {
		r.sender.Send(p.ConnID, msg)
	}
}

func (r *Room) broadcastRoomUpdate() {
	r.broadcast(protocol.MustNewMessage(protocol.MsgRoomUpdated, protocol.RoomUpdatedPayload{
		Code:    r.Code,
		Players: r.playerInfos(),
	}))
}

func colorName(c game.Color) string {
	if c == game.ColorBlack {
		return "黑"
	}
	return "白"
}
