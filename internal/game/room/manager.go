package room

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/palemoky/gomoku/internal/apperrors"
	"github.com/palemoky/gomoku/internal/protocol"
	"github.com/palemoky/gomoku/internal/server/storage"
)

const (
	// 房间号长度
	roomCodeLength = 6
	// 房间号字符集，去掉了易混淆的 0/O/1/I
	roomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Store 房间摘要的外部镜像，尽力而为：写失败只记日志，
// 游戏流程绝不依赖它（进程重启不恢复房间）。
type Store interface {
	SaveRoom(ctx context.Context, data *storage.RoomData) error
	DeleteRoom(ctx context.Context, code string) error
}

// Manager 房间注册表：房间号 → 房间、连接 → 房间两张映射，
// 全部成员变动（创建/加入/离开/淘汰）都持有注册表锁，
// 不会出现两个连接挤进同一个刚满的房间，也不会在加入途中淘汰房间。
type Manager struct {
	sender Sender
	store  Store // 可为 nil

	maxAge time.Duration // 房间最长存活时间

	mu    sync.Mutex
	rooms map[string]*Room
	conns map[string]*Room // 一个连接同一时刻至多属于一个房间
}

// NewManager 创建注册表。sweepInterval > 0 时启动定期淘汰协程。
func NewManager(sender Sender, store Store, maxAge, sweepInterval time.Duration) *Manager {
	m := &Manager{
		sender: sender,
		store:  store,
		maxAge: maxAge,
		rooms:  make(map[string]*Room),
		conns:  make(map[string]*Room),
	}

	if sweepInterval > 0 {
		go m.sweepLoop(sweepInterval)
	}

	return m
}

// CreateRoom 创建房间并让创建者加入，房间号碰撞时重新生成
func (m *Manager) CreateRoom(connID, username string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := m.generateRoomCode()
	r := New(code, m.sender)

	if err := r.AddPlayer(connID, username); err != nil {
		// 空房间加人不可能失败，走到这里说明代码有 bug
		log.Printf("⚠️ 创建房间 %s 加入创建者失败: %v", code, err)
		return nil, err
	}

	m.rooms[code] = r
	m.conns[connID] = r

	m.mirrorSave(r)

	log.Printf("🏠 房间 %s 已创建，房主: %s", code, username)

	return r, nil
}

// JoinRoom 按房间号加入（大小写不敏感、忽略首尾空白）
func (m *Manager) JoinRoom(connID, code, username string) (*Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.rooms[code]
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	// 人满 / 对局已开始的检查在 AddPlayer 内完成
	if err := r.AddPlayer(connID, username); err != nil {
		return nil, err
	}

	m.conns[connID] = r
	m.mirrorSave(r)

	return r, nil
}

// RoomFor 连接当前所属的房间，不在任何房间时返回 nil
func (m *Manager) RoomFor(connID string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conns[connID]
}

// LeaveRoom 连接离开当前房间（显式离开和断线共用），空房间随即摘除
func (m *Manager) LeaveRoom(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.conns[connID]
	if !exists {
		return
	}
	delete(m.conns, connID)

	_, empty := r.RemovePlayer(connID)
	if empty {
		delete(m.rooms, r.Code)
		m.mirrorDelete(r.Code)
		log.Printf("🏠 房间 %s 已解散", r.Code)
	} else {
		m.mirrorSave(r)
	}
}

// RoomCount 当前房间数
func (m *Manager) RoomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// ActiveGamesCount 进行中的对局数，优雅关闭时轮询用
func (m *Manager) ActiveGamesCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, r := range m.rooms {
		if r.Phase() == PhaseInProgress {
			count++
		}
	}
	return count
}

// Sweep 淘汰没人或超龄的房间。定时触发，不依赖任何单个动作。
func (m *Manager) Sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for code, r := range m.rooms {
		if !r.Evictable(now, m.maxAge) {
			continue
		}

		// 超龄房间里可能还有人，通知后清掉连接映射
		for _, connID := range r.ConnIDs() {
			m.sender.Send(connID, protocol.NewErrorMessage(protocol.ErrCodeRoomExpired))
			delete(m.conns, connID)
		}

		delete(m.rooms, code)
		m.mirrorDelete(code)
		log.Printf("🧹 清理过期房间: %s", code)
	}
}

// sweepLoop 定期淘汰协程
func (m *Manager) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		m.Sweep(time.Now())
	}
}

// generateRoomCode 生成未被占用的房间号，调用方必须持有 m.mu
func (m *Manager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.Intn(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := m.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// mirrorSave / mirrorDelete 异步写 Redis 镜像，失败不影响游戏流程
func (m *Manager) mirrorSave(r *Room) {
	if m.store == nil {
		return
	}
	data := r.StoreData()
	go func() {
		if err := m.store.SaveRoom(context.Background(), data); err != nil {
			log.Printf("⚠️ 房间 %s 镜像写入失败: %v", data.Code, err)
		}
	}()
}

func (m *Manager) mirrorDelete(code string) {
	if m.store == nil {
		return
	}
	go func() {
		if err := m.store.DeleteRoom(context.Background(), code); err != nil {
			log.Printf("⚠️ 房间 %s 镜像删除失败: %v", code, err)
		}
	}()
}
