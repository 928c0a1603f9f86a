package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/gomoku/internal/config"
	"github.com/palemoky/gomoku/internal/game/room"
	"github.com/palemoky/gomoku/internal/protocol"
	"github.com/palemoky/gomoku/internal/server/storage"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源，生产环境需要限制
	},
}

// Server WebSocket 服务器，持有全部连接并实现 room.Sender，
// 房间层只认连接 ID，出站消息统一从这里投递。
type Server struct {
	config      *config.Config
	redis       *redis.Client // 可为 nil，镜像关闭
	roomManager *room.Manager
	handler     *Handler

	clients   map[string]*Client
	clientsMu sync.RWMutex

	httpServer *http.Server
}

// NewServer 创建服务器实例。
// Redis 只承载房间摘要镜像，连不上降级为不写镜像，不阻止启动。
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		config:  cfg,
		clients: make(map[string]*Client),
	}

	var store room.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("⚠️ Redis 连接失败，房间镜像关闭: %v", err)
			_ = rdb.Close()
		} else {
			s.redis = rdb
			store = storage.NewRedisStore(rdb)
		}
	}

	s.roomManager = room.NewManager(s, store,
		cfg.Game.RoomTTLDuration(), cfg.Game.SweepIntervalDuration())
	s.handler = NewHandler(s, s.roomManager)

	return s
}

// Send 实现 room.Sender，投递消息给指定连接。
// 连接已不在时静默丢弃，断线和广播之间没有先后约定。
func (s *Server) Send(connID string, msg *protocol.Message) {
	s.clientsMu.RLock()
	client := s.clients[connID]
	s.clientsMu.RUnlock()

	if client != nil {
		client.SendMessage(msg)
	}
}

// Start 启动服务器，阻塞直到监听结束
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn)
	s.registerClient(client)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID: client.ID,
	}))

	log.Printf("✅ 连接 %s 已建立", client.ID)

	go client.ReadPump()
	go client.WritePump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		log.Printf("❌ 连接 %s 已断开", client.ID)
	}
}

// OnlineCount 当前在线连接数
func (s *Server) OnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// GracefulShutdown 优雅关闭：等进行中的对局结束，超时则强制关闭
func (s *Server) GracefulShutdown(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		active := s.roomManager.ActiveGamesCount()
		if active == 0 {
			break
		}
		log.Printf("⏳ 等待 %d 个对局结束...", active)
		<-ticker.C
	}

	if active := s.roomManager.ActiveGamesCount(); active > 0 {
		log.Printf("⚠️ 超时，仍有 %d 个对局进行中，强制关闭", active)
	}

	s.Shutdown()
}

// Shutdown 关闭服务器
func (s *Server) Shutdown() {
	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
	}

	if s.redis != nil {
		_ = s.redis.Close()
	}

	log.Println("服务器已关闭")
}
