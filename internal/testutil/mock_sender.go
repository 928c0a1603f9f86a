package testutil

import (
	"sync"

	"github.com/palemoky/gomoku/internal/protocol"
)

// RecordingSender 实现 room.Sender，按连接记录所有出站消息
type RecordingSender struct {
	mu       sync.Mutex
	messages map[string][]*protocol.Message
}

// NewRecordingSender 创建记录型 Sender
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{
		messages: make(map[string][]*protocol.Message),
	}
}

func (s *RecordingSender) Send(connID string, msg *protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[connID] = append(s.messages[connID], msg)
}

// MessagesFor 返回发给某连接的全部消息
func (s *RecordingSender) MessagesFor(connID string) []*protocol.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*protocol.Message(nil), s.messages[connID]...)
}

// LastOfType 返回发给某连接的最后一条指定类型消息，没有则返回 nil
func (s *RecordingSender) LastOfType(connID string, msgType protocol.MessageType) *protocol.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[connID]
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == msgType {
			return msgs[i]
		}
	}
	return nil
}

// CountOfType 统计发给某连接的指定类型消息数量
func (s *RecordingSender) CountOfType(connID string, msgType protocol.MessageType) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, msg := range s.messages[connID] {
		if msg.Type == msgType {
			count++
		}
	}
	return count
}

// Reset 清空记录
func (s *RecordingSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make(map[string][]*protocol.Message)
}
