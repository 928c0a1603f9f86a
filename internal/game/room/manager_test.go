package room

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/gomoku/internal/apperrors"
	"github.com/palemoky/gomoku/internal/protocol"
	"github.com/palemoky/gomoku/internal/server/storage"
	"github.com/palemoky/gomoku/internal/testutil"
)

// fakeStore 线程安全地记录镜像写入，镜像是异步的，断言用 Eventually
type fakeStore struct {
	mu      sync.Mutex
	saved   map[string]*storage.RoomData
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string]*storage.RoomData)}
}

func (f *fakeStore) SaveRoom(_ context.Context, data *storage.RoomData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[data.Code] = data
	return nil
}

func (f *fakeStore) DeleteRoom(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, code)
	return nil
}

func (f *fakeStore) savedPhase(code string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if data, ok := f.saved[code]; ok {
		return data.Phase
	}
	return ""
}

func (f *fakeStore) wasDeleted(code string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.deleted {
		if c == code {
			return true
		}
	}
	return false
}

func newTestManager() (*Manager, *testutil.RecordingSender) {
	sender := testutil.NewRecordingSender()
	// 不启动定时协程，淘汰在测试里手动触发
	return NewManager(sender, nil, time.Hour, 0), sender
}

func TestCreateRoomAssignsValidCode(t *testing.T) {
	m, _ := newTestManager()

	r, err := m.CreateRoom("c1", "小明")
	require.NoError(t, err)

	assert.Len(t, r.Code, 6)
	for _, ch := range r.Code {
		assert.Contains(t, roomCodeChars, string(ch), "房间号不能含易混淆字符")
	}

	assert.Same(t, r, m.RoomFor("c1"))
	assert.Equal(t, 1, m.RoomCount())
}

func TestJoinRoomNormalizesCode(t *testing.T) {
	m, _ := newTestManager()
	r, err := m.CreateRoom("c1", "小明")
	require.NoError(t, err)

	joined, err := m.JoinRoom("c2", "  "+strings.ToLower(r.Code)+" ", "小红")
	require.NoError(t, err)
	assert.Same(t, r, joined)
	assert.Same(t, r, m.RoomFor("c2"))
}

func TestJoinRoomErrors(t *testing.T) {
	m, _ := newTestManager()
	r, err := m.CreateRoom("c1", "小明")
	require.NoError(t, err)

	_, err = m.JoinRoom("c2", "ZZZZZZ", "小红")
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)

	_, err = m.JoinRoom("c2", r.Code, "小红")
	require.NoError(t, err)

	_, err = m.JoinRoom("c3", r.Code, "路人")
	assert.ErrorIs(t, err, apperrors.ErrRoomFull)

	// 加入失败的连接不能被记进映射
	assert.Nil(t, m.RoomFor("c3"))
}

func TestLeaveRoomRemovesEmptyRoom(t *testing.T) {
	m, _ := newTestManager()
	r, err := m.CreateRoom("c1", "小明")
	require.NoError(t, err)

	m.LeaveRoom("c1")

	assert.Nil(t, m.RoomFor("c1"))
	assert.Equal(t, 0, m.RoomCount())

	_, err = m.JoinRoom("c2", r.Code, "小红")
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

func TestLeaveRoomKeepsNonEmptyRoom(t *testing.T) {
	m, _ := newTestManager()
	r, err := m.CreateRoom("c1", "小明")
	require.NoError(t, err)
	_, err = m.JoinRoom("c2", r.Code, "小红")
	require.NoError(t, err)

	m.LeaveRoom("c1")

	assert.Nil(t, m.RoomFor("c1"))
	assert.Same(t, r, m.RoomFor("c2"))
	assert.Equal(t, 1, m.RoomCount())

	// 离开的连接再离开一次是 no-op
	m.LeaveRoom("c1")
	assert.Equal(t, 1, m.RoomCount())
}

func TestSweepEvictsStaleRoomAndNotifies(t *testing.T) {
	sender := testutil.NewRecordingSender()
	m := NewManager(sender, nil, time.Hour, 0)

	_, err := m.CreateRoom("c1", "小明")
	require.NoError(t, err)

	// 没到一小时不动
	m.Sweep(time.Now().Add(30 * time.Minute))
	assert.Equal(t, 1, m.RoomCount())

	m.Sweep(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 0, m.RoomCount())
	assert.Nil(t, m.RoomFor("c1"))

	msg := sender.LastOfType("c1", protocol.MsgError)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeRoomExpired, payload.Code)
}

func TestSweepSkipsFreshRooms(t *testing.T) {
	m, _ := newTestManager()
	_, err := m.CreateRoom("c1", "小明")
	require.NoError(t, err)

	m.Sweep(time.Now())
	assert.Equal(t, 1, m.RoomCount())
}

func TestActiveGamesCount(t *testing.T) {
	m, _ := newTestManager()
	r, err := m.CreateRoom("c1", "小明")
	require.NoError(t, err)
	_, err = m.JoinRoom("c2", r.Code, "小红")
	require.NoError(t, err)

	assert.Equal(t, 0, m.ActiveGamesCount())

	r.SetReady("c1", true)
	r.SetReady("c2", true)
	assert.Equal(t, 1, m.ActiveGamesCount())
}

func TestMirrorFollowsRoomLifecycle(t *testing.T) {
	store := newFakeStore()
	sender := testutil.NewRecordingSender()
	m := NewManager(sender, store, time.Hour, 0)

	r, err := m.CreateRoom("c1", "小明")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return store.savedPhase(r.Code) == "lobby"
	}, time.Second, 10*time.Millisecond)

	m.LeaveRoom("c1")

	assert.Eventually(t, func() bool {
		return store.wasDeleted(r.Code)
	}, time.Second, 10*time.Millisecond)
}

func TestConcurrentJoinSingleSlot(t *testing.T) {
	m, _ := newTestManager()
	r, err := m.CreateRoom("host", "房主")
	require.NoError(t, err)

	// 多个连接抢最后一个位置，只能有一个成功
	const contenders = 8
	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.JoinRoom(connID(i), r.Code, "抢位者")
		}(i)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		if err == nil {
			success++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrRoomFull)
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, 2, r.PlayerCount())
}

func connID(i int) string {
	return string(rune('a'+i)) + "-conn"
}
