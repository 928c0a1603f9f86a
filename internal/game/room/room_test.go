package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/gomoku/internal/apperrors"
	"github.com/palemoky/gomoku/internal/game"
	"github.com/palemoky/gomoku/internal/protocol"
	"github.com/palemoky/gomoku/internal/testutil"
)

func newLobbyRoom(t *testing.T) (*Room, *testutil.RecordingSender) {
	t.Helper()

	sender := testutil.NewRecordingSender()
	r := New("AB23CD", sender)
	require.NoError(t, r.AddPlayer("c1", "小明"))
	require.NoError(t, r.AddPlayer("c2", "小红"))
	return r, sender
}

// startedRoom 把房间推进到对局开始，并按开局通知解析出黑白双方的连接
func startedRoom(t *testing.T) (r *Room, sender *testutil.RecordingSender, blackConn, whiteConn string) {
	t.Helper()

	r, sender = newLobbyRoom(t)
	r.SetReady("c1", true)
	r.SetReady("c2", true)
	require.Equal(t, PhaseInProgress, r.Phase())

	for _, conn := range []string{"c1", "c2"} {
		msg := sender.LastOfType(conn, protocol.MsgGameStarted)
		require.NotNil(t, msg)
		payload, err := protocol.ParsePayload[protocol.GameStartedPayload](msg)
		require.NoError(t, err)
		switch payload.YourColor {
		case "black":
			blackConn = conn
		case "white":
			whiteConn = conn
		}
	}
	require.NotEmpty(t, blackConn)
	require.NotEmpty(t, whiteConn)
	require.NotEqual(t, blackConn, whiteConn)
	return r, sender, blackConn, whiteConn
}

func TestAddPlayerAssignsColorsInJoinOrder(t *testing.T) {
	sender := testutil.NewRecordingSender()
	r := New("AB23CD", sender)

	require.NoError(t, r.AddPlayer("c1", "小明"))
	require.NoError(t, r.AddPlayer("c2", "小红"))

	players := r.Players()
	require.Len(t, players, 2)
	assert.Equal(t, "black", players[0].Color)
	assert.Equal(t, "white", players[1].Color)

	// 入场要广播房间状态
	assert.NotNil(t, sender.LastOfType("c1", protocol.MsgRoomUpdated))
	assert.NotNil(t, sender.LastOfType("c2", protocol.MsgRoomUpdated))
}

func TestAddPlayerRoomFull(t *testing.T) {
	r, _ := newLobbyRoom(t)

	err := r.AddPlayer("c3", "路人")
	assert.ErrorIs(t, err, apperrors.ErrRoomFull)
	assert.Equal(t, 2, r.PlayerCount())
}

func TestRejoinAfterMidGameLeave(t *testing.T) {
	r, _, _, _ := startedRoom(t)
	r.RemovePlayer("c2")

	// 剩一个人回到大厅，新对手可以进来
	require.Equal(t, PhaseLobby, r.Phase())
	assert.NoError(t, r.AddPlayer("c3", "新对手"))
}

func TestRemovePlayerResetsSurvivor(t *testing.T) {
	r, _ := newLobbyRoom(t)
	r.SetReady("c2", true)

	removed, empty := r.RemovePlayer("c1")
	assert.True(t, removed)
	assert.False(t, empty)

	players := r.Players()
	require.Len(t, players, 1)
	assert.Equal(t, "小红", players[0].Username)
	assert.Equal(t, "black", players[0].Color)
	assert.False(t, players[0].Ready)
}

func TestRemoveLastPlayerEmptiesRoom(t *testing.T) {
	sender := testutil.NewRecordingSender()
	r := New("AB23CD", sender)
	require.NoError(t, r.AddPlayer("c1", "小明"))

	removed, empty := r.RemovePlayer("c1")
	assert.True(t, removed)
	assert.True(t, empty)

	removed, empty = r.RemovePlayer("c1")
	assert.False(t, removed)
	assert.True(t, empty)
}

func TestRemovePlayerMidGameNotifiesOpponent(t *testing.T) {
	r, sender, blackConn, whiteConn := startedRoom(t)

	r.RemovePlayer(blackConn)

	assert.NotNil(t, sender.LastOfType(whiteConn, protocol.MsgOpponentLeft))
	assert.Equal(t, PhaseLobby, r.Phase())

	// 留下的人不被踢走，等新对手重新走大厅流程
	players := r.Players()
	require.Len(t, players, 1)
	assert.Equal(t, "black", players[0].Color)
	assert.False(t, players[0].Ready)
}

func TestSetReadyUnknownConnIsNoop(t *testing.T) {
	r, sender := newLobbyRoom(t)
	sender.Reset()

	r.SetReady("ghost", true)

	assert.Nil(t, sender.LastOfType("c1", protocol.MsgRoomUpdated))
	assert.Equal(t, PhaseLobby, r.Phase())
}

func TestBothReadyStartsGame(t *testing.T) {
	r, sender, _, _ := startedRoom(t)

	assert.Equal(t, game.ColorBlack, r.Turn())

	// 开局通知要带双方名字，一黑一白
	msg := sender.LastOfType("c1", protocol.MsgGameStarted)
	payload, err := protocol.ParsePayload[protocol.GameStartedPayload](msg)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"小明", "小红"},
		[]string{payload.BlackPlayer, payload.WhitePlayer})

	players := r.Players()
	assert.NotEqual(t, players[0].Color, players[1].Color)
}

func TestPlaceStoneBroadcastsAndFlipsTurn(t *testing.T) {
	r, sender, blackConn, whiteConn := startedRoom(t)

	require.NoError(t, r.PlaceStone(blackConn, 7, 7))

	for _, conn := range []string{blackConn, whiteConn} {
		msg := sender.LastOfType(conn, protocol.MsgStonePlaced)
		require.NotNil(t, msg)
		payload, err := protocol.ParsePayload[protocol.StonePlacedPayload](msg)
		require.NoError(t, err)
		assert.Equal(t, 7, payload.Row)
		assert.Equal(t, 7, payload.Col)
		assert.Equal(t, "black", payload.Color)
		assert.Equal(t, "white", payload.NextColor)
	}

	assert.Equal(t, game.ColorWhite, r.Turn())
}

func TestPlaceStoneRejections(t *testing.T) {
	r, sender, blackConn, whiteConn := startedRoom(t)

	assert.ErrorIs(t, r.PlaceStone("ghost", 0, 0), apperrors.ErrUnknownPlayer)
	assert.ErrorIs(t, r.PlaceStone(whiteConn, 0, 0), apperrors.ErrNotYourTurn)
	assert.ErrorIs(t, r.PlaceStone(blackConn, -1, 0), apperrors.ErrOutOfBounds)
	assert.ErrorIs(t, r.PlaceStone(blackConn, 7, 15), apperrors.ErrOutOfBounds)

	require.NoError(t, r.PlaceStone(blackConn, 7, 7))
	assert.ErrorIs(t, r.PlaceStone(whiteConn, 7, 7), apperrors.ErrCellOccupied)

	// 被拒绝的操作不能动棋盘：黑方那颗子只落了一次
	assert.Equal(t, 1, sender.CountOfType(blackConn, protocol.MsgStonePlaced))

	// 回合仍然在白方
	assert.Equal(t, game.ColorWhite, r.Turn())
}

func TestPlaceStoneNotRunning(t *testing.T) {
	r, _ := newLobbyRoom(t)
	assert.ErrorIs(t, r.PlaceStone("c1", 7, 7), apperrors.ErrNotRunning)
}

func TestWinBroadcastsExactRun(t *testing.T) {
	r, sender, blackConn, whiteConn := startedRoom(t)

	// 黑连下 (7,3)..(7,7)，白在远处陪跑
	for i := 0; i < 4; i++ {
		require.NoError(t, r.PlaceStone(blackConn, 7, 3+i))
		require.NoError(t, r.PlaceStone(whiteConn, 0, i))
	}
	require.NoError(t, r.PlaceStone(blackConn, 7, 7))

	assert.Equal(t, PhaseFinished, r.Phase())

	msg := sender.LastOfType(whiteConn, protocol.MsgGameOver)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.GameOverPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, "black", payload.Winner)
	assert.False(t, payload.Draw)
	assert.Equal(t, [][2]int{{7, 3}, {7, 4}, {7, 5}, {7, 6}, {7, 7}}, payload.WinningCells)

	// 终局后不能继续落子
	assert.ErrorIs(t, r.PlaceStone(whiteConn, 8, 8), apperrors.ErrNotRunning)
}

func TestDrawOnFullBoard(t *testing.T) {
	r, sender, blackConn, whiteConn := startedRoom(t)

	// (2r+c) mod 4 着色四个方向同色最多连 2：黑 113 格、白 112 格，
	// 交替落满全盘必然无胜负
	var blackCells, whiteCells [][2]int
	for row := 0; row < game.BoardSize; row++ {
		for col := 0; col < game.BoardSize; col++ {
			if (2*row+col)%4 < 2 {
				blackCells = append(blackCells, [2]int{row, col})
			} else {
				whiteCells = append(whiteCells, [2]int{row, col})
			}
		}
	}
	require.Len(t, blackCells, 113)
	require.Len(t, whiteCells, 112)

	for i := range blackCells {
		require.NoError(t, r.PlaceStone(blackConn, blackCells[i][0], blackCells[i][1]))
		if i < len(whiteCells) {
			require.NoError(t, r.PlaceStone(whiteConn, whiteCells[i][0], whiteCells[i][1]))
		}
	}

	assert.Equal(t, PhaseFinished, r.Phase())

	msg := sender.LastOfType(blackConn, protocol.MsgGameOver)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.GameOverPayload](msg)
	require.NoError(t, err)
	assert.True(t, payload.Draw)
	assert.Empty(t, payload.Winner)
	assert.Empty(t, payload.WinningCells)
}

func TestRestartSwapsColorsAndResetsBoard(t *testing.T) {
	r, sender, blackConn, whiteConn := startedRoom(t)

	// 黑速胜进入 finished
	for i := 0; i < 4; i++ {
		require.NoError(t, r.PlaceStone(blackConn, 7, 3+i))
		require.NoError(t, r.PlaceStone(whiteConn, 0, i))
	}
	require.NoError(t, r.PlaceStone(blackConn, 7, 7))
	require.Equal(t, PhaseFinished, r.Phase())

	r.Restart()

	assert.Equal(t, PhaseInProgress, r.Phase())
	assert.Equal(t, game.ColorBlack, r.Turn())

	// 上局后手变先手
	msg := sender.LastOfType(whiteConn, protocol.MsgGameRestarted)
	require.NotNil(t, msg)
	payload, err := protocol.ParsePayload[protocol.GameStartedPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, "black", payload.YourColor)

	// 棋盘清空：上一局的格子可以再落
	require.NoError(t, r.PlaceStone(whiteConn, 7, 3))
}

func TestRestartIgnoredOutsideFinished(t *testing.T) {
	r, sender := newLobbyRoom(t)
	sender.Reset()

	r.Restart()

	assert.Equal(t, PhaseLobby, r.Phase())
	assert.Nil(t, sender.LastOfType("c1", protocol.MsgGameRestarted))
}

func TestOpponentConn(t *testing.T) {
	r, _ := newLobbyRoom(t)

	opp, ok := r.OpponentConn("c1")
	assert.True(t, ok)
	assert.Equal(t, "c2", opp)

	sender := testutil.NewRecordingSender()
	solo := New("SOLO22", sender)
	require.NoError(t, solo.AddPlayer("c9", "独行侠"))
	_, ok = solo.OpponentConn("c9")
	assert.False(t, ok)
}

func TestTurnAlternatesStrictly(t *testing.T) {
	r, _, blackConn, whiteConn := startedRoom(t)

	conns := [2]string{blackConn, whiteConn}
	for i := 0; i < 8; i++ {
		mover := conns[i%2]
		other := conns[(i+1)%2]
		assert.ErrorIs(t, r.PlaceStone(other, 10, i), apperrors.ErrNotYourTurn)
		require.NoError(t, r.PlaceStone(mover, i, i%2*7))
	}
}
