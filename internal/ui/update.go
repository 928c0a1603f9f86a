package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/gomoku/internal/game"
	"github.com/palemoky/gomoku/internal/protocol"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case connectedMsg:
		m.phase = phaseName
		m.status = ""
		return m, m.listen()

	case connectionErrorMsg:
		m.status = fmt.Sprintf("连接已断开: %v，按 q 退出", msg.err)
		m.phase = phaseConnecting
		return m, nil

	case serverMsg:
		return m, tea.Batch(m.handleServerMessage(msg.msg), m.listen())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleServerMessage 服务器消息驱动的状态迁移
func (m *Model) handleServerMessage(msg *protocol.Message) tea.Cmd {
	switch msg.Type {
	case protocol.MsgRoomCreated, protocol.MsgRoomJoined:
		payload, err := protocol.ParsePayload[protocol.RoomPayload](msg)
		if err != nil {
			return nil
		}
		m.phase = phaseRoom
		m.roomCode = payload.RoomCode
		m.players = payload.Players
		m.ready = false
		m.status = ""

	case protocol.MsgJoinError:
		payload, err := protocol.ParsePayload[protocol.JoinErrorPayload](msg)
		if err != nil {
			return nil
		}
		m.status = payload.Message

	case protocol.MsgRoomUpdated:
		payload, err := protocol.ParsePayload[protocol.RoomUpdatedPayload](msg)
		if err != nil {
			return nil
		}
		m.players = payload.Players

	case protocol.MsgGameStarted, protocol.MsgGameRestarted:
		payload, err := protocol.ParsePayload[protocol.GameStartedPayload](msg)
		if err != nil {
			return nil
		}
		m.resetBoard()
		m.myColor = payload.YourColor
		m.blackName = payload.BlackPlayer
		m.whiteName = payload.WhitePlayer
		m.turn = "black"
		m.phase = phasePlaying
		m.status = ""

	case protocol.MsgStonePlaced:
		payload, err := protocol.ParsePayload[protocol.StonePlacedPayload](msg)
		if err != nil {
			return nil
		}
		if game.InBounds(payload.Row, payload.Col) {
			m.board[payload.Row][payload.Col] = payload.Color
		}
		m.turn = payload.NextColor
		m.status = ""

	case protocol.MsgActionError:
		payload, err := protocol.ParsePayload[protocol.ActionErrorPayload](msg)
		if err != nil {
			return nil
		}
		m.status = payload.Message

	case protocol.MsgGameOver:
		payload, err := protocol.ParsePayload[protocol.GameOverPayload](msg)
		if err != nil {
			return nil
		}
		m.phase = phaseFinished
		if payload.Draw {
			m.resultText = "🤝 平局！"
		} else {
			m.winning = make(map[[2]int]bool, len(payload.WinningCells))
			for _, cell := range payload.WinningCells {
				m.winning[cell] = true
			}
			if payload.Winner == m.myColor {
				m.resultText = "🏆 你赢了！"
			} else {
				m.resultText = fmt.Sprintf("😢 %s 获胜", payload.WinnerName)
			}
		}

	case protocol.MsgOpponentLeft:
		m.phase = phaseRoom
		m.ready = false
		m.resetBoard()
		m.status = "对手已离开，等待新玩家加入"

	case protocol.MsgPlayAgainRequest:
		m.rematchAsked = true

	case protocol.MsgPlayAgainRejected:
		m.rematchSent = false
		m.status = "对手拒绝了再来一局"

	case protocol.MsgError:
		payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			return nil
		}
		if payload.Code == protocol.ErrCodeRoomExpired {
			m.enterMenu()
		}
		m.status = payload.Message
	}

	return nil
}

// handleKey 键盘输入，按阶段分派
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.client.Close()
		return m, tea.Quit
	}

	switch m.phase {
	case phaseConnecting:
		if key := msg.String(); key == "q" || key == "esc" {
			return m, tea.Quit
		}
		return m, nil

	case phaseName:
		if msg.Type == tea.KeyEnter {
			m.username = strings.TrimSpace(m.input.Value())
			m.enterMenu()
			return m, nil
		}

	case phaseMenu:
		if msg.Type == tea.KeyEnter {
			return m.handleMenuChoice(strings.TrimSpace(m.input.Value()))
		}

	case phaseJoin:
		switch msg.Type {
		case tea.KeyEnter:
			code := strings.TrimSpace(m.input.Value())
			if code == "" {
				return m, nil
			}
			_ = m.client.JoinRoom(code, m.username)
			return m, nil
		case tea.KeyEsc:
			m.enterMenu()
			return m, nil
		}

	case phaseRoom:
		return m.handleRoomKey(msg)

	case phasePlaying:
		return m.handleGameKey(msg)

	case phaseFinished:
		return m.handleFinishedKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleMenuChoice(choice string) (tea.Model, tea.Cmd) {
	switch choice {
	case "1":
		_ = m.client.CreateRoom(m.username)
		m.input.Reset()
	case "2":
		m.phase = phaseJoin
		m.status = ""
		m.input.Reset()
		m.input.Placeholder = "输入房间号"
	case "q":
		m.client.Close()
		return m, tea.Quit
	default:
		m.status = "请输入 1（创建房间）或 2（加入房间）"
		m.input.Reset()
	}
	return m, nil
}

func (m *Model) handleRoomKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.ready = !m.ready
		_ = m.client.ToggleReady(m.ready)
	case "q", "esc":
		_ = m.client.LeaveRoom()
		m.enterMenu()
	}
	return m, nil
}

func (m *Model) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursorRow > 0 {
			m.cursorRow--
		}
	case "down", "j":
		if m.cursorRow < game.BoardSize-1 {
			m.cursorRow++
		}
	case "left", "h":
		if m.cursorCol > 0 {
			m.cursorCol--
		}
	case "right", "l":
		if m.cursorCol < game.BoardSize-1 {
			m.cursorCol++
		}
	case "enter", " ":
		if m.turn == m.myColor {
			_ = m.client.PlaceStone(m.cursorRow, m.cursorCol)
		} else {
			m.status = "还没轮到你"
		}
	case "q", "esc":
		_ = m.client.LeaveRoom()
		m.enterMenu()
	}
	return m, nil
}

func (m *Model) handleFinishedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		if m.rematchAsked {
			_ = m.client.AcceptPlayAgain()
		} else if !m.rematchSent {
			_ = m.client.PlayAgain()
			m.rematchSent = true
			m.status = "已发送再来一局请求，等待对手回应"
		}
	case "n":
		if m.rematchAsked {
			_ = m.client.RejectPlayAgain()
			m.rematchAsked = false
		}
	case "q", "esc":
		_ = m.client.LeaveRoom()
		m.enterMenu()
	}
	return m, nil
}
