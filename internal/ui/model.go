// Package ui 五子棋终端界面，基于 bubbletea 的单模型状态机。
package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/gomoku/internal/client"
	"github.com/palemoky/gomoku/internal/game"
	"github.com/palemoky/gomoku/internal/protocol"
)

// phase 界面阶段
type phase int

const (
	phaseConnecting phase = iota // 连接服务器中
	phaseName                    // 输入昵称
	phaseMenu                    // 主菜单
	phaseJoin                    // 输入房间号
	phaseRoom                    // 房间内等待开局
	phasePlaying                 // 对局中
	phaseFinished                // 对局结束
)

// Model 客户端唯一的 bubbletea 模型
type Model struct {
	client *client.Client
	phase  phase
	input  textinput.Model

	username string
	status   string // 一行提示 / 错误信息

	// 房间状态
	roomCode string
	players  []protocol.PlayerInfo
	ready    bool

	// 对局状态
	myColor    string
	blackName  string
	whiteName  string
	board      [game.BoardSize][game.BoardSize]string
	cursorRow  int
	cursorCol  int
	turn       string
	winning    map[[2]int]bool
	resultText string

	// 再来一局协商
	rematchAsked bool // 对手发来了请求
	rematchSent  bool // 自己发出了请求

	width  int
	height int
}

// 自定义消息
type (
	connectedMsg       struct{}
	connectionErrorMsg struct{ err error }
	serverMsg          struct{ msg *protocol.Message }
)

// New 创建模型
func New(serverURL string) *Model {
	ti := textinput.New()
	ti.Placeholder = "输入昵称（留空随机）"
	ti.CharLimit = 20
	ti.Width = 30
	ti.Focus()

	return &Model{
		client: client.NewClient(serverURL),
		phase:  phaseConnecting,
		input:  ti,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.connect(), textinput.Blink)
}

func (m *Model) connect() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return connectionErrorMsg{err: err}
		}
		return connectedMsg{}
	}
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		msg, err := m.client.Receive()
		if err != nil {
			return connectionErrorMsg{err: err}
		}
		return serverMsg{msg: msg}
	}
}

// resetBoard 清空棋盘和对局内状态
func (m *Model) resetBoard() {
	m.board = [game.BoardSize][game.BoardSize]string{}
	m.cursorRow = game.BoardSize / 2
	m.cursorCol = game.BoardSize / 2
	m.winning = nil
	m.resultText = ""
	m.rematchAsked = false
	m.rematchSent = false
}

// enterMenu 回到主菜单并清理房间状态
func (m *Model) enterMenu() {
	m.phase = phaseMenu
	m.roomCode = ""
	m.players = nil
	m.ready = false
	m.input.Reset()
	m.input.Placeholder = "输入选项 (1-2)"
	m.input.Focus()
	m.resetBoard()
}
