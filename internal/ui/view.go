package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/gomoku/internal/game"
)

func (m *Model) View() string {
	var content string

	switch m.phase {
	case phaseConnecting:
		content = m.connectingView()
	case phaseName:
		content = m.nameView()
	case phaseMenu:
		content = m.menuView()
	case phaseJoin:
		content = m.joinView()
	case phaseRoom:
		content = m.roomView()
	case phasePlaying, phaseFinished:
		content = m.gameView()
	}

	return docStyle.Render(content)
}

func (m *Model) connectingView() string {
	if m.status != "" {
		return errorStyle.Render(m.status)
	}
	return "正在连接服务器..."
}

func (m *Model) nameView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("⚫ 五子棋 ⚪"))
	b.WriteString("\n\n请输入昵称：\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("Enter 确认"))
	return b.String()
}

func (m *Model) menuView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("⚫ 五子棋 ⚪"))
	b.WriteString("\n\n  1. 创建房间\n  2. 加入房间\n  q. 退出\n\n")
	b.WriteString(m.input.View())
	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.status))
	}
	return b.String()
}

func (m *Model) joinView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("加入房间"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("Enter 加入 | ESC 返回"))
	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.status))
	}
	return b.String()
}

func (m *Model) roomView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("房间号: %s", m.roomCode)))
	b.WriteString("\n\n")

	for _, p := range m.players {
		mark := "⏳ 未准备"
		if p.Ready {
			mark = readyStyle.Render("✅ 已准备")
		}
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", stoneIcon(p.Color), p.Username, mark))
	}
	if len(m.players) < 2 {
		b.WriteString(hintStyle.Render("  等待对手加入...\n"))
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("r 准备/取消 | q 离开房间"))
	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.status))
	}
	return boxStyle.Render(b.String())
}

func (m *Model) gameView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("房间 %s", m.roomCode)))
	b.WriteString(fmt.Sprintf("  ⚫ %s vs ⚪ %s\n", m.blackName, m.whiteName))

	if m.phase == phasePlaying {
		if m.turn == m.myColor {
			b.WriteString(fmt.Sprintf("你执%s，轮到你落子\n", colorText(m.myColor)))
		} else {
			b.WriteString(fmt.Sprintf("你执%s，等待对方落子...\n", colorText(m.myColor)))
		}
	} else {
		b.WriteString(m.resultText)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.boardView())
	b.WriteString("\n")

	if m.phase == phaseFinished {
		if m.rematchAsked {
			b.WriteString("对手想再来一局！")
			b.WriteString(hintStyle.Render("  r 接受 | n 拒绝 | q 离开"))
		} else {
			b.WriteString(hintStyle.Render("r 再来一局 | q 离开房间"))
		}
	} else {
		b.WriteString(hintStyle.Render("方向键移动 | Enter 落子 | q 离开"))
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.status))
	}
	return b.String()
}

// boardView 渲染棋盘，光标和连珠单独着色
func (m *Model) boardView() string {
	var b strings.Builder

	for row := 0; row < game.BoardSize; row++ {
		for col := 0; col < game.BoardSize; col++ {
			cell := m.board[row][col]
			pos := [2]int{row, col}

			var s string
			switch {
			case m.winning[pos]:
				s = winStyle.Render(stoneRune(cell))
			case m.phase == phasePlaying && row == m.cursorRow && col == m.cursorCol:
				if cell == "" {
					s = cursorStyle.Render("✛ ")
				} else {
					s = cursorStyle.Render(stoneRune(cell))
				}
			case cell != "":
				if cell == "black" {
					s = blackStyle.Render("● ")
				} else {
					s = whiteStyle.Render("○ ")
				}
			default:
				s = gridStyle.Render(gridRune(row, col))
			}
			b.WriteString(s)
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Render(strings.TrimRight(b.String(), "\n"))
}

func stoneRune(color string) string {
	switch color {
	case "black":
		return "● "
	case "white":
		return "○ "
	default:
		return "✛ "
	}
}

// gridRune 空交叉点的网格字符
func gridRune(row, col int) string {
	switch {
	case row == 0 && col == 0:
		return "┌─"
	case row == 0 && col == game.BoardSize-1:
		return "┐ "
	case row == game.BoardSize-1 && col == 0:
		return "└─"
	case row == game.BoardSize-1 && col == game.BoardSize-1:
		return "┘ "
	case row == 0:
		return "┬─"
	case row == game.BoardSize-1:
		return "┴─"
	case col == 0:
		return "├─"
	case col == game.BoardSize-1:
		return "┤ "
	default:
		return "┼─"
	}
}

func stoneIcon(color string) string {
	if color == "black" {
		return "⚫"
	}
	return "⚪"
}

func colorText(color string) string {
	if color == "black" {
		return "黑"
	}
	return "白"
}
