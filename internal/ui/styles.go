package ui

import "github.com/charmbracelet/lipgloss"

// Lipgloss styles
var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	blackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#D7AF87")).Bold(true)
	whiteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("#D7AF87")).Bold(true)
	gridStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("94")).Background(lipgloss.Color("#D7AF87"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Background(lipgloss.Color("#D7AF87")).Bold(true)
	winStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Background(lipgloss.Color("226")).Bold(true)
	readyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)
