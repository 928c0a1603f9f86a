package game

// BoardSize 棋盘边长
const BoardSize = 15

// Color 执子颜色，线上格式直接用字符串
type Color string

const (
	ColorNone  Color = ""      // 空格
	ColorBlack Color = "black" // 黑方，先手
	ColorWhite Color = "white"
)

// Opposite 返回对方颜色
func (c Color) Opposite() Color {
	if c == ColorBlack {
		return ColorWhite
	}
	return ColorBlack
}

// Board 15×15 棋盘，落下的子不可移除
type Board struct {
	cells [BoardSize][BoardSize]Color
	count int // 已落子数，用于平局判定
}

// NewBoard 创建空棋盘
func NewBoard() *Board {
	return &Board{}
}

// InBounds 判断坐标是否在棋盘内
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// Cell 返回指定格子的颜色，空格为 ColorNone
func (b *Board) Cell(row, col int) Color {
	return b.cells[row][col]
}

// Place 在指定格子落子，调用方负责越界与占用检查
func (b *Board) Place(row, col int, c Color) {
	b.cells[row][col] = c
	b.count++
}

// IsFull 棋盘是否已满（225 格全部占用）
func (b *Board) IsFull() bool {
	return b.count == BoardSize*BoardSize
}

// 四条轴：横、竖、主对角线、副对角线
var axes = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// CheckWin 以刚落的子为中心检查胜负。
// 对每条轴先回退到同色连续段的起点，再向前收集整段；
// 段长 ≥5 即获胜（6 连、7 连同样算赢），返回按棋盘顺序排列的整段格子。
func (b *Board) CheckWin(row, col int) (bool, [][2]int) {
	color := b.cells[row][col]
	if color == ColorNone {
		return false, nil
	}

	for _, axis := range axes {
		dr, dc := axis[0], axis[1]

		// 回退到连续段起点
		r, c := row, col
		for InBounds(r-dr, c-dc) && b.cells[r-dr][c-dc] == color {
			r -= dr
			c -= dc
		}

		// 向前收集整段
		cells := make([][2]int, 0, 5)
		for InBounds(r, c) && b.cells[r][c] == color {
			cells = append(cells, [2]int{r, c})
			r += dr
			c += dc
		}

		if len(cells) >= 5 {
			return true, cells
		}
	}

	return false, nil
}
