package game

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// NewBoard は指定されたサイズと地雷数で盤面を初期化して返します
func NewBoard(width, height, mineCount int) (*Board, error) {
	return NewBoardWithRand(width, height, mineCount, nil)
}

// NewBoardWithRand は乱数源を指定して盤面を生成します（nil ならグローバルの乱数）
func NewBoardWithRand(width, height, mineCount int, rng *rand.Rand) (*Board, error) {
	if err := validate(width, height, mineCount); err != nil {
		return nil, err
	}

	board := emptyBoard(width, height)
	board.MineCount = mineCount
	board.placeMines(mineCount, rng)
	board.calculateNeighbors()

	return board, nil
}

// NewBoardFromMines は地雷の位置を指定して盤面を作ります
func NewBoardFromMines(width, height int, mines []Point) (*Board, error) {
	if err := validate(width, height, len(mines)); err != nil {
		return nil, err
	}

	board := emptyBoard(width, height)
	for _, p := range mines {
		if !board.InBounds(p.X, p.Y) {
			return nil, fmt.Errorf("mine at (%d,%d) outside %dx%d board: %w",
				p.X, p.Y, width, height, ErrInvalidConfiguration)
		}
		if board.Cells[p.Y][p.X].IsMine {
			return nil, fmt.Errorf("duplicate mine at (%d,%d): %w", p.X, p.Y, ErrInvalidConfiguration)
		}
		board.Cells[p.Y][p.X].IsMine = true
	}
	board.MineCount = len(mines)
	board.calculateNeighbors()

	return board, nil
}

// validate は地雷を置ききれない組み合わせを弾きます。
// チェックしないと placeMines が無限ループになります。
func validate(width, height, mineCount int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("board size %dx%d: %w", width, height, ErrInvalidConfiguration)
	}
	if mineCount < 0 {
		return fmt.Errorf("mine count %d: %w", mineCount, ErrInvalidConfiguration)
	}
	if mineCount > 0 && mineCount >= width*height {
		return fmt.Errorf("%d mines do not fit a %dx%d board: %w",
			mineCount, width, height, ErrInvalidConfiguration)
	}
	return nil
}

func emptyBoard(width, height int) *Board {
	cells := make([][]Cell, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]Cell, width)
	}

	return &Board{
		Width:  width,
		Height: height,
		Cells:  cells,
	}
}

// placeMines は地雷をランダムに配置します
func (b *Board) placeMines(count int, rng *rand.Rand) {
	intn := rand.Intn
	if rng != nil {
		intn = rng.Intn
	}
	minesPlaced := 0

	for minesPlaced < count {
		x := intn(b.Width)
		y := intn(b.Height)

		if !b.Cells[y][x].IsMine {
			b.Cells[y][x].IsMine = true
			minesPlaced++
		}
	}
}

// calculateNeighbors は全マスの AdjacentMines を計算します
func (b *Board) calculateNeighbors() {
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			b.Cells[y][x].AdjacentMines = b.AdjacentMinesOf(x, y)
		}
	}
}

// AdjacentMinesOf は周囲8マス（盤外は除く）の地雷数を数えます
func (b *Board) AdjacentMinesOf(x, y int) int {
	count := 0
	for ny := max(0, y-1); ny <= min(b.Height-1, y+1); ny++ {
		for nx := max(0, x-1); nx <= min(b.Width-1, x+1); nx++ {
			if nx == x && ny == y {
				continue
			}
			if b.Cells[ny][nx].IsMine {
				count++
			}
		}
	}
	return count
}

// InBounds は座標が盤面内かどうかを返します
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Cell は (x, y) のマスへのポインタを返します。盤外なら nil です。
func (b *Board) Cell(x, y int) *Cell {
	if !b.InBounds(x, y) {
		return nil
	}
	return &b.Cells[y][x]
}

// Neighbors は周囲8マスのうち盤面内の座標を返します
func (b *Board) Neighbors(x, y int) []Point {
	points := make([]Point, 0, 8)
	for ny := max(0, y-1); ny <= min(b.Height-1, y+1); ny++ {
		for nx := max(0, x-1); nx <= min(b.Width-1, x+1); nx++ {
			if nx != x || ny != y {
				points = append(points, Point{X: nx, Y: ny})
			}
		}
	}
	return points
}

// CountRevealed は開いているマスの数です
func (b *Board) CountRevealed() int {
	return b.count(func(c Cell) bool { return c.IsRevealed })
}

// CountFlagged はフラグの立っているマスの数です
func (b *Board) CountFlagged() int {
	return b.count(func(c Cell) bool { return c.IsFlagged })
}

// CountMines は実際に置かれている地雷の数です
func (b *Board) CountMines() int {
	return b.count(func(c Cell) bool { return c.IsMine })
}

func (b *Board) count(pred func(Cell) bool) int {
	n := 0
	for y := range b.Cells {
		for _, c := range b.Cells[y] {
			if pred(c) {
				n++
			}
		}
	}
	return n
}

// DebugString は現在の盤面を文字列にします
// 未開封のマスは「-」、フラグは「F」、地雷は「*」、0は「.」、それ以外は数字
func (b *Board) DebugString() string {
	var sb strings.Builder
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			cell := b.Cells[y][x]
			switch {
			case !cell.IsRevealed && cell.IsFlagged:
				sb.WriteByte('F')
			case !cell.IsRevealed:
				sb.WriteByte('-')
			case cell.IsMine:
				sb.WriteByte('*') // 踏んでしまった地雷
			case cell.AdjacentMines == 0:
				sb.WriteByte('.')
			default:
				sb.WriteString(strconv.Itoa(cell.AdjacentMines))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
