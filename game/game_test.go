package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gameWithMines(t *testing.T, width, height int, mines ...Point) *Game {
	t.Helper()
	b, err := NewBoardFromMines(width, height, mines)
	require.NoError(t, err)
	return NewGameFromBoard(b)
}

func revealedSet(b *Board) map[Point]bool {
	set := map[Point]bool{}
	for y := range b.Cells {
		for x, c := range b.Cells[y] {
			if c.IsRevealed {
				set[Point{x, y}] = true
			}
		}
	}
	return set
}

// expectedFlood は再帰で0領域とその境界の数字マスを求めます
func expectedFlood(b *Board, p Point, seen map[Point]bool) {
	if seen[p] {
		return
	}
	seen[p] = true
	c := b.Cells[p.Y][p.X]
	if c.IsMine || c.AdjacentMines > 0 {
		return
	}
	for _, n := range b.Neighbors(p.X, p.Y) {
		expectedFlood(b, n, seen)
	}
}

func cloneBoard(b *Board) *Board {
	out := &Board{Width: b.Width, Height: b.Height, MineCount: b.MineCount, Cells: make([][]Cell, len(b.Cells))}
	for y := range b.Cells {
		out.Cells[y] = append([]Cell(nil), b.Cells[y]...)
	}
	return out
}

func TestNewGameStartsPlaying(t *testing.T) {
	g, err := NewGame(9, 9, 10)
	require.NoError(t, err)

	assert.Equal(t, Playing, g.Status())
	assert.Equal(t, int32(10), g.MinesLeft)
	assert.NotEqual(t, g.ID.String(), "00000000-0000-0000-0000-000000000000")

	_, err = NewGame(2, 2, 4)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestClickCornerNextToMineRevealsOneCell(t *testing.T) {
	g := gameWithMines(t, 3, 3, Point{1, 1})

	for _, corner := range []Point{{0, 0}, {2, 0}, {0, 2}, {2, 2}} {
		g.Click(corner.X, corner.Y)
	}
	assert.Equal(t, 4, g.Board.CountRevealed())
	assert.Equal(t, Playing, g.Status())

	g2 := gameWithMines(t, 3, 3, Point{1, 1})
	g2.Click(0, 0)
	assert.Equal(t, map[Point]bool{{0, 0}: true}, revealedSet(g2.Board))
}

func TestRevealIsIdempotent(t *testing.T) {
	g := gameWithMines(t, 6, 5, Point{5, 4}, Point{3, 0})

	g.Click(0, 4)
	once := cloneBoard(g.Board)
	left := g.MinesLeft

	g.Click(0, 4)
	assert.Equal(t, once, g.Board)
	assert.Equal(t, left, g.MinesLeft)
	assert.Zero(t, g.reveal(0, 4, true))
}

func TestFloodFillCoversZeroRegion(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	checked := 0
	for i := 0; i < 50; i++ {
		b, err := NewBoardWithRand(16, 16, 30, rng)
		require.NoError(t, err)
		g := NewGameFromBoard(b)

		// 0のマスを1つ探してクリック
		var start *Point
		for y := 0; y < b.Height && start == nil; y++ {
			for x := 0; x < b.Width; x++ {
				if !b.Cells[y][x].IsMine && b.Cells[y][x].AdjacentMines == 0 {
					start = &Point{x, y}
					break
				}
			}
		}
		if start == nil {
			continue
		}
		checked++

		want := map[Point]bool{}
		expectedFlood(cloneBoard(b), *start, want)

		g.Click(start.X, start.Y)
		assert.Equal(t, want, revealedSet(b))
		for p := range want {
			assert.False(t, b.Cells[p.Y][p.X].IsMine, "mine revealed at %v", p)
		}
		assert.False(t, g.Over)
	}
	assert.NotZero(t, checked)
}

func TestFloodFillLargeBoard(t *testing.T) {
	g := gameWithMines(t, 400, 400, Point{399, 399})

	g.Click(0, 0)
	assert.True(t, g.Won)
	assert.Equal(t, 400*400-1, g.Board.CountRevealed())
}

func TestClickMineEndsGame(t *testing.T) {
	g := gameWithMines(t, 3, 3, Point{1, 1})

	g.Click(1, 1)
	require.True(t, g.Over)
	assert.Equal(t, Lost, g.Status())
	assert.True(t, g.Board.Cells[1][1].IsRevealed)

	before := cloneBoard(g.Board)
	g.Click(0, 0)
	g.ToggleFlag(2, 2)
	g.Chord(1, 1)
	assert.Equal(t, before, g.Board)
	assert.Equal(t, int32(1), g.MinesLeft)
	assert.False(t, g.Won)
}

func TestRevealAllSafeCellsWins(t *testing.T) {
	g := gameWithMines(t, 3, 3, Point{1, 1})

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if x == 1 && y == 1 {
				continue
			}
			assert.Equal(t, Playing, g.Status())
			g.Click(x, y)
		}
	}
	assert.True(t, g.Won)
	assert.False(t, g.Over)
	assert.False(t, g.checkWin(), "win is reported only on the transition")

	g.Click(1, 1)
	assert.False(t, g.Over, "clicks after a win are ignored")
}

func TestToggleFlag(t *testing.T) {
	g := gameWithMines(t, 3, 3, Point{1, 1})

	g.ToggleFlag(0, 0)
	assert.True(t, g.Board.Cells[0][0].IsFlagged)
	assert.Equal(t, int32(0), g.MinesLeft)
	assert.Equal(t, Flagged, g.DisplayAt(0, 0).State)

	g.ToggleFlag(0, 0)
	assert.False(t, g.Board.Cells[0][0].IsFlagged)
	assert.Equal(t, int32(1), g.MinesLeft)

	// 地雷の数より多くフラグを立ててもよい
	g.ToggleFlag(0, 0)
	g.ToggleFlag(2, 0)
	g.ToggleFlag(0, 2)
	assert.Equal(t, int32(-2), g.MinesLeft)

	g.ToggleFlag(5, 5)
	assert.Equal(t, int32(-2), g.MinesLeft)
}

func TestToggleFlagIgnoresRevealedCell(t *testing.T) {
	g := gameWithMines(t, 3, 3, Point{1, 1})
	g.Click(2, 2)

	g.ToggleFlag(2, 2)
	assert.False(t, g.Board.Cells[2][2].IsFlagged)
	assert.Equal(t, int32(1), g.MinesLeft)
}

func TestRevealFlaggedCellRestoresCounter(t *testing.T) {
	g := gameWithMines(t, 3, 3, Point{1, 1})

	g.ToggleFlag(0, 0)
	require.Equal(t, int32(0), g.MinesLeft)

	g.Click(0, 0)
	c := g.Board.Cells[0][0]
	assert.True(t, c.IsRevealed, "a flag does not block the reveal")
	assert.False(t, c.IsFlagged, "revealing clears the flag")
	assert.Equal(t, int32(1), g.MinesLeft)
	assert.Equal(t, CellView{State: Revealed, Number: 1}, g.DisplayAt(0, 0))
}

func TestCascadeClearsFlagsInRegion(t *testing.T) {
	g := gameWithMines(t, 5, 5, Point{4, 4}, Point{3, 4})

	g.ToggleFlag(0, 4)
	g.ToggleFlag(1, 1)
	require.Equal(t, int32(0), g.MinesLeft)

	g.Click(0, 0)
	assert.True(t, g.Board.Cells[4][0].IsRevealed)
	assert.True(t, g.Board.Cells[1][1].IsRevealed)
	assert.Zero(t, g.Board.CountFlagged())
	assert.Equal(t, int32(2), g.MinesLeft)
	assert.True(t, g.Won)
}

func TestChord(t *testing.T) {
	g := gameWithMines(t, 3, 3, Point{0, 0})
	g.Click(1, 1)
	require.Equal(t, 1, g.Board.CountRevealed())

	// フラグが数字と合っていなければ何もしない
	g.Chord(1, 1)
	assert.Equal(t, 1, g.Board.CountRevealed())

	g.ToggleFlag(0, 0)
	g.Chord(1, 1)
	assert.True(t, g.Won)
	assert.False(t, g.Board.Cells[0][0].IsRevealed)
}

func TestChordWithWrongFlagLoses(t *testing.T) {
	g := gameWithMines(t, 3, 3, Point{0, 0})
	g.Click(1, 1)
	g.ToggleFlag(2, 2)

	g.Chord(1, 1)
	assert.True(t, g.Over)
	assert.False(t, g.Won)
	assert.True(t, g.Board.Cells[0][0].IsRevealed)

	// 同じ操作の中でフラグ以外の周囲はすべて開く
	assert.Equal(t, 8, g.Board.CountRevealed())
	assert.False(t, g.Board.Cells[2][2].IsRevealed)

	// 負けた後は何も変わらない
	g.ToggleFlag(2, 2)
	g.Click(2, 2)
	g.Chord(1, 1)
	assert.True(t, g.Board.Cells[2][2].IsFlagged)
	assert.Equal(t, 8, g.Board.CountRevealed())
	assert.Equal(t, Lost, g.Status())
}

func TestChordIgnoresHiddenAndZeroCells(t *testing.T) {
	g := gameWithMines(t, 4, 4, Point{3, 3})
	g.Chord(0, 0)
	assert.Zero(t, g.Board.CountRevealed())

	g.Board.Cells[0][0].IsRevealed = true
	g.Chord(0, 0)
	assert.Equal(t, 1, g.Board.CountRevealed())
}

func TestDisplayAt(t *testing.T) {
	g := gameWithMines(t, 3, 1, Point{0, 0}, Point{2, 0})

	assert.Equal(t, CellView{State: Hidden}, g.DisplayAt(1, 0))
	g.Click(1, 0)
	assert.Equal(t, CellView{State: Revealed, Number: 2}, g.DisplayAt(1, 0))
	assert.True(t, g.Won)

	g2 := gameWithMines(t, 3, 1, Point{0, 0}, Point{2, 0})
	g2.ToggleFlag(2, 0)
	assert.Equal(t, CellView{State: Flagged}, g2.DisplayAt(2, 0))
	g2.Click(0, 0)
	assert.Equal(t, CellView{State: Mine}, g2.DisplayAt(0, 0))
	assert.Equal(t, CellView{State: Mine}, g2.DisplayAt(2, 0), "all mines show after a loss")
	assert.Equal(t, CellView{State: Hidden}, g2.DisplayAt(1, 0))
	assert.Equal(t, CellView{State: Hidden}, g2.DisplayAt(9, 9))
}

func TestClickOutOfBoundsIgnored(t *testing.T) {
	g := gameWithMines(t, 2, 2, Point{0, 0})
	g.Click(-1, 0)
	g.Click(2, 2)
	assert.Zero(t, g.Board.CountRevealed())

	empty := NewGameFromBoard(emptyBoard(0, 0))
	empty.Click(0, 0)
	assert.Equal(t, Playing, empty.Status())
}
