package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// NewGame は新しい盤面でゲームを開始します
func NewGame(width, height, mineCount int) (*Game, error) {
	return NewGameWithRand(width, height, mineCount, nil)
}

// NewGameWithRand は乱数源を指定してゲームを開始します
func NewGameWithRand(width, height, mineCount int, rng *rand.Rand) (*Game, error) {
	board, err := NewBoardWithRand(width, height, mineCount, rng)
	if err != nil {
		return nil, err
	}
	return NewGameFromBoard(board), nil
}

// NewGameFromBoard は既存の盤面でゲームを開始します
func NewGameFromBoard(b *Board) *Game {
	return &Game{
		ID:        uuid.New(),
		Board:     b,
		MinesLeft: int32(b.MineCount),
	}
}

// Status は現在の状態を返します
func (g *Game) Status() Status {
	switch {
	case g.Over:
		return Lost
	case g.Won:
		return Won
	}
	return Playing
}

// Finished は勝ち負けが決まっているかどうかです
func (g *Game) Finished() bool {
	return g.Over || g.Won
}

// Click は指定されたマスを開けます。
// 決着後や盤外のクリックは無視します。
func (g *Game) Click(x, y int) {
	if g.Finished() || !g.Board.InBounds(x, y) {
		return
	}
	g.reveal(x, y, true)
	g.checkWin()
}

// ToggleFlag は指定された座標のフラッグを切り替えます
func (g *Game) ToggleFlag(x, y int) {
	if g.Finished() {
		return
	}
	cell := g.Board.Cell(x, y)

	// すでに開いているマスにはフラッグを置けない
	if cell == nil || cell.IsRevealed {
		return
	}

	cell.IsFlagged = !cell.IsFlagged
	if cell.IsFlagged {
		g.MinesLeft--
	} else {
		g.MinesLeft++
	}
}

// Chord は開いている数字マスの周りのフラグ数が数字と一致しているとき、
// フラグのない周囲のマスをまとめて開けます。フラグが間違っていれば負けます。
func (g *Game) Chord(x, y int) {
	if g.Finished() {
		return
	}
	b := g.Board
	cell := b.Cell(x, y)
	if cell == nil || !cell.IsRevealed || cell.IsMine || cell.AdjacentMines == 0 {
		return
	}

	neighbors := b.Neighbors(x, y)
	flags := 0
	for _, n := range neighbors {
		if b.Cells[n.Y][n.X].IsFlagged {
			flags++
		}
	}
	if flags != cell.AdjacentMines {
		return
	}

	// 1回の操作なので、途中で地雷を踏んでも残りのマスは開けてから負けが確定する
	for _, n := range neighbors {
		c := b.Cells[n.Y][n.X]
		if !c.IsFlagged && !c.IsRevealed {
			g.reveal(n.X, n.Y, true)
		}
	}
	g.checkWin()
}

// checkWin は地雷以外のマスがすべて開いたかを調べます。
// 勝ちに切り替わったその1回だけ true を返します。
func (g *Game) checkWin() bool {
	if g.Over || g.Won {
		return false
	}
	b := g.Board
	if b.CountRevealed() != b.Width*b.Height-b.MineCount {
		return false
	}
	g.Won = true
	return true
}

// DisplayAt は (x, y) の描画内容を返します。
// 負けた後は未開封の地雷もすべて地雷として見せます。
func (g *Game) DisplayAt(x, y int) CellView {
	cell := g.Board.Cell(x, y)
	if cell == nil {
		return CellView{State: Hidden}
	}
	switch {
	case cell.IsMine && (cell.IsRevealed || g.Over):
		return CellView{State: Mine}
	case cell.IsRevealed:
		return CellView{State: Revealed, Number: cell.AdjacentMines}
	case cell.IsFlagged:
		return CellView{State: Flagged}
	}
	return CellView{State: Hidden}
}
