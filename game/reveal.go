package game

import "github.com/gammazero/deque"

// reveal は (x, y) を開け、周囲に地雷のないマスなら連鎖的に周りも開けます。
// 連鎖は再帰ではなくキューで辿ります。
// 戻り値は新しく開いたマスの数です。
func (g *Game) reveal(x, y int, direct bool) int {
	b := g.Board
	if !b.InBounds(x, y) {
		return 0
	}

	var queue deque.Deque[Point]
	queue.PushBack(Point{X: x, Y: y})
	opened := 0

	for queue.Len() > 0 {
		p := queue.PopFront()
		cell := &b.Cells[p.Y][p.X]

		// すでに開いているなら何もしない（連鎖の停止条件も兼ねる）
		if cell.IsRevealed {
			continue
		}
		cell.IsRevealed = true
		opened++

		// 直接クリックした地雷だけがゲームオーバー
		if direct && cell.IsMine {
			g.Over = true
		}
		direct = false

		// フラグ付きのマスを開けたら残り地雷数を戻し、フラグも外す
		if cell.IsFlagged {
			cell.IsFlagged = false
			g.MinesLeft++
		}

		if cell.IsMine || cell.AdjacentMines > 0 {
			continue
		}

		// 0連鎖（Flood Fill）
		for _, n := range b.Neighbors(p.X, p.Y) {
			if !b.Cells[n.Y][n.X].IsRevealed {
				queue.PushBack(n)
			}
		}
	}

	return opened
}
