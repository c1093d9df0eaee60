package solver

import (
	"github.com/gammazero/deque"
	"github.com/zyedidia/generic/mapset"

	"github.com/ahmad-salah-nada/minesweeper/game"
)

// maxSegment を超える未開封マスを持つセグメントは全探索しません
const maxSegment = 18

// TankSolver は境界マスの配置を全列挙して地雷確率を求めます
type TankSolver struct {
	Board *game.Board
}

func NewTankSolver(b *game.Board) *TankSolver {
	return &TankSolver{Board: b}
}

// Solve は確定した安全マスを、なければ確定地雷を返します。
// どちらもなければ地雷確率が最も低いマスを Confidence 付きで返します。
func (ts *TankSolver) Solve() *Move {
	var bestMove, flagMove *Move
	bestProb := 1.0

	for _, seg := range ts.createSegments() {
		if len(seg.unknowns) > maxSegment {
			continue
		}

		solutions := ts.solveSegment(seg)
		if len(solutions) == 0 {
			continue // 矛盾（フラグが間違っている）
		}

		counts := make([]int, len(seg.unknowns))
		for _, sol := range solutions {
			for i, isMine := range sol {
				if isMine {
					counts[i]++
				}
			}
		}

		total := float64(len(solutions))
		for i, count := range counts {
			prob := float64(count) / total
			p := seg.unknowns[i]

			if count == 0 {
				return &Move{X: p.X, Y: p.Y, Type: MoveOpen, Strategy: "Tank", Confidence: 1.0}
			}
			if count == len(solutions) {
				if flagMove == nil {
					flagMove = &Move{X: p.X, Y: p.Y, Type: MoveFlag, Strategy: "Tank", Confidence: 1.0}
				}
				continue
			}

			if prob < bestProb {
				bestProb = prob
				bestMove = &Move{
					X: p.X, Y: p.Y,
					Type:       MoveOpen,
					Strategy:   "Tank(Prob)",
					Confidence: 1.0 - prob,
				}
			}
		}
	}

	if flagMove != nil {
		return flagMove
	}
	return bestMove
}

type segment struct {
	unknowns []game.Point // 境界の未開封マス
	rules    []rule       // 数字マスの制約
}

type rule struct {
	cells []int // unknowns のインデックス
	mines int   // 残りの地雷数
}

func (ts *TankSolver) key(p game.Point) int {
	return p.Y*ts.Board.Width + p.X
}

// createSegments は境界マスを、同じ数字マスに接するもの同士でつないだ連結成分に分けます
func (ts *TankSolver) createSegments() []*segment {
	b := ts.Board

	var frontier []game.Point // 行優先順
	seen := mapset.New[int]()
	var numbered []game.Point

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.Cells[y][x]
			if !c.IsRevealed || c.IsMine || c.AdjacentMines == 0 {
				continue
			}
			_, flags, hidden := neighborsInfo(b, x, y)
			if len(hidden) == 0 || flags == c.AdjacentMines {
				continue
			}
			numbered = append(numbered, game.Point{X: x, Y: y})
			for _, n := range hidden {
				if k := ts.key(n); !seen.Has(k) {
					seen.Put(k)
					frontier = append(frontier, n)
				}
			}
		}
	}

	// 同じ数字マスに接する未開封マス同士を辺で結ぶ
	adj := make(map[int][]game.Point)
	for _, np := range numbered {
		_, _, hidden := neighborsInfo(b, np.X, np.Y)
		for i := range hidden {
			for j := range hidden {
				if i != j {
					k := ts.key(hidden[i])
					adj[k] = append(adj[k], hidden[j])
				}
			}
		}
	}

	visited := mapset.New[int]()
	var segments []*segment

	for _, start := range frontier {
		if visited.Has(ts.key(start)) {
			continue
		}

		seg := &segment{}
		local := make(map[int]int)

		var q deque.Deque[game.Point]
		q.PushBack(start)
		visited.Put(ts.key(start))
		for q.Len() > 0 {
			curr := q.PopFront()
			local[ts.key(curr)] = len(seg.unknowns)
			seg.unknowns = append(seg.unknowns, curr)

			for _, n := range adj[ts.key(curr)] {
				if k := ts.key(n); !visited.Has(k) {
					visited.Put(k)
					q.PushBack(n)
				}
			}
		}

		// 数字マスの未開封マスはすべて同じセグメントに入る
		for _, np := range numbered {
			_, flags, hidden := neighborsInfo(b, np.X, np.Y)
			if _, ok := local[ts.key(hidden[0])]; !ok {
				continue
			}
			r := rule{
				cells: make([]int, len(hidden)),
				mines: b.Cells[np.Y][np.X].AdjacentMines - flags,
			}
			for i, n := range hidden {
				r.cells[i] = local[ts.key(n)]
			}
			seg.rules = append(seg.rules, r)
		}
		segments = append(segments, seg)
	}

	return segments
}

func (ts *TankSolver) solveSegment(seg *segment) [][]bool {
	var solutions [][]bool
	config := make([]bool, len(seg.unknowns))
	ts.backtrack(seg, 0, config, &solutions)
	return solutions
}

func (ts *TankSolver) backtrack(seg *segment, index int, config []bool, solutions *[][]bool) {
	if !ts.isValid(seg, config, index) {
		return
	}
	if index == len(seg.unknowns) {
		sol := make([]bool, len(config))
		copy(sol, config)
		*solutions = append(*solutions, sol)
		return
	}

	config[index] = true
	ts.backtrack(seg, index+1, config, solutions)

	config[index] = false
	ts.backtrack(seg, index+1, config, solutions)
}

// isValid は先頭 decided 個のマスを決めた時点で制約を満たしうるかを調べます
func (ts *TankSolver) isValid(seg *segment, config []bool, decided int) bool {
	for _, r := range seg.rules {
		mines, open := 0, 0
		for _, idx := range r.cells {
			switch {
			case idx >= decided:
				open++
			case config[idx]:
				mines++
			}
		}
		// 多すぎる、または残りを全部地雷にしても足りない
		if mines > r.mines || mines+open < r.mines {
			return false
		}
	}
	return true
}
