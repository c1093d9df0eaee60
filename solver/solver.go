package solver

import (
	"math/rand"

	"github.com/ahmad-salah-nada/minesweeper/game"
)

type MoveType int

const (
	MoveOpen MoveType = iota
	MoveFlag
)

func (t MoveType) String() string {
	if t == MoveFlag {
		return "flag"
	}
	return "open"
}

type Move struct {
	X, Y       int
	Type       MoveType
	IsGuess    bool    // 運任せかどうか
	Strategy   string  // "Logic", "Tank", "Tank(Prob)", "Random"
	Confidence float64 // 0.0 ~ 1.0 (安全確率)
}

// Solver はプレイヤーに見えている情報（開いた数字とフラグ）だけで次の手を決めます
type Solver struct {
	Game *game.Game
	rng  *rand.Rand
}

// New はソルバーを作ります。rng が nil ならグローバルの乱数を使います。
func New(g *game.Game, rng *rand.Rand) *Solver {
	return &Solver{Game: g, rng: rng}
}

// Apply は手をゲームに反映します
func (m *Move) Apply(s *game.Session) {
	switch m.Type {
	case MoveOpen:
		s.Click(m.X, m.Y)
	case MoveFlag:
		s.ToggleFlag(m.X, m.Y)
	}
}

// NextMove は次の一手を返します。打てる手がなければ nil です。
func (s *Solver) NextMove() *Move {
	if s.Game.Finished() {
		return nil
	}

	// 1. 論理的に「絶対に安全」
	if move := s.findSafeMove(); move != nil {
		return logical(move)
	}

	// 2. 論理的に「絶対に地雷」
	if move := s.findFlagMove(); move != nil {
		return logical(move)
	}

	// 3. バックトラック探索（確定手があればそれ、なければ一番安全そうなマス）
	if move := NewTankSolver(s.Game.Board).Solve(); move != nil {
		move.IsGuess = move.Confidence < 1.0
		return move
	}

	// 4. ランダム
	move := s.findRandomMove()
	if move != nil {
		move.IsGuess = true
	}
	return move
}

func logical(m *Move) *Move {
	m.IsGuess = false
	m.Strategy = "Logic"
	m.Confidence = 1.0
	return m
}

func (s *Solver) findSafeMove() *Move {
	b := s.Game.Board
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			cell := b.Cells[y][x]
			if !cell.IsRevealed || cell.IsMine || cell.AdjacentMines == 0 {
				continue
			}
			_, flags, hidden := neighborsInfo(b, x, y)
			if flags == cell.AdjacentMines && len(hidden) > 0 {
				target := hidden[0]
				return &Move{X: target.X, Y: target.Y, Type: MoveOpen}
			}
		}
	}
	return nil
}

func (s *Solver) findFlagMove() *Move {
	b := s.Game.Board
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			cell := b.Cells[y][x]
			if !cell.IsRevealed || cell.IsMine || cell.AdjacentMines == 0 {
				continue
			}
			totalHidden, flags, hidden := neighborsInfo(b, x, y)
			if totalHidden == cell.AdjacentMines && (totalHidden-flags) > 0 {
				target := hidden[0]
				return &Move{X: target.X, Y: target.Y, Type: MoveFlag}
			}
		}
	}
	return nil
}

func (s *Solver) findRandomMove() *Move {
	b := s.Game.Board
	candidates := []game.Point{}

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.Cells[y][x]
			if !c.IsRevealed && !c.IsFlagged {
				candidates = append(candidates, game.Point{X: x, Y: y})
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	intn := rand.Intn
	if s.rng != nil {
		intn = s.rng.Intn
	}
	choice := candidates[intn(len(candidates))]

	// 盤面全体の地雷密度から安全確率を見積もる
	unflaggedMines := b.MineCount - b.CountFlagged()
	confidence := 1.0 - float64(max(0, unflaggedMines))/float64(len(candidates))

	return &Move{
		X: choice.X, Y: choice.Y,
		Type:       MoveOpen,
		Strategy:   "Random",
		Confidence: max(0, confidence),
	}
}

// neighborsInfo は周囲8マスの未開封数（フラグ含む）、フラグ数、フラグのない未開封マスを返します
func neighborsInfo(b *game.Board, cx, cy int) (totalHidden int, flags int, hiddenList []game.Point) {
	for _, n := range b.Neighbors(cx, cy) {
		neighbor := b.Cells[n.Y][n.X]
		if neighbor.IsRevealed {
			continue
		}
		totalHidden++
		if neighbor.IsFlagged {
			flags++
		} else {
			hiddenList = append(hiddenList, n)
		}
	}
	return
}
