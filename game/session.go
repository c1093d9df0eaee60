package game

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

var log = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Session は1回の起動の間に続く状態（スコアと難易度）と、現在のゲームを持ちます
type Session struct {
	score      uint32
	difficulty Difficulty
	game       *Game

	log logrus.FieldLogger
	rng *rand.Rand
}

// SessionOption は Session の設定です
type SessionOption func(*Session)

// WithLogger はログの出力先を差し替えます
func WithLogger(l logrus.FieldLogger) SessionOption {
	return func(s *Session) { s.log = l }
}

// WithRand は地雷配置に使う乱数源を指定します
func WithRand(rng *rand.Rand) SessionOption {
	return func(s *Session) { s.rng = rng }
}

// WithDifficulty は最初のゲームの難易度を指定します
func WithDifficulty(d Difficulty) SessionOption {
	return func(s *Session) { s.difficulty = d }
}

func newSession(opts []SessionOption) *Session {
	s := &Session{
		difficulty: DefaultDifficulty,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSession は指定した難易度（既定は Hard）でゲームを始めます
func NewSession(opts ...SessionOption) (*Session, error) {
	s := newSession(opts)
	if err := s.SelectDifficulty(s.difficulty); err != nil {
		return nil, err
	}
	return s, nil
}

// NewGame は現在のゲームを捨てて、指定サイズの新しいゲームを始めます
func (s *Session) NewGame(width, height, mineCount int) error {
	g, err := NewGameWithRand(width, height, mineCount, s.rng)
	if err != nil {
		return err
	}
	s.game = g
	s.log.WithFields(logrus.Fields{
		"game":   g.ID,
		"width":  width,
		"height": height,
		"mines":  mineCount,
	}).Debug("game started")
	return nil
}

// Restart は同じサイズ・地雷数で盤面を作り直します。スコアはそのままです。
func (s *Session) Restart() error {
	b := s.game.Board
	return s.NewGame(b.Width, b.Height, b.MineCount)
}

// SelectDifficulty は難易度を切り替え、そのプリセットで新しいゲームを始めます
func (s *Session) SelectDifficulty(d Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("difficulty %d: %w", uint8(d), ErrInvalidConfiguration)
	}
	cfg := d.Config()
	if err := s.NewGame(cfg.Width, cfg.Height, cfg.Mines); err != nil {
		return err
	}
	s.difficulty = d
	return nil
}

// Click はマスを開けます
func (s *Session) Click(x, y int) {
	s.track(func(g *Game) { g.Click(x, y) })
}

// ToggleFlag はフラグを切り替えます
func (s *Session) ToggleFlag(x, y int) {
	s.track(func(g *Game) { g.ToggleFlag(x, y) })
}

// Chord は数字マスの周りをまとめて開けます
func (s *Session) Chord(x, y int) {
	s.track(func(g *Game) { g.Chord(x, y) })
}

// track は操作の前後で状態を比べ、勝ちに切り替わったときだけスコアを加算します
func (s *Session) track(action func(*Game)) {
	g := s.game
	before := g.Status()
	action(g)
	after := g.Status()
	if before == after {
		return
	}

	entry := s.log.WithFields(logrus.Fields{
		"game":     g.ID,
		"revealed": g.Board.CountRevealed(),
	})
	switch after {
	case Won:
		s.score++
		entry.WithField("score", s.score).Info("game won")
	case Lost:
		entry.Info("game lost")
	}
}

// ResetScore はスコアを0に戻します
func (s *Session) ResetScore() {
	s.score = 0
	s.log.Debug("score reset")
}

// Game は現在のゲームです
func (s *Session) Game() *Game { return s.game }

// Score は勝利数です
func (s *Session) Score() uint32 { return s.score }

// Difficulty は選択中の難易度です
func (s *Session) Difficulty() Difficulty { return s.difficulty }

// MinesLeft は表示用の残り地雷数です
func (s *Session) MinesLeft() int32 { return s.game.MinesLeft }

// GameOver は地雷を踏んだかどうかです
func (s *Session) GameOver() bool { return s.game.Over }

// GameWon はクリアしたかどうかです
func (s *Session) GameWon() bool { return s.game.Won }

// Width は盤面の横幅です
func (s *Session) Width() int { return s.game.Board.Width }

// Height は盤面の縦幅です
func (s *Session) Height() int { return s.game.Board.Height }

// CellState は (x, y) の描画内容です
func (s *Session) CellState(x, y int) CellView { return s.game.DisplayAt(x, y) }
