package viewmodel

import (
	"encoding/json"

	"github.com/leonelquinteros/gotext"

	"github.com/ahmad-salah-nada/minesweeper/game"
)

// マスの見た目（JS 側と共有する文字列）
const (
	StateHidden  = "hidden"
	StateFlagged = "flagged"
	StateOpened  = "opened"
)

type CellView struct {
	State  string `json:"state"`
	Count  int    `json:"count"`
	IsMine bool   `json:"is_mine"`
}

type GameView struct {
	Cells          [][]CellView `json:"cells"`
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	MinesRemaining int32        `json:"mines_remaining"`
	IsGameOver     bool         `json:"is_game_over"`
	IsGameClear    bool         `json:"is_game_clear"`
	Score          uint32       `json:"score"`
	Difficulty     string       `json:"difficulty"`
	Labels         Labels       `json:"labels"`
}

// Labels はヘッダーに出す文言です。gotext で翻訳できます。
type Labels struct {
	Score     string `json:"score"`
	MinesLeft string `json:"mines_left"`
	Status    string `json:"status"`
}

// NewLabels は現在のセッションからヘッダーの文言を作ります
func NewLabels(s *game.Session) Labels {
	var status string
	switch s.Game().Status() {
	case game.Won:
		status = gotext.Get("You win!")
	case game.Lost:
		status = gotext.Get("Game over")
	default:
		status = gotext.Get("Playing")
	}

	return Labels{
		Score:     gotext.Get("Score: %d", s.Score()),
		MinesLeft: gotext.Get("Mines left: %d", s.MinesLeft()),
		Status:    status,
	}
}

// NewGameView はセッションの盤面を描画用の構造体に変換します
func NewGameView(s *game.Session) GameView {
	g := s.Game()
	w, h := g.Board.Width, g.Board.Height

	grid := make([][]CellView, h)
	for y := 0; y < h; y++ {
		grid[y] = make([]CellView, w)
		for x := 0; x < w; x++ {
			grid[y][x] = cellView(g.DisplayAt(x, y))
		}
	}

	return GameView{
		Cells:          grid,
		Width:          w,
		Height:         h,
		MinesRemaining: g.MinesLeft,
		IsGameOver:     g.Over,
		IsGameClear:    g.Won,
		Score:          s.Score(),
		Difficulty:     s.Difficulty().String(),
		Labels:         NewLabels(s),
	}
}

func cellView(v game.CellView) CellView {
	switch v.State {
	case game.Flagged:
		return CellView{State: StateFlagged}
	case game.Revealed:
		return CellView{State: StateOpened, Count: v.Number}
	case game.Mine:
		return CellView{State: StateOpened, IsMine: true}
	}
	return CellView{State: StateHidden}
}

// JSON は安全にJSONを返します
func JSON(s *game.Session) string {
	// nilの場合は空のJSONオブジェクトを返す
	if s == nil || s.Game() == nil {
		return "{}"
	}

	bytes, err := json.Marshal(NewGameView(s))
	if err != nil {
		return "{}"
	}
	return string(bytes)
}
