package game

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// 保存データの形式
//
//	{"score": 3, "difficulty": 2, "game_state": {"id": "...", "grid": [[{...}]],
//	 "game_over": false, "game_won": false, "width": 40, "height": 16,
//	 "mines_count": 99, "mines_left": 99}}
type snapshot struct {
	Score      uint32     `json:"score"`
	Difficulty Difficulty `json:"difficulty"`
	GameState  gameState  `json:"game_state"`
}

type gameState struct {
	ID         string   `json:"id"`
	Grid       [][]Cell `json:"grid"`
	GameOver   bool     `json:"game_over"`
	GameWon    bool     `json:"game_won"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	MinesCount int      `json:"mines_count"`
	MinesLeft  int32    `json:"mines_left"`
}

// Snapshot はセッションとゲームの状態を保存用の JSON にします
func (s *Session) Snapshot() ([]byte, error) {
	return json.Marshal(s)
}

// MarshalJSON は Snapshot と同じ形式で書き出します
func (s *Session) MarshalJSON() ([]byte, error) {
	g := s.game
	return json.Marshal(snapshot{
		Score:      s.score,
		Difficulty: s.difficulty,
		GameState: gameState{
			ID:         g.ID.String(),
			Grid:       g.Board.Cells,
			GameOver:   g.Over,
			GameWon:    g.Won,
			Width:      g.Board.Width,
			Height:     g.Board.Height,
			MinesCount: g.Board.MineCount,
			MinesLeft:  g.MinesLeft,
		},
	})
}

// RestoreSession は保存データからセッションを復元します。
// 項目ごとに読み込み、欠けている・壊れている項目は既定値にします
// （地雷なし・0x0 の盤面・スコア0・難易度 Hard）。
// データ全体が読めない場合と game_state がない場合は、その難易度の新しいゲームになります。
// エラーは返さず、警告ログだけ出します。
func RestoreSession(data []byte, opts ...SessionOption) *Session {
	s := newSession(opts)
	s.difficulty = DefaultDifficulty

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		s.log.WithError(err).Warn("unreadable snapshot, starting a fresh session")
		s.freshGame()
		return s
	}

	d := s.log.WithField("scope", "session")
	s.score = decodeField(d, fields, "score", uint32(0))
	s.difficulty = decodeField(d, fields, "difficulty", DefaultDifficulty)
	if !s.difficulty.Valid() {
		d.WithField("difficulty", uint8(s.difficulty)).Warn("unknown difficulty in snapshot")
		s.difficulty = DefaultDifficulty
	}

	raw, ok := fields["game_state"]
	var state map[string]json.RawMessage
	if ok {
		if err := json.Unmarshal(raw, &state); err != nil {
			d.WithError(err).Warn("malformed game_state in snapshot")
		}
	}
	if state == nil {
		s.freshGame()
		return s
	}

	s.game = restoreGame(s.log.WithField("scope", "game_state"), state)
	return s
}

// freshGame はプリセットから新しいゲームを作ります。プリセットは常に有効です。
func (s *Session) freshGame() {
	if err := s.SelectDifficulty(s.difficulty); err != nil {
		s.log.WithError(err).Error("cannot start preset game")
		s.game = NewGameFromBoard(emptyBoard(0, 0))
	}
}

// maxRestoredCells を超える盤面は壊れた保存データとして扱います
const maxRestoredCells = 1 << 20

func restoreGame(l logrus.FieldLogger, fields map[string]json.RawMessage) *Game {
	width := max(0, decodeField(l, fields, "width", 0))
	height := max(0, decodeField(l, fields, "height", 0))
	if width > maxRestoredCells || height > maxRestoredCells ||
		(height > 0 && width > maxRestoredCells/height) {
		l.WithFields(logrus.Fields{"width": width, "height": height}).Warn("board too large in snapshot, using 0x0")
		width, height = 0, 0
	}

	board := emptyBoard(width, height)
	board.MineCount = max(0, decodeField(l, fields, "mines_count", 0))
	restoreGrid(l, fields, board)

	// 置ききれない地雷数だと勝てず、Restart もできない
	if err := validate(width, height, board.MineCount); err != nil {
		inGrid := board.CountMines()
		if validate(width, height, inGrid) != nil {
			inGrid = 0
		}
		l.WithError(err).WithField("mines_count", inGrid).Warn("mines_count does not fit the board, counting the grid")
		board.MineCount = inGrid
	}

	g := &Game{
		Board:     board,
		Over:      decodeField(l, fields, "game_over", false),
		Won:       decodeField(l, fields, "game_won", false),
		MinesLeft: decodeField(l, fields, "mines_left", int32(0)),
	}

	id, err := uuid.Parse(decodeField(l, fields, "id", ""))
	if err != nil {
		id = uuid.New()
	}
	g.ID = id
	return g
}

// restoreGrid は grid をマス単位で読み込みます。
// width/height と形が合わない場合、足りないマスは既定値、余分なマスは捨てます。
func restoreGrid(l logrus.FieldLogger, fields map[string]json.RawMessage, board *Board) {
	rows := decodeField[[]json.RawMessage](l, fields, "grid", nil)
	if len(rows) != board.Height {
		l.WithFields(logrus.Fields{"rows": len(rows), "height": board.Height}).Debug("grid height mismatch")
	}

	for y := 0; y < board.Height && y < len(rows); y++ {
		var row []json.RawMessage
		if err := json.Unmarshal(rows[y], &row); err != nil {
			l.WithError(err).WithField("row", y).Warn("malformed grid row in snapshot")
			continue
		}
		for x := 0; x < board.Width && x < len(row); x++ {
			board.Cells[y][x] = restoreCell(l, row[x])
		}
	}
}

func restoreCell(l logrus.FieldLogger, raw json.RawMessage) Cell {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		l.WithError(err).Warn("malformed cell in snapshot")
		return Cell{}
	}

	c := Cell{
		IsMine:        decodeField(l, fields, "is_mine", false),
		IsFlagged:     decodeField(l, fields, "is_flagged", false),
		IsRevealed:    decodeField(l, fields, "is_revealed", false),
		AdjacentMines: decodeField(l, fields, "adjacent_mines", 0),
	}
	if c.AdjacentMines < 0 || c.AdjacentMines > 8 {
		l.WithField("adjacent_mines", c.AdjacentMines).Warn("adjacent_mines out of range in snapshot")
		c.AdjacentMines = 0
	}
	return c
}

// decodeField は1項目だけを読み込みます。ないときと読めないときは def を返します。
func decodeField[T any](l logrus.FieldLogger, fields map[string]json.RawMessage, key string, def T) T {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		l.WithError(err).WithField("field", key).Warn("malformed field in snapshot, using default")
		return def
	}
	return v
}
