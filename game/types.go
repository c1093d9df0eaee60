package game

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidConfiguration は盤面サイズと地雷数の組み合わせが不正な場合のエラーです
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Cell は1つのマスの情報を持ちます
type Cell struct {
	IsMine        bool `json:"is_mine"`        // 地雷かどうか
	IsFlagged     bool `json:"is_flagged"`     // フラグが立てられているか
	IsRevealed    bool `json:"is_revealed"`    // すでに開けられたか
	AdjacentMines int  `json:"adjacent_mines"` // 周囲8マスにある地雷の数
}

// Board はゲーム盤面全体を持ちます
type Board struct {
	Width     int      // 横のマス数
	Height    int      // 縦のマス数
	MineCount int      // 地雷の総数（生成時に固定）
	Cells     [][]Cell // Cells[y][x]
}

// Point は盤面上の座標です（X: 列, Y: 行）
type Point struct {
	X, Y int
}

// Game は1回分のゲームです。
// リスタートや難易度変更のたびに丸ごと作り直され、途中でサイズが変わることはありません。
type Game struct {
	ID        uuid.UUID
	Board     *Board
	Over      bool  // 地雷を踏んだ
	Won       bool  // 地雷以外のマスをすべて開けた
	MinesLeft int32 // 表示用の残り地雷数（マイナスもあり得る）
}

// Status はゲームの状態です
type Status int

const (
	Playing Status = iota
	Lost
	Won
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Lost:
		return "lost"
	case Won:
		return "won"
	}
	return "unknown"
}

// CellState はUI側が描画すべきマスの見た目です
type CellState uint8

const (
	Hidden   CellState = iota // 未開封
	Flagged                   // 未開封 + フラグ
	Revealed                  // 開封済み（数字は CellView.Number）
	Mine                      // 地雷
)

func (s CellState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Flagged:
		return "flagged"
	case Revealed:
		return "revealed"
	case Mine:
		return "mine"
	}
	return "unknown"
}

// CellView は描画レイヤーに渡す1マス分の表示情報です
type CellView struct {
	State  CellState
	Number int
}
