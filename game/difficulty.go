package game

import (
	"fmt"
	"strings"
)

// Config は盤面の大きさと地雷数です
type Config struct {
	Width  int
	Height int
	Mines  int
}

// Difficulty は固定の難易度プリセットです。値は保存データの難易度番号と同じです。
type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// DefaultDifficulty は保存データがないときの難易度です
const DefaultDifficulty = Hard

var presets = [...]Config{
	Easy:   {Width: 9, Height: 9, Mines: 10},
	Medium: {Width: 16, Height: 16, Mines: 40},
	Hard:   {Width: 40, Height: 16, Mines: 99},
}

// Valid はプリセットとして存在する難易度かどうかです
func (d Difficulty) Valid() bool {
	return int(d) < len(presets)
}

// Config はプリセットの設定を返します。不明な値は Hard として扱います。
func (d Difficulty) Config() Config {
	if !d.Valid() {
		return presets[DefaultDifficulty]
	}
	return presets[d]
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("difficulty(%d)", uint8(d))
}

// ParseDifficulty は "easy" / "medium" / "hard" を Difficulty に変換します
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return DefaultDifficulty, fmt.Errorf("unknown difficulty %q: %w", s, ErrInvalidConfiguration)
}

// DifficultyFromIndex は難易度番号（0, 1, 2）を Difficulty に変換します。
// uint8 に切り詰める前に範囲を確かめます。
func DifficultyFromIndex(i int) (Difficulty, error) {
	if i < 0 || i >= len(presets) {
		return DefaultDifficulty, fmt.Errorf("difficulty index %d: %w", i, ErrInvalidConfiguration)
	}
	return Difficulty(i), nil
}
