//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/sirupsen/logrus"

	"github.com/ahmad-salah-nada/minesweeper/game"
	"github.com/ahmad-salah-nada/minesweeper/solver"
	"github.com/ahmad-salah-nada/minesweeper/viewmodel"
)

var (
	log     = logrus.New()
	session *game.Session
)

func init() {
	var err error
	session, err = game.NewSession(game.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("cannot start session")
	}
}

func view() any {
	return viewmodel.JSON(session)
}

func cell(args []js.Value) (x, y int, ok bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	return args[0].Int(), args[1].Int(), true
}

// goNewGame(w, h, m) は任意サイズ、引数なしなら現在の難易度で始めます
func newGameWrapper(this js.Value, args []js.Value) any {
	var err error
	if len(args) >= 3 {
		err = session.NewGame(args[0].Int(), args[1].Int(), args[2].Int())
	} else {
		err = session.SelectDifficulty(session.Difficulty())
	}
	if err != nil {
		log.WithError(err).Warn("new game rejected")
	}
	return view()
}

// goSelectDifficulty(0|1|2) または goSelectDifficulty("easy")
func selectDifficultyWrapper(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return view()
	}

	var (
		d   game.Difficulty
		err error
	)
	if args[0].Type() == js.TypeString {
		d, err = game.ParseDifficulty(args[0].String())
	} else {
		d, err = game.DifficultyFromIndex(args[0].Int())
	}
	if err == nil {
		err = session.SelectDifficulty(d)
	}
	if err != nil {
		log.WithError(err).Warn("difficulty rejected")
	}
	return view()
}

// goSetLocale("ja") はラベルの言語を切り替えます
func setLocaleWrapper(this js.Value, args []js.Value) any {
	if len(args) >= 1 && args[0].Type() == js.TypeString {
		if err := viewmodel.SetLocale(args[0].String()); err != nil {
			log.WithError(err).Warn("locale rejected")
		}
	}
	return view()
}

func restartWrapper(this js.Value, args []js.Value) any {
	if err := session.Restart(); err != nil {
		log.WithError(err).Warn("restart failed")
	}
	return view()
}

func openCellWrapper(this js.Value, args []js.Value) any {
	if x, y, ok := cell(args); ok {
		session.Click(x, y)
	}
	return view()
}

func toggleFlagWrapper(this js.Value, args []js.Value) any {
	if x, y, ok := cell(args); ok {
		session.ToggleFlag(x, y)
	}
	return view()
}

func chordWrapper(this js.Value, args []js.Value) any {
	if x, y, ok := cell(args); ok {
		session.Chord(x, y)
	}
	return view()
}

// botStepWrapper はソルバーに1手進めさせます
func botStepWrapper(this js.Value, args []js.Value) any {
	if move := solver.New(session.Game(), nil).NextMove(); move != nil {
		log.WithFields(logrus.Fields{
			"x":          move.X,
			"y":          move.Y,
			"type":       move.Type,
			"strategy":   move.Strategy,
			"confidence": move.Confidence,
		}).Debug("bot move")
		move.Apply(session)
	}
	return view()
}

func resetScoreWrapper(this js.Value, args []js.Value) any {
	session.ResetScore()
	return view()
}

// goSnapshot() は localStorage に保存するための JSON 文字列を返します
func snapshotWrapper(this js.Value, args []js.Value) any {
	data, err := session.Snapshot()
	if err != nil {
		log.WithError(err).Error("snapshot failed")
		return ""
	}
	return string(data)
}

// goRestore(json) は保存データからセッションを復元します。壊れていても新しいゲームになります。
func restoreWrapper(this js.Value, args []js.Value) any {
	var data string
	if len(args) >= 1 && args[0].Type() == js.TypeString {
		data = args[0].String()
	}
	session = game.RestoreSession([]byte(data), game.WithLogger(log))
	return view()
}

func main() {
	c := make(chan struct{})

	js.Global().Set("goNewGame", js.FuncOf(newGameWrapper))
	js.Global().Set("goSelectDifficulty", js.FuncOf(selectDifficultyWrapper))
	js.Global().Set("goSetLocale", js.FuncOf(setLocaleWrapper))
	js.Global().Set("goRestart", js.FuncOf(restartWrapper))
	js.Global().Set("goOpenCell", js.FuncOf(openCellWrapper))
	js.Global().Set("goToggleFlag", js.FuncOf(toggleFlagWrapper))
	js.Global().Set("goChord", js.FuncOf(chordWrapper))
	js.Global().Set("goBotStep", js.FuncOf(botStepWrapper))
	js.Global().Set("goResetScore", js.FuncOf(resetScoreWrapper))
	js.Global().Set("goSnapshot", js.FuncOf(snapshotWrapper))
	js.Global().Set("goRestore", js.FuncOf(restoreWrapper))

	log.Info("Go WebAssembly initialized")
	<-c
}
