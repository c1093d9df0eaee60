package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ahmad-salah-nada/minesweeper/game"
	"github.com/ahmad-salah-nada/minesweeper/solver"
)

var log = logrus.New()

// result は1ゲーム分の記録です
type result struct {
	ID       string
	Status   game.Status
	Moves    int
	Guesses  int
	Revealed int
}

func (r result) row(d game.Difficulty) []string {
	return []string{
		r.ID,
		d.String(),
		r.Status.String(),
		strconv.Itoa(r.Moves),
		strconv.Itoa(r.Guesses),
		strconv.Itoa(r.Revealed),
	}
}

var header = []string{"game_id", "difficulty", "result", "moves", "guesses", "revealed"}

func main() {
	games := flag.Int("games", 1000, "number of games to play")
	level := flag.String("difficulty", "easy", "easy, medium or hard")
	out := flag.String("out", "selfplay.csv", "CSV output path (- for stdout)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	logLevel := flag.String("log-level", "info", "logrus level")
	flag.Parse()

	lvl, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		log.WithError(err).Fatal("bad -log-level")
	}
	log.SetLevel(lvl)

	d, err := game.ParseDifficulty(*level)
	if err != nil {
		log.WithError(err).Fatal("bad -difficulty")
	}

	won, err := run(*out, d, *games, *seed)
	if err != nil {
		log.WithError(err).Fatal("self-play failed")
	}

	log.WithFields(logrus.Fields{
		"games":      *games,
		"difficulty": d,
		"won":        won,
		"win_rate":   fmt.Sprintf("%.3f", float64(won)/float64(max(1, *games))),
		"out":        *out,
	}).Info("done")
}

// run は出力先を開いて selfPlay を実行し、ファイルを閉じてから返ります
func run(out string, d game.Difficulty, n int, seed int64) (won int, err error) {
	if out == "-" {
		return selfPlay(os.Stdout, d, n, seed)
	}

	file, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", out, cerr)
		}
	}()

	return selfPlay(file, d, n, seed)
}

// selfPlay はソルバーに n ゲーム遊ばせて、1ゲーム1行の CSV を書きます。勝った数を返します。
func selfPlay(w io.Writer, d game.Difficulty, n int, seed int64) (int, error) {
	// 1ゲームごとの勝敗ログは -log-level debug のときだけ出す
	sessionLog := log
	if !log.IsLevelEnabled(logrus.DebugLevel) {
		sessionLog = logrus.New()
		sessionLog.SetOutput(log.Out)
		sessionLog.SetLevel(logrus.WarnLevel)
	}

	rng := rand.New(rand.NewSource(seed))
	s, err := game.NewSession(
		game.WithDifficulty(d),
		game.WithRand(rng),
		game.WithLogger(sessionLog),
	)
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return 0, err
	}

	for i := 0; i < n; i++ {
		if i > 0 {
			if err := s.Restart(); err != nil {
				return 0, err
			}
		}
		r := playGame(s, rng)
		if err := writer.Write(r.row(d)); err != nil {
			return 0, err
		}
		log.WithFields(logrus.Fields{
			"game":    r.ID,
			"result":  r.Status,
			"moves":   r.Moves,
			"guesses": r.Guesses,
		}).Debug("game finished")
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, err
	}
	return int(s.Score()), nil
}

func playGame(s *game.Session, rng *rand.Rand) result {
	g := s.Game()
	bot := solver.New(g, rng)
	r := result{ID: g.ID.String()}

	for !g.Finished() {
		move := bot.NextMove()
		if move == nil {
			break
		}
		if move.IsGuess {
			r.Guesses++
		}
		move.Apply(s)
		r.Moves++
	}

	r.Status = g.Status()
	r.Revealed = g.Board.CountRevealed()
	return r
}
