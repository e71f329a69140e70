// Command othello is the coordinator process's entry point: it parses
// the four positional CLI arguments, opens the per-process log file,
// connects to the referee, starts the worker goroutine pool, and
// drives the referee protocol loop until game_over or a fatal network
// error.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"othello/board"
	"othello/coordinator"
	"othello/messaging"
	"othello/referee"
	"othello/worker"
)

// numWorkers is the size of the worker goroutine pool. The original
// engine sized its MPI process group from mpirun's -n flag; this
// rewrite has no equivalent external knob, so it scales off the host's
// own core count, leaving one for the coordinator goroutine itself.
func numWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

func main() {
	if len(os.Args) != 5 {
		fmt.Fprintln(os.Stderr, "usage: othello <ip> <port> <time_limit_seconds> <log_filename>")
		os.Exit(1)
	}

	ip := os.Args[1]
	port := os.Args[2]
	timeLimitSeconds, err := strconv.Atoi(os.Args[3])
	if err != nil {
		fmt.Fprintln(os.Stderr, "usage: othello <ip> <port> <time_limit_seconds> <log_filename>")
		os.Exit(1)
	}
	logFilename := os.Args[4]

	logFile, err := os.OpenFile(logFilename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "othello: could not open log file %s: %v\n", logFilename, err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := zerolog.New(logFile).With().Timestamp().Logger()

	cfg := coordinator.DefaultConfig()
	if timeLimitSeconds > 0 {
		cfg.Deadline = time.Duration(timeLimitSeconds) * time.Second
	}

	client, err := referee.Dial(ip+":"+port, log)
	if err != nil {
		log.Error().Err(err).Msg("could not connect to referee")
		os.Exit(1)
	}
	defer client.Close()

	if err := run(client, cfg, numWorkers(), log); err != nil {
		log.Error().Err(err).Msg("fatal error, exiting")
		os.Exit(1)
	}
}

// run owns the worker pool lifetime and the referee protocol loop. It
// returns nil on a clean game_over and a non-nil error on any fatal
// network failure, matching §6's exit code contract. n is the worker
// goroutine pool size, threaded through as a parameter so tests can
// run a small, deterministic pool instead of one sized to the host.
func run(client *referee.Client, cfg coordinator.Config, n int, log zerolog.Logger) error {
	hub := messaging.NewHub(n + 1)

	lifetime, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	g := errgroup.Group{}
	for rank := 1; rank <= n; rank++ {
		rank := rank
		g.Go(func() error {
			worker.New(hub, rank, log).Run(lifetime)
			return nil
		})
	}

	coord := coordinator.New(hub, cfg, log)
	color := client.Color()
	b := board.NewGame()

	for {
		cmd, err := client.ReadCommand()
		if err != nil {
			var malformed *referee.ErrMalformed
			if errors.As(err, &malformed) {
				// Already logged by referee.Client.ReadCommand.
				continue
			}
			return errors.Wrap(err, "referee connection failed")
		}

		switch cmd.Kind {
		case referee.GameOver:
			log.Info().Msg("game over")
			stopWorkers()
			g.Wait()
			return nil

		case referee.GenMove:
			move, err := coord.GenMove(lifetime, b, color)
			if err != nil {
				return errors.Wrap(err, "gen_move failed")
			}
			if move == board.PassSquare {
				if err := client.SendPass(); err != nil {
					return errors.Wrap(err, "send pass failed")
				}
				continue
			}
			b.ApplyMove(move, color)
			if err := client.SendMove(move); err != nil {
				return errors.Wrap(err, "send move failed")
			}
			log.Info().Str("move", board.SquareString(move)).Msg("move sent")
			log.Debug().Msg(b.String())

		case referee.PlayMove:
			applyOpponentMove(&b, cmd.Move, board.Opponent(color), log)
			log.Debug().Msg(b.String())
		}
	}
}

// applyOpponentMove decodes and applies the opponent's reported move,
// honoring the "pass" literal. A malformed move string is logged and
// the board is left unchanged, per §7's non-fatal error policy.
func applyOpponentMove(b *board.Board, move string, opponent board.Player, log zerolog.Logger) {
	if move == "pass" {
		return
	}
	sq, err := board.ParseSquare(move)
	if err != nil {
		log.Warn().Err(err).Str("move", move).Msg("could not parse opponent move")
		return
	}
	b.ApplyMove(sq, opponent)
}
