// Command rooksim plays complete Rook games between four heuristic agents and
// reports aggregate results. It exercises the engine without a network.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	engine "github.com/jason-s-yu/rook/engine"
	"github.com/jason-s-yu/rook/engine/agent"
	"github.com/jason-s-yu/rook/service/internal/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CLI flags
var (
	games    int
	seed     uint64
	deckMode string
	rookMode string
	target   int
	workers  int
	logLevel string
	jsonLogs bool
)

func init() {
	flag.IntVar(&games, "games", 100, "Number of games to play")
	flag.Uint64Var(&seed, "seed", 0, "Base seed (0 = use current time)")
	flag.StringVar(&deckMode, "deck", string(engine.DeckFull), "Deck mode (full, fast)")
	flag.StringVar(&rookMode, "rook", string(engine.RookHigh), "Rook rank mode (high, low)")
	flag.IntVar(&target, "target", 500, "Target score")
	flag.IntVar(&workers, "workers", 0, "Concurrent games (0 = CPU count)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level")
	flag.BoolVar(&jsonLogs, "json", false, "Log as JSON")
}

// result summarises one finished game.
type result struct {
	Winner  engine.Team
	Scores  [2]int
	Hands   int
	Sets    int
	AllPass int
}

func main() {
	flag.Parse()

	format := "text"
	if jsonLogs {
		format = "json"
	}
	logger, err := logging.Setup(os.Stderr, logLevel, format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logrus.NewEntry(logger)

	settings := engine.DefaultSettings()
	settings.DeckMode = engine.DeckMode(deckMode)
	settings.RookRankMode = engine.RookRankMode(rookMode)
	settings.TargetScore = target
	if err := settings.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid settings")
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	log.WithFields(logrus.Fields{
		"games":   games,
		"seed":    seed,
		"deck":    settings.DeckMode,
		"rook":    settings.RookRankMode,
		"target":  settings.TargetScore,
		"workers": workers,
	}).Info("Starting simulation")

	start := time.Now()
	results := make([]result, games)
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for i := 0; i < games; i++ {
		i := i
		g.Go(func() error {
			r, err := playGame(settings, seed+uint64(i)*0x9E3779B97F4A7C15)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = r
			log.WithFields(logrus.Fields{
				"game":   i,
				"winner": r.Winner,
				"scores": r.Scores,
				"hands":  r.Hands,
			}).Debug("Game finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("Simulation failed")
	}

	report(log, results, time.Since(start))
}

// playGame runs one game to completion with an agent in every seat.
func playGame(settings engine.Settings, seed uint64) (result, error) {
	room := engine.RoomSnapshot{Code: "SIM"}
	for i := range room.Seats {
		room.Seats[i] = engine.SeatAssignment{PlayerID: engine.PlayerID(engine.Seat(i).String()), Ready: true}
	}
	g, err := engine.NewGame(room, settings)
	if err != nil {
		return result{}, err
	}

	var agents [engine.NumSeats]agent.AgentState
	for i := range agents {
		agents[i] = agent.NewAgentState(engine.Seat(i))
	}

	for steps := 0; !g.IsGameOver(); steps++ {
		if steps > 1_000_000 {
			return result{}, fmt.Errorf("no result after %d actions", steps)
		}
		acted := false
		for i := range agents {
			act, ok := agents[i].Choose(g, seed+uint64(g.HandNumber))
			if !ok {
				continue
			}
			if _, err := g.Apply(g.PlayerAt(engine.Seat(i)), act); err != nil {
				return result{}, fmt.Errorf("hand %d: %s by %s: %w", g.HandNumber, act.Name(), engine.Seat(i), err)
			}
			acted = true
			break
		}
		if !acted {
			return result{}, fmt.Errorf("hand %d: stuck in phase %s", g.HandNumber, g.Phase)
		}
	}

	r := result{Winner: g.WinnerTeam, Scores: g.Scores, Hands: len(g.HandHistory)}
	for _, h := range g.HandHistory {
		if h.BiddersSet {
			r.Sets++
		}
		if h.AllPassFallback {
			r.AllPass++
		}
	}
	return r, nil
}

func report(log *logrus.Entry, results []result, elapsed time.Duration) {
	var wins [2]int
	hands, sets, allPass := 0, 0, 0
	for _, r := range results {
		wins[r.Winner]++
		hands += r.Hands
		sets += r.Sets
		allPass += r.AllPass
	}
	n := len(results)
	if n == 0 {
		log.Warn("No games played")
		return
	}
	log.WithFields(logrus.Fields{
		"team1Wins":    wins[engine.Team1],
		"team2Wins":    wins[engine.Team2],
		"handsPerGame": fmt.Sprintf("%.1f", float64(hands)/float64(n)),
		"setRate":      fmt.Sprintf("%.3f", float64(sets)/float64(max(hands, 1))),
		"allPassHands": allPass,
		"elapsed":      elapsed.Round(time.Millisecond),
	}).Info("Simulation complete")
}
