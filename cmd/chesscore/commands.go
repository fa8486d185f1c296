package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/diagram"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

// positionFlags registers the -fen and -moves flags shared by most commands.
func positionFlags(fs *flag.FlagSet) (fen, moves *string) {
	fen = fs.String("fen", "startpos", "position in FEN, or startpos")
	moves = fs.String("moves", "", "space separated UCI moves to play first")
	return fen, moves
}

// setUp creates an engine at the position given by the flags.
func setUp(a *app, fen, moves string) (*engine.Engine, error) {
	eng := a.engine()
	if err := eng.SetPosition(fen, strings.Fields(moves)); err != nil {
		return nil, err
	}
	return eng, nil
}

func runPerft(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("perft", flag.ContinueOnError)
	fen, moves := positionFlags(fs)
	depth := fs.Int("depth", 5, "search depth in plies")
	if err := fs.Parse(args); err != nil {
		return err
	}

	eng, err := setUp(a, *fen, *moves)
	if err != nil {
		return err
	}
	info, err := eng.Perft(ctx, *depth)
	if err != nil {
		return err
	}

	fmt.Printf("Depth: %d\n", info.Depth)
	fmt.Printf("Nodes: %s\n", humanize.Comma(int64(info.Nodes)))
	fmt.Printf("Time:  %v\n", info.Time.Round(time.Microsecond))
	if info.Cached {
		fmt.Println("(cached)")
	} else if nps := info.NPS(); nps > 0 {
		fmt.Printf("NPS:   %s\n", humanize.SIWithDigits(float64(nps), 2, "nps"))
	}
	a.log.Debug().Float64("hit_rate", a.cache.HitRate()).Msg("perft cache")
	return nil
}

func runDivide(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("divide", flag.ContinueOnError)
	fen, moves := positionFlags(fs)
	depth := fs.Int("depth", 3, "search depth in plies")
	if err := fs.Parse(args); err != nil {
		return err
	}

	eng, err := setUp(a, *fen, *moves)
	if err != nil {
		return err
	}
	results, err := eng.Divide(ctx, *depth)
	if err != nil {
		return err
	}

	var total uint64
	for _, r := range results {
		fmt.Printf("%s: %d\n", r.Move, r.Nodes)
		total += r.Nodes
	}
	fmt.Printf("\nMoves: %d\nNodes: %s\n", len(results), humanize.Comma(int64(total)))
	return nil
}

func runSuite(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("suite", flag.ContinueOnError)
	file := fs.String("file", "", "YAML suite file (built-in suite if empty)")
	maxDepth := fs.Int("max-depth", 4, "skip depths above this, 0 runs all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	suite := perft.Standard()
	if *file != "" {
		var err error
		if suite, err = perft.LoadSuiteFile(*file); err != nil {
			return err
		}
	}

	failed := 0
	outcomes, err := suite.Run(ctx, *maxDepth, a.cfg.PerftWorkers, func(o perft.Outcome) {
		mark := "ok  "
		if !o.Passed() {
			mark = "FAIL"
			failed++
		}
		fmt.Printf("%s %-20s depth %d  %15s  %v\n", mark, o.Case, o.Depth,
			humanize.Comma(int64(o.Got)), o.Elapsed.Round(time.Millisecond))
		if !o.Passed() {
			fmt.Printf("     want %s\n", humanize.Comma(int64(o.Want)))
		}
		if o.Passed() {
			rec := storage.PerftRecord{FEN: o.FEN, Depth: o.Depth, Nodes: o.Got, Elapsed: o.Elapsed}
			if err := a.cache.Remember(rec); err != nil {
				a.log.Warn().Err(err).Msg("store perft result")
			}
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n%s: %d checks, %d failed\n", suite.Name, len(outcomes), failed)
	if failed > 0 {
		return fmt.Errorf("%d perft checks failed", failed)
	}
	return nil
}

func runFEN(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("fen", flag.ContinueOnError)
	fen, moves := positionFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	eng, err := setUp(a, *fen, *moves)
	if err != nil {
		return err
	}

	pos := eng.Position()
	fmt.Print(pos.String())
	fmt.Printf("FEN:    %s\n", eng.FEN())
	fmt.Printf("Hash:   %016x\n", pos.Hash())
	fmt.Printf("Status: %s\n", eng.Status())
	if err := pos.Validate(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	legal := eng.LegalMoves()
	san := make([]string, len(legal))
	for i, m := range legal {
		san[i] = board.SAN(pos, m)
	}
	fmt.Printf("Legal moves (%d): %s\n", len(legal), strings.Join(san, " "))
	if eng.CanClaimDraw() {
		fmt.Println("A draw may be claimed.")
	}
	return nil
}

func runDiagram(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("diagram", flag.ContinueOnError)
	fen, moves := positionFlags(fs)
	out := fs.String("o", "board.png", "output file, .svg writes SVG")
	size := fs.Int("size", 480, "image edge in pixels")
	flip := fs.Bool("flip", false, "draw from Black's side")
	if err := fs.Parse(args); err != nil {
		return err
	}

	eng, err := setUp(a, *fen, *moves)
	if err != nil {
		return err
	}
	opts := diagram.Options{Flip: *flip, Size: *size, MarkCheck: true}
	if played := eng.Moves(); len(played) > 0 {
		last := played[len(played)-1]
		opts.Highlight = []board.Square{last.From, last.To}
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if strings.HasSuffix(strings.ToLower(*out), ".svg") {
		_, err = f.WriteString(diagram.SVG(eng.Position(), opts))
	} else {
		err = diagram.WritePNG(f, eng.Position(), opts)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	a.log.Info().Str("file", *out).Msg("diagram written")
	return nil
}

func runSelfPlay(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("selfplay", flag.ContinueOnError)
	fen, _ := positionFlags(fs)
	games := fs.Int("games", 1, "number of games")
	maxPlies := fs.Int("max-plies", 1000, "abandon a game after this many plies")
	if err := fs.Parse(args); err != nil {
		return err
	}

	eng := a.engine()
	for g := 1; g <= *games; g++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := eng.SetPosition(*fen, nil); err != nil {
			return err
		}

		status := eng.Status()
		for ply := 0; !status.IsTerminal() && ply < *maxPlies; ply++ {
			m, ok := eng.PickMove()
			if !ok {
				break
			}
			next, err := eng.Move(m.String())
			if err != nil {
				return err
			}
			status = next
		}
		fmt.Printf("game %d: %s after %d plies, %s\n", g, eng.Status(), len(eng.Moves()), eng.FEN())
	}
	return nil
}

func runGames(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("games", flag.ContinueOnError)
	last := fs.Int("n", 10, "show the last n games, 0 for all")
	showMoves := fs.Bool("moves", false, "print the moves of each game")
	if err := fs.Parse(args); err != nil {
		return err
	}

	games, err := a.store.Games()
	if err != nil {
		return err
	}
	if *last > 0 && len(games) > *last {
		games = games[len(games)-*last:]
	}
	for _, g := range games {
		fmt.Printf("#%-5d %-7s %-22s %4d plies  %s\n", g.ID, g.Result, g.Reason, len(g.Moves), humanize.Time(g.PlayedAt))
		if *showMoves {
			fmt.Printf("       %s\n", strings.Join(g.Moves, " "))
		}
	}

	stats, err := a.store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Printf("\n%s games: %d white wins, %d black wins, %d draws (%.1f%% decisive)\n",
		humanize.Comma(int64(stats.GamesPlayed)), stats.WhiteWins, stats.BlackWins, stats.Draws, stats.DecisiveRate())
	if stats.GamesPlayed > 0 {
		fmt.Printf("Average length %d plies, longest %d\n", stats.TotalPlies/stats.GamesPlayed, stats.LongestGame)
	}
	return nil
}

func runUCI(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("uci", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	protocol := uci.New(a.engine(), os.Stdout, a.log)
	return protocol.Run(ctx, os.Stdin)
}
