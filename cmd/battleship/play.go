package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"battleship/internal/app"
	"battleship/internal/game"
	"battleship/internal/match"
)

// cmdPlay runs a hot-seat match between two players sharing one terminal.
func cmdPlay(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	nameA := fs.String("a", "alice", "first player")
	nameB := fs.String("b", "bob", "second player")
	seed := fs.Int64("seed", 0, "random seed, 0 for time based")
	emoji := fs.Bool("emoji", false, "draw with emoji")
	cfg, logger, err := setup(fs, args)
	if err != nil {
		return err
	}

	ended := make(chan *match.Match, 1)
	engine := match.NewEngine(cfg.Match(), match.NewRegistry(),
		match.WithLogger(logger),
		match.WithRand(newRand(*seed)),
		match.OnEnd(func(m *match.Match) { ended <- m }),
	)
	svc, err := app.NewService(engine, cfg.KeysDir, logger, 0)
	if err != nil {
		return err
	}
	defer svc.Close()

	if _, err := svc.Join(*nameA); err != nil {
		return err
	}
	res, err := svc.Join(*nameB)
	if err != nil {
		return err
	}
	for _, c := range res.Commitments {
		fmt.Fprintf(out, "%s commits to %s\n", c.Player, c.RootHex)
	}

	sym := game.ASCII
	if *emoji {
		sym = game.Emoji
	}
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- strings.TrimSpace(sc.Text())
		}
	}()

	m := res.Match
	for {
		player := m.Turn()
		if err := draw(out, svc, sym, player); errors.Is(err, app.ErrNoMatch) {
			return report(out, <-ended)
		} else if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s, fire at (or quit): ", player)

		select {
		case done := <-ended:
			return report(out, done)
		case line, ok := <-lines:
			if !ok || line == "quit" {
				if _, err := svc.Stop(player); err != nil {
					return err
				}
				return report(out, <-ended)
			}
			rep, err := svc.Shoot(player, line)
			switch {
			case errors.Is(err, game.ErrBadCoord), errors.Is(err, match.ErrNotYourTurn):
				fmt.Fprintln(out, err)
				continue
			case errors.Is(err, app.ErrNoMatch), errors.Is(err, match.ErrMatchOver):
				return report(out, <-ended)
			case err != nil:
				return err
			}
			fmt.Fprintf(out, "%s: %s\n", game.FormatCoord(rep.Coord), rep.Outcome)
			if rep.Over() {
				return report(out, <-ended)
			}
		}
	}
}

func draw(out io.Writer, svc *app.Service, sym game.Symbols, player string) error {
	snap, err := svc.Snapshot(player)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s's waters\n%s\n%s's waters\n%s", snap.Opponent, sym.Render(snap.Target), player, sym.Render(snap.Own))
	return nil
}

func report(out io.Writer, m *match.Match) error {
	winner, _ := m.Winner()
	loser, _ := m.Loser()
	switch m.Status() {
	case match.Won:
		fmt.Fprintf(out, "\n%s sank %s's fleet\n", winner, loser)
	case match.Forfeited:
		fmt.Fprintf(out, "\n%s forfeited, %s wins\n", loser, winner)
	case match.TimedOut:
		fmt.Fprintf(out, "\n%s ran out of time, %s wins\n", loser, winner)
	}
	return nil
}
