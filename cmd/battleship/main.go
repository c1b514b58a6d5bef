package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	gnarklog "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"

	"battleship/internal/app"
	"battleship/internal/codec"
	"battleship/internal/config"
	"battleship/internal/game"
	"battleship/internal/zk"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
	With().Timestamp().Logger()

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	var err error
	switch os.Args[1] {
	case "board":
		err = cmdBoard(os.Args[2:])
	case "commit":
		err = cmdCommit(os.Args[2:])
	case "prove":
		err = cmdProve(os.Args[2:])
	case "verify":
		err = cmdVerify(os.Args[2:])
	case "play":
		err = cmdPlay(os.Args[2:], os.Stdin, os.Stdout)
	default:
		usage()
		return
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("failed")
	}
}

func usage() {
	fmt.Println(`Battleship

Commands:
  board  [--out board.json] [--emoji] [--seed N]
  commit --board board.json --secret secret.json
  prove  --secret secret.json --cell B7 --out proof.json
  verify --keys ./keys --root ROOT_HEX --proof proof.json
  play   [--turn-timeout 3m] [--seed N]

Every command also takes --size, --fleet, --keys and --log-level, and reads
the same settings from BATTLESHIP_* environment variables.`)
}

// setup parses the shared settings and points gnark's logger at ours.
func setup(fs *flag.FlagSet, args []string) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Parse(fs, args)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	logger := cfg.Logger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if logger.GetLevel() > zerolog.DebugLevel {
		gnarklog.Disable()
	} else {
		gnarklog.Set(logger.With().Str("component", "gnark").Logger())
	}
	return cfg, logger, nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func cmdBoard(args []string) error {
	fs := flag.NewFlagSet("board", flag.ExitOnError)
	out := fs.String("out", "", "write the board as JSON")
	emoji := fs.Bool("emoji", false, "draw with emoji")
	seed := fs.Int64("seed", 0, "random seed, 0 for time based")
	cfg, logger, err := setup(fs, args)
	if err != nil {
		return err
	}

	gen := game.NewGenerator(cfg.Rules(), newRand(*seed))
	gen.Attempts, gen.MaxRestarts = cfg.PlacementAttempts, cfg.MaxRestarts
	b, err := gen.Generate()
	if err != nil {
		return err
	}

	sym := game.ASCII
	if *emoji {
		sym = game.Emoji
	}
	fmt.Print(sym.Render(b.View(true)))
	if *out == "" {
		return nil
	}
	if err := saveJSON(*out, b); err != nil {
		return err
	}
	logger.Info().Str("path", *out).Msg("board written")
	return nil
}

func cmdCommit(args []string) error {
	fs := flag.NewFlagSet("commit", flag.ExitOnError)
	boardPath := fs.String("board", "board.json", "board file")
	secretPath := fs.String("secret", "secret.json", "owner secret output")
	cfg, logger, err := setup(fs, args)
	if err != nil {
		return err
	}

	var b game.Board
	if err := loadJSON(*boardPath, &b); err != nil {
		return err
	}
	if err := b.Validate(cfg.Rules().Fleet); err != nil {
		return err
	}
	sec, root, err := app.Commit(&b)
	if err != nil {
		return err
	}
	if err := zk.EnsureKeys(cfg.KeysDir); err != nil {
		return err
	}
	if err := saveJSON(*secretPath, &sec); err != nil {
		return err
	}
	fmt.Println("ROOT:", root)
	logger.Info().Str("path", *secretPath).Msg("secret written")
	return nil
}

func cmdProve(args []string) error {
	fs := flag.NewFlagSet("prove", flag.ExitOnError)
	secretPath := fs.String("secret", "secret.json", "owner secret")
	cell := fs.String("cell", "", "cell to prove, e.g. B7")
	out := fs.String("out", "proof.json", "proof output")
	cfg, logger, err := setup(fs, args)
	if err != nil {
		return err
	}

	var sec codec.Secret
	if err := loadJSON(*secretPath, &sec); err != nil {
		return err
	}
	c, err := game.ParseCoord(*cell, sec.Board.Size)
	if err != nil {
		return err
	}
	payload, err := app.Prove(sec, cfg.KeysDir, c)
	if err != nil {
		return err
	}
	if err := saveJSON(*out, &payload); err != nil {
		return err
	}
	logger.Info().
		Str("cell", game.FormatCoord(c)).
		Bool("occupied", payload.Public.Occupied == 1).
		Str("path", *out).
		Msg("proof written")
	return nil
}

func cmdVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	rootHex := fs.String("root", "", "published root, 0x prefixed")
	proofPath := fs.String("proof", "proof.json", "proof payload")
	cfg, _, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *rootHex == "" {
		return fmt.Errorf("--root required")
	}
	root, err := codec.ParseHex(*rootHex)
	if err != nil {
		return err
	}

	var payload codec.CellProofPayload
	if err := loadJSON(*proofPath, &payload); err != nil {
		return err
	}
	res, err := app.VerifyWithRoot(filepath.Join(cfg.KeysDir, zk.VerifyingKeyFile), root, cfg.BoardSize, payload)
	if err != nil {
		return err
	}
	verdict := "MISS"
	if res.Occupied {
		verdict = "HIT"
	}
	fmt.Println(game.FormatCoord(res.Coord), verdict)
	return nil
}

func saveJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loadJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}
