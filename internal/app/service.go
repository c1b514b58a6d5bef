// Package app is the surface a chat or terminal front end drives: it pairs
// players, turns text commands into engine calls and keeps each match's board
// commitments for fair-play proofs.
package app

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"battleship/internal/codec"
	"battleship/internal/game"
	"battleship/internal/match"
)

// DefaultRetainedMatches bounds how many matches' board secrets are kept.
const DefaultRetainedMatches = 256

var (
	ErrNoMatch      = errors.New("not in a match")
	ErrUnknownMatch = errors.New("no commitments for match")
	ErrNotRevealed  = errors.New("cell has not been shot yet")
)

type matchSecrets struct {
	size    int
	players [2]string
	secrets [2]codec.Secret
	roots   [2]string
}

// Service wires the lobby, the engine and board commitments together.
type Service struct {
	engine  *match.Engine
	lobby   Lobby
	keysDir string
	log     zerolog.Logger
	secrets *lru.Cache[uuid.UUID, *matchSecrets]
}

func NewService(engine *match.Engine, keysDir string, log zerolog.Logger, retain int) (*Service, error) {
	if retain <= 0 {
		retain = DefaultRetainedMatches
	}
	cache, err := lru.New[uuid.UUID, *matchSecrets](retain)
	if err != nil {
		return nil, err
	}
	return &Service{engine: engine, keysDir: keysDir, log: log, secrets: cache}, nil
}

// JoinResult tells the caller whether the player is still waiting or has
// just been paired.
type JoinResult struct {
	Match       *match.Match
	Commitments []codec.Commitment
}

func (r JoinResult) Waiting() bool { return r.Match == nil }

// Join queues player; the second player to join starts a match.
func (s *Service) Join(player string) (JoinResult, error) {
	if s.engine.Registry().Busy(player) {
		return JoinResult{}, match.ErrPlayerBusy
	}
	a, b, paired, err := s.lobby.Enqueue(player)
	if err != nil || !paired {
		return JoinResult{}, err
	}

	m, err := s.engine.Create(a, b)
	if err != nil {
		s.lobby.requeue(a)
		return JoinResult{}, fmt.Errorf("start match: %w", err)
	}
	s.log.Debug().Str("player_a", a).Str("player_b", b).Msg("players paired")
	return JoinResult{Match: m, Commitments: s.commit(m)}, nil
}

// Leave removes a waiting player from the lobby.
func (s *Service) Leave(player string) bool { return s.lobby.Remove(player) }

func (s *Service) Lobby() *Lobby { return &s.lobby }

func (s *Service) commit(m *match.Match) []codec.Commitment {
	a, b := m.Players()
	ms := &matchSecrets{size: s.engine.Rules().Size, players: [2]string{a, b}}
	out := make([]codec.Commitment, 0, 2)
	for i, p := range ms.players {
		view, err := m.BoardView(p, p)
		if err != nil {
			return nil
		}
		sec, root, err := Commit(&game.Board{Size: ms.size, Cells: view})
		if err != nil {
			s.log.Warn().Err(err).Str("match", m.ID().String()).Msg("boards not committed")
			return nil
		}
		ms.secrets[i], ms.roots[i] = sec, root
		out = append(out, codec.Commitment{Player: p, RootHex: root})
	}
	s.secrets.Add(m.ID(), ms)
	return out
}

// Commitments returns the roots published when the match started.
func (s *Service) Commitments(id uuid.UUID) ([]codec.Commitment, error) {
	ms, ok := s.secrets.Get(id)
	if !ok {
		return nil, ErrUnknownMatch
	}
	return []codec.Commitment{
		{Player: ms.players[0], RootHex: ms.roots[0]},
		{Player: ms.players[1], RootHex: ms.roots[1]},
	}, nil
}

// ShotReport is what the front end relays to both players.
type ShotReport struct {
	Match    *match.Match
	Coord    game.Coord
	Outcome  match.Outcome
	Opponent string
}

// Over reports whether the shot ended the match.
func (r ShotReport) Over() bool { return r.Outcome == match.Win }

// Shoot parses text as a coordinate and fires it for player.
func (s *Service) Shoot(player, text string) (ShotReport, error) {
	m, ok := s.engine.Registry().Find(player)
	if !ok {
		return ShotReport{}, ErrNoMatch
	}
	c, err := game.ParseCoord(text, s.engine.Rules().Size)
	if err != nil {
		return ShotReport{}, err
	}
	out, err := m.TakeTurn(player, c)
	if err != nil {
		return ShotReport{}, err
	}
	return ShotReport{Match: m, Coord: c, Outcome: out, Opponent: m.Opponent(player)}, nil
}

// Stop forfeits player's match, or takes them out of the lobby. It returns
// the opponent who wins, if any.
func (s *Service) Stop(player string) (string, error) {
	m, ok := s.engine.Registry().Find(player)
	if !ok {
		if s.lobby.Remove(player) {
			return "", nil
		}
		return "", ErrNoMatch
	}
	if err := m.Forfeit(player); err != nil {
		return "", err
	}
	return m.Opponent(player), nil
}

// Snapshot renders player's own board and their view of the opponent's.
func (s *Service) Snapshot(player string) (codec.Snapshot, error) {
	m, ok := s.engine.Registry().Find(player)
	if !ok {
		return codec.Snapshot{}, ErrNoMatch
	}
	return snapshot(m, player)
}

func snapshot(m *match.Match, player string) (codec.Snapshot, error) {
	opp := m.Opponent(player)
	own, err := m.BoardView(player, player)
	if err != nil {
		return codec.Snapshot{}, err
	}
	target, err := m.BoardView(player, opp)
	if err != nil {
		return codec.Snapshot{}, err
	}
	snap := codec.Snapshot{
		Match:    m.ID().String(),
		Player:   player,
		Opponent: opp,
		Status:   m.Status().String(),
		Turn:     m.Turn(),
		Own:      own,
		Target:   target,
	}
	if w, ok := m.Winner(); ok {
		snap.Winner = w
	}
	return snap, nil
}

// ProveCell proves the state of cell c on owner's committed board. While the
// match is running only cells the opponent has already shot can be proven.
func (s *Service) ProveCell(id uuid.UUID, owner string, c game.Coord) (codec.CellProofPayload, error) {
	ms, ok := s.secrets.Get(id)
	if !ok {
		return codec.CellProofPayload{}, ErrUnknownMatch
	}
	i := -1
	for k, p := range ms.players {
		if p == owner {
			i = k
		}
	}
	if i < 0 {
		return codec.CellProofPayload{}, match.ErrNotParticipant
	}
	if m, ok := s.engine.Registry().Find(owner); ok && m.ID() == id {
		view, err := m.BoardView(m.Opponent(owner), owner)
		if err != nil {
			return codec.CellProofPayload{}, err
		}
		if ms.secrets[i].Board.InBounds(c) && !view[c.Y][c.X].Targeted() {
			return codec.CellProofPayload{}, ErrNotRevealed
		}
	}
	return Prove(ms.secrets[i], s.keysDir, c)
}

// Close stops every running match's timer.
func (s *Service) Close() { s.engine.Registry().CloseAll() }
