// Package match runs two-player games: turn ownership, shot resolution,
// sinking and win detection, forfeits and the inactivity timeout.
package match

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"battleship/internal/game"
)

// Status is the lifecycle state of a match.
type Status uint8

const (
	Pending   Status = iota // boards dealt, no shot landed yet
	Active                  // shots being exchanged
	Won                     // a player sank the whole opposing fleet
	Forfeited               // a player quit
	TimedOut                // the turn owner let the deadline pass
)

func (s Status) Terminal() bool { return s >= Won }

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Active:
		return "active"
	case Won:
		return "won"
	case Forfeited:
		return "forfeited"
	case TimedOut:
		return "timed_out"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Outcome is the result of one shot.
type Outcome uint8

const (
	Miss Outcome = iota
	Hit
	Win
	AlreadyTargeted
	OutOfBounds
)

func (o Outcome) String() string {
	switch o {
	case Miss:
		return "miss"
	case Hit:
		return "hit"
	case Win:
		return "win"
	case AlreadyTargeted:
		return "already_targeted"
	case OutOfBounds:
		return "out_of_bounds"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// Resolved reports whether the shot changed the board.
func (o Outcome) Resolved() bool { return o <= Win }

var (
	ErrMatchOver      = errors.New("match is over")
	ErrNotParticipant = errors.New("player is not in this match")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrSamePlayer     = errors.New("a player cannot play against themselves")
)

// Match is one game between two players. All methods are safe for concurrent
// use; shots, forfeits and the inactivity timer are serialised on one mutex.
type Match struct {
	id      uuid.UUID
	players [2]string
	timeout time.Duration
	clock   clock.Clock
	log     zerolog.Logger
	onEnd   Ended

	mu       sync.Mutex
	boards   [2]*game.Board
	turn     int
	status   Status
	winner   int
	sunk     [2]int
	deadline time.Time
	timer    *clock.Timer
	// epoch increments on every rearm so a timer that lost the race to a
	// shot can tell it is stale.
	epoch uint64
}

// Ended receives a match once, right after it reaches a terminal status.
type Ended func(*Match)

type params struct {
	players [2]string
	boards  [2]*game.Board
	first   int
	timeout time.Duration
	clock   clock.Clock
	log     zerolog.Logger
	onEnd   Ended
}

func newMatch(p params) (*Match, error) {
	if p.players[0] == p.players[1] {
		return nil, ErrSamePlayer
	}
	if p.boards[0] == nil || p.boards[1] == nil {
		return nil, errors.New("both boards are required")
	}
	if p.first != 0 && p.first != 1 {
		return nil, fmt.Errorf("first turn index %d", p.first)
	}
	if p.clock == nil {
		p.clock = clock.New()
	}
	id := uuid.New()
	m := &Match{
		id:      id,
		players: p.players,
		boards:  p.boards,
		turn:    p.first,
		timeout: p.timeout,
		clock:   p.clock,
		log:     p.log.With().Str("match", id.String()).Logger(),
		onEnd:   p.onEnd,
		winner:  -1,
	}
	return m, nil
}

// start arms the first turn's inactivity timer.
func (m *Match) start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.status.Terminal() {
		m.armLocked()
	}
}

func (m *Match) ID() uuid.UUID { return m.id }

func (m *Match) Players() (string, string) { return m.players[0], m.players[1] }

// Opponent returns the other player, or "" if player is not in the match.
func (m *Match) Opponent(player string) string {
	i := m.index(player)
	if i < 0 {
		return ""
	}
	return m.players[1-i]
}

func (m *Match) index(player string) int {
	switch player {
	case m.players[0]:
		return 0
	case m.players[1]:
		return 1
	}
	return -1
}

// Turn returns the player allowed to shoot next.
func (m *Match) Turn() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.players[m.turn]
}

func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Match) IsTerminal() bool { return m.Status().Terminal() }

// Winner returns the winning player once the match is over.
func (m *Match) Winner() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.winner < 0 {
		return "", false
	}
	return m.players[m.winner], true
}

// Loser returns the losing player once the match is over.
func (m *Match) Loser() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.winner < 0 {
		return "", false
	}
	return m.players[1-m.winner], true
}

// Deadline is when the current turn owner times out. Zero once terminal.
func (m *Match) Deadline() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deadline
}

// SunkShips returns how many of the owner's ships have been sunk.
func (m *Match) SunkShips(owner string) int {
	i := m.index(owner)
	if i < 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sunk[i]
}

// BoardView projects owner's board as seen by viewer: ships are only revealed
// to the owner.
func (m *Match) BoardView(viewer, owner string) ([][]game.Cell, error) {
	i := m.index(owner)
	if i < 0 || m.index(viewer) < 0 {
		return nil, ErrNotParticipant
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.boards[i].View(viewer == owner), nil
}

// Resolve fires shooter's shot at c on the opponent's board. It does not
// check whose turn it is; see TakeTurn.
func (m *Match) Resolve(shooter string, c game.Coord) (Outcome, error) {
	return m.shoot(shooter, c, false)
}

// TakeTurn is Resolve guarded by a turn-ownership check made in the same
// critical section.
func (m *Match) TakeTurn(shooter string, c game.Coord) (Outcome, error) {
	return m.shoot(shooter, c, true)
}

func (m *Match) shoot(shooter string, c game.Coord, checkTurn bool) (Outcome, error) {
	i := m.index(shooter)
	if i < 0 {
		return 0, ErrNotParticipant
	}

	m.mu.Lock()
	if m.status.Terminal() {
		m.mu.Unlock()
		return 0, ErrMatchOver
	}
	if checkTurn && m.turn != i {
		m.mu.Unlock()
		return 0, ErrNotYourTurn
	}

	target := m.boards[1-i]
	var out Outcome
	switch target.Strike(c) {
	case game.StrikeOutside:
		out = OutOfBounds
	case game.StrikeRepeat:
		out = AlreadyTargeted
	case game.StrikeMiss:
		out = Miss
		m.turn = 1 - i
	case game.StrikeSunk:
		m.sunk[1-i]++
		out = Hit
	case game.StrikeHit:
		out = Hit
	}
	if out == Hit && target.Remaining() == 0 {
		out = Win
	}

	ended := false
	if out.Resolved() {
		m.status = Active
		if out == Win {
			m.finishLocked(Won, i)
			ended = true
		} else {
			m.armLocked()
		}
	}
	m.mu.Unlock()

	m.log.Debug().
		Str("player", shooter).
		Int("x", c.X).
		Int("y", c.Y).
		Stringer("outcome", out).
		Msg("shot")
	if ended {
		m.ended(shooter, m.players[1-i], Won)
	}
	return out, nil
}

// Forfeit ends the match in the opponent's favour, whoever's turn it is.
func (m *Match) Forfeit(player string) error {
	i := m.index(player)
	if i < 0 {
		return ErrNotParticipant
	}
	m.mu.Lock()
	if m.status.Terminal() {
		m.mu.Unlock()
		return ErrMatchOver
	}
	m.finishLocked(Forfeited, 1-i)
	m.mu.Unlock()

	m.ended(m.players[1-i], player, Forfeited)
	return nil
}

// Close stops the inactivity timer without ending the match.
func (m *Match) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
}

func (m *Match) armLocked() {
	m.stopTimerLocked()
	m.epoch++
	m.deadline = m.clock.Now().Add(m.timeout)
	if m.timeout <= 0 {
		return
	}
	epoch := m.epoch
	m.timer = m.clock.AfterFunc(m.timeout, func() { m.expire(epoch) })
}

func (m *Match) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// expire runs on the timer's goroutine. It only acts if nothing happened to
// the match since the timer was armed.
func (m *Match) expire(epoch uint64) {
	m.mu.Lock()
	if m.status.Terminal() || m.epoch != epoch {
		m.mu.Unlock()
		return
	}
	loser := m.turn
	m.finishLocked(TimedOut, 1-loser)
	m.mu.Unlock()

	m.ended(m.players[1-loser], m.players[loser], TimedOut)
}

func (m *Match) finishLocked(s Status, winner int) {
	m.status = s
	m.winner = winner
	m.deadline = time.Time{}
	m.epoch++
	m.stopTimerLocked()
}

func (m *Match) ended(winner, loser string, s Status) {
	m.log.Info().
		Str("winner", winner).
		Str("loser", loser).
		Stringer("status", s).
		Msg("match over")
	if m.onEnd != nil {
		m.onEnd(m)
	}
}
