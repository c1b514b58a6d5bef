package codec

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"battleship/internal/game"
	"battleship/internal/merkle"
	"battleship/internal/zk"
)

// Secret is everything the owner of a board needs to prove cells later.
type Secret struct {
	Board   game.Board   `json:"board"`
	Tree    *merkle.Tree `json:"tree"`
	SaltHex string       `json:"salt_hex"`
}

// CellProofPayload travels from the board owner to the verifier.
type CellProofPayload struct {
	Proof  []byte        `json:"proof"`
	Public zk.CellPublic `json:"public"`
}

// Commitment is the public half of a Secret.
type Commitment struct {
	Player  string `json:"player"`
	RootHex string `json:"root_hex"`
}

// Snapshot is one player's picture of a match.
type Snapshot struct {
	Match    string        `json:"match"`
	Player   string        `json:"player"`
	Opponent string        `json:"opponent"`
	Status   string        `json:"status"`
	Turn     string        `json:"turn"`
	Winner   string        `json:"winner,omitempty"`
	Own      [][]game.Cell `json:"own"`
	Target   [][]game.Cell `json:"target"`
}

var ErrHex = errors.New("malformed hex value")

func Hex(x *big.Int) string { return fmt.Sprintf("0x%x", x) }

// ParseHex reads a 0x-prefixed (or bare) hex field element.
func ParseHex(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, ErrHex
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrHex, s)
	}
	return n, nil
}

func (s Secret) Salt() (*big.Int, error) {
	if s.SaltHex == "" {
		return nil, fmt.Errorf("%w: missing salt", ErrHex)
	}
	return ParseHex(s.SaltHex)
}

// RootHex recomputes the salted commitment.
func (s Secret) RootHex() (string, error) {
	if s.Tree == nil {
		return "", errors.New("secret has no tree")
	}
	salt, err := s.Salt()
	if err != nil {
		return "", err
	}
	return Hex(merkle.Salted(salt, s.Tree.Root())), nil
}
