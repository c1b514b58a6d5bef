package app

import (
	"fmt"
	"math/big"

	"battleship/internal/codec"
	"battleship/internal/game"
	"battleship/internal/merkle"
	"battleship/internal/zk"
)

// Commit hashes a board's layout into a salted Merkle commitment.
func Commit(b *game.Board) (codec.Secret, string, error) {
	if b.Size*b.Size > zk.MaxCells {
		return codec.Secret{}, "", fmt.Errorf("board of %d cells exceeds the %d provable cells", b.Size*b.Size, zk.MaxCells)
	}
	t, err := merkle.Build(b.Occupancy(), zk.MerkleDepth)
	if err != nil {
		return codec.Secret{}, "", err
	}
	// The salt keeps identical layouts from producing identical roots.
	salt, err := merkle.NewSalt()
	if err != nil {
		return codec.Secret{}, "", err
	}
	sec := codec.Secret{
		Board:   *b.Clone(),
		Tree:    t,
		SaltHex: codec.Hex(salt),
	}
	rootHex := codec.Hex(merkle.Salted(salt, t.Root()))
	return sec, rootHex, nil
}

// Prove produces a proof that cell c of the committed board is or is not
// part of a ship.
func Prove(sec codec.Secret, keysDir string, c game.Coord) (codec.CellProofPayload, error) {
	if !sec.Board.InBounds(c) {
		return codec.CellProofPayload{}, fmt.Errorf("%w: %s", game.ErrBadCoord, c)
	}
	if sec.Tree == nil {
		return codec.CellProofPayload{}, fmt.Errorf("secret has no tree")
	}
	salt, err := sec.Salt()
	if err != nil {
		return codec.CellProofPayload{}, err
	}

	idx := c.Y*sec.Board.Size + c.X
	path, dir, err := sec.Tree.Path(idx)
	if err != nil {
		return codec.CellProofPayload{}, err
	}
	var bit uint8
	if sec.Board.At(c).Occupied() {
		bit = 1
	}

	if err := zk.EnsureKeys(keysDir); err != nil {
		return codec.CellProofPayload{}, err
	}
	proof, pub, err := zk.Prove(keysDir, zk.Witness{
		Bit:   bit,
		Index: idx,
		Path:  path,
		Dir:   dir,
		Salt:  salt,
		Root:  merkle.Salted(salt, sec.Tree.Root()),
	})
	if err != nil {
		return codec.CellProofPayload{}, err
	}
	return codec.CellProofPayload{Proof: proof, Public: pub}, nil
}

type VerifyResult struct {
	Valid    bool
	Coord    game.Coord
	Occupied bool
}

// VerifyWithRoot checks payload against the commitment root published at the
// start of the match. size is the board edge, used to decode the cell index.
func VerifyWithRoot(vkPath string, root *big.Int, size int, payload codec.CellProofPayload) (*VerifyResult, error) {
	if payload.Public.Root == nil || payload.Public.Root.Sign() == 0 {
		payload.Public.Root = new(big.Int).Set(root)
	}
	if size <= 0 || payload.Public.Index < 0 || payload.Public.Index >= size*size {
		return nil, fmt.Errorf("cell index %d is off a %dx%d board", payload.Public.Index, size, size)
	}
	ok, err := zk.Verify(vkPath, payload.Proof, payload.Public, root)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		Valid:    ok,
		Coord:    game.Coord{X: payload.Public.Index % size, Y: payload.Public.Index / size},
		Occupied: payload.Public.Occupied == 1,
	}, nil
}
