package zk

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// MerkleDepth fixes the circuit to 128 leaves, enough for a 10x10 board.
const MerkleDepth = 7

// MaxCells is the largest board (in cells) a proof can cover.
const MaxCells = 1 << MerkleDepth

// CellCircuit proves that cell Index of a committed board is (or is not)
// occupied, without revealing the rest of the layout.
type CellCircuit struct {
	Bit  frontend.Variable              `gnark:",secret"`
	Path [MerkleDepth]frontend.Variable `gnark:",secret"`
	Dir  [MerkleDepth]frontend.Variable `gnark:",secret"`
	Salt frontend.Variable              `gnark:",secret"`

	Root     frontend.Variable `gnark:",public"`
	Index    frontend.Variable `gnark:",public"`
	Occupied frontend.Variable `gnark:",public"`
}

func (c *CellCircuit) Define(api frontend.API) error {
	api.AssertIsBoolean(c.Bit)
	api.AssertIsEqual(c.Occupied, c.Bit)

	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(c.Bit)
	curr := h.Sum()

	idx := frontend.Variable(0)
	for i := 0; i < MerkleDepth; i++ {
		api.AssertIsBoolean(c.Dir[i])
		idx = api.Add(idx, api.Mul(c.Dir[i], 1<<i))

		left := api.Select(c.Dir[i], c.Path[i], curr)
		right := api.Select(c.Dir[i], curr, c.Path[i])
		h.Reset()
		h.Write(left, right)
		curr = h.Sum()
	}
	api.AssertIsEqual(idx, c.Index)

	h.Reset()
	h.Write(c.Salt, curr)
	api.AssertIsEqual(h.Sum(), c.Root)
	return nil
}
