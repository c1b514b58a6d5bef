// Package merkle commits to a board's ship layout with a MiMC Merkle tree over
// BN254, matching the hash used inside the proof circuit.
package merkle

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bnmimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

var ErrIndex = errors.New("leaf index out of range")

// feBytes encodes a field element as 32 big-endian bytes.
func feBytes(x *big.Int) []byte {
	b := x.Bytes()
	if len(b) == 32 {
		return b
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// HashLeaf hashes one occupancy bit.
func HashLeaf(bit uint8) *big.Int {
	h := bnmimc.NewMiMC()
	h.Write(feBytes(new(big.Int).SetUint64(uint64(bit))))
	return new(big.Int).SetBytes(h.Sum(nil))
}

func HashNode(left, right *big.Int) *big.Int {
	h := bnmimc.NewMiMC()
	h.Write(feBytes(left))
	h.Write(feBytes(right))
	return new(big.Int).SetBytes(h.Sum(nil))
}

// Tree is a fixed-size binary Merkle tree stored level by level:
// Levels[0] are the leaves, Levels[Depth] holds the root.
type Tree struct {
	Depth  int          `json:"depth"`
	Levels [][]*big.Int `json:"levels"`
}

// Build hashes bits into a tree of 2^depth leaves, padding with zero bits.
func Build(bits []uint8, depth int) (*Tree, error) {
	if depth < 0 || depth > 30 {
		return nil, errors.New("unsupported tree depth")
	}
	size := 1 << depth
	if len(bits) > size {
		return nil, errors.New("too many leaves")
	}

	zero := HashLeaf(0)
	leaves := make([]*big.Int, size)
	for i := range leaves {
		if i < len(bits) {
			leaves[i] = HashLeaf(bits[i])
		} else {
			leaves[i] = new(big.Int).Set(zero)
		}
	}

	levels := [][]*big.Int{leaves}
	for n := size; n > 1; n /= 2 {
		prev := levels[len(levels)-1]
		up := make([]*big.Int, n/2)
		for i := range up {
			up[i] = HashNode(prev[2*i], prev[2*i+1])
		}
		levels = append(levels, up)
	}
	return &Tree{Depth: depth, Levels: levels}, nil
}

func (t *Tree) Root() *big.Int { return new(big.Int).Set(t.Levels[t.Depth][0]) }

// Path returns sibling hashes and direction bits for leaf idx, bottom up.
// dir[i]=0 means the running node is the left child at level i.
func (t *Tree) Path(idx int) (path []*big.Int, dir []uint8, err error) {
	if idx < 0 || idx >= len(t.Levels[0]) {
		return nil, nil, ErrIndex
	}
	path = make([]*big.Int, 0, t.Depth)
	dir = make([]uint8, 0, t.Depth)
	cur := idx
	for level := 0; level < t.Depth; level++ {
		sib := cur ^ 1
		path = append(path, new(big.Int).Set(t.Levels[level][sib]))
		dir = append(dir, uint8(cur&1))
		cur /= 2
	}
	return path, dir, nil
}

// VerifyPath recomputes the root from a leaf bit and its path.
func VerifyPath(bit uint8, path []*big.Int, dir []uint8, root *big.Int) bool {
	if len(path) != len(dir) {
		return false
	}
	cur := HashLeaf(bit)
	for i, sib := range path {
		if dir[i] == 1 {
			cur = HashNode(sib, cur)
		} else {
			cur = HashNode(cur, sib)
		}
	}
	return cur.Cmp(root) == 0
}

// NewSalt draws a uniformly random BN254 scalar.
func NewSalt() (*big.Int, error) {
	return rand.Int(rand.Reader, ecc.BN254.ScalarField())
}

// Salted binds a tree root to a salt so equal layouts commit differently.
func Salted(salt, root *big.Int) *big.Int { return HashNode(salt, root) }
