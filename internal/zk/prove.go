// Package zk proves single-cell facts about a committed board with Groth16.
package zk

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

const (
	VerifyingKeyFile = "cell.vk"
	ProvingKeyFile   = "cell.pk"
)

var (
	ErrBadWitness   = errors.New("bad witness")
	ErrRootMismatch = errors.New("proof root does not match commitment")
)

// CellPublic is what a verifier learns from a proof.
type CellPublic struct {
	Root     *big.Int `json:"root"`
	Index    int      `json:"index"`
	Occupied uint8    `json:"occupied"`
}

// Witness is the prover's private view of one cell.
type Witness struct {
	Bit   uint8
	Index int
	Path  []*big.Int
	Dir   []uint8
	Salt  *big.Int
	Root  *big.Int // salted commitment
}

var compile = sync.OnceValues(func() (constraint.ConstraintSystem, error) {
	var circuit CellCircuit
	return frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
})

// EnsureKeys makes sure dir holds a readable key pair, running setup if not.
func EnsureKeys(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	vkPath := filepath.Join(dir, VerifyingKeyFile)
	pkPath := filepath.Join(dir, ProvingKeyFile)
	if _, _, err := readKeys(vkPath, pkPath); err == nil {
		return nil
	}

	cs, err := compile()
	if err != nil {
		return fmt.Errorf("compile circuit: %w", err)
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	if err := writeKey(vkPath, vk); err != nil {
		return err
	}
	return writeKey(pkPath, pk)
}

// Prove produces a serialized proof for w.
func Prove(keysDir string, w Witness) ([]byte, CellPublic, error) {
	if len(w.Path) != MerkleDepth || len(w.Dir) != MerkleDepth {
		return nil, CellPublic{}, fmt.Errorf("%w: path length", ErrBadWitness)
	}
	if w.Salt == nil || w.Root == nil {
		return nil, CellPublic{}, fmt.Errorf("%w: missing salt or root", ErrBadWitness)
	}

	var assign CellCircuit
	assign.Bit = w.Bit
	for i := 0; i < MerkleDepth; i++ {
		assign.Path[i] = w.Path[i]
		assign.Dir[i] = w.Dir[i]
	}
	assign.Salt = w.Salt
	assign.Root = w.Root
	assign.Index = w.Index
	assign.Occupied = w.Bit

	cs, err := compile()
	if err != nil {
		return nil, CellPublic{}, err
	}
	pk := groth16.NewProvingKey(ecc.BN254)
	if err := readKey(filepath.Join(keysDir, ProvingKeyFile), pk); err != nil {
		return nil, CellPublic{}, err
	}
	full, err := frontend.NewWitness(&assign, ecc.BN254.ScalarField())
	if err != nil {
		return nil, CellPublic{}, err
	}
	proof, err := groth16.Prove(cs, pk, full)
	if err != nil {
		return nil, CellPublic{}, fmt.Errorf("prove: %w", err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, CellPublic{}, err
	}
	pub := CellPublic{Root: new(big.Int).Set(w.Root), Index: w.Index, Occupied: w.Bit}
	return buf.Bytes(), pub, nil
}

// Verify checks a proof against the commitment root the verifier trusts.
// A nil error with false is never returned: invalid proofs yield an error.
func Verify(vkPath string, proofBin []byte, pub CellPublic, root *big.Int) (bool, error) {
	if pub.Root == nil || pub.Root.Cmp(root) != 0 {
		return false, ErrRootMismatch
	}
	if pub.Occupied > 1 {
		return false, fmt.Errorf("%w: occupied must be 0 or 1", ErrBadWitness)
	}

	var assign CellCircuit
	assign.Root = root
	assign.Index = pub.Index
	assign.Occupied = pub.Occupied
	pubWit, err := frontend.NewWitness(&assign, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, err
	}

	vk := groth16.NewVerifyingKey(ecc.BN254)
	if err := readKey(vkPath, vk); err != nil {
		return false, err
	}
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBin)); err != nil {
		return false, err
	}
	if err := groth16.Verify(proof, vk, pubWit); err != nil {
		return false, err
	}
	return true, nil
}
