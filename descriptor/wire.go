package descriptor

import (
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Canonical mode keeps encodings, and so content hashes, deterministic.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("descriptor: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalInterface serializes an Interface to CBOR bytes.
func MarshalInterface(iface *Interface) ([]byte, error) {
	return cborEncMode.Marshal(iface)
}

// UnmarshalInterface deserializes an Interface from CBOR bytes.
func UnmarshalInterface(data []byte) (*Interface, error) {
	var iface Interface
	if err := cbor.Unmarshal(data, &iface); err != nil {
		return nil, fmt.Errorf("descriptor: unmarshal interface: %w", err)
	}
	return &iface, nil
}

// ContentHash returns the sha256 of v's canonical CBOR encoding.
func ContentHash(v any) ([32]byte, error) {
	data, err := cborEncMode.Marshal(v)
	if err != nil {
		return [32]byte{}, fmt.Errorf("descriptor: hashing: %w", err)
	}
	return sha256.Sum256(data), nil
}
