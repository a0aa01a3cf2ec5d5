package types

import (
	"github.com/mr-tron/base58"
	"github.com/zeebo/blake3"
)

// PoolID identifies a pool. It is derived from the asset pair, so any caller
// can recompute it without a lookup.
type PoolID [32]byte

// NewPoolID returns the id of the pool trading assetA against assetB.
func NewPoolID(assetA, assetB string) PoolID {
	h := blake3.New()
	_, _ = h.Write([]byte(ModuleName + "/pool/"))
	_, _ = h.Write([]byte(assetA))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(assetB))

	var id PoolID
	copy(id[:], h.Sum(nil))
	return id
}

// ParsePoolID decodes the base58 form of a pool id.
func ParsePoolID(s string) (PoolID, error) {
	var id PoolID
	bz, err := base58.Decode(s)
	if err != nil {
		return id, ErrInvalidPoolID.Wrapf("%q: %s", s, err)
	}
	if len(bz) != len(id) {
		return id, ErrInvalidPoolID.Wrapf("%q decodes to %d bytes", s, len(bz))
	}
	copy(id[:], bz)
	return id, nil
}

func (id PoolID) String() string {
	return base58.Encode(id[:])
}

// IsZero reports whether the id is unset.
func (id PoolID) IsZero() bool {
	return id == PoolID{}
}

// MarshalText implements encoding.TextMarshaler.
func (id PoolID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *PoolID) UnmarshalText(text []byte) error {
	parsed, err := ParsePoolID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
