package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "clmm"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	PoolKeyPrefix     = []byte{0x01} // prefix for pool records
	TickKeyPrefix     = []byte{0x02} // prefix for tick records, ordered by index within a pool
	PositionKeyPrefix = []byte{0x03} // prefix for position records
)

// vaultKey is the first derivation key of every pool vault account.
var vaultKey = []byte("vault")

// GetPoolKey returns the store key for a pool
func GetPoolKey(id PoolID) []byte {
	return append(append([]byte{}, PoolKeyPrefix...), id[:]...)
}

// GetTickPrefix returns the prefix under which all ticks of a pool are stored
func GetTickPrefix(id PoolID) []byte {
	return append(append([]byte{}, TickKeyPrefix...), id[:]...)
}

// GetTickKey returns the store key for a tick. Keys of one pool sort in
// ascending tick order.
func GetTickKey(id PoolID, tick int32) []byte {
	return append(GetTickPrefix(id), EncodeTickIndex(tick)...)
}

// GetPositionPoolPrefix returns the prefix of all positions in a pool
func GetPositionPoolPrefix(id PoolID) []byte {
	return append(append([]byte{}, PositionKeyPrefix...), id[:]...)
}

// GetPositionOwnerPrefix returns the prefix of all positions of an owner in a pool
func GetPositionOwnerPrefix(id PoolID, owner sdk.AccAddress) []byte {
	return append(GetPositionPoolPrefix(id), address.MustLengthPrefix(owner)...)
}

// GetPositionKey returns the store key for the position (owner, pool, lower, upper)
func GetPositionKey(id PoolID, owner sdk.AccAddress, lower, upper int32) []byte {
	key := GetPositionOwnerPrefix(id, owner)
	key = append(key, EncodeTickIndex(lower)...)
	return append(key, EncodeTickIndex(upper)...)
}

// EncodeTickIndex encodes a tick index so that byte order matches numeric order.
func EncodeTickIndex(tick int32) []byte {
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, uint32(tick)^0x80000000)
	return bz
}

// DecodeTickIndex reverses EncodeTickIndex.
func DecodeTickIndex(bz []byte) int32 {
	return int32(binary.BigEndian.Uint32(bz) ^ 0x80000000)
}

// VaultDerivationKeys returns the derivation keys of the vault holding denom
// for a pool. The authority service recomputes the vault account from them.
func VaultDerivationKeys(id PoolID, denom string) [][]byte {
	return [][]byte{vaultKey, id[:], []byte(denom)}
}

// VaultAddress returns the ledger account holding a pool's reserves of denom.
func VaultAddress(id PoolID, denom string) sdk.AccAddress {
	return address.Module(ModuleName, VaultDerivationKeys(id, denom)...)
}
