package keeper

import (
	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// LockPoolForTest holds the in-flight guard of a pool, as a concurrent
// invocation would, until the returned release is called.
func LockPoolForTest(k *Keeper, id types.PoolID) (func(), error) {
	return k.lockPool(id)
}
