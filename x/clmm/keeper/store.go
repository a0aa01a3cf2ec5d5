package keeper

import (
	"bytes"
	"encoding/json"
	"sort"

	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/paw-clmm/x/clmm/types"
)

// txn stages the writes of one operation over the committed store. Reads see
// staged writes. Nothing reaches the database until commit, so an operation
// that fails at any point leaves no trace.
type txn struct {
	db     dbm.DB
	writes map[string][]byte // nil marks a delete
}

func newTxn(db dbm.DB) *txn {
	return &txn{db: db, writes: make(map[string][]byte)}
}

func (t *txn) get(key []byte) ([]byte, error) {
	if v, ok := t.writes[string(key)]; ok {
		return v, nil
	}
	return t.db.Get(key)
}

func (t *txn) set(key, value []byte) {
	t.writes[string(key)] = value
}

func (t *txn) delete(key []byte) {
	t.writes[string(key)] = nil
}

// iterate visits live keys in [start, end), ascending or descending, until
// fn returns true.
func (t *txn) iterate(start, end []byte, reverse bool, fn func(key, value []byte) (bool, error)) error {
	staged := make([]string, 0)
	for k := range t.writes {
		if dbm.IsKeyInDomain([]byte(k), start, end) {
			staged = append(staged, k)
		}
	}
	sort.Strings(staged)
	if reverse {
		for i, j := 0, len(staged)-1; i < j; i, j = i+1, j-1 {
			staged[i], staged[j] = staged[j], staged[i]
		}
	}

	var (
		it  dbm.Iterator
		err error
	)
	if reverse {
		it, err = t.db.ReverseIterator(start, end)
	} else {
		it, err = t.db.Iterator(start, end)
	}
	if err != nil {
		return err
	}
	defer it.Close()

	i := 0
	for i < len(staged) || it.Valid() {
		var key, value []byte
		if i < len(staged) && (!it.Valid() || !after(staged[i], it.Key(), reverse)) {
			if it.Valid() && staged[i] == string(it.Key()) {
				it.Next()
			}
			key, value = []byte(staged[i]), t.writes[staged[i]]
			i++
			if value == nil {
				continue
			}
		} else {
			key = append([]byte(nil), it.Key()...)
			value = append([]byte(nil), it.Value()...)
			it.Next()
		}

		stop, err := fn(key, value)
		if err != nil || stop {
			return err
		}
	}
	return it.Error()
}

// after reports whether staged key a comes after db key b in iteration order.
func after(a string, b []byte, reverse bool) bool {
	c := bytes.Compare([]byte(a), b)
	if reverse {
		return c < 0
	}
	return c > 0
}

// commit writes every staged change in a single batch.
func (t *txn) commit() error {
	if len(t.writes) == 0 {
		return nil
	}
	batch := t.db.NewBatch()
	defer batch.Close()

	for k, v := range t.writes {
		var err error
		if v == nil {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Set([]byte(k), v)
		}
		if err != nil {
			return err
		}
	}
	return batch.WriteSync()
}

func (t *txn) getRecord(key []byte, v any) (bool, error) {
	bz, err := t.get(key)
	if err != nil || bz == nil {
		return false, err
	}
	return true, json.Unmarshal(bz, v)
}

func (t *txn) setRecord(key []byte, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return err
	}
	t.set(key, bz)
	return nil
}

func (t *txn) getPool(id types.PoolID) (types.Pool, error) {
	var pool types.Pool
	found, err := t.getRecord(types.GetPoolKey(id), &pool)
	if err != nil {
		return pool, err
	}
	if !found {
		return pool, types.ErrPoolNotFound.Wrapf("pool %s", id)
	}
	pool.Normalize()
	return pool, nil
}

func (t *txn) setPool(pool types.Pool) error {
	return t.setRecord(types.GetPoolKey(pool.Id), pool)
}

func (t *txn) getTick(id types.PoolID, index int32) (types.Tick, bool, error) {
	var tick types.Tick
	found, err := t.getRecord(types.GetTickKey(id, index), &tick)
	if err != nil || !found {
		return tick, false, err
	}
	tick.Normalize()
	return tick, true, nil
}

func (t *txn) setTick(tick types.Tick) error {
	return t.setRecord(types.GetTickKey(tick.PoolId, tick.Index), tick)
}

func (t *txn) deleteTick(id types.PoolID, index int32) {
	t.delete(types.GetTickKey(id, index))
}

func (t *txn) getPosition(id types.PoolID, owner sdk.AccAddress, lower, upper int32) (types.Position, bool, error) {
	var pos types.Position
	found, err := t.getRecord(types.GetPositionKey(id, owner, lower, upper), &pos)
	if err != nil || !found {
		return pos, false, err
	}
	pos.Normalize()
	return pos, true, nil
}

func (t *txn) setPosition(pos types.Position) error {
	return t.setRecord(types.GetPositionKey(pos.PoolId, pos.Owner, pos.TickLower, pos.TickUpper), pos)
}

func (t *txn) deletePosition(pos types.Position) {
	t.delete(types.GetPositionKey(pos.PoolId, pos.Owner, pos.TickLower, pos.TickUpper))
}

// prefixEnd returns the first key after every key starting with prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
