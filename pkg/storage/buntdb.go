package storage

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/raykavin/pricewatch/pkg/core"
	"github.com/tidwall/buntdb"
)

const (
	targetIndex  = "target_index"
	targetPrefix = "target:"
	lastAskKey   = "ask:last"
)

// BuntStorage implements the core.TargetStore interface using BuntDB.
// Every operation runs in its own buntdb transaction, so readers always
// observe either the state before or after a mutation.
type BuntStorage struct {
	db *buntdb.DB
}

// FromMemory creates an in-memory storage
func FromMemory() (*BuntStorage, error) {
	return NewBuntStorage(":memory:")
}

// NewBuntStorage creates a new BuntDB storage instance
func NewBuntStorage(sourceFile string) (*BuntStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex(targetIndex, targetPrefix+"*", buntdb.IndexFloat)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &BuntStorage{
		db: db,
	}, nil
}

// targetKey maps a price to its key. The shortest round-trip representation
// is unique per float64 value, so key equality is exact numeric equality.
func targetKey(price float64) string {
	return targetPrefix + strconv.FormatFloat(price, 'g', -1, 64)
}

func validPrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return fmt.Errorf("%w: %v", core.ErrInvalidPrice, price)
	}
	return nil
}

// Add stores a new target
func (b *BuntStorage) Add(price float64) error {
	if err := validPrice(price); err != nil {
		return err
	}

	return b.db.Update(func(tx *buntdb.Tx) error {
		key := targetKey(price)

		_, err := tx.Get(key)
		if err == nil {
			return core.ErrTargetExists
		}
		if !errors.Is(err, buntdb.ErrNotFound) {
			return fmt.Errorf("failed to read target: %w", err)
		}

		_, _, err = tx.Set(key, strconv.FormatFloat(price, 'g', -1, 64), nil)
		if err != nil {
			return fmt.Errorf("failed to store target: %w", err)
		}

		return nil
	})
}

// Remove deletes an existing target
func (b *BuntStorage) Remove(price float64) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(targetKey(price))
		if errors.Is(err, buntdb.ErrNotFound) {
			return core.ErrTargetNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to delete target: %w", err)
		}

		return nil
	})
}

// Targets retrieves all targets in ascending order
func (b *BuntStorage) Targets() ([]float64, error) {
	var targets []float64

	err := b.db.View(func(tx *buntdb.Tx) error {
		var err error
		targets, err = ascend(tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return targets, nil
}

// TakeHits evaluates and removes hit targets while holding the write lock,
// so no command can interleave between the evaluation and the removal
func (b *BuntStorage) TakeHits(evaluate func(targets []float64) []float64) ([]float64, error) {
	var hits []float64

	err := b.db.Update(func(tx *buntdb.Tx) error {
		targets, err := ascend(tx)
		if err != nil {
			return err
		}

		hits = evaluate(targets)

		// buntdb refuses deletes while iterating, hence the second pass
		for _, hit := range hits {
			if _, err := tx.Delete(targetKey(hit)); err != nil && !errors.Is(err, buntdb.ErrNotFound) {
				return fmt.Errorf("failed to delete hit target: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return hits, nil
}

// SetLastAsk records the last parsed ask price
func (b *BuntStorage) SetLastAsk(price float64) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(lastAskKey, strconv.FormatFloat(price, 'g', -1, 64), nil)
		if err != nil {
			return fmt.Errorf("failed to store last ask: %w", err)
		}
		return nil
	})
}

// LastAsk returns the last parsed ask price
func (b *BuntStorage) LastAsk() (float64, error) {
	var price float64

	err := b.db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(lastAskKey)
		if errors.Is(err, buntdb.ErrNotFound) {
			return core.ErrPriceUnavailable
		}
		if err != nil {
			return fmt.Errorf("failed to read last ask: %w", err)
		}

		price, err = strconv.ParseFloat(value, 64)
		return err
	})
	if err != nil {
		return 0, err
	}

	return price, nil
}

// Close closes the database connection
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func ascend(tx *buntdb.Tx) ([]float64, error) {
	targets := make([]float64, 0)
	var parseErr error

	err := tx.Ascend(targetIndex, func(key, value string) bool {
		price, err := strconv.ParseFloat(value, 64)
		if err != nil {
			parseErr = fmt.Errorf("corrupt target %q: %w", key, err)
			return false
		}

		targets = append(targets, price)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over targets: %w", err)
	}

	return targets, parseErr
}
