package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/sochitieu/internal/domain"
)

// Snapshot is the consistent view the ledger hands to observers: the ordered
// transaction list together with the statistics derived from exactly that
// list.
type Snapshot struct {
	Transactions []domain.Transaction
	Stats        domain.Stats
}

// LedgerUseCase owns the canonical transaction list. It mirrors the durable
// store in memory and recomputes the derived statistics synchronously after
// every successful mutation, so a read issued after a mutation completes
// always reflects it. The mirror is copy-on-write: mutations build a new
// slice, readers keep whatever snapshot they already hold.
//
// Construct one instance at process start and pass it to consumers; there is
// deliberately no package-level singleton.
type LedgerUseCase struct {
	repo TransactionRepository
	log  zerolog.Logger

	mu       sync.RWMutex
	snapshot []domain.Transaction
	stats    domain.Stats
	loading  bool

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(Snapshot)
}

// NewLedgerUseCase creates a LedgerUseCase. Call Load before reading.
func NewLedgerUseCase(repo TransactionRepository, log zerolog.Logger) *LedgerUseCase {
	return &LedgerUseCase{
		repo:  repo,
		log:   log.With().Str("component", "ledger").Logger(),
		stats: domain.ComputeStats(nil),
		subs:  make(map[int]func(Snapshot)),
	}
}

// Load hydrates the in-memory mirror from the durable store.
func (uc *LedgerUseCase) Load(ctx context.Context) error {
	uc.mu.Lock()
	uc.loading = true
	uc.mu.Unlock()

	transactions, err := uc.repo.FetchAll(ctx)

	uc.mu.Lock()
	uc.loading = false
	if err != nil {
		uc.mu.Unlock()
		return err
	}
	uc.replaceLocked(transactions)
	snap := uc.snapshotLocked()
	uc.mu.Unlock()

	uc.log.Debug().Int("count", len(transactions)).Msg("ledger loaded")
	uc.notify(snap)
	return nil
}

// Transactions returns the current ordered snapshot.
func (uc *LedgerUseCase) Transactions() []domain.Transaction {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	out := make([]domain.Transaction, len(uc.snapshot))
	copy(out, uc.snapshot)
	return out
}

// Stats returns the statistics derived from the current snapshot.
func (uc *LedgerUseCase) Stats() domain.Stats {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.stats
}

// Loading reports whether a hydration is in flight.
func (uc *LedgerUseCase) Loading() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.loading
}

// Subscribe registers fn to be called with a fresh Snapshot after every
// mutation. The returned function cancels the subscription.
func (uc *LedgerUseCase) Subscribe(fn func(Snapshot)) func() {
	uc.subMu.Lock()
	id := uc.nextSub
	uc.nextSub++
	uc.subs[id] = fn
	uc.subMu.Unlock()

	return func() {
		uc.subMu.Lock()
		delete(uc.subs, id)
		uc.subMu.Unlock()
	}
}

// Add validates and inserts a transaction, then refreshes the snapshot.
func (uc *LedgerUseCase) Add(ctx context.Context, input domain.TransactionInput) (domain.Transaction, error) {
	if err := input.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	created, err := uc.repo.Insert(ctx, input)
	if err != nil {
		return domain.Transaction{}, err
	}

	uc.mu.Lock()
	next := make([]domain.Transaction, 0, len(uc.snapshot)+1)
	next = append(next, uc.snapshot...)
	next = append(next, created)
	uc.replaceLocked(next)
	snap := uc.snapshotLocked()
	uc.mu.Unlock()

	uc.log.Info().Int64("id", created.ID).Str("type", string(created.Type)).Msg("transaction added")
	uc.notify(snap)
	return created, nil
}

// Update applies a partial update to the record with the given id. A missing
// id yields domain.ErrTransactionNotFound; callers treat it as a no-op
// outcome, distinguishable from persistence failures.
func (uc *LedgerUseCase) Update(ctx context.Context, id int64, patch domain.TransactionPatch) (domain.Transaction, error) {
	if err := patch.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	updated, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Transaction{}, err
	}

	uc.mu.Lock()
	next := make([]domain.Transaction, 0, len(uc.snapshot))
	for _, tx := range uc.snapshot {
		if tx.ID == id {
			next = append(next, updated)
		} else {
			next = append(next, tx)
		}
	}
	uc.replaceLocked(next)
	snap := uc.snapshotLocked()
	uc.mu.Unlock()

	uc.log.Info().Int64("id", id).Msg("transaction updated")
	uc.notify(snap)
	return updated, nil
}

// Remove deletes the record with the given id. Deleting a missing id is a
// harmless no-op.
func (uc *LedgerUseCase) Remove(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.mu.Lock()
	next := make([]domain.Transaction, 0, len(uc.snapshot))
	for _, tx := range uc.snapshot {
		if tx.ID != id {
			next = append(next, tx)
		}
	}
	uc.replaceLocked(next)
	snap := uc.snapshotLocked()
	uc.mu.Unlock()

	uc.log.Info().Int64("id", id).Msg("transaction removed")
	uc.notify(snap)
	return nil
}

// Clear wipes every record. Irreversible; callers gate this behind an
// explicit user confirmation.
func (uc *LedgerUseCase) Clear(ctx context.Context) error {
	if err := uc.repo.ClearAll(ctx); err != nil {
		return err
	}

	uc.mu.Lock()
	uc.replaceLocked(nil)
	snap := uc.snapshotLocked()
	uc.mu.Unlock()

	uc.log.Warn().Msg("ledger cleared")
	uc.notify(snap)
	return nil
}

// replaceLocked installs a new snapshot in canonical order and recomputes
// the derived statistics. Callers hold uc.mu.
func (uc *LedgerUseCase) replaceLocked(transactions []domain.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.After(transactions[j].Date)
		}
		return transactions[i].ID > transactions[j].ID
	})
	uc.snapshot = transactions
	uc.stats = domain.ComputeStats(transactions)
}

func (uc *LedgerUseCase) snapshotLocked() Snapshot {
	out := make([]domain.Transaction, len(uc.snapshot))
	copy(out, uc.snapshot)
	return Snapshot{Transactions: out, Stats: uc.stats}
}

func (uc *LedgerUseCase) notify(snap Snapshot) {
	uc.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(uc.subs))
	for _, fn := range uc.subs {
		fns = append(fns, fn)
	}
	uc.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
