package credit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/persistence"
)

// memoryStore is an in-process credit store whose Deduct mirrors the
// conditional UPDATE used in production
type memoryStore struct {
	mu         sync.Mutex
	businesses map[uuid.UUID]*entity.Business
	balances   map[uuid.UUID]*entity.CreditBalance
	txs        []*entity.CreditTransaction
	logs       []*entity.AutoTopUpLog
	locks      map[uuid.UUID]time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		businesses: map[uuid.UUID]*entity.Business{},
		balances:   map[uuid.UUID]*entity.CreditBalance{},
		locks:      map[uuid.UUID]time.Time{},
	}
}

func (s *memoryStore) seed(business *entity.Business, credits int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businesses[business.ID] = business
	s.balances[business.ID] = &entity.CreditBalance{BusinessID: business.ID, CreditsRemaining: credits}
}

func (s *memoryStore) balance(id uuid.UUID) entity.CreditBalance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.balances[id]
}

func (s *memoryStore) transactions(txType entity.TransactionType) []*entity.CreditTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.CreditTransaction
	for _, tx := range s.txs {
		if tx.Type == txType {
			out = append(out, tx)
		}
	}
	return out
}

func (s *memoryStore) topUpLogs() []*entity.AutoTopUpLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.AutoTopUpLog(nil), s.logs...)
}

// UnitOfWork

func (s *memoryStore) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (s *memoryStore) Commit(ctx context.Context) error                   { return nil }
func (s *memoryStore) Rollback(ctx context.Context) error                 { return nil }

func (s *memoryStore) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func (s *memoryStore) GetBusinessRepository(ctx context.Context) persistence.BusinessRepository {
	return memoryBusinesses{s}
}

func (s *memoryStore) GetCreditRepository(ctx context.Context) persistence.CreditRepository {
	return memoryCredits{s}
}

func (s *memoryStore) GetCreditTransactionRepository(ctx context.Context) persistence.CreditTransactionRepository {
	return memoryLedger{s}
}

func (s *memoryStore) GetAutoTopUpLogRepository(ctx context.Context) persistence.AutoTopUpLogRepository {
	return memoryTopUpLogs{s}
}

// TopUpLockRepository

func (s *memoryStore) AcquireLock(ctx context.Context, id uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expires, held := s.locks[id]; held && time.Now().Before(expires) {
		return errs.ErrTopUpInProgress
	}
	s.locks[id] = time.Now().Add(ttl)
	return nil
}

func (s *memoryStore) ReleaseLock(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, id)
	return nil
}

func (s *memoryStore) CleanupExpiredLocks(ctx context.Context) (int64, error) {
	return 0, nil
}

type memoryBusinesses struct{ s *memoryStore }

func (r memoryBusinesses) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, errs.ErrBusinessNotFound
	}
	copied := *b
	return &copied, nil
}

func (r memoryBusinesses) Create(ctx context.Context, b *entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.businesses[b.ID] = b
	return nil
}

func (r memoryBusinesses) UpdateAutoTopUpSettings(ctx context.Context, b *entity.Business) error {
	return r.Create(ctx, b)
}

func (r memoryBusinesses) AttachPaymentMethod(ctx context.Context, b *entity.Business) error {
	return r.Create(ctx, b)
}

type memoryCredits struct{ s *memoryStore }

func (r memoryCredits) GetBalance(ctx context.Context, id uuid.UUID) (*entity.CreditBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.balances[id]
	if !ok {
		return nil, errs.ErrBusinessNotFound
	}
	copied := *b
	return &copied, nil
}

func (r memoryCredits) CreateBalance(ctx context.Context, b *entity.CreditBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.balances[b.BusinessID] = b
	return nil
}

func (r memoryCredits) Deduct(ctx context.Context, id uuid.UUID, amount int) (*entity.CreditBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.balances[id]
	if !ok {
		return nil, errs.ErrBusinessNotFound
	}
	if b.CreditsRemaining < amount {
		return nil, errs.ErrInsufficientCredits
	}
	b.CreditsRemaining -= amount
	b.CreditsUsed += amount
	copied := *b
	return &copied, nil
}

func (r memoryCredits) AddPurchased(ctx context.Context, id uuid.UUID, amount int) (*entity.CreditBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b := r.s.balances[id]
	b.CreditsRemaining += amount
	b.CreditsPurchased += amount
	copied := *b
	return &copied, nil
}

func (r memoryCredits) AddBonus(ctx context.Context, id uuid.UUID, amount int) (*entity.CreditBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b := r.s.balances[id]
	b.CreditsRemaining += amount
	copied := *b
	return &copied, nil
}

type memoryLedger struct{ s *memoryStore }

func (r memoryLedger) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if tx.IdempotencyKey != nil {
		for _, existing := range r.s.txs {
			if existing.IdempotencyKey != nil && *existing.IdempotencyKey == *tx.IdempotencyKey {
				return errs.ErrDuplicateTransaction
			}
		}
	}
	r.s.txs = append(r.s.txs, tx)
	return nil
}

func (r memoryLedger) ListByBusiness(ctx context.Context, id uuid.UUID, limit, offset int) ([]*entity.CreditTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CreditTransaction
	for _, tx := range r.s.txs {
		if tx.BusinessID == id {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memoryLedger) GetByIdempotencyKey(ctx context.Context, id uuid.UUID, key string) (*entity.CreditTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, tx := range r.s.txs {
		if tx.BusinessID == id && tx.IdempotencyKey != nil && *tx.IdempotencyKey == key {
			return tx, nil
		}
	}
	return nil, nil
}

type memoryTopUpLogs struct{ s *memoryStore }

func (r memoryTopUpLogs) Create(ctx context.Context, log *entity.AutoTopUpLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.logs = append(r.s.logs, log)
	return nil
}

func (r memoryTopUpLogs) ListByBusiness(ctx context.Context, id uuid.UUID, limit, offset int) ([]*entity.AutoTopUpLog, error) {
	return r.s.topUpLogs(), nil
}
