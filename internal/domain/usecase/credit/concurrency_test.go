package credit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
	"github.com/zazzles-app/credit-ledger/internal/domain/port/payment"
	portuse "github.com/zazzles-app/credit-ledger/internal/domain/port/usecase"
	"github.com/zazzles-app/credit-ledger/internal/domain/usecase/topup"
	coremocks "github.com/zazzles-app/credit-ledger/mocks/port/core"
	metricsmocks "github.com/zazzles-app/credit-ledger/mocks/port/metrics"
	paymentmocks "github.com/zazzles-app/credit-ledger/mocks/port/payment"
)

func runConcurrentDeductions(t *testing.T, service *Service, businessID uuid.UUID, n int) (succeeded, refused int) {
	t.Helper()

	var mu sync.Mutex
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := service.Deduct(context.Background(), portuse.DeductRequest{BusinessID: businessID, Amount: 1})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errs.IsInsufficientCreditsError(err):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()
	return succeeded, refused
}

func TestConcurrentDeductionsNeverOverdraw(t *testing.T) {
	const credits = 10
	const requests = 50

	store := newMemoryStore()
	mockTime := coremocks.NewMockTimeProvider(t).FixedNow(time.Now())
	business, err := entity.NewBusiness(uuid.New(), "Busy Salon", mockTime)
	require.NoError(t, err)
	store.seed(business, credits)

	recorder := metricsmocks.NewMockRecorder(t).AllowAll()
	service := NewCreditService(store, nil, recorder, mockTime, coremocks.NewMockLogger(t).AllowAll(), 50)

	succeeded, refused := runConcurrentDeductions(t, service, business.ID, requests)

	assert.Equal(t, credits, succeeded)
	assert.Equal(t, requests-credits, refused)

	balance := store.balance(business.ID)
	assert.Zero(t, balance.CreditsRemaining)
	assert.Equal(t, credits, balance.CreditsUsed)

	usage := store.transactions(entity.TransactionUsage)
	require.Len(t, usage, credits)
	seen := map[int]bool{}
	for _, tx := range usage {
		assert.Equal(t, -1, tx.Amount)
		assert.False(t, seen[tx.BalanceAfter], "balance_after %d recorded twice", tx.BalanceAfter)
		seen[tx.BalanceAfter] = true
	}
}

func TestConcurrentDeductionsChargeAtMostOnce(t *testing.T) {
	const credits = 10
	const requests = 8

	store := newMemoryStore()
	mockTime := coremocks.NewMockTimeProvider(t).FixedNow(time.Now()).RealTimeouts()
	business, err := entity.NewBusiness(uuid.New(), "Card On File", mockTime)
	require.NoError(t, err)
	require.NoError(t, business.AttachPaymentMethod("cus_1", "pm_1", mockTime))
	require.NoError(t, business.ApplyAutoTopUpSettings(entity.AutoTopUpSettings{Enabled: true}, mockTime))
	store.seed(business, credits)

	gateway := paymentmocks.NewMockGateway(t)
	gateway.On("ChargeOffSession", mock.Anything, mock.MatchedBy(func(req payment.ChargeRequest) bool {
		return req.PackID == "pack_9" && req.AmountCents == 1000
	})).Return(&payment.ChargeResult{Status: payment.ChargeSucceeded, ChargeID: "pi_once"}, nil).Maybe()

	recorder := metricsmocks.NewMockRecorder(t).AllowAll()
	logger := coremocks.NewMockLogger(t).AllowAll()
	trigger := topup.NewTrigger(store, store, gateway, recorder, mockTime, logger, topup.DefaultConfig())
	service := NewCreditService(store, trigger, recorder, mockTime, logger, 50)

	succeeded, refused := runConcurrentDeductions(t, service, business.ID, requests)
	assert.Equal(t, requests, succeeded)
	assert.Zero(t, refused)

	charges := 0
	for _, call := range gateway.Calls {
		if call.Method == "ChargeOffSession" {
			charges++
		}
	}
	assert.LessOrEqual(t, charges, 1)

	purchases := store.transactions(entity.TransactionPurchase)
	logs := store.topUpLogs()
	assert.Len(t, purchases, charges)
	assert.Len(t, logs, charges)

	balance := store.balance(business.ID)
	assert.Equal(t, credits-requests+9*charges, balance.CreditsRemaining)
	assert.Equal(t, 9*charges, balance.CreditsPurchased)
}
