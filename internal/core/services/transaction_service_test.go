package services_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/momo_backend/internal/apperrors"
	"github.com/SscSPs/momo_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/momo_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/SscSPs/momo_backend/internal/core/services"
	"github.com/SscSPs/momo_backend/internal/platform/events"
	"github.com/SscSPs/momo_backend/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var errDiskFull = errors.New("disk full")

// failingLedger wraps a real ledger store and fails chosen steps.
type failingLedger struct {
	portsrepo.LedgerRepositoryFacade
	failCredit         bool
	failInsertRecharge bool
}

func (f *failingLedger) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error) {
	if f.failCredit && delta.IsPositive() {
		return decimal.Zero, errDiskFull
	}
	return f.LedgerRepositoryFacade.AdjustBalance(ctx, userID, delta)
}

func (f *failingLedger) InsertRecharge(ctx context.Context, recharge domain.Recharge) error {
	if f.failInsertRecharge {
		return errDiskFull
	}
	return f.LedgerRepositoryFacade.InsertRecharge(ctx, recharge)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.TransactionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() {}

func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type TransactionServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	service portssvc.TransactionSvcFacade
}

func TestTransactionServiceSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.service = services.NewTransactionService(s.store, s.store, s.store,
		services.WithClock(steppingClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))))
}

func (s *TransactionServiceTestSuite) addUser(id, phone string) {
	s.Require().NoError(s.store.SaveUser(s.ctx, domain.User{
		UserID:      id,
		FirstName:   "First-" + id,
		LastName:    "Last-" + id,
		PhoneNumber: phone,
		Balance:     decimal.Zero,
	}))
}

func (s *TransactionServiceTestSuite) fund(id string, value string) {
	_, err := s.service.Recharge(s.ctx, id, amount(value), "Wave", nil)
	s.Require().NoError(err)
}

func (s *TransactionServiceTestSuite) balance(id string) decimal.Decimal {
	b, err := s.service.GetBalance(s.ctx, id)
	s.Require().NoError(err)
	return b
}

func (s *TransactionServiceTestSuite) TestRecharge_IncrementsBalance() {
	s.addUser("alice", "+221770000001")
	s.fund("alice", "20")

	ref := "WAVE-123"
	res, err := s.service.Recharge(s.ctx, "alice", amount("100.00"), "Wave", &ref)

	s.Require().NoError(err)
	s.Equal("120.00", res.NewBalance.StringFixed(2))
	s.Require().NotNil(res.Recharge)
	s.Nil(res.Transfer)
	s.Equal("Wave", res.Recharge.Provider)
	s.Equal(&ref, res.Recharge.ExternalRef)
	s.True(s.balance("alice").Equal(amount("120")))
}

func (s *TransactionServiceTestSuite) TestRecharge_RejectsInvalidInput() {
	s.addUser("alice", "+221770000001")

	for _, bad := range []string{"0", "-5", "10.001", "10000000000000", "100000000000000000000"} {
		_, err := s.service.Recharge(s.ctx, "alice", amount(bad), "Wave", nil)
		s.ErrorIs(err, apperrors.ErrValidation, bad)
	}
	_, err := s.service.Recharge(s.ctx, "alice", amount("5"), "  ", nil)
	s.ErrorIs(err, apperrors.ErrValidation)

	s.True(s.balance("alice").IsZero())
	recharges, _ := s.store.ListRechargesByUser(s.ctx, "alice")
	s.Empty(recharges)
}

func (s *TransactionServiceTestSuite) TestRecharge_BalanceAboveMaximumIsRejected() {
	s.addUser("alice", "+221770000001")
	s.fund("alice", "9999999999999.00")

	_, err := s.service.Recharge(s.ctx, "alice", amount("1.00"), "Wave", nil)

	s.ErrorIs(err, apperrors.ErrValidation)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(http.StatusUnprocessableEntity, appErr.Code)
	s.Equal("9999999999999.00", s.balance("alice").StringFixed(2))
	recharges, _ := s.store.ListRechargesByUser(s.ctx, "alice")
	s.Len(recharges, 1)
}

func (s *TransactionServiceTestSuite) TestRecharge_UnknownUser() {
	_, err := s.service.Recharge(s.ctx, "ghost", amount("5"), "Wave", nil)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransactionServiceTestSuite) TestRecharge_RollsBackOnStorageFailure() {
	s.addUser("alice", "+221770000001")
	ledger := &failingLedger{LedgerRepositoryFacade: s.store, failCredit: true}
	svc := services.NewTransactionService(ledger, s.store, s.store)

	_, err := svc.Recharge(s.ctx, "alice", amount("50"), "Wave", nil)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrPersistence)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal("recharge failed", appErr.Message)
	s.NotContains(appErr.Message, "disk full")

	s.True(s.balance("alice").IsZero())
	recharges, _ := s.store.ListRechargesByUser(s.ctx, "alice")
	s.Empty(recharges, "recharge record must be rolled back")
}

func (s *TransactionServiceTestSuite) TestTransfer_MovesMoney() {
	s.addUser("alice", "+221770000001")
	s.addUser("bob", "+221770000002")
	s.fund("alice", "100.00")
	s.fund("bob", "7")

	res, err := s.service.Transfer(s.ctx, "alice", "+221770000002", amount("50.00"))

	s.Require().NoError(err)
	s.Equal("50.00", res.NewBalance.StringFixed(2))
	s.True(s.balance("alice").Equal(amount("50")))
	s.True(s.balance("bob").Equal(amount("57")))

	sent, err := s.store.ListTransfersBySender(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(sent, 1)
	s.Equal("bob", sent[0].RecipientID)
	s.True(sent[0].Amount.Equal(amount("50")))
}

func (s *TransactionServiceTestSuite) TestTransfer_SelfTransferAlwaysFails() {
	s.addUser("alice", "+221770000001")

	// Zero balance: the self-transfer rule wins over the balance check.
	_, err := s.service.Transfer(s.ctx, "alice", "+221770000001", amount("10"))
	s.ErrorIs(err, apperrors.ErrSelfTransfer)
	s.True(apperrors.IsBusinessRule(err))

	s.fund("alice", "100")
	_, err = s.service.Transfer(s.ctx, "alice", "+221770000001", amount("10"))
	s.ErrorIs(err, apperrors.ErrSelfTransfer)
	s.True(s.balance("alice").Equal(amount("100")))
}

func (s *TransactionServiceTestSuite) TestTransfer_InsufficientBalanceChangesNothing() {
	s.addUser("alice", "+221770000001")
	s.addUser("bob", "+221770000002")
	s.fund("alice", "30")

	_, err := s.service.Transfer(s.ctx, "alice", "+221770000002", amount("30.01"))

	s.ErrorIs(err, apperrors.ErrInsufficientBalance)
	s.True(apperrors.IsBusinessRule(err))
	s.True(s.balance("alice").Equal(amount("30")))
	s.True(s.balance("bob").IsZero())
	sent, _ := s.store.ListTransfersBySender(s.ctx, "alice")
	s.Empty(sent)
}

func (s *TransactionServiceTestSuite) TestTransfer_UnknownRecipient() {
	s.addUser("alice", "+221770000001")
	s.fund("alice", "30")

	_, err := s.service.Transfer(s.ctx, "alice", "+221779999999", amount("5"))

	s.ErrorIs(err, apperrors.ErrNotFound)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal("recipient not found", appErr.Message)
}

func (s *TransactionServiceTestSuite) TestTransfer_InvalidAmount() {
	s.addUser("alice", "+221770000001")
	s.addUser("bob", "+221770000002")

	_, err := s.service.Transfer(s.ctx, "alice", "+221770000002", amount("0"))
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransactionServiceTestSuite) TestTransfer_FailureMidwayLeavesNoPartialState() {
	s.addUser("alice", "+221770000001")
	s.addUser("bob", "+221770000002")
	s.fund("alice", "100")

	ledger := &failingLedger{LedgerRepositoryFacade: s.store, failCredit: true}
	svc := services.NewTransactionService(ledger, s.store, s.store)

	_, err := svc.Transfer(s.ctx, "alice", "+221770000002", amount("40"))

	s.Require().Error(err)
	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal("transfer failed", appErr.Message)
	s.ErrorIs(err, errDiskFull)

	s.True(s.balance("alice").Equal(amount("100")), "sender debit must be rolled back")
	s.True(s.balance("bob").IsZero())
	sent, _ := s.store.ListTransfersBySender(s.ctx, "alice")
	s.Empty(sent, "transfer record must be rolled back")
}

func (s *TransactionServiceTestSuite) TestHistory_RechargeThenSent() {
	s.addUser("alice", "+221770000001")
	s.addUser("bob", "+221770000002")
	s.fund("alice", "100.00")
	_, err := s.service.Transfer(s.ctx, "alice", "+221770000002", amount("25"))
	s.Require().NoError(err)

	history, err := s.service.GetTransactionsHistory(s.ctx, "alice")

	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(domain.HistorySent, history[0].Type)
	s.Equal(domain.HistoryRecharge, history[1].Type)
	s.True(history[0].OccurredAt.After(history[1].OccurredAt))
	s.Require().NotNil(history[0].Counterparty)
	s.Equal("+221770000002", history[0].Counterparty.PhoneNumber)
	s.Equal("Wave", history[1].Provider)

	bobHistory, err := s.service.GetTransactionsHistory(s.ctx, "bob")
	s.Require().NoError(err)
	s.Require().Len(bobHistory, 1)
	s.Equal(domain.HistoryReceived, bobHistory[0].Type)
	s.Equal("+221770000001", bobHistory[0].Counterparty.PhoneNumber)
}

func (s *TransactionServiceTestSuite) TestHistory_EmptyIsNotNil() {
	s.addUser("alice", "+221770000001")

	history, err := s.service.GetTransactionsHistory(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotNil(history)
	s.Empty(history)

	_, err = s.service.GetTransactionsHistory(s.ctx, "ghost")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransactionServiceTestSuite) TestBalanceEqualsLedgerSum() {
	s.addUser("alice", "+221770000001")
	s.addUser("bob", "+221770000002")
	s.addUser("carol", "+221770000003")

	s.fund("alice", "100")
	s.fund("bob", "40.50")
	_, _ = s.service.Transfer(s.ctx, "alice", "+221770000002", amount("30"))
	_, _ = s.service.Transfer(s.ctx, "bob", "+221770000003", amount("50.25"))
	_, _ = s.service.Transfer(s.ctx, "carol", "+221770000001", amount("0.25"))
	_, _ = s.service.Transfer(s.ctx, "carol", "+221770000002", amount("1000")) // rejected
	s.fund("carol", "3")

	for _, id := range []string{"alice", "bob", "carol"} {
		recharges, _ := s.store.ListRechargesByUser(s.ctx, id)
		sent, _ := s.store.ListTransfersBySender(s.ctx, id)
		received, _ := s.store.ListTransfersByRecipient(s.ctx, id)

		want := decimal.Zero
		for _, r := range recharges {
			want = want.Add(r.Amount)
		}
		for _, t := range received {
			want = want.Add(t.Amount)
		}
		for _, t := range sent {
			want = want.Sub(t.Amount)
		}
		s.True(s.balance(id).Equal(want), "balance of %s", id)
	}
}

func (s *TransactionServiceTestSuite) TestPublishesEventsAfterCommit() {
	s.addUser("alice", "+221770000001")
	s.addUser("bob", "+221770000002")
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e events.TransactionEvent) bool {
		return e.Type == events.TypeRechargeCompleted && e.Amount == "10.00" && e.NewBalance == "10.00"
	})).Return(nil).Once()
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e events.TransactionEvent) bool {
		return e.Type == events.TypeTransferCompleted && e.RecipientID == "bob" && e.NewBalance == "6.00"
	})).Return(errors.New("broker down")).Once()

	svc := services.NewTransactionService(s.store, s.store, s.store, services.WithEventPublisher(pub))

	_, err := svc.Recharge(s.ctx, "alice", amount("10"), "Orange Money", nil)
	s.Require().NoError(err)
	_, err = svc.Transfer(s.ctx, "alice", "+221770000002", amount("4"))
	s.Require().NoError(err, "a failed publish must not fail a committed transfer")

	// Rejected mutations publish nothing.
	_, err = svc.Transfer(s.ctx, "alice", "+221770000002", amount("400"))
	s.Require().Error(err)

	pub.AssertExpectations(s.T())
}

func TestTransfer_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := services.NewTransactionService(store, store, store)
	require.NoError(t, store.SaveUser(ctx, domain.User{UserID: "alice", PhoneNumber: "1"}))
	require.NoError(t, store.SaveUser(ctx, domain.User{UserID: "bob", PhoneNumber: "2"}))
	_, err := svc.Recharge(ctx, "alice", amount("100"), "Wave", nil)
	require.NoError(t, err)

	const attempts = 40
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, "alice", "2", amount("10"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
	}

	aliceBalance, _ := svc.GetBalance(ctx, "alice")
	bobBalance, _ := svc.GetBalance(ctx, "bob")
	assert.Equal(t, 10, succeeded)
	assert.False(t, aliceBalance.IsNegative())
	assert.True(t, aliceBalance.IsZero())
	assert.True(t, bobBalance.Equal(amount("100")))
}

func TestTransfer_OpposingDirectionsDoNotDeadlock(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := services.NewTransactionService(store, store, store)
	require.NoError(t, store.SaveUser(ctx, domain.User{UserID: "alice", PhoneNumber: "1"}))
	require.NoError(t, store.SaveUser(ctx, domain.User{UserID: "bob", PhoneNumber: "2"}))
	_, err := svc.Recharge(ctx, "alice", amount("50"), "Wave", nil)
	require.NoError(t, err)
	_, err = svc.Recharge(ctx, "bob", amount("50"), "Wave", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Transfer(ctx, "alice", "2", amount("1"))
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Transfer(ctx, "bob", "1", amount("1"))
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("transfers did not finish")
	}

	a, _ := svc.GetBalance(ctx, "alice")
	b, _ := svc.GetBalance(ctx, "bob")
	assert.True(t, a.Add(b).Equal(amount("100")))
}
