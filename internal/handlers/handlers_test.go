package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/momo_backend/internal/apperrors"
	"github.com/SscSPs/momo_backend/internal/core/domain"
	portssvc "github.com/SscSPs/momo_backend/internal/core/ports/services"
	"github.com/SscSPs/momo_backend/internal/dto"
	"github.com/SscSPs/momo_backend/internal/handlers"
	"github.com/SscSPs/momo_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testUserID  = "user-1"
	testTokenID = "tok-1"
	goodToken   = "good-token"
)

type HandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	users       *MockUserService
	tokens      *MockTokenService
	transaction *MockTransactionService
	cards       *MockCardService
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.users = new(MockUserService)
	s.tokens = new(MockTokenService)
	s.transaction = new(MockTransactionService)
	s.cards = new(MockCardService)

	s.tokens.On("ValidateToken", mock.Anything, goodToken).
		Return(&domain.AccessToken{TokenID: testTokenID, UserID: testUserID, ExpiresAt: time.Now().Add(time.Hour)}, nil).Maybe()
	s.tokens.On("ValidateToken", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrUnauthorized).Maybe()

	handlers.RegisterRoutes(s.router, &config.Config{IsProduction: true}, &portssvc.ServiceContainer{
		User:        s.users,
		Transaction: s.transaction,
		Token:       s.tokens,
		Card:        s.cards,
	}, handlers.RateLimiters{})
}

func (s *HandlerTestSuite) TearDownTest() {
	s.users.AssertExpectations(s.T())
	s.transaction.AssertExpectations(s.T())
	s.cards.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+goodToken)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func sampleUser() *domain.User {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.User{
		UserID:      testUserID,
		FirstName:   "Awa",
		LastName:    "Diop",
		PhoneNumber: "+221770000001",
		PinHash:     "$2a$10$secret",
		Balance:     decimal.RequireFromString("12.5"),
		AuditFields: domain.AuditFields{CreatedAt: created, LastUpdatedAt: created},
	}
}

func (s *HandlerTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", false)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestRegister_Success() {
	user := sampleUser()
	s.users.On("RegisterUser", mock.Anything, dto.RegisterRequest{
		FirstName: "Awa", LastName: "Diop", Phone: "+221770000001", Pin: "1234",
	}).Return(user, nil).Once()
	s.tokens.On("IssueToken", mock.Anything, user).Return("signed-jwt", time.Now().Add(time.Hour), nil).Once()

	w := s.do(http.MethodPost, "/api/v1/register",
		`{"first_name":"Awa","last_name":"Diop","phone":"+221770000001","pin":"1234"}`, false)

	s.Equal(http.StatusCreated, w.Code)
	var resp dto.AuthResponse
	s.decode(w, &resp)
	s.Equal("signed-jwt", resp.Token)
	s.Equal("12.50", resp.User.Balance)
	s.NotContains(w.Body.String(), "secret")
}

func (s *HandlerTestSuite) TestRegister_ValidationErrors() {
	w := s.do(http.MethodPost, "/api/v1/register", `{"first_name":"Awa","phone":"+221770000001","pin":"12a"}`, false)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	var resp handlers.ValidationErrorResponse
	s.decode(w, &resp)
	s.Contains(resp.Errors, "last_name")
	s.Contains(resp.Errors, "pin")
	s.NotContains(resp.Errors, "first_name")
}

func (s *HandlerTestSuite) TestRegister_MalformedBody() {
	w := s.do(http.MethodPost, "/api/v1/register", `{"first_name":`, false)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestRegister_PhoneTaken() {
	s.users.On("RegisterUser", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusConflict, "The phone has already been taken.", apperrors.ErrDuplicate)).Once()

	w := s.do(http.MethodPost, "/api/v1/register",
		`{"first_name":"Awa","last_name":"Diop","phone":"+221770000001","pin":"1234"}`, false)

	s.Equal(http.StatusConflict, w.Code)
	s.JSONEq(`{"message":"The phone has already been taken."}`, w.Body.String())
}

func (s *HandlerTestSuite) TestLogin_InvalidCredentials() {
	s.users.On("AuthenticateUser", mock.Anything, "+221770000001", "0000").
		Return(nil, apperrors.NewAppError(http.StatusUnauthorized, "Invalid phone number or PIN.", nil)).Once()

	w := s.do(http.MethodPost, "/api/v1/login", `{"phone":"+221770000001","pin":"0000"}`, false)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.JSONEq(`{"message":"Invalid phone number or PIN."}`, w.Body.String())
}

func (s *HandlerTestSuite) TestLogout_RevokesCurrentToken() {
	s.tokens.On("RevokeToken", mock.Anything, testTokenID).Return(nil).Once()

	w := s.do(http.MethodPost, "/api/v1/logout", "", true)

	s.Equal(http.StatusOK, w.Code)
	s.tokens.AssertCalled(s.T(), "RevokeToken", mock.Anything, testTokenID)
}

func (s *HandlerTestSuite) TestProtectedRoutes_RequireToken() {
	for _, path := range []string{"/api/v1/balance", "/api/v1/transactions", "/api/v1/card", "/api/v1/users"} {
		w := s.do(http.MethodGet, path, "", false)
		s.Equal(http.StatusUnauthorized, w.Code, path)
		s.JSONEq(`{"message":"Unauthenticated."}`, w.Body.String())
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/balance", nil)
	req.Header.Set("Authorization", "Bearer revoked-token")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestRecharge_Success() {
	ref := "WAVE-1"
	s.transaction.On("Recharge", mock.Anything, testUserID,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(100)) }),
		"Wave", &ref).
		Return(&domain.MutationResult{NewBalance: decimal.RequireFromString("112.5")}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/recharge", `{"amount":100,"provider":"Wave","transaction_id":"WAVE-1"}`, true)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"message":"Recharge successful","new_balance":"112.50"}`, w.Body.String())
}

func (s *HandlerTestSuite) TestRecharge_InvalidAmount() {
	for _, body := range []string{
		`{"amount":0,"provider":"Wave"}`,
		`{"amount":-3,"provider":"Wave"}`,
		`{"amount":"10.005","provider":"Wave"}`,
		`{"amount":"10000000000000","provider":"Wave"}`,
		`{"amount":100000000000000000000,"provider":"Wave"}`,
		`{"provider":"Wave"}`,
	} {
		w := s.do(http.MethodPost, "/api/v1/recharge", body, true)
		s.Equal(http.StatusUnprocessableEntity, w.Code, body)
		var resp handlers.ValidationErrorResponse
		s.decode(w, &resp)
		s.Contains(resp.Errors, "amount", body)
	}
	s.transaction.AssertNotCalled(s.T(), "Recharge", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestTransfer_Success() {
	s.transaction.On("Transfer", mock.Anything, testUserID, "+221770000002",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString("50.25")) })).
		Return(&domain.MutationResult{NewBalance: decimal.RequireFromString("49.75")}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/transfer", `{"amount":"50.25","recipient_phone":"+221770000002"}`, true)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"message":"Transfer successful","new_balance":"49.75"}`, w.Body.String())
}

func (s *HandlerTestSuite) TestTransfer_ErrorMapping() {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"insufficient balance", apperrors.ErrInsufficientBalance, http.StatusBadRequest, "insufficient balance"},
		{"self transfer", apperrors.ErrSelfTransfer, http.StatusBadRequest, "cannot transfer to own account"},
		{"unknown recipient", apperrors.NewAppError(http.StatusNotFound, "recipient not found", apperrors.ErrNotFound), http.StatusNotFound, "recipient not found"},
		{"storage failure", apperrors.Persistence("transfer failed", errors.New("pq: connection reset")), http.StatusInternalServerError, "transfer failed"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Something went wrong. Please try again later."},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.transaction.On("Transfer", mock.Anything, testUserID, "+221770000002", mock.Anything).Return(nil, tt.err).Once()

			w := s.do(http.MethodPost, "/api/v1/transfer", `{"amount":10,"recipient_phone":"+221770000002"}`, true)

			s.Equal(tt.code, w.Code)
			var resp dto.MessageResponse
			s.decode(w, &resp)
			s.Equal(tt.message, resp.Message)
			s.NotContains(w.Body.String(), "connection reset")
		})
	}
}

func (s *HandlerTestSuite) TestBalance() {
	s.transaction.On("GetBalance", mock.Anything, testUserID).Return(decimal.RequireFromString("7.1"), nil).Once()

	w := s.do(http.MethodGet, "/api/v1/balance", "", true)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"balance":"7.10"}`, w.Body.String())
}

func (s *HandlerTestSuite) TestTransactions_EmptyIsArray() {
	s.transaction.On("GetTransactionsHistory", mock.Anything, testUserID).Return([]domain.HistoryEntry{}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions", "", true)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"transactions":[]}`, w.Body.String())
}

func (s *HandlerTestSuite) TestTransactions_Entries() {
	at := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	s.transaction.On("GetTransactionsHistory", mock.Anything, testUserID).Return([]domain.HistoryEntry{
		{
			Type:         domain.HistorySent,
			Amount:       decimal.NewFromInt(25),
			Counterparty: &domain.Counterparty{FirstName: "Bob", LastName: "Fall", PhoneNumber: "+221770000002"},
			OccurredAt:   at,
		},
		{Type: domain.HistoryRecharge, Amount: decimal.NewFromInt(100), Provider: "Wave", OccurredAt: at.Add(-time.Hour)},
	}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/transactions", "", true)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"transactions":[
		{"type":"sent","amount":"25.00","to":{"first_name":"Bob","last_name":"Fall","phone_number":"+221770000002"},"date":"2024-06-01 14:30"},
		{"type":"recharge","amount":"100.00","provider":"Wave","date":"2024-06-01 13:30"}
	]}`, w.Body.String())
}

func (s *HandlerTestSuite) TestListUsers() {
	s.users.On("ListUsers", mock.Anything, 20, 0).Return([]domain.User{*sampleUser()}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/users", "", true)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.ListUsersResponse
	s.decode(w, &resp)
	s.Require().Len(resp.Users, 1)
	s.Equal("+221770000001", resp.Users[0].Phone)
}

func (s *HandlerTestSuite) TestListUsers_InvalidLimit() {
	w := s.do(http.MethodGet, "/api/v1/users?limit=0", "", true)
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *HandlerTestSuite) TestUpdateUser_Forbidden() {
	s.users.On("UpdateUser", mock.Anything, "user-2", mock.Anything, testUserID).
		Return(nil, apperrors.NewAppError(http.StatusForbidden, "You can only update your own account.", nil)).Once()

	w := s.do(http.MethodPut, "/api/v1/users/user-2", `{"first_name":"Mallory"}`, true)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerTestSuite) TestDeleteUser() {
	s.users.On("DeleteUser", mock.Anything, testUserID, testUserID).Return(nil).Once()

	w := s.do(http.MethodDelete, "/api/v1/users/"+testUserID, "", true)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"message":"User deleted successfully"}`, w.Body.String())
}

func (s *HandlerTestSuite) TestCard() {
	s.cards.On("GetCard", mock.Anything, testUserID).Return(&domain.VirtualCard{
		FirstName:   "Awa",
		LastName:    "Diop",
		PhoneNumber: "+221770000001",
		Balance:     decimal.NewFromInt(3),
		CardNumber:  "CARD-ABCDEF12-Z9Y8",
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/card", "", true)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"user":{"first_name":"Awa","last_name":"Diop","phone_number":"+221770000001","balance":"3.00","card_number":"CARD-ABCDEF12-Z9Y8","created_at":"2024-01-02"}}`, w.Body.String())
}
