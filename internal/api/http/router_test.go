package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/security"
)

type mockRentalService struct {
	mock.Mock
}

func (m *mockRentalService) RequestRental(ctx context.Context, renterID, carID int64, startDate, endDate string) (*domain.Rental, error) {
	args := m.Called(ctx, renterID, carID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *mockRentalService) ConfirmRental(ctx context.Context, rentalID int64) (*domain.Rental, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *mockRentalService) PickupRental(ctx context.Context, rentalID int64, notes string) (*domain.Rental, error) {
	args := m.Called(ctx, rentalID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *mockRentalService) ReturnRental(ctx context.Context, rentalID int64, notes string) (*domain.Rental, error) {
	args := m.Called(ctx, rentalID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *mockRentalService) CancelRental(ctx context.Context, rentalID, callerID int64, isAdmin bool) (*domain.Rental, error) {
	args := m.Called(ctx, rentalID, callerID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *mockRentalService) GetRental(ctx context.Context, rentalID int64) (*domain.Rental, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *mockRentalService) ListRentals(ctx context.Context, renterID int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, renterID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}

func (m *mockRentalService) ListCarRentals(ctx context.Context, carID int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, carID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}

type mockWaiverService struct {
	mock.Mock
}

func (m *mockWaiverService) WaiveFullPenalty(ctx context.Context, rentalID int64, reason string, adminID int64) (*domain.PenaltyWaiver, error) {
	args := m.Called(ctx, rentalID, reason, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyWaiver), args.Error(1)
}

func (m *mockWaiverService) WaivePartialPenalty(ctx context.Context, rentalID, amountCents int64, reason string, adminID int64) (*domain.PenaltyWaiver, error) {
	args := m.Called(ctx, rentalID, amountCents, reason, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyWaiver), args.Error(1)
}

func (m *mockWaiverService) GetPenaltyHistory(ctx context.Context, rentalID int64) ([]domain.PenaltyWaiver, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PenaltyWaiver), args.Error(1)
}

func testRouter(t *testing.T) (*mockRentalService, *mockWaiverService, http.Handler, security.TokenManager) {
	t.Helper()
	rentals := new(mockRentalService)
	waivers := new(mockWaiverService)
	tokens := security.NewTokenManager("test-secret")
	return rentals, waivers, NewRouter(rentals, waivers, tokens), tokens
}

func bearerFor(t *testing.T, tokens security.TokenManager, userID int64, roles ...string) string {
	t.Helper()
	token, err := tokens.GenerateAccessToken(userID, "", roles)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter_RequiresAuth(t *testing.T) {
	_, _, router, _ := testRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/rentals", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RequestRental(t *testing.T) {
	rentals, _, router, tokens := testRouter(t)

	rentals.On("RequestRental", mock.Anything, int64(5), int64(7), "2026-10-10", "2026-10-13").
		Return(&domain.Rental{ID: 42, Status: domain.RentalStatusRequested}, nil).Once()

	body := `{"car_id":7,"start_date":"2026-10-10","end_date":"2026-10-13"}`
	req := httptest.NewRequest("POST", "/api/v1/rentals", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(t, tokens, 5, security.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got domain.Rental
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(42), got.ID)
	rentals.AssertExpectations(t)
}

func TestRouter_ErrorKindsMapToStatus(t *testing.T) {
	rentals, _, router, tokens := testRouter(t)
	auth := bearerFor(t, tokens, 9, security.RoleAdmin)

	cases := []struct {
		err        error
		wantStatus int
	}{
		{domain.NewDateOverlap(7, mustDate("2026-10-10"), mustDate("2026-10-13")), http.StatusConflict},
		{domain.NewInvalidState(domain.RentalStatusInUse, domain.RentalStatusRequested), http.StatusConflict},
		{domain.NewPaymentFailed("authorize", "declined"), http.StatusPaymentRequired},
		{domain.NewNotFound("rental", 42), http.StatusNotFound},
		{domain.NewValidation("bad input"), http.StatusBadRequest},
	}
	for _, c := range cases {
		rentals.On("ConfirmRental", mock.Anything, int64(42)).Return(nil, c.err).Once()

		req := httptest.NewRequest("POST", "/api/v1/rentals/42/confirm", nil)
		req.Header.Set("Authorization", auth)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, c.wantStatus, rec.Code, "error %v", c.err)
	}
}

// Confirmation triggers payment authorization and reserves the car, so
// only administrators may drive it.
func TestRouter_ConfirmRequiresAdmin(t *testing.T) {
	rentals, _, router, tokens := testRouter(t)

	req := httptest.NewRequest("POST", "/api/v1/rentals/42/confirm", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 5, security.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	rentals.AssertNotCalled(t, "ConfirmRental", mock.Anything, mock.Anything)

	rentals.On("ConfirmRental", mock.Anything, int64(42)).
		Return(&domain.Rental{ID: 42, Status: domain.RentalStatusConfirmed}, nil).Once()

	req = httptest.NewRequest("POST", "/api/v1/rentals/42/confirm", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 9, security.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	rentals.AssertExpectations(t)
}

func TestRouter_WaiverEndpointsRequireAdmin(t *testing.T) {
	_, waivers, router, tokens := testRouter(t)

	body := `{"reason":"goodwill"}`
	req := httptest.NewRequest("POST", "/api/v1/rentals/42/waivers/full", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(t, tokens, 5, security.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	waivers.On("WaiveFullPenalty", mock.Anything, int64(42), "goodwill", int64(9)).
		Return(&domain.PenaltyWaiver{ID: 3, RentalID: 42}, nil).Once()

	req = httptest.NewRequest("POST", "/api/v1/rentals/42/waivers/full", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(t, tokens, 9, security.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	waivers.AssertExpectations(t)
}

func TestRouter_GetRentalHidesOthers(t *testing.T) {
	rentals, _, router, tokens := testRouter(t)

	rentals.On("GetRental", mock.Anything, int64(42)).
		Return(&domain.Rental{ID: 42, RenterID: 5}, nil).Twice()

	req := httptest.NewRequest("GET", "/api/v1/rentals/42", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 99, security.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Administrators can read any rental.
	req = httptest.NewRequest("GET", "/api/v1/rentals/42", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 99, security.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CarHistoryIsAdminOnly(t *testing.T) {
	rentals, _, router, tokens := testRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/cars/7/rentals", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 5, security.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rentals.On("ListCarRentals", mock.Anything, int64(7), int32(1), int32(20)).
		Return([]domain.Rental{{ID: 42, CarID: 7}}, int32(1), nil).Once()

	req = httptest.NewRequest("GET", "/api/v1/cars/7/rentals", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 9, security.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got listRentalsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Rentals, 1)
	assert.Equal(t, int64(7), got.Rentals[0].CarID)
	rentals.AssertExpectations(t)
}

func mustDate(s string) (t time.Time) {
	t, _ = time.Parse("2006-01-02", s)
	return t
}
