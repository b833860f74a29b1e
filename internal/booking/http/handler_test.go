package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, req booking.CreateRequest) (*booking.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *mockService) Decide(ctx context.Context, userID, bookingID int64, approved bool) (*booking.Booking, error) {
	args := m.Called(ctx, userID, bookingID, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *mockService) Get(ctx context.Context, userID, bookingID int64) (*booking.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *mockService) ListByBooker(ctx context.Context, req booking.ListRequest) ([]*booking.Booking, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func (m *mockService) ListByOwner(ctx context.Context, req booking.ListRequest) ([]*booking.Booking, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

func setup(svc booking.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group(""), NewHandler(svc), auth.RequireUser())
	return r
}

func do(r http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(auth.HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var start = time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)

func sample(status booking.Status) *booking.Booking {
	return &booking.Booking{
		ID: 100, ItemID: 10, ItemName: "Drill", ItemDescription: "Cordless", ItemAvailable: true, OwnerID: 1,
		BookerID: 2, BookerName: "B", BookerEmail: "b@example.com",
		Start: start, End: start.Add(24 * time.Hour), Status: status,
	}
}

func TestHandler_Create(t *testing.T) {
	svc := new(mockService)
	svc.On("Create", mock.Anything, booking.CreateRequest{
		BookerID: 2, ItemID: 10, Start: start, End: start.Add(24 * time.Hour),
	}).Return(sample(booking.StatusWaiting), nil)

	w := do(setup(svc), http.MethodPost, "/bookings", "2",
		`{"itemId":10,"start":"2030-01-02T10:00:00Z","end":"2030-01-03T10:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{
		"id":100,"start":"2030-01-02T10:00:00Z","end":"2030-01-03T10:00:00Z","status":"WAITING",
		"item":{"id":10,"name":"Drill","description":"Cordless","available":true},
		"booker":{"id":2,"name":"B","email":"b@example.com"}
	}`, w.Body.String())
}

func TestHandler_CreateRejected(t *testing.T) {
	svc := new(mockService)
	svc.On("Create", mock.Anything, mock.Anything).Return(nil, booking.ErrOwnItem)

	w := do(setup(svc), http.MethodPost, "/bookings", "1",
		`{"itemId":10,"start":"2030-01-02T10:00:00Z","end":"2030-01-03T10:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation error","message":"cannot book own item"}`, w.Body.String())

	w = do(setup(svc), http.MethodPost, "/bookings", "1", `{"itemId":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Decide(t *testing.T) {
	svc := new(mockService)
	svc.On("Decide", mock.Anything, int64(1), int64(100), true).Return(sample(booking.StatusApproved), nil)
	svc.On("Decide", mock.Anything, int64(2), int64(100), false).Return(nil, booking.ErrPermissionDenied)
	r := setup(svc)

	w := do(r, http.MethodPatch, "/bookings/100?approved=true", "1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"APPROVED"`)

	w = do(r, http.MethodPatch, "/bookings/100?approved=false", "2", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"access denied"`)

	w = do(r, http.MethodPatch, "/bookings/100", "1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_List(t *testing.T) {
	svc := new(mockService)
	svc.On("ListByBooker", mock.Anything, booking.ListRequest{UserID: 2, State: booking.StateAll, Offset: 0, Limit: 10}).
		Return([]*booking.Booking{sample(booking.StatusWaiting)}, nil)
	svc.On("ListByOwner", mock.Anything, booking.ListRequest{UserID: 1, State: booking.StateFuture, Offset: 4, Limit: 2}).
		Return([]*booking.Booking{}, nil)
	r := setup(svc)

	w := do(r, http.MethodGet, "/bookings", "2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":100`)

	w = do(r, http.MethodGet, "/bookings/owner?state=FUTURE&from=4&size=2", "1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(r, http.MethodGet, "/bookings?state=UNSUPPORTED_STATUS", "2", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid argument","message":"Unknown state: UNSUPPORTED_STATUS"}`, w.Body.String())
}

func TestHandler_GetHiddenFromStrangers(t *testing.T) {
	svc := new(mockService)
	svc.On("Get", mock.Anything, int64(3), int64(100)).Return(nil, booking.ErrNotFound)

	w := do(setup(svc), http.MethodGet, "/bookings/100", "3", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
