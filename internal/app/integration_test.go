package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/db"
)

// setupIntegration builds the full application against TEST_DB_DSN with empty tables.
func setupIntegration(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()

	_ = godotenv.Load("../../.env")
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn, 4)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))
	clearTables(t, pool)

	gin.SetMode(gin.TestMode)
	return NewContainer(Config{DBPool: pool, Logger: zerolog.Nop()}).Router, pool
}

func clearTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		"TRUNCATE TABLE public.comments, public.bookings, public.items, public.requests, public.users RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}

func executeRequest(r http.Handler, method, path string, body any, userID int64) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(auth.HeaderUserID, fmt.Sprint(userID))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeID(t *testing.T, w *httptest.ResponseRecorder) int64 {
	t.Helper()
	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func createUser(t *testing.T, r http.Handler, name, email string) int64 {
	t.Helper()
	w := executeRequest(r, http.MethodPost, "/users", map[string]any{"name": name, "email": email}, 0)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeID(t, w)
}

func TestIntegration_Users(t *testing.T) {
	r, _ := setupIntegration(t)

	id := createUser(t, r, "Alice", "alice@example.com")

	w := executeRequest(r, http.MethodPost, "/users", map[string]any{"name": "Other", "email": "ALICE@example.com"}, 0)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = executeRequest(r, http.MethodPatch, fmt.Sprintf("/users/%d", id), map[string]any{"name": "Alicia"}, 0)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Alicia"`)
	assert.Contains(t, w.Body.String(), `"email":"alice@example.com"`)

	w = executeRequest(r, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, 0)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = executeRequest(r, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, 0)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIntegration_BookingLifecycle(t *testing.T) {
	r, _ := setupIntegration(t)

	ownerA := createUser(t, r, "A", "a@example.com")
	userB := createUser(t, r, "B", "b@example.com")

	w := executeRequest(r, http.MethodPost, "/items",
		map[string]any{"name": "Drill", "description": "Cordless drill", "available": true}, ownerA)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	itemX := decodeID(t, w)

	now := time.Now().UTC()

	// Self-booking is refused.
	w = executeRequest(r, http.MethodPost, "/bookings", map[string]any{
		"itemId": itemX, "start": now.Add(24 * time.Hour), "end": now.Add(48 * time.Hour),
	}, ownerA)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = executeRequest(r, http.MethodPost, "/bookings", map[string]any{
		"itemId": itemX, "start": now.Add(24 * time.Hour), "end": now.Add(48 * time.Hour),
	}, userB)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"WAITING"`)
	future := decodeID(t, w)

	w = executeRequest(r, http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=true", future), nil, ownerA)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"APPROVED"`)

	w = executeRequest(r, http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=true", future), nil, userB)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A finished booking lets B comment.
	w = executeRequest(r, http.MethodPost, "/bookings", map[string]any{
		"itemId": itemX, "start": now.Add(-48 * time.Hour), "end": now.Add(-24 * time.Hour),
	}, userB)
	require.Equal(t, http.StatusCreated, w.Code)
	past := decodeID(t, w)

	w = executeRequest(r, http.MethodPost, fmt.Sprintf("/items/%d/comment", itemX), map[string]any{"text": "Worked well"}, ownerA)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = executeRequest(r, http.MethodPost, fmt.Sprintf("/items/%d/comment", itemX), map[string]any{"text": "Worked well"}, userB)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"authorName":"B"`)

	w = executeRequest(r, http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=true", past), nil, ownerA)
	require.Equal(t, http.StatusOK, w.Code)

	// Owner view carries both projections, B sees none.
	w = executeRequest(r, http.MethodGet, fmt.Sprintf("/items/%d", itemX), nil, ownerA)
	require.Equal(t, http.StatusOK, w.Code)
	var ownerView struct {
		LastBooking *struct{ ID int64 } `json:"lastBooking"`
		NextBooking *struct{ ID int64 } `json:"nextBooking"`
		Comments    []any               `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ownerView))
	require.NotNil(t, ownerView.LastBooking)
	require.NotNil(t, ownerView.NextBooking)
	assert.Equal(t, past, ownerView.LastBooking.ID)
	assert.Equal(t, future, ownerView.NextBooking.ID)
	assert.Len(t, ownerView.Comments, 1)

	w = executeRequest(r, http.MethodGet, fmt.Sprintf("/items/%d", itemX), nil, userB)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"lastBooking":null`)
	assert.Contains(t, w.Body.String(), `"nextBooking":null`)

	// Booker listing is newest start first and honours state filters.
	w = executeRequest(r, http.MethodGet, "/bookings?state=ALL", nil, userB)
	require.Equal(t, http.StatusOK, w.Code)
	var list []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, future, list[0].ID)
	assert.Equal(t, past, list[1].ID)

	w = executeRequest(r, http.MethodGet, "/bookings/owner?state=PAST", nil, ownerA)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, past, list[0].ID)

	w = executeRequest(r, http.MethodGet, "/bookings?state=UNSUPPORTED_STATUS", nil, userB)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Search finds the available item by description, ignoring case.
	w = executeRequest(r, http.MethodGet, "/items/search?text=CORDLESS", nil, userB)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, itemX, list[0].ID)
}

func TestIntegration_Requests(t *testing.T) {
	r, _ := setupIntegration(t)

	a := createUser(t, r, "A", "a@example.com")
	b := createUser(t, r, "B", "b@example.com")

	w := executeRequest(r, http.MethodPost, "/requests", map[string]any{"description": "Need a ladder"}, a)
	require.Equal(t, http.StatusCreated, w.Code)
	requestID := decodeID(t, w)

	w = executeRequest(r, http.MethodPost, "/items",
		map[string]any{"name": "Ladder", "description": "Tall", "available": true, "requestId": requestID}, b)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = executeRequest(r, http.MethodPost, "/items",
		map[string]any{"name": "Ladder", "description": "Tall", "available": true, "requestId": requestID + 100}, b)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = executeRequest(r, http.MethodGet, "/requests", nil, a)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Ladder"`)

	w = executeRequest(r, http.MethodGet, "/requests/all", nil, b)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"description":"Need a ladder"`)

	w = executeRequest(r, http.MethodGet, "/requests/all", nil, a)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = executeRequest(r, http.MethodGet, fmt.Sprintf("/requests/%d", requestID), nil, b)
	assert.Equal(t, http.StatusOK, w.Code)
}

type bookingView struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func listBookings(t *testing.T, r http.Handler, path string, userID int64) []int64 {
	t.Helper()
	w := executeRequest(r, http.MethodGet, path, nil, userID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var views []bookingView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	ids := make([]int64, len(views))
	for i, v := range views {
		ids[i] = v.ID
	}
	return ids
}

func createBooking(t *testing.T, r http.Handler, itemID, bookerID int64, start, end time.Time) int64 {
	t.Helper()
	w := executeRequest(r, http.MethodPost, "/bookings", map[string]any{"itemId": itemID, "start": start, "end": end}, bookerID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeID(t, w)
}

func decide(t *testing.T, r http.Handler, bookingID, ownerID int64, approved bool) {
	t.Helper()
	w := executeRequest(r, http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=%t", bookingID, approved), nil, ownerID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestIntegration_BookingStates(t *testing.T) {
	r, _ := setupIntegration(t)

	owner := createUser(t, r, "Owner", "owner@example.com")
	booker := createUser(t, r, "Booker", "booker@example.com")

	w := executeRequest(r, http.MethodPost, "/items",
		map[string]any{"name": "Tent", "description": "Two person tent", "available": true}, owner)
	require.Equal(t, http.StatusCreated, w.Code)
	itemID := decodeID(t, w)

	now := time.Now().UTC()
	past := createBooking(t, r, itemID, booker, now.Add(-72*time.Hour), now.Add(-48*time.Hour))
	current := createBooking(t, r, itemID, booker, now.Add(-time.Hour), now.Add(time.Hour))
	future := createBooking(t, r, itemID, booker, now.Add(24*time.Hour), now.Add(48*time.Hour))
	rejected := createBooking(t, r, itemID, booker, now.Add(72*time.Hour), now.Add(96*time.Hour))

	decide(t, r, past, owner, true)
	decide(t, r, current, owner, true)
	decide(t, r, rejected, owner, false)

	tests := []struct {
		state string
		want  []int64
	}{
		{"ALL", []int64{rejected, future, current, past}},
		{"CURRENT", []int64{current}},
		{"PAST", []int64{past}},
		{"FUTURE", []int64{rejected, future}},
		{"WAITING", []int64{future}},
		{"REJECTED", []int64{rejected}},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			assert.Equal(t, tt.want, listBookings(t, r, "/bookings?state="+tt.state, booker))
			assert.Equal(t, tt.want, listBookings(t, r, "/bookings/owner?state="+tt.state, owner))
		})
	}

	t.Run("paging follows start descending", func(t *testing.T) {
		assert.Equal(t, []int64{future, current}, listBookings(t, r, "/bookings?from=1&size=2", booker))
	})
}

func TestIntegration_BookingStartingNowIsNotCurrent(t *testing.T) {
	r, pool := setupIntegration(t)

	owner := createUser(t, r, "Owner", "owner@example.com")
	booker := createUser(t, r, "Booker", "booker@example.com")

	w := executeRequest(r, http.MethodPost, "/items",
		map[string]any{"name": "Kayak", "description": "Single seat", "available": true}, owner)
	require.Equal(t, http.StatusCreated, w.Code)
	itemID := decodeID(t, w)

	// Postgres keeps microseconds, so the stored start equals this instant exactly.
	at := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)
	id := createBooking(t, r, itemID, booker, at, at.Add(time.Hour))

	repo := booking.NewPgxRepository(pool)
	list := func(state booking.State) []*booking.Booking {
		bookings, err := repo.List(context.Background(), booking.Filter{BookerID: booker, Predicate: state.Predicate(at)})
		require.NoError(t, err)
		return bookings
	}

	assert.Empty(t, list(booking.StateCurrent))
	assert.Empty(t, list(booking.StateFuture))
	assert.Empty(t, list(booking.StatePast))

	all := list(booking.StateAll)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)
	assert.True(t, all[0].Start.Equal(at))

	later := at.Add(time.Minute)
	current, err := repo.List(context.Background(), booking.Filter{BookerID: booker, Predicate: booking.StateCurrent.Predicate(later)})
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, id, current[0].ID)
}
