package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/models"
)

type mockUserService struct{ mock.Mock }

func (m *mockUserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *mockUserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockItemService struct{ mock.Mock }

func (m *mockItemService) ListByOwner(ctx context.Context, ownerID int64, from, size int) ([]*models.ItemDetail, error) {
	args := m.Called(ctx, ownerID, from, size)
	return args.Get(0).([]*models.ItemDetail), args.Error(1)
}

func (m *mockItemService) GetByID(ctx context.Context, itemID, viewerID int64) (*models.ItemDetail, error) {
	args := m.Called(ctx, itemID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemDetail), args.Error(1)
}

func (m *mockItemService) CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	args := m.Called(ctx, ownerID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *mockItemService) UpdateItem(ctx context.Context, itemID, userID int64, patch models.ItemPatch) (*models.Item, error) {
	args := m.Called(ctx, itemID, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *mockItemService) DeleteItem(ctx context.Context, itemID, userID int64) error {
	return m.Called(ctx, itemID, userID).Error(0)
}

func (m *mockItemService) SearchItems(ctx context.Context, text string, from, size int) ([]*models.Item, error) {
	args := m.Called(ctx, text, from, size)
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *mockItemService) CreateComment(ctx context.Context, userID, itemID int64, text string) (*models.Comment, error) {
	args := m.Called(ctx, userID, itemID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

type mockBookingService struct{ mock.Mock }

func (m *mockBookingService) CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	args := m.Called(ctx, bookerID, itemID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingService) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error) {
	args := m.Called(ctx, ownerID, bookingID, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingService) ListByBooker(ctx context.Context, bookerID int64, state string, from, size int) ([]*models.Booking, error) {
	args := m.Called(ctx, bookerID, state, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *mockBookingService) ListByOwner(ctx context.Context, ownerID int64, state string, from, size int) ([]*models.Booking, error) {
	args := m.Called(ctx, ownerID, state, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *mockBookingService) ListForExport(ctx context.Context, ownerID int64) ([]*models.Booking, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

type mockRequestService struct{ mock.Mock }

func (m *mockRequestService) CreateRequest(ctx context.Context, userID int64, description string) (*models.ItemRequest, error) {
	args := m.Called(ctx, userID, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemRequest), args.Error(1)
}

func (m *mockRequestService) GetRequestByID(ctx context.Context, requestID, userID int64) (*models.ItemRequestDetail, error) {
	args := m.Called(ctx, requestID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemRequestDetail), args.Error(1)
}

func (m *mockRequestService) ListOwnRequests(ctx context.Context, requestorID int64) ([]*models.ItemRequestDetail, error) {
	args := m.Called(ctx, requestorID)
	return args.Get(0).([]*models.ItemRequestDetail), args.Error(1)
}

func (m *mockRequestService) ListAllRequests(ctx context.Context, userID int64, from, size int) ([]*models.ItemRequestDetail, error) {
	args := m.Called(ctx, userID, from, size)
	return args.Get(0).([]*models.ItemRequestDetail), args.Error(1)
}

type deniedLimiter struct{}

func (deniedLimiter) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return false, nil
}

type testEnv struct {
	server   *Server
	users    *mockUserService
	items    *mockItemService
	bookings *mockBookingService
	requests *mockRequestService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:    &mockUserService{},
		items:    &mockItemService{},
		bookings: &mockBookingService{},
		requests: &mockRequestService{},
	}
	logger := zerolog.New(io.Discard)
	env.server = NewServer(config.APIConfig{Port: 0}, Deps{
		Users:    env.users,
		Items:    env.items,
		Bookings: env.bookings,
		Requests: env.requests,
		Logger:   &logger,
	})
	return env
}

func (e *testEnv) do(method, path, userID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestCreateUser(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("CreateUser", mock.Anything, &models.User{Name: "Анна", Email: "anna@example.com"}).
			Return(&models.User{ID: 1, Name: "Анна", Email: "anna@example.com"}, nil)

		rec := env.do("POST", "/users", "", `{"name":"Анна","email":"anna@example.com"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":1`)
		env.users.AssertExpectations(t)
	})

	t.Run("invalid email", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do("POST", "/users", "", `{"name":"Анна","email":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("CreateUser", mock.Anything, mock.Anything).
			Return(nil, domain.Conflict(domain.ReasonDuplicateEmail, "email already in use"))

		rec := env.do("POST", "/users", "", `{"name":"Анна","email":"anna@example.com"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do("POST", "/users", "", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("GetUserByID", mock.Anything, int64(7)).
			Return(&models.User{ID: 7, Name: "Боб"}, nil)

		rec := env.do("GET", "/users/7", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing maps to 404", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("GetUserByID", mock.Anything, int64(99)).
			Return(nil, domain.NotFound(domain.ReasonMissing, "user not found"))

		rec := env.do("GET", "/users/99", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "user not found")
	})

	t.Run("non-numeric id", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do("GET", "/users/abc", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestItemHandlers(t *testing.T) {
	t.Run("create requires header", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do("POST", "/items", "", `{"name":"Дрель","description":"ударная","available":true}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "X-Sharer-User-Id")
	})

	t.Run("create requires available flag", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do("POST", "/items", "4", `{"name":"Дрель","description":"ударная"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("created", func(t *testing.T) {
		env := newTestEnv()
		env.items.On("CreateItem", mock.Anything, int64(4), mock.MatchedBy(func(item *models.Item) bool {
			return item.Name == "Дрель" && item.Available
		})).Return(&models.Item{ID: 10, Name: "Дрель", OwnerID: 4, Available: true}, nil)

		rec := env.do("POST", "/items", "4", `{"name":"Дрель","description":"ударная","available":true}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		env.items.AssertExpectations(t)
	})

	t.Run("edit by non-owner maps to 403", func(t *testing.T) {
		env := newTestEnv()
		env.items.On("UpdateItem", mock.Anything, int64(10), int64(5), mock.Anything).
			Return(nil, domain.Forbidden("only the owner can edit the item"))

		rec := env.do("PATCH", "/items/10", "5", `{"name":"чужая дрель"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete passes the actor through", func(t *testing.T) {
		env := newTestEnv()
		env.items.On("DeleteItem", mock.Anything, int64(10), int64(4)).Return(nil)

		rec := env.do("DELETE", "/items/10", "4", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		env.items.AssertExpectations(t)
	})

	t.Run("delete by non-owner maps to 403", func(t *testing.T) {
		env := newTestEnv()
		env.items.On("DeleteItem", mock.Anything, int64(10), int64(5)).
			Return(domain.Forbidden("only the owner can delete the item"))

		rec := env.do("DELETE", "/items/10", "5", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("search passes text and paging through", func(t *testing.T) {
		env := newTestEnv()
		env.items.On("SearchItems", mock.Anything, "дрель", 5, 10).
			Return([]*models.Item{}, nil)

		rec := env.do("GET", "/items/search?text=дрель&from=5&size=10", "4", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		env.items.AssertExpectations(t)
	})

	t.Run("comment requires text", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do("POST", "/items/10/comment", "4", `{"text":"   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("comment without booking maps to 400", func(t *testing.T) {
		env := newTestEnv()
		env.items.On("CreateComment", mock.Anything, int64(4), int64(10), "отлично").
			Return(nil, domain.InvalidRequest(domain.ReasonNoPastBooking, "user has not booked this item"))

		rec := env.do("POST", "/items/10/comment", "4", `{"text":"отлично"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookingHandlers(t *testing.T) {
	start := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	t.Run("created", func(t *testing.T) {
		env := newTestEnv()
		env.bookings.On("CreateBooking", mock.Anything, int64(2), int64(10), start, end).
			Return(&models.Booking{ID: 1, ItemID: 10, BookerID: 2, Status: models.StatusWaiting}, nil)

		body := `{"item_id":10,"start":"2026-09-10T12:00:00Z","end":"2026-09-12T12:00:00Z"}`
		rec := env.do("POST", "/bookings", "2", body)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"WAITING"`)
		env.bookings.AssertExpectations(t)
	})

	t.Run("missing dates", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do("POST", "/bookings", "2", `{"item_id":10}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("approve", func(t *testing.T) {
		env := newTestEnv()
		env.bookings.On("ApproveBooking", mock.Anything, int64(1), int64(5), true).
			Return(&models.Booking{ID: 5, Status: models.StatusApproved}, nil)

		rec := env.do("PATCH", "/bookings/5?approved=true", "1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"APPROVED"`)
	})

	t.Run("approve without parameter", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do("PATCH", "/bookings/5", "1", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("second decision maps to 400", func(t *testing.T) {
		env := newTestEnv()
		env.bookings.On("ApproveBooking", mock.Anything, int64(1), int64(5), false).
			Return(nil, domain.InvalidTransition("booking does not need a status change"))

		rec := env.do("PATCH", "/bookings/5?approved=false", "1", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unrelated viewer sees 404", func(t *testing.T) {
		env := newTestEnv()
		env.bookings.On("GetBooking", mock.Anything, int64(9), int64(5)).
			Return(nil, domain.NotFound(domain.ReasonUnrelatedUser, "user unrelated to this item"))

		rec := env.do("GET", "/bookings/5", "9", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list passes state through untouched", func(t *testing.T) {
		env := newTestEnv()
		env.bookings.On("ListByBooker", mock.Anything, int64(2), "past", 0, 20).
			Return([]*models.Booking{}, nil)

		rec := env.do("GET", "/bookings?state=past", "2", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		env.bookings.AssertExpectations(t)
	})

	t.Run("owner list", func(t *testing.T) {
		env := newTestEnv()
		env.bookings.On("ListByOwner", mock.Anything, int64(1), "", 0, 20).
			Return([]*models.Booking{{ID: 5}}, nil)

		rec := env.do("GET", "/bookings/owner", "1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("negative from", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do("GET", "/bookings?from=-1", "2", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero size", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do("GET", "/bookings?size=0", "2", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("export returns a workbook", func(t *testing.T) {
		env := newTestEnv()
		env.bookings.On("ListForExport", mock.Anything, int64(1)).
			Return([]*models.Booking{{ID: 5, ItemName: "Дрель", Status: models.StatusApproved, Start: start, End: end}}, nil)

		rec := env.do("GET", "/bookings/export", "1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
		assert.NotEmpty(t, rec.Body.Bytes())
	})
}

func TestRequestHandlers(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		env := newTestEnv()
		env.requests.On("CreateRequest", mock.Anything, int64(3), "нужна стремянка").
			Return(&models.ItemRequest{ID: 1, RequestorID: 3, Description: "нужна стремянка"}, nil)

		rec := env.do("POST", "/requests", "3", `{"description":"нужна стремянка"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("blank description", func(t *testing.T) {
		env := newTestEnv()
		rec := env.do("POST", "/requests", "3", `{"description":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("feed excludes the viewer via the service", func(t *testing.T) {
		env := newTestEnv()
		env.requests.On("ListAllRequests", mock.Anything, int64(3), 0, 20).
			Return([]*models.ItemRequestDetail{}, nil)

		rec := env.do("GET", "/requests/all", "3", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		env.requests.AssertExpectations(t)
	})

	t.Run("detail", func(t *testing.T) {
		env := newTestEnv()
		env.requests.On("GetRequestByID", mock.Anything, int64(8), int64(3)).
			Return(&models.ItemRequestDetail{ItemRequest: models.ItemRequest{ID: 8}}, nil)

		rec := env.do("GET", "/requests/8", "3", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRateLimiting(t *testing.T) {
	t.Run("per-user limiter rejects", func(t *testing.T) {
		logger := zerolog.New(io.Discard)
		users := &mockUserService{}
		server := NewServer(config.APIConfig{RateLimit: config.RateLimitConfig{UserRequests: 1, UserWindow: 60}}, Deps{
			Users:   users,
			Limiter: deniedLimiter{},
			Logger:  &logger,
		})

		req := httptest.NewRequest("GET", "/requests", nil)
		req.Header.Set(userIDHeader, "3")
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("global limiter rejects after burst", func(t *testing.T) {
		logger := zerolog.New(io.Discard)
		users := &mockUserService{}
		users.On("GetAllUsers", mock.Anything).Return([]*models.User{}, nil)

		server := NewServer(config.APIConfig{RateLimit: config.RateLimitConfig{RPS: 0.0001, Burst: 1}}, Deps{
			Users:  users,
			Logger: &logger,
		})

		first := httptest.NewRecorder()
		server.Handler().ServeHTTP(first, httptest.NewRequest("GET", "/users", nil))
		assert.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		server.Handler().ServeHTTP(second, httptest.NewRequest("GET", "/users", nil))
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
	})
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv()
	env.users.On("GetAllUsers", mock.Anything).Return([]*models.User{}, nil)

	rec := env.do("GET", "/users", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}
