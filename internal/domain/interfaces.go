package domain

import (
	"context"
	"time"

	"shareit/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Page is a zero-based page of a fixed size.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int { return p.Number * p.Size }

type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error

	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	ListItemsByOwner(ctx context.Context, ownerID int64, page Page) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, page Page) ([]*models.Item, error)
	ListItemsByRequest(ctx context.Context, requestID int64) ([]*models.Item, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	ListBookingsByBooker(ctx context.Context, bookerID int64, page Page) ([]*models.Booking, error)
	ListBookingsByOwner(ctx context.Context, ownerID int64, page Page) ([]*models.Booking, error)
	ListAllBookingsByBooker(ctx context.Context, bookerID int64) ([]*models.Booking, error)
	LastBookingForItem(ctx context.Context, itemID, ownerID int64, now time.Time) (*models.Booking, error)
	NextBookingForItem(ctx context.Context, itemID, ownerID int64, now time.Time) (*models.Booking, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	ListCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)

	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	ListRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
	ListRequests(ctx context.Context, excludeUserID int64, page Page) ([]*models.ItemRequest, error)

	CreateSyncTask(ctx context.Context, task *models.SyncTask) error
	GetPendingSyncTasks(ctx context.Context, limit int) ([]models.SyncTask, error)
	UpdateSyncTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type SheetsWriter interface {
	ReplaceBookingsSheet(ctx context.Context, bookings []*models.Booking) error
	AppendBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, bookingID int64, status string) error
}

type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType string, bookingID int64, booking *models.Booking, status string) error
}

// RateLimiter tracks per-user request counts within a sliding window.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type UserService interface {
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemService interface {
	ListByOwner(ctx context.Context, ownerID int64, from, size int) ([]*models.ItemDetail, error)
	GetByID(ctx context.Context, itemID, viewerID int64) (*models.ItemDetail, error)
	CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, itemID, userID int64, patch models.ItemPatch) (*models.Item, error)
	DeleteItem(ctx context.Context, itemID, userID int64) error
	SearchItems(ctx context.Context, text string, from, size int) ([]*models.Item, error)
	CreateComment(ctx context.Context, userID, itemID int64, text string) (*models.Comment, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error)
	ListByBooker(ctx context.Context, bookerID int64, state string, from, size int) ([]*models.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state string, from, size int) ([]*models.Booking, error)
	ListForExport(ctx context.Context, ownerID int64) ([]*models.Booking, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, userID int64, description string) (*models.ItemRequest, error)
	GetRequestByID(ctx context.Context, requestID, userID int64) (*models.ItemRequestDetail, error)
	ListOwnRequests(ctx context.Context, requestorID int64) ([]*models.ItemRequestDetail, error)
	ListAllRequests(ctx context.Context, userID int64, from, size int) ([]*models.ItemRequestDetail, error)
}
