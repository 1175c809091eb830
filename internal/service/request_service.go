package service

import (
	"context"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewRequestService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *RequestService {
	return &RequestService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, userID int64, description string) (*models.ItemRequest, error) {
	requestor, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequestorID: requestor.ID,
		Created:     s.now(),
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventRequestCreated, request)
	}
	return request, nil
}

func (s *RequestService) GetRequestByID(ctx context.Context, requestID, userID int64) (*models.ItemRequestDetail, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, request)
}

func (s *RequestService) ListOwnRequests(ctx context.Context, requestorID int64) ([]*models.ItemRequestDetail, error) {
	if _, err := s.repo.GetUser(ctx, requestorID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListRequestsByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	return s.buildDetails(ctx, requests)
}

// ListAllRequests отдаёт ленту чужих запросов, свои в неё не попадают.
func (s *RequestService) ListAllRequests(ctx context.Context, userID int64, from, size int) ([]*models.ItemRequestDetail, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListRequests(ctx, userID, pageFor(from, size))
	if err != nil {
		return nil, err
	}
	return s.buildDetails(ctx, requests)
}

func (s *RequestService) buildDetails(ctx context.Context, requests []*models.ItemRequest) ([]*models.ItemRequestDetail, error) {
	details := make([]*models.ItemRequestDetail, 0, len(requests))
	for _, request := range requests {
		detail, err := s.buildDetail(ctx, request)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *RequestService) buildDetail(ctx context.Context, request *models.ItemRequest) (*models.ItemRequestDetail, error) {
	items, err := s.repo.ListItemsByRequest(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	detail := &models.ItemRequestDetail{ItemRequest: *request, Items: make([]models.Item, 0, len(items))}
	for _, item := range items {
		detail.Items = append(detail.Items, *item)
	}
	return detail, nil
}
