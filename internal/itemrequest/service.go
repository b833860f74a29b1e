package itemrequest

import (
	"context"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type Service interface {
	Create(ctx context.Context, userID int64, description string) (*ItemRequest, error)
	// ListOwn returns the user's requests, newest first.
	ListOwn(ctx context.Context, userID int64) ([]*ItemRequest, error)
	// ListOthers returns a page of other users' requests, newest first.
	ListOthers(ctx context.Context, userID int64, offset, limit int) ([]*ItemRequest, error)
	Get(ctx context.Context, userID, requestID int64) (*ItemRequest, error)
}

type service struct {
	repo        Repository
	userService user.Service
}

func NewService(repo Repository, userService user.Service) Service {
	return &service{repo: repo, userService: userService}
}

func (s *service) ensureUser(ctx context.Context, id int64) error {
	ok, err := s.userService.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return user.ErrNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, userID int64, description string) (*ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrDescriptionRequired
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	req := &ItemRequest{
		Description: description,
		RequesterID: userID,
		Items:       []ItemBrief{},
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, userID int64) ([]*ItemRequest, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

func (s *service) ListOthers(ctx context.Context, userID int64, offset, limit int) ([]*ItemRequest, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListOthers(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

func (s *service) Get(ctx context.Context, userID, requestID int64) (*ItemRequest, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := s.withItems(ctx, []*ItemRequest{req}); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) withItems(ctx context.Context, requests []*ItemRequest) ([]*ItemRequest, error) {
	if len(requests) == 0 {
		return requests, nil
	}

	ids := make([]int64, len(requests))
	for i, req := range requests {
		ids[i] = req.ID
	}

	items, err := s.repo.ListItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, req := range requests {
		req.Items = items[req.ID]
		if req.Items == nil {
			req.Items = []ItemBrief{}
		}
	}
	return requests, nil
}
