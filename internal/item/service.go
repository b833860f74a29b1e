package item

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// BookingReader exposes the booking data item views depend on.
type BookingReader interface {
	// ApprovedForItems returns the approved bookings of each item, keyed by item ID.
	ApprovedForItems(ctx context.Context, itemIDs []int64) (map[int64][]BookingBrief, error)
	// FinishedByBooker returns the bookings of itemID made by bookerID that ended before now.
	FinishedByBooker(ctx context.Context, bookerID, itemID int64, now time.Time) ([]BookingBrief, error)
}

// RequestChecker reports whether an item request exists.
type RequestChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// CreateItemRequest carries data to create an item.
type CreateItemRequest struct {
	Name        string
	Description string
	Available   *bool
	RequestID   *int64
}

// UpdateItemRequest carries data for partial updates.
type UpdateItemRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, ownerID int64, req CreateItemRequest) (*Item, error)
	Update(ctx context.Context, userID, itemID int64, req UpdateItemRequest) (*Item, error)
	// GetByID returns the stored item without comments or booking projections.
	GetByID(ctx context.Context, id int64) (*Item, error)
	// Get returns the item as seen by userID.
	Get(ctx context.Context, userID, itemID int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*Item, error)
	Search(ctx context.Context, text string, offset, limit int) ([]*Item, error)
	AddComment(ctx context.Context, userID, itemID int64, text string) (*Comment, error)
}

type service struct {
	repo     Repository
	users    user.Service
	bookings BookingReader
	requests RequestChecker
	now      func() time.Time
}

func NewService(repo Repository, users user.Service, bookings BookingReader, requests RequestChecker) Service {
	return &service{
		repo:     repo,
		users:    users,
		bookings: bookings,
		requests: requests,
		now:      time.Now,
	}
}

func (s *service) ensureUser(ctx context.Context, id int64) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return user.ErrNotFound
	}
	return nil
}

func (s *service) Create(ctx context.Context, ownerID int64, req CreateItemRequest) (*Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}

	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, fmt.Errorf("failed to check request: %w", err)
		}
		if !ok {
			return nil, ErrRequestNotFound
		}
	}

	it := &Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
		Comments:    []Comment{},
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Update applies a patch from the owner. Anyone else is told the item does not exist.
func (s *service) Update(ctx context.Context, userID, itemID int64, req UpdateItemRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it.OwnerID != userID {
		return nil, ErrNotFound
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		it.Name = *req.Name
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		it.Description = *req.Description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Get(ctx context.Context, userID, itemID int64) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	items := []*Item{it}
	if err := s.attachComments(ctx, items); err != nil {
		return nil, err
	}
	if it.OwnerID == userID {
		if err := s.attachBookings(ctx, items); err != nil {
			return nil, err
		}
	}
	return it, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*Item, error) {
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}
	if err := s.attachComments(ctx, items); err != nil {
		return nil, err
	}
	if err := s.attachBookings(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Search returns nothing for blank text.
func (s *service) Search(ctx context.Context, text string, offset, limit int) ([]*Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text, offset, limit)
}

func (s *service) AddComment(ctx context.Context, userID, itemID int64, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.now()
	finished, err := s.bookings.FinishedByBooker(ctx, userID, itemID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	if !CanComment(finished, now) {
		return nil, ErrCommentNotAllowed
	}

	cm := &Comment{
		Text:     text,
		ItemID:   itemID,
		AuthorID: userID,
	}
	if err := s.repo.CreateComment(ctx, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

func itemIDs(items []*Item) []int64 {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func (s *service) attachComments(ctx context.Context, items []*Item) error {
	if len(items) == 0 {
		return nil
	}
	comments, err := s.repo.ListComments(ctx, itemIDs(items))
	if err != nil {
		return err
	}
	for _, it := range items {
		it.Comments = comments[it.ID]
		if it.Comments == nil {
			it.Comments = []Comment{}
		}
	}
	return nil
}

func (s *service) attachBookings(ctx context.Context, items []*Item) error {
	if len(items) == 0 {
		return nil
	}
	approved, err := s.bookings.ApprovedForItems(ctx, itemIDs(items))
	if err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}
	now := s.now()
	for _, it := range items {
		it.LastBooking, it.NextBooking = ProjectBookings(approved[it.ID], now)
	}
	return nil
}
