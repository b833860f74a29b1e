package booking

import (
	"context"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	BookerID int64
	ItemID   int64
	Start    time.Time
	End      time.Time
}

// ListRequest selects one page of a user's bookings.
type ListRequest struct {
	UserID int64
	State  State
	Offset int
	Limit  int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	// Decide approves or rejects a booking on behalf of the item owner.
	Decide(ctx context.Context, userID, bookingID int64, approved bool) (*Booking, error)
	// Get returns the booking to its booker or the item owner. Anyone else gets ErrNotFound.
	Get(ctx context.Context, userID, bookingID int64) (*Booking, error)
	ListByBooker(ctx context.Context, req ListRequest) ([]*Booking, error)
	ListByOwner(ctx context.Context, req ListRequest) ([]*Booking, error)
}

type service struct {
	repo        Repository
	userService user.Service
	itemService item.Service
	now         func() time.Time
}

func NewService(repo Repository, userService user.Service, itemService item.Service) Service {
	return &service{
		repo:        repo,
		userService: userService,
		itemService: itemService,
		now:         time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// 1. Resolve booker and item
	booker, err := s.userService.GetByID(ctx, req.BookerID)
	if err != nil {
		return nil, err
	}
	it, err := s.itemService.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	// 2. Validate
	if err := ValidateNew(booker.ID, it, req.Start, req.End); err != nil {
		return nil, err
	}

	// 3. Persist
	b := &Booking{
		ItemID:          it.ID,
		ItemName:        it.Name,
		ItemDescription: it.Description,
		ItemAvailable:   it.Available,
		OwnerID:         it.OwnerID,
		BookerID:        booker.ID,
		BookerName:      booker.Name,
		BookerEmail:     booker.Email,
		Start:           req.Start,
		End:             req.End,
		Status:          StatusWaiting,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	metrics.IncBooking(metrics.BookingCreated)
	return b, nil
}

func (s *service) Decide(ctx context.Context, userID, bookingID int64, approved bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != userID {
		return nil, ErrPermissionDenied
	}
	if err := b.Decide(approved); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, b.ID, b.Status); err != nil {
		return nil, err
	}

	if approved {
		metrics.IncBooking(metrics.BookingApproved)
	} else {
		metrics.IncBooking(metrics.BookingRejected)
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, userID, bookingID int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.BookerID != userID && b.OwnerID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, req ListRequest) ([]*Booking, error) {
	return s.list(ctx, req, Filter{BookerID: req.UserID})
}

func (s *service) ListByOwner(ctx context.Context, req ListRequest) ([]*Booking, error) {
	return s.list(ctx, req, Filter{OwnerID: req.UserID})
}

func (s *service) list(ctx context.Context, req ListRequest, filter Filter) ([]*Booking, error) {
	ok, err := s.userService.Exists(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, user.ErrNotFound
	}

	filter.Predicate = req.State.Predicate(s.now())
	filter.Offset = req.Offset
	filter.Limit = req.Limit
	return s.repo.List(ctx, filter)
}
