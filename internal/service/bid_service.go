package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bidkart/internal/model"
	"bidkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// bidService implements BidService. Every mutation is a read-modify-write
// on the whole BidRequest record, serialised per id by the repository, so
// concurrent seller submissions and buyer actions against the same request
// cannot clobber each other.
type bidService struct {
	bidRepo     repository.BidRepository
	productRepo repository.ProductRepository
	cart        CartService
	logger      zerolog.Logger
	now         func() time.Time
}

// NewBidService creates the bid negotiation engine. The cart service
// consumes accepted-bid events; it is the engine's only outward write.
func NewBidService(
	bidRepo repository.BidRepository,
	productRepo repository.ProductRepository,
	cart CartService,
	logger zerolog.Logger,
) BidService {
	return &bidService{
		bidRepo:     bidRepo,
		productRepo: productRepo,
		cart:        cart,
		logger:      logger.With().Str("service", "bid").Logger(),
		now:         time.Now,
	}
}

// CreateBidRequest opens a new reverse auction with a snapshot of the
// product's current name and price.
func (s *bidService) CreateBidRequest(ctx context.Context, userID string, req *model.CreateBidRequest) (*model.BidRequest, error) {
	if req == nil || req.Duration <= 0 {
		return nil, model.ErrInvalidDuration
	}
	if req.TargetPrice < 0 {
		return nil, model.ErrInvalidPrice
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	now := s.now()
	bid := &model.BidRequest{
		ID:            newPrefixedID("BID", now),
		UserID:        userID,
		ProductID:     product.ID,
		ProductName:   product.Name,
		ProductPrice:  product.Price,
		TargetPrice:   req.TargetPrice,
		Requirements:  req.Requirements,
		DurationHours: req.Duration,
		Status:        model.BidRequestActive,
		Bids:          []model.SellerBid{},
		CreatedAt:     now,
		ExpiresAt:     now.Add(time.Duration(req.Duration) * time.Hour),
		UpdatedAt:     now,
	}

	if err := s.bidRepo.Create(ctx, bid); err != nil {
		return nil, fmt.Errorf("failed to create bid request: %w", err)
	}

	s.logger.Info().
		Str("bid_id", bid.ID).
		Str("user_id", userID).
		Str("product_id", product.ID).
		Int("duration_hours", req.Duration).
		Msg("bid request created")

	return bid, nil
}

// GetUserBidRequests returns the buyer's requests, lazily expiring any
// whose deadline has passed.
func (s *bidService) GetUserBidRequests(ctx context.Context, userID string) ([]model.BidRequest, error) {
	bids, err := s.bidRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bid requests: %w", err)
	}

	for i := range bids {
		fresh, err := s.freshen(ctx, &bids[i])
		if err != nil {
			return nil, err
		}
		bids[i] = *fresh
	}
	return bids, nil
}

// GetBidRequest returns one of the buyer's requests, lazily expired.
func (s *bidService) GetBidRequest(ctx context.Context, userID, bidID string) (*model.BidRequest, error) {
	bid, err := s.bidRepo.Get(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bid request: %w", err)
	}
	if bid == nil || bid.UserID != userID {
		return nil, model.ErrBidNotFound
	}
	return s.freshen(ctx, bid)
}

// SubmitSellerBid appends a new pending seller bid. Expiry is enforced at
// write time: a request past its deadline rejects the submission even if
// the sweeper has not flipped it yet.
func (s *bidService) SubmitSellerBid(ctx context.Context, bidID string, req *model.SubmitSellerBidRequest) (*model.BidRequest, error) {
	if req == nil || req.Price <= 0 {
		return nil, model.ErrInvalidPrice
	}

	now := s.now()
	updated, err := s.bidRepo.Mutate(ctx, bidID, func(b *model.BidRequest) error {
		s.expireLocked(b, now)
		if b.Status == model.BidRequestExpired {
			return model.ErrBidExpired
		}
		if b.Status != model.BidRequestActive {
			return model.ErrBidNotActive
		}

		b.Bids = append(b.Bids, model.SellerBid{
			ID:           uuid.New().String(),
			SellerID:     req.SellerID,
			SellerName:   req.SellerName,
			Price:        req.Price,
			DeliveryTime: req.DeliveryTime,
			Message:      req.Message,
			Freebies:     req.Freebies,
			Accessories:  req.Accessories,
			Benefits:     req.Benefits,
			Status:       model.SellerBidPending,
			UpdateCount:  0,
			Timestamp:    now,
		})
		b.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("bid_id", bidID).
		Str("seller_id", req.SellerID).
		Int64("price", req.Price).
		Int("bid_count", len(updated.Bids)).
		Msg("seller bid submitted")

	return updated, nil
}

// ReviseSellerBid lets a seller change the price of their own pending bid.
// A countered bid cannot be revised directly: that would clobber the
// buyer's counter. Sellers answer counters through RespondToCounter.
func (s *bidService) ReviseSellerBid(ctx context.Context, bidID, sellerBidID string, newPrice int64) (*model.BidRequest, error) {
	if newPrice <= 0 {
		return nil, model.ErrInvalidPrice
	}

	now := s.now()
	return s.bidRepo.Mutate(ctx, bidID, func(b *model.BidRequest) error {
		s.expireLocked(b, now)
		if b.Status != model.BidRequestActive {
			return model.ErrBidNotActive
		}

		target := b.Bid(sellerBidID)
		if target == nil {
			return model.ErrSellerBidNotFound
		}
		if target.Status != model.SellerBidPending {
			return model.ErrBidNotPending
		}

		target.Price = newPrice
		target.UpdateCount++
		target.Timestamp = now
		b.UpdatedAt = now
		return nil
	})
}

// RespondToCounter resets a countered bid to pending at the seller's new
// price, bumping its update count.
func (s *bidService) RespondToCounter(ctx context.Context, bidID, sellerBidID string, newPrice int64) (*model.BidRequest, error) {
	if newPrice <= 0 {
		return nil, model.ErrInvalidPrice
	}

	now := s.now()
	return s.bidRepo.Mutate(ctx, bidID, func(b *model.BidRequest) error {
		s.expireLocked(b, now)
		if b.Status != model.BidRequestActive {
			return model.ErrBidNotActive
		}

		target := b.Bid(sellerBidID)
		if target == nil {
			return model.ErrSellerBidNotFound
		}
		if target.Status != model.SellerBidCountered {
			return model.ErrBidNotCountered
		}

		target.Price = newPrice
		target.Status = model.SellerBidPending
		target.UpdateCount++
		target.Timestamp = now
		b.UpdatedAt = now
		return nil
	})
}

// CounterOffer marks a pending seller bid countered at the buyer's price.
func (s *bidService) CounterOffer(ctx context.Context, bidID, sellerBidID string, buyerPrice int64) (*model.BidRequest, error) {
	if buyerPrice <= 0 {
		return nil, model.ErrInvalidPrice
	}

	now := s.now()
	return s.bidRepo.Mutate(ctx, bidID, func(b *model.BidRequest) error {
		s.expireLocked(b, now)
		if b.Status != model.BidRequestActive {
			return model.ErrBidNotActive
		}

		target := b.Bid(sellerBidID)
		if target == nil {
			return model.ErrSellerBidNotFound
		}
		if target.Status != model.SellerBidPending {
			return model.ErrCounterNotPending
		}

		target.Status = model.SellerBidCountered
		target.Price = buyerPrice
		target.Timestamp = now
		b.UpdatedAt = now
		return nil
	})
}

// AcceptBid resolves the auction. Exactly one bid ends up accepted and all
// siblings declined, atomically with the parent's terminal transition; a
// cart line item is then materialised for the buyer.
func (s *bidService) AcceptBid(ctx context.Context, bidID, sellerBidID string) (*model.BidRequest, error) {
	now := s.now()
	var event *model.AcceptedBidEvent

	updated, err := s.bidRepo.Mutate(ctx, bidID, func(b *model.BidRequest) error {
		s.expireLocked(b, now)
		if b.Status != model.BidRequestActive {
			return model.ErrBidNotActive
		}

		target := b.Bid(sellerBidID)
		if target == nil {
			return model.ErrSellerBidNotFound
		}

		b.Status = model.BidRequestAccepted
		b.AcceptedBidID = sellerBidID
		b.UpdatedAt = now
		for i := range b.Bids {
			if b.Bids[i].ID == sellerBidID {
				b.Bids[i].Status = model.SellerBidAccepted
			} else {
				b.Bids[i].Status = model.SellerBidDeclined
			}
		}

		event = &model.AcceptedBidEvent{
			BidRequestID: b.ID,
			SellerBidID:  target.ID,
			ProductID:    b.ProductID,
			ProductName:  b.ProductName,
			SellerName:   target.SellerName,
			Quantity:     1,
			Price:        target.Price,
			Freebies:     target.Freebies,
			Benefits:     target.Benefits,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.cart.AddAcceptedBid(ctx, updated.UserID, event); err != nil {
		// The accept is already durable; surface the cart failure so the
		// caller knows the line item is missing.
		s.logger.Error().Err(err).
			Str("bid_id", bidID).
			Str("seller_bid_id", sellerBidID).
			Msg("accepted bid could not be added to cart")
		return nil, fmt.Errorf("failed to add accepted bid to cart: %w", err)
	}

	s.logger.Info().
		Str("bid_id", bidID).
		Str("seller_bid_id", sellerBidID).
		Int64("price", event.Price).
		Msg("bid accepted")

	return updated, nil
}

// BestOffer returns the lowest-priced seller bid regardless of status.
// Ties break to the earliest timestamp, then arrival order.
func (s *bidService) BestOffer(ctx context.Context, bidID string) (*model.SellerBid, error) {
	bid, err := s.bidRepo.Get(ctx, bidID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bid request: %w", err)
	}
	if bid == nil {
		return nil, model.ErrBidNotFound
	}

	bid, err = s.freshen(ctx, bid)
	if err != nil {
		return nil, err
	}
	if len(bid.Bids) == 0 {
		return nil, model.ErrSellerBidNotFound
	}

	best := bid.Bids[0]
	for _, candidate := range bid.Bids[1:] {
		if candidate.Price < best.Price ||
			(candidate.Price == best.Price && candidate.Timestamp.Before(best.Timestamp)) {
			best = candidate
		}
	}
	return &best, nil
}

// ExpireIfDue flips an active request past its deadline to expired.
func (s *bidService) ExpireIfDue(ctx context.Context, bidID string) error {
	now := s.now()
	_, err := s.bidRepo.Mutate(ctx, bidID, func(b *model.BidRequest) error {
		s.expireLocked(b, now)
		return nil
	})
	return err
}

// RunExpirySweeper walks the active-request index every interval and
// expires anything past its deadline. Lazy expiry on the read and write
// paths already guarantees correctness; the sweep keeps listings fresh.
func (s *bidService) RunExpirySweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Msg("expiry sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("expiry sweeper stopped")
			return
		case <-ticker.C:
			ids, err := s.bidRepo.ActiveIDs(ctx)
			if err != nil {
				s.logger.Error().Err(err).Msg("sweep failed to load active index")
				continue
			}
			for _, id := range ids {
				if err := s.ExpireIfDue(ctx, id); err != nil && err != model.ErrBidNotFound {
					s.logger.Error().Err(err).Str("bid_id", id).Msg("sweep failed to expire request")
				}
			}
		}
	}
}

// freshen lazily expires a loaded request whose deadline has passed,
// returning the persisted record.
func (s *bidService) freshen(ctx context.Context, bid *model.BidRequest) (*model.BidRequest, error) {
	if bid.Status != model.BidRequestActive || !bid.PastExpiry(s.now()) {
		return bid, nil
	}

	updated, err := s.bidRepo.Mutate(ctx, bid.ID, func(b *model.BidRequest) error {
		s.expireLocked(b, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// expireLocked transitions an active request past its deadline to expired.
// Callers must hold the request's key lock.
func (s *bidService) expireLocked(b *model.BidRequest, now time.Time) {
	if b.Status == model.BidRequestActive && b.PastExpiry(now) {
		b.Status = model.BidRequestExpired
		b.UpdatedAt = now
		s.logger.Debug().Str("bid_id", b.ID).Msg("bid request expired")
	}
}

// newPrefixedID builds ids like BID1714391823456A3F9C01D2: a time-based
// prefix plus a random suffix, collision-safe without a central sequencer.
func newPrefixedID(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:9]
	return fmt.Sprintf("%s%d%s", prefix, now.UnixMilli(), suffix)
}
