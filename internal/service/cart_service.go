package service

import (
	"context"
	"fmt"

	"bidkart/internal/model"
	"bidkart/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService. Items added directly merge on
// (productId, selectedSeller); lines materialised from won bids stay
// separate because their price is negotiated, not the catalogue price.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Get returns the user's cart, empty if they have none.
func (s *cartService) Get(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// AddItem puts a product in the cart, merging quantities with an existing
// line for the same product and seller. Product name and price are
// snapshotted from the catalogue at add time.
func (s *cartService) AddItem(ctx context.Context, userID string, req *model.AddItemRequest) (*model.Cart, error) {
	if req == nil || req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	cart, err := s.cartRepo.Mutate(ctx, userID, func(c *model.Cart) error {
		for i := range c.Items {
			item := &c.Items[i]
			if item.ProductID == req.ProductID && item.SelectedSeller == req.SelectedSeller && item.AcceptedBid == nil {
				item.Quantity += req.Quantity
				c.Recalculate()
				return nil
			}
		}
		c.Items = append(c.Items, model.CartItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			ProductPrice:   product.Price,
			Quantity:       req.Quantity,
			SelectedSeller: req.SelectedSeller,
		})
		c.Recalculate()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", userID).
		Str("product_id", req.ProductID).
		Int("quantity", req.Quantity).
		Msg("item added to cart")

	return cart, nil
}

// UpdateItem sets a line's quantity; zero or less removes the line.
func (s *cartService) UpdateItem(ctx context.Context, userID string, req *model.UpdateItemRequest) (*model.Cart, error) {
	return s.cartRepo.Mutate(ctx, userID, func(c *model.Cart) error {
		for i := range c.Items {
			item := c.Items[i]
			if item.ProductID != req.ProductID || item.SelectedSeller != req.SelectedSeller {
				continue
			}
			if req.Quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = req.Quantity
			}
			c.Recalculate()
			return nil
		}
		// Matching the reference behaviour: updating an absent line is a
		// no-op, not an error.
		return nil
	})
}

// RemoveItem drops a line from the cart.
func (s *cartService) RemoveItem(ctx context.Context, userID string, req *model.RemoveItemRequest) (*model.Cart, error) {
	return s.cartRepo.Mutate(ctx, userID, func(c *model.Cart) error {
		filtered := c.Items[:0]
		for _, item := range c.Items {
			if item.ProductID == req.ProductID && item.SelectedSeller == req.SelectedSeller {
				continue
			}
			filtered = append(filtered, item)
		}
		c.Items = filtered
		c.Recalculate()
		return nil
	})
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID string) error {
	_, err := s.cartRepo.Mutate(ctx, userID, func(c *model.Cart) error {
		c.Items = []model.CartItem{}
		c.Total = 0
		return nil
	})
	return err
}

// AddAcceptedBid materialises a cart line from a won negotiation, carrying
// the negotiated price and freebies as a frozen snapshot.
func (s *cartService) AddAcceptedBid(ctx context.Context, userID string, event *model.AcceptedBidEvent) (*model.Cart, error) {
	cart, err := s.cartRepo.Mutate(ctx, userID, func(c *model.Cart) error {
		c.Items = append(c.Items, model.CartItem{
			ProductID:      event.ProductID,
			ProductName:    event.ProductName,
			ProductPrice:   event.Price,
			Quantity:       event.Quantity,
			SelectedSeller: event.SellerName,
			AcceptedBid: &model.AcceptedBidSnapshot{
				BidRequestID: event.BidRequestID,
				SellerBidID:  event.SellerBidID,
				SellerName:   event.SellerName,
				Price:        event.Price,
				Freebies:     event.Freebies,
				Benefits:     event.Benefits,
			},
		})
		c.Recalculate()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("bid_request_id", event.BidRequestID).
		Int64("price", event.Price).
		Msg("accepted bid materialised in cart")

	return cart, nil
}
