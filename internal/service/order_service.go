package service

import (
	"context"
	"fmt"
	"time"

	"bidkart/internal/coupon"
	"bidkart/internal/model"
	"bidkart/internal/repository"

	"github.com/rs/zerolog"
)

const (
	// expressSlot is the 10-minute delivery slot, the only one that
	// carries a delivery fee.
	expressSlot        = "10min"
	expressDeliveryFee = 49

	// couponDiscount is the flat discount a valid coupon takes off.
	couponDiscount = 500
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	validator coupon.Validator
	logger    zerolog.Logger
	now       func() time.Time
}

// NewOrderService creates a new order service. The coupon validator may be
// nil, in which case every coupon code is rejected.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	validator coupon.Validator,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		validator: validator,
		logger:    logger.With().Str("service", "order").Logger(),
		now:       time.Now,
	}
}

// Checkout freezes the current cart into an order. Pricing is a pure
// function of the cart contents, the delivery slot and the coupon; the
// order write, the order-index append and the cart clear happen as one
// locked unit in the repository.
func (s *orderService) Checkout(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Order, error) {
	if req == nil {
		req = &model.CheckoutRequest{}
	}

	percent := req.PartialPercent
	if percent == 0 {
		percent = 100
	}
	if percent < 10 || percent > 100 {
		return nil, model.ErrInvalidPercent
	}

	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, model.ErrCartEmpty
	}

	var discount int64
	if req.CouponCode != "" {
		if s.validator == nil {
			return nil, model.ErrInvalidCoupon
		}
		if err := s.validator.Validate(ctx, req.CouponCode); err != nil {
			s.logger.Warn().Str("coupon_code", req.CouponCode).Err(err).Msg("coupon rejected")
			return nil, err
		}
		discount = couponDiscount
	}

	var subtotal int64
	for _, item := range cart.Items {
		subtotal += item.UnitPrice() * int64(item.Quantity)
	}

	var deliveryFee int64
	if req.DeliverySlot == expressSlot {
		deliveryFee = expressDeliveryFee
	}

	if discount > subtotal+deliveryFee {
		discount = subtotal + deliveryFee
	}
	total := subtotal + deliveryFee - discount

	now := s.now()
	order := &model.Order{
		ID:              newPrefixedID("ORD", now),
		UserID:          userID,
		Items:           cart.Items,
		Subtotal:        subtotal,
		DeliveryFee:     deliveryFee,
		Discount:        discount,
		Total:           total,
		DeliverySlot:    req.DeliverySlot,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      req.CouponCode,
		Payment:         model.SplitPayment(total, percent),
		Status:          model.OrderPending,
		Timeline: []model.TimelineStep{
			{Label: model.TimelineLabel(model.OrderPending), Timestamp: now, Completed: true},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orderRepo.CreateAndClearCart(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_id", userID).
		Int64("total", total).
		Int("percent", percent).
		Msg("order created")

	return order, nil
}

// GetUserOrders returns the user's orders, newest first.
func (s *orderService) GetUserOrders(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orderRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one of the user's orders.
func (s *orderService) GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus advances an order strictly forward through the delivery
// pipeline and appends the matching timeline step. Past steps are never
// rewritten.
func (s *orderService) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, model.NewDomainError(model.ErrCodeInvalidState, fmt.Sprintf("unknown order status %q", status))
	}

	now := s.now()
	order, err := s.orderRepo.Mutate(ctx, orderID, func(o *model.Order) error {
		if !model.StatusAdvances(o.Status, status) {
			return model.NewDomainError(model.ErrCodeInvalidState,
				fmt.Sprintf("order status cannot move from %s to %s", o.Status, status))
		}
		o.Status = status
		o.Timeline = append(o.Timeline, model.TimelineStep{
			Label:     model.TimelineLabel(status),
			Timestamp: now,
			Completed: true,
		})
		o.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", orderID).
		Str("status", string(status)).
		Msg("order status updated")

	return order, nil
}
