package model

import "time"

// OrderStatus advances strictly forward through the delivery pipeline.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPacked         OrderStatus = "packed"
	OrderShipped        OrderStatus = "shipped"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
)

// orderStatusRank orders the delivery pipeline stages.
var orderStatusRank = map[OrderStatus]int{
	OrderPending:        0,
	OrderConfirmed:      1,
	OrderPacked:         2,
	OrderShipped:        3,
	OrderOutForDelivery: 4,
	OrderDelivered:      5,
}

// ValidOrderStatus reports whether s names a known pipeline stage.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderStatusRank[s]
	return ok
}

// StatusAdvances reports whether moving from to next goes strictly forward.
func StatusAdvances(from, next OrderStatus) bool {
	return orderStatusRank[next] > orderStatusRank[from]
}

// TimelineLabel returns the human label appended to the order timeline for
// a pipeline stage.
func TimelineLabel(s OrderStatus) string {
	switch s {
	case OrderPending:
		return "Order Placed"
	case OrderConfirmed:
		return "Order Confirmed"
	case OrderPacked:
		return "Packed"
	case OrderShipped:
		return "Shipped"
	case OrderOutForDelivery:
		return "Out for Delivery"
	case OrderDelivered:
		return "Delivered"
	}
	return string(s)
}

// PaymentSplit captures how much is paid up front versus on delivery.
// PaidNow + DueAtDelivery always equals the order total exactly.
type PaymentSplit struct {
	Percent       int   `json:"percent"`
	PaidNow       int64 `json:"paidNow"`
	DueAtDelivery int64 `json:"dueAtDelivery"`
}

// SplitPayment divides total so that paidNow is percent of it, rounded
// half-up, and the remainder is due at delivery. The two parts sum to
// total by construction.
func SplitPayment(total int64, percent int) PaymentSplit {
	paidNow := (total*int64(percent) + 50) / 100
	return PaymentSplit{
		Percent:       percent,
		PaidNow:       paidNow,
		DueAtDelivery: total - paidNow,
	}
}

// TimelineStep is one entry in an order's delivery timeline. The timeline
// is append-only; completed steps are never rewritten.
type TimelineStep struct {
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
	Completed bool      `json:"completed"`
}

// Order freezes the cart contents and pricing at checkout time.
type Order struct {
	ID              string         `json:"orderId"`
	UserID          string         `json:"userId"`
	Items           []CartItem     `json:"items"`
	Subtotal        int64          `json:"subtotal"`
	DeliveryFee     int64          `json:"deliveryFee"`
	Discount        int64          `json:"discount"`
	Total           int64          `json:"total"`
	DeliverySlot    string         `json:"deliverySlot,omitempty"`
	DeliveryAddress string         `json:"deliveryAddress,omitempty"`
	PaymentMethod   string         `json:"paymentMethod,omitempty"`
	CouponCode      string         `json:"couponCode,omitempty"`
	Payment         PaymentSplit   `json:"payment"`
	Status          OrderStatus    `json:"status"`
	Timeline        []TimelineStep `json:"timeline"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// CheckoutRequest is the payload for turning the cart into an order.
// PartialPercent of zero means full payment up front.
type CheckoutRequest struct {
	DeliverySlot    string `json:"deliverySlot,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
	CouponCode      string `json:"couponCode,omitempty"`
	PartialPercent  int    `json:"partialPercent,omitempty"`
}

// UpdateOrderStatusRequest moves an order to a later pipeline stage.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
