package model

import "time"

// BidRequestStatus is the lifecycle state of a BidRequest.
// Both accepted and expired are terminal.
type BidRequestStatus string

const (
	BidRequestActive   BidRequestStatus = "active"
	BidRequestAccepted BidRequestStatus = "accepted"
	BidRequestExpired  BidRequestStatus = "expired"
)

// SellerBidStatus is the per-bid state within a bid request.
type SellerBidStatus string

const (
	SellerBidPending   SellerBidStatus = "pending"
	SellerBidAccepted  SellerBidStatus = "accepted"
	SellerBidDeclined  SellerBidStatus = "declined"
	SellerBidCountered SellerBidStatus = "countered"
)

// Accessory is an add-on a seller throws into an offer.
type Accessory struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// SellerBid is one seller's offer within a bid request. Seller bids are not
// addressable outside their parent; they live inside the BidRequest record.
type SellerBid struct {
	ID           string          `json:"id"`
	SellerID     string          `json:"sellerId"`
	SellerName   string          `json:"sellerName"`
	Price        int64           `json:"price"`
	DeliveryTime string          `json:"deliveryTime"`
	Message      string          `json:"message,omitempty"`
	Freebies     []string        `json:"freebies,omitempty"`
	Accessories  []Accessory     `json:"accessories,omitempty"`
	Benefits     []string        `json:"benefits,omitempty"`
	Status       SellerBidStatus `json:"status"`
	UpdateCount  int             `json:"updateCount"`
	Timestamp    time.Time       `json:"timestamp"`
}

// BidRequest is a buyer-initiated, time-boxed reverse auction for a single
// product. It is the aggregate root of the negotiation: the whole record is
// read, modified and written back as one storage value.
type BidRequest struct {
	ID            string           `json:"bidId"`
	UserID        string           `json:"userId"`
	ProductID     string           `json:"productId"`
	ProductName   string           `json:"productName"`
	ProductPrice  int64            `json:"productPrice"`
	TargetPrice   int64            `json:"targetPrice,omitempty"`
	Requirements  string           `json:"requirements,omitempty"`
	DurationHours int              `json:"duration"`
	Status        BidRequestStatus `json:"status"`
	Bids          []SellerBid      `json:"bids"`
	AcceptedBidID string           `json:"acceptedBidId,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	ExpiresAt     time.Time        `json:"expiresAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// Bid returns a pointer to the seller bid with the given id, or nil.
func (r *BidRequest) Bid(sellerBidID string) *SellerBid {
	for i := range r.Bids {
		if r.Bids[i].ID == sellerBidID {
			return &r.Bids[i]
		}
	}
	return nil
}

// PastExpiry reports whether the request's time box has elapsed at now.
// The deadline itself is fixed at creation and never extended.
func (r *BidRequest) PastExpiry(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// AcceptedBidEvent is emitted by the bid engine when a buyer accepts an
// offer. The cart service consumes it to materialise a cart line item; this
// is the only cross-component write the engine triggers.
type AcceptedBidEvent struct {
	BidRequestID string   `json:"bidRequestId"`
	SellerBidID  string   `json:"sellerBidId"`
	ProductID    string   `json:"productId"`
	ProductName  string   `json:"productName"`
	SellerName   string   `json:"sellerName"`
	Quantity     int      `json:"quantity"`
	Price        int64    `json:"price"`
	Freebies     []string `json:"freebies,omitempty"`
	Benefits     []string `json:"benefits,omitempty"`
}

// CreateBidRequest is the payload for opening a new bid request.
type CreateBidRequest struct {
	ProductID    string `json:"productId"`
	Duration     int    `json:"duration"`
	TargetPrice  int64  `json:"targetPrice,omitempty"`
	Requirements string `json:"requirements,omitempty"`
}

// RevisePriceRequest is the payload for a seller revising their offer or
// answering a buyer counter.
type RevisePriceRequest struct {
	Price int64 `json:"price"`
}

// CounterOfferRequest is the payload for a buyer countering a seller bid.
type CounterOfferRequest struct {
	SellerBidID string `json:"sellerBidId"`
	Price       int64  `json:"price"`
}

// AcceptBidRequest is the payload for accepting a seller bid.
type AcceptBidRequest struct {
	SellerBidID string `json:"sellerBidId"`
}

// SubmitSellerBidRequest is the payload for a seller's offer. The server
// assigns id, status, updateCount and timestamp.
type SubmitSellerBidRequest struct {
	SellerID     string      `json:"sellerId"`
	SellerName   string      `json:"sellerName"`
	Price        int64       `json:"price"`
	DeliveryTime string      `json:"deliveryTime"`
	Message      string      `json:"message,omitempty"`
	Freebies     []string    `json:"freebies,omitempty"`
	Accessories  []Accessory `json:"accessories,omitempty"`
	Benefits     []string    `json:"benefits,omitempty"`
}
