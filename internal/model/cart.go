package model

// AcceptedBidSnapshot freezes the negotiated terms when a cart line item
// originates from a won bid rather than a direct purchase.
type AcceptedBidSnapshot struct {
	BidRequestID string   `json:"bidRequestId"`
	SellerBidID  string   `json:"sellerBidId"`
	SellerName   string   `json:"sellerName"`
	Price        int64    `json:"price"`
	Freebies     []string `json:"freebies,omitempty"`
	Benefits     []string `json:"benefits,omitempty"`
}

// CartItem is a single cart line. Product name and price are copied in so
// the cart is self-contained at checkout time.
type CartItem struct {
	ProductID      string               `json:"productId"`
	ProductName    string               `json:"productName"`
	ProductPrice   int64                `json:"productPrice"`
	Quantity       int                  `json:"quantity"`
	SelectedSeller string               `json:"selectedSeller"`
	AcceptedBid    *AcceptedBidSnapshot `json:"acceptedBid,omitempty"`
}

// UnitPrice returns the price one unit of this line costs: the negotiated
// price when the item comes from a won bid, the catalogue price otherwise.
func (i CartItem) UnitPrice() int64 {
	if i.AcceptedBid != nil {
		return i.AcceptedBid.Price
	}
	return i.ProductPrice
}

// Cart is the per-user cart aggregate, stored whole under one key.
type Cart struct {
	Items []CartItem `json:"items"`
	Total int64      `json:"total"`
}

// Recalculate recomputes the cart total from its lines.
func (c *Cart) Recalculate() {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPrice() * int64(item.Quantity)
	}
	c.Total = total
}

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	SelectedSeller string `json:"selectedSeller"`
}

// UpdateItemRequest changes a line's quantity; zero or less removes it.
type UpdateItemRequest struct {
	ProductID      string `json:"productId"`
	SelectedSeller string `json:"selectedSeller"`
	Quantity       int    `json:"quantity"`
}

// RemoveItemRequest identifies a line to drop from the cart.
type RemoveItemRequest struct {
	ProductID      string `json:"productId"`
	SelectedSeller string `json:"selectedSeller"`
}
