package model

// Seller is one of the merchants listed against a product.
type Seller struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        int64   `json:"price"`
	DeliveryTime string  `json:"deliveryTime"`
	Rating       float64 `json:"rating"`
	Badge        string  `json:"badge,omitempty"`
}

// Product represents a catalogue product. Prices are whole rupees.
//
// Bid requests copy the name and price at creation time; catalogue edits
// after that point never affect a running negotiation.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"originalPrice,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	Reviews       int      `json:"reviews,omitempty"`
	Category      string   `json:"category"`
	Brand         string   `json:"brand"`
	InStock       bool     `json:"inStock"`
	DeliveryTime  string   `json:"deliveryTime,omitempty"`
	Sellers       []Seller `json:"sellers,omitempty"`

	// Discovery tags used by attribute filtering.
	Mood        string `json:"mood,omitempty"`
	Occasion    string `json:"occasion,omitempty"`
	DealType    string `json:"dealType,omitempty"`
	Sustainable bool   `json:"sustainable,omitempty"`
	ForWho      string `json:"forWho,omitempty"`
	Trending    bool   `json:"trending,omitempty"`
	Color       string `json:"color,omitempty"`
}

// SearchFilters is a conjunction of equality predicates over product
// attributes. Nil pointer fields mean "no constraint".
type SearchFilters struct {
	Category     string `json:"category,omitempty"`
	Brand        string `json:"brand,omitempty"`
	MinPrice     *int64 `json:"minPrice,omitempty"`
	MaxPrice     *int64 `json:"maxPrice,omitempty"`
	DeliveryTime string `json:"deliveryTime,omitempty"`
	Mood         string `json:"mood,omitempty"`
	Occasion     string `json:"occasion,omitempty"`
	DealType     string `json:"dealType,omitempty"`
	Sustainable  *bool  `json:"sustainable,omitempty"`
	ForWho       string `json:"forWho,omitempty"`
	Trending     *bool  `json:"trending,omitempty"`
	Color        string `json:"color,omitempty"`
}

// SearchRequest is the payload for product search.
type SearchRequest struct {
	Query   string         `json:"query,omitempty"`
	Filters *SearchFilters `json:"filters,omitempty"`
}
