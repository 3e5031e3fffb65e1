package model

import "time"

// UserProfile is the stored profile record for a buyer.
type UserProfile struct {
	UserID     string    `json:"userId"`
	Name       string    `json:"name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	AuthMethod string    `json:"authMethod,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Preferences holds onboarding answers used by personalisation surfaces.
// The bid engine never reads these.
type Preferences struct {
	Interests          []string  `json:"interests"`
	DeliveryPreference string    `json:"deliveryPreference"`
	Location           string    `json:"location"`
	SavedAt            time.Time `json:"savedAt,omitempty"`
}

// ProductView is one entry in a user's recently-viewed history.
type ProductView struct {
	ProductID string    `json:"productId"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackViewRequest is the payload for recording a product view.
type TrackViewRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}
