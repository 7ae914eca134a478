package model

import "time"

// Property is one merged listing from the JSON dataset
type Property struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Price     float64  `json:"price"`
	Location  string   `json:"location"`
	Bedrooms  int      `json:"bedrooms"`
	Bathrooms int      `json:"bathrooms,omitempty"`
	SizeSqft  float64  `json:"size_sqft,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
	ImageURL  string   `json:"image_url,omitempty"`
}

// RankedProperty is a filtered property with its ranking metadata
type RankedProperty struct {
	Property
	Score          float64  `json:"score"`
	MatchedReasons []string `json:"matched_reasons"`
}

// PropertyCard is the compact listing shape returned to the chat UI
type PropertyCard struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Location string `json:"location"`
	Bedrooms int    `json:"bedrooms"`
	Image    string `json:"image,omitempty"`
}

// User is a registered account
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"password_hash,omitempty" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserResponse is a User without credentials
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public strips the password hash
func (u User) Public() UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

// SavedProperty is a user bookmark
type SavedProperty struct {
	UserID     string    `json:"user_id" db:"user_id"`
	PropertyID string    `json:"property_id" db:"property_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	Property   *Property `json:"property,omitempty" db:"-"`
}
