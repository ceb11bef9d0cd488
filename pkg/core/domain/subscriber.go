package domain

import "time"

// Subscriber is a newsletter signup
type Subscriber struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"` // Always stored lowercase
	CreatedAt time.Time `json:"createdAt"`
}

// Principal is the authenticated caller of an admin route.
type Principal struct {
	Subject string
	Role    string
}

const RoleAdmin = "admin"
