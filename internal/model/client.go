package model

import "github.com/google/uuid"

// Client is a checkout customer. Clients are created lazily on first
// order with a given email; there is no registration endpoint.
type Client struct {
	ID       uuid.UUID `json:"id" db:"id"`
	FullName string    `json:"fullName" db:"full_name"`
	Email    string    `json:"email" db:"email"`
	Address  string    `json:"address" db:"address"`
}

// ClientDescriptor is the client portion of an order request.
type ClientDescriptor struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}
