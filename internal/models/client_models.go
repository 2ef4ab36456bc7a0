package models

import "time"

// Client is a record owned by exactly one User.
type Client struct {
	ID               int64     `json:"id" db:"id"`
	UserID           int64     `json:"-" db:"user_id"`
	OwnerEmail       string    `json:"ownerEmail" db:"owner_email"`
	Name             string    `json:"name" db:"name"`
	Surname          string    `json:"surname" db:"surname"`
	IDType           string    `json:"idType" db:"id_type"`
	IDNumber         string    `json:"idNumber" db:"id_number"`
	CreationDate     time.Time `json:"creationDate" db:"creation_date"`
	ModificationDate time.Time `json:"modificationDate" db:"modification_date"`
}

// Touch refreshes the modification timestamp.
func (c *Client) Touch(now time.Time) {
	c.ModificationDate = now
}

// OwnedBy reports whether the client belongs to the given principal.
func (c *Client) OwnedBy(p Principal) bool {
	return !p.IsZero() && c.OwnerEmail == p.Email
}
