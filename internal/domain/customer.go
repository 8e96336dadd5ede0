package domain

import "time"

type Customer struct {
	ID        string
	Name      string
	GSTNumber string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Company is a billing entity (letterhead/registration) an invoice can be
// issued under.
type Company struct {
	ID        string
	Name      string
	GSTNumber string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
