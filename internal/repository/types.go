package repository

import "time"

// ClickListFilter narrows offer click queries.
type ClickListFilter struct {
	Page        int
	PageSize    int
	UserID      string
	Status      string
	OfferID     string
	Category    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CompletedOfferListFilter narrows completed offer queries.
type CompletedOfferListFilter struct {
	Page          int
	PageSize      int
	UserID        string
	CompletedFrom *time.Time
	CompletedTo   *time.Time
}
