package model

import "time"

// Product is a catalog entry. Prices are whole currency units; the cart
// snapshots the price at add time, so later catalog edits don't reprice
// existing carts.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	ImageURL    string    `json:"image_url"`
	InStock     bool      `json:"in_stock"`
	CreatedAt   time.Time `json:"-"`
}

// Review is a customer product review.
type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateReviewRequest is the DTO for posting a product review.
type CreateReviewRequest struct {
	Author  string `json:"author" validate:"required,notblank,max=100"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}
