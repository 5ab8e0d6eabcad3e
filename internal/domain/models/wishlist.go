package models

// WishlistEntry is one wishlisted security. Ownership is the enclosing
// collection key (the owner's email); stockId is unique within it.
type WishlistEntry struct {
	StockID   string `json:"stockId"`
	StockName string `json:"stockName"`
}

// WishlistAddRequest is the POST /stock/wishlist body.
type WishlistAddRequest struct {
	Email string `json:"email" validate:"required,email"`
	Stock struct {
		StockID   string `json:"stockId" validate:"required"`
		StockName string `json:"stockName" validate:"required"`
	} `json:"stock" validate:"required"`
}