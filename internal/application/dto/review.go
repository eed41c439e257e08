package dto

// CreateReviewRequest is the DTO for submitting a review.
type CreateReviewRequest struct {
	Name    string `json:"name"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// UpdateReviewStatusRequest is the DTO for moderating a review.
type UpdateReviewStatusRequest struct {
	Status string `json:"status"`
}
