package model

import "time"

// CareerApplication is a job application submitted through the careers page.
type CareerApplication struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Position  string    `json:"position"`
	Portfolio string    `json:"portfolio,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CareerApplicationRequest is the DTO for POST /api/careers/apply.
type CareerApplicationRequest struct {
	Name      string `json:"name" validate:"required,notblank,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"required,notblank,max=20"`
	Position  string `json:"position" validate:"required,notblank,max=100"`
	Portfolio string `json:"portfolio" validate:"omitempty,url,max=500"`
	Message   string `json:"message" validate:"max=5000"`
}

// SubscribeRequest is the DTO for POST /api/newsletter/subscribe.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}
