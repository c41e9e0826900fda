package dto

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type Admin struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type ProfileUpdateRequest struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	AvatarURL string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

// DashboardStats is the admin dashboard summary payload.
type DashboardStats struct {
	TotalUsers    int `json:"totalUsers"`
	TotalArticles int `json:"totalArticles"`
	TotalComments int `json:"totalComments"`
	NewUsersToday int `json:"newUsersToday"`
}
