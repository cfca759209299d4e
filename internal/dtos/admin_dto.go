package dtos

import "time"

type FeatureToggleRequest struct {
	Feature string `json:"feature" binding:"required"`
	Enabled *bool  `json:"enabled" binding:"required"`
}

type AIConfigUpdateRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type AdminUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type AdminUserListResponse struct {
	Users []AdminUser `json:"users"`
}

type SystemStatusResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
	Uptime   string            `json:"uptime"`
}
