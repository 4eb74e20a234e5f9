package dto

import "skate_marketplace/internal/domain"

// AuthResponse is returned by login and registration
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}
