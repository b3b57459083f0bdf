package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// UpdateProfileRequest defines the profile fields that may be edited.
// Email is accepted only when unchanged.
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	BirthDate *string `json:"birthDate" binding:"omitempty,datetime=2006-01-02"`
}

// ProfileResponse defines the data returned for a profile.
type ProfileResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   *string   `json:"firstName,omitempty"`
	LastName    *string   `json:"lastName,omitempty"`
	BirthDate   *string   `json:"birthDate,omitempty"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
	CreatedDate time.Time `json:"createdDate"`
}

// ToProfileResponse converts a domain.Profile to ProfileResponse DTO
func ToProfileResponse(p *domain.Profile) ProfileResponse {
	res := ProfileResponse{
		ID:          p.ProfileID,
		Username:    p.Username,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		AvatarURL:   p.AvatarURL,
		CreatedDate: p.CreatedDate,
	}
	if p.BirthDate != nil {
		s := p.BirthDate.Format(domain.DateLayout)
		res.BirthDate = &s
	}
	return res
}
