package auth

import (
	"time"

	"gorm.io/gorm"
)

// Scorer is an operator account allowed to create matches and record balls.
type Scorer struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"`
}

// RefreshToken stores issued refresh tokens so they can be revoked.
type RefreshToken struct {
	gorm.Model
	ScorerID  uint      `gorm:"index;not null" json:"scorer_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100" example:"Ravi Kumar"`
	Email    string `json:"email" binding:"required,email" example:"ravi@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"password123"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ravi@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	Scorer       *Scorer `json:"scorer"`
}
