package auth

import (
	"gorm.io/gorm"
)

// AuthRepository defines persistence for scorer accounts and refresh tokens.
type AuthRepository interface {
	CreateScorer(scorer *Scorer) error
	GetScorerByID(id uint) (*Scorer, error)
	GetScorerByEmail(email string) (*Scorer, error)
	SaveRefreshToken(rt *RefreshToken) error
	GetRefreshToken(tokenString string) (*RefreshToken, error)
	RevokeRefreshToken(tokenString string) error
}

// GormAuthRepository implements AuthRepository using GORM
type GormAuthRepository struct {
	db *gorm.DB
}

// NewAuthRepository creates a new GormAuthRepository
func NewAuthRepository(db *gorm.DB) *GormAuthRepository {
	return &GormAuthRepository{db: db}
}

func (r *GormAuthRepository) CreateScorer(scorer *Scorer) error {
	return r.db.Create(scorer).Error
}

func (r *GormAuthRepository) GetScorerByID(id uint) (*Scorer, error) {
	var scorer Scorer
	if err := r.db.First(&scorer, id).Error; err != nil {
		return nil, err
	}
	return &scorer, nil
}

func (r *GormAuthRepository) GetScorerByEmail(email string) (*Scorer, error) {
	var scorer Scorer
	if err := r.db.Where("email = ?", email).First(&scorer).Error; err != nil {
		return nil, err
	}
	return &scorer, nil
}

func (r *GormAuthRepository) SaveRefreshToken(rt *RefreshToken) error {
	return r.db.Create(rt).Error
}

func (r *GormAuthRepository) GetRefreshToken(tokenString string) (*RefreshToken, error) {
	var rt RefreshToken
	if err := r.db.Where("token = ? AND revoked = ?", tokenString, false).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *GormAuthRepository) RevokeRefreshToken(tokenString string) error {
	return r.db.Model(&RefreshToken{}).Where("token = ?", tokenString).Update("revoked", true).Error
}
