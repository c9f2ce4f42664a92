package team

import (
	"errors"

	"gorm.io/gorm"
)

// TeamRepository defines methods to interact with team data
type TeamRepository interface {
	CreateTeam(team *Team) error
	GetTeamByID(id uint) (*Team, error)
	GetTeams(page, pageSize int) ([]Team, int64, error)
	GetUserTeams(userID uint, page, pageSize int) ([]Team, int64, error)
	UpdateTeam(team *Team) error
	DeleteTeam(id uint) error
	IsUserTeamCreator(teamID, userID uint) (bool, error)

	AddPlayer(player *Player) error
	GetPlayer(teamID, playerID uint) (*Player, error)
	RemovePlayer(teamID, playerID uint) error
}

// GormTeamRepository implements TeamRepository using GORM
type GormTeamRepository struct {
	db *gorm.DB
}

// NewGormTeamRepository creates a new GormTeamRepository
func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

func (r *GormTeamRepository) CreateTeam(team *Team) error {
	return r.db.Create(team).Error
}

// GetTeamByID retrieves a team with its full roster, nil if not found.
func (r *GormTeamRepository) GetTeamByID(id uint) (*Team, error) {
	var team Team
	result := r.db.Preload("Players").First(&team, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &team, nil
}

func (r *GormTeamRepository) GetTeams(page, pageSize int) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	result := query.Preload("Players").
		Order("created_at desc").
		Offset(offset).Limit(pageSize).
		Find(&teams)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return teams, total, nil
}

func (r *GormTeamRepository) GetUserTeams(userID uint, page, pageSize int) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{}).Where("created_by_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	result := query.Preload("Players").
		Order("created_at desc").
		Offset(offset).Limit(pageSize).
		Find(&teams)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return teams, total, nil
}

func (r *GormTeamRepository) UpdateTeam(team *Team) error {
	return r.db.Save(team).Error
}

// DeleteTeam soft-deletes a team and its players.
func (r *GormTeamRepository) DeleteTeam(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&Player{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Team{}, id).Error
	})
}

func (r *GormTeamRepository) IsUserTeamCreator(teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&Team{}).Where("id = ? AND created_by_id = ?", teamID, userID).Count(&count).Error
	return count > 0, err
}

func (r *GormTeamRepository) AddPlayer(player *Player) error {
	return r.db.Create(player).Error
}

func (r *GormTeamRepository) GetPlayer(teamID, playerID uint) (*Player, error) {
	var player Player
	result := r.db.Where("team_id = ?", teamID).First(&player, playerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &player, nil
}

func (r *GormTeamRepository) RemovePlayer(teamID, playerID uint) error {
	return r.db.Where("team_id = ?", teamID).Delete(&Player{}, playerID).Error
}
