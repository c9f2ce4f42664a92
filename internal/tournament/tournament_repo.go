package tournament

import (
	"errors"

	"gorm.io/gorm"
)

// TournamentRepository defines methods to interact with tournament data
type TournamentRepository interface {
	Create(t *Tournament) error
	GetByID(id uint) (*Tournament, error)
	List(page, pageSize int) ([]Tournament, int64, error)
	Update(t *Tournament) error
	Delete(id uint) error
	IsCreator(tournamentID, userID uint) (bool, error)
	ListIDs() ([]uint, error)

	AddEntry(e *GroupEntry) error
	GetEntry(tournamentID, teamID uint) (*GroupEntry, error)
	RemoveEntry(tournamentID, teamID uint) error
}

// GormTournamentRepository implements TournamentRepository using GORM
type GormTournamentRepository struct {
	db *gorm.DB
}

func NewGormTournamentRepository(db *gorm.DB) *GormTournamentRepository {
	return &GormTournamentRepository{db: db}
}

func (r *GormTournamentRepository) Create(t *Tournament) error {
	return r.db.Create(t).Error
}

// GetByID retrieves a tournament with its enrolled teams, nil if not found.
func (r *GormTournamentRepository) GetByID(id uint) (*Tournament, error) {
	var t Tournament
	err := r.db.Preload("Entries").First(&t, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *GormTournamentRepository) List(page, pageSize int) ([]Tournament, int64, error) {
	var (
		tournaments []Tournament
		total       int64
	)
	if err := r.db.Model(&Tournament{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	err := r.db.Order("created_at desc").Offset(offset).Limit(pageSize).Find(&tournaments).Error
	return tournaments, total, err
}

func (r *GormTournamentRepository) Update(t *Tournament) error {
	return r.db.Save(t).Error
}

func (r *GormTournamentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tournament_id = ?", id).Delete(&GroupEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Tournament{}, id).Error
	})
}

func (r *GormTournamentRepository) IsCreator(tournamentID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&Tournament{}).
		Where("id = ? AND created_by_id = ?", tournamentID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormTournamentRepository) ListIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&Tournament{}).Pluck("id", &ids).Error
	return ids, err
}

func (r *GormTournamentRepository) AddEntry(e *GroupEntry) error {
	return r.db.Create(e).Error
}

func (r *GormTournamentRepository) GetEntry(tournamentID, teamID uint) (*GroupEntry, error) {
	var e GroupEntry
	err := r.db.Where("tournament_id = ? AND team_id = ?", tournamentID, teamID).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *GormTournamentRepository) RemoveEntry(tournamentID, teamID uint) error {
	return r.db.Where("tournament_id = ? AND team_id = ?", tournamentID, teamID).
		Delete(&GroupEntry{}).Error
}
