package tournament

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// StringSlice is stored as a JSONB column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StringSlice) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("StringSlice: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, s)
}

// Tournament groups a set of matches under one points table. Groups are
// optional labels; an empty list means a single flat table.
type Tournament struct {
	gorm.Model
	Name        string       `json:"name" gorm:"not null"`
	Season      string       `json:"season,omitempty"`
	Overs       int          `json:"overs" gorm:"not null"`
	CreatedByID uint         `json:"created_by_id" gorm:"index;not null"`
	Groups      StringSlice  `json:"groups" gorm:"type:jsonb"`
	Entries     []GroupEntry `json:"entries,omitempty" gorm:"foreignKey:TournamentID"`
}

// GroupEntry enrols a team in a tournament group.
type GroupEntry struct {
	gorm.Model
	TournamentID uint   `json:"tournament_id" gorm:"index;not null"`
	GroupID      string `json:"group_id"`
	TeamID       uint   `json:"team_id" gorm:"not null"`
	TeamName     string `json:"team_name"`
}

// CreateTournamentRequest creates a tournament.
type CreateTournamentRequest struct {
	Name   string   `json:"name" binding:"required,min=3,max=100"`
	Season string   `json:"season" binding:"omitempty,max=30"`
	Overs  int      `json:"overs" binding:"required,min=1,max=50"`
	Groups []string `json:"groups" binding:"omitempty,dive,min=1,max=30"`
}

// EnrolTeamRequest adds a team to a tournament group.
type EnrolTeamRequest struct {
	TeamID  uint   `json:"team_id" binding:"required"`
	GroupID string `json:"group_id" binding:"omitempty,max=30"`
}
