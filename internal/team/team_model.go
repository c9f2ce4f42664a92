// team/team_model.go
package team

import (
	"gorm.io/gorm"
)

// PlayerRole is informational only; nothing in scoring enforces it.
type PlayerRole string

const (
	RoleBatsman      PlayerRole = "batsman"
	RoleBowler       PlayerRole = "bowler"
	RoleAllRounder   PlayerRole = "all_rounder"
	RoleWicketKeeper PlayerRole = "wicket_keeper"
)

// Team represents a cricket team. Matches snapshot their own copy of the
// roster at creation time, so editing a team never rewrites history.
type Team struct {
	gorm.Model
	Name        string   `json:"name" gorm:"not null"`
	ShortName   string   `json:"short_name"`
	CreatedByID uint     `json:"created_by_id" gorm:"index"`
	Players     []Player `json:"players" gorm:"foreignKey:TeamID"`
}

// Player belongs to exactly one team; there is no cross-team sharing.
type Player struct {
	gorm.Model
	TeamID uint       `json:"team_id" gorm:"index;not null"`
	Name   string     `json:"name" gorm:"not null"`
	Role   PlayerRole `json:"role" gorm:"default:'batsman'"`
}

type CreateTeamRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	ShortName string `json:"short_name" binding:"omitempty,max=10"`
}

type UpdateTeamRequest struct {
	Name      *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	ShortName *string `json:"short_name,omitempty" binding:"omitempty,max=10"`
}

type AddPlayerRequest struct {
	Name string     `json:"name" binding:"required,min=2,max=100"`
	Role PlayerRole `json:"role" binding:"omitempty,oneof=batsman bowler all_rounder wicket_keeper"`
}
