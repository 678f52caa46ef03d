package models

import (
	"time"

	"github.com/google/uuid"
)

type Unit string

const (
	UnitSteps   Unit = "steps"
	UnitMinutes Unit = "minutes"
	UnitKM      Unit = "km"
	UnitReps    Unit = "reps"
	UnitWater   Unit = "water"
	UnitLiters  Unit = "liters"
	UnitGlasses Unit = "glasses"
	UnitMeal    Unit = "meal"
	UnitMeals   Unit = "meals"
	UnitCustom  Unit = "custom"
)

const (
	DefaultUnit         = UnitSteps
	DefaultTargetPerDay = 10000.0
)

var Units = []Unit{
	UnitSteps,
	UnitMinutes,
	UnitKM,
	UnitReps,
	UnitWater,
	UnitLiters,
	UnitGlasses,
	UnitMeal,
	UnitMeals,
	UnitCustom,
}

func (u Unit) Valid() bool {
	for _, unit := range Units {
		if u == unit {
			return true
		}
	}
	return false
}

type Challenge struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Unit         Unit        `json:"unit"`
	TargetPerDay float64     `json:"targetPerDay"`
	StartDate    time.Time   `json:"startDate"`
	EndDate      time.Time   `json:"endDate"`
	CreatorID    uuid.UUID   `json:"-"`
	Participants []uuid.UUID `json:"participants"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (c *Challenge) HasParticipant(userID uuid.UUID) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

type UserRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Participant struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ChallengeDetail is a challenge with its creator's display name resolved.
type ChallengeDetail struct {
	Challenge
	Creator UserRef `json:"creator"`
}

// ChallengeRoster additionally resolves every participant. Its Participants
// field shadows the id list of the embedded challenge when encoded.
type ChallengeRoster struct {
	ChallengeDetail
	Participants []Participant `json:"participants"`
}
