package models

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
)

const (
	LeaderboardLimit = 50
	UnknownUserName  = "Unknown User"
)

// LeaderboardRow is one grouped aggregation result before user details are attached.
type LeaderboardRow struct {
	UserID uuid.UUID
	Total  float64
}

type LeaderboardEntry struct {
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Total  float64   `json:"total"`
}

// SortLeaderboardRows orders rows by total descending, breaking ties by user id.
func SortLeaderboardRows(rows []LeaderboardRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return bytes.Compare(rows[i].UserID[:], rows[j].UserID[:]) < 0
	})
}
