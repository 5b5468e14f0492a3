package team

import (
	"fmt"
	"strings"
	"time"
)

// Team is a club or national side known to the sports provider.
type Team struct {
	ExternalID int64
	LeagueID   int64
	Season     int
	Name       string
	Code       string
	Country    string
	National   bool
	LogoURL    string
	UpdatedAt  time.Time
}

func (t Team) Validate() error {
	if t.ExternalID <= 0 {
		return fmt.Errorf("team external id must be greater than zero")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
