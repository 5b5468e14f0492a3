package player

import (
	"fmt"
	"strings"
	"time"
)

// PositionGoalkeeper is the provider label for goalkeepers.
const PositionGoalkeeper = "Goalkeeper"

// Unknown is stored for display strings the provider did not send.
const Unknown = "-"

// Statistics is the season summary kept on a player record.
type Statistics struct {
	TeamName      string
	Goals         int
	Assists       int
	Appearances   int
	MinutesPlayed int
	Rating        string
}

// Player is a locally stored footballer synchronized from the sports provider.
// ExternalID is the provider identifier and the only reconciliation key.
type Player struct {
	ID          string
	ExternalID  int64
	Name        string
	Nationality string
	Position    string
	Age         int
	Height      string
	Weight      string
	TeamName    string
	Stats       Statistics
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Player) Validate() error {
	if p.ExternalID < 0 {
		return fmt.Errorf("player external id must not be negative")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Age < 0 {
		return fmt.Errorf("player age must not be negative")
	}
	if p.Stats.Goals < 0 || p.Stats.Assists < 0 || p.Stats.Appearances < 0 || p.Stats.MinutesPlayed < 0 {
		return fmt.Errorf("player statistics must not be negative")
	}

	return nil
}

// IsGoalkeeper accepts the long provider label and the short lineup codes.
func IsGoalkeeper(position string) bool {
	switch strings.ToLower(strings.TrimSpace(position)) {
	case "goalkeeper", "gk", "g":
		return true
	default:
		return false
	}
}

// Filter narrows player listings on the read path.
type Filter struct {
	TeamName    string
	Nationality string
	Position    string
	Limit       int
	Offset      int
}
