package memory

import (
	"github.com/riskibarqy/football-sync/internal/domain/player"
	"github.com/riskibarqy/football-sync/internal/domain/team"
)

// LeagueIDLigaI is the Romanian top flight on the sports provider.
const LeagueIDLigaI int64 = 283

// SeedTeams gives the memory backend something to serve before the first sync.
func SeedTeams() []team.Team {
	return []team.Team{
		{ExternalID: 559, LeagueID: LeagueIDLigaI, Season: 2024, Name: "FCSB", Code: "FCS", Country: "Romania"},
		{ExternalID: 2599, LeagueID: LeagueIDLigaI, Season: 2024, Name: "CFR 1907 Cluj", Code: "CFR", Country: "Romania"},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{
			ID:          "ply_seed_olaru",
			ExternalID:  10_001,
			Name:        "D. Olaru",
			Nationality: "Romania",
			Position:    "Midfielder",
			Age:         27,
			Height:      "180 cm",
			Weight:      "72 kg",
			TeamName:    "FCSB",
			Stats:       player.Statistics{TeamName: "FCSB", Goals: 7, Assists: 5, Appearances: 30, MinutesPlayed: 2450, Rating: "7.10"},
		},
		{
			ID:          "ply_seed_sava",
			ExternalID:  10_002,
			Name:        "R. Sava",
			Nationality: "Romania",
			Position:    player.PositionGoalkeeper,
			Age:         22,
			Height:      "191 cm",
			Weight:      "83 kg",
			TeamName:    "CFR 1907 Cluj",
			Stats:       player.Statistics{TeamName: "CFR 1907 Cluj", Rating: player.Unknown},
		},
	}
}
