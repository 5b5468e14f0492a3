package usecase

import (
	"testing"

	"github.com/riskibarqy/football-sync/internal/domain/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsFirstFixture = `{
  "player": {"id": 276, "name": "D. Olaru", "age": "27", "nationality": "Romania",
             "height": "180 cm", "weight": "72 kg", "photo": "https://img/276.png"},
  "statistics": [
    {"team": {"id": 1, "name": "Romania"}, "league": {"id": 10, "name": "Friendlies"},
     "games": {"appearences": 2, "minutes": 90, "position": "Midfielder", "rating": null},
     "goals": {"total": null, "assists": 1}},
    {"team": {"id": 559, "name": "FCSB"}, "league": {"id": 283, "name": "Liga I"},
     "games": {"appearences": 30, "minutes": 2450, "position": "Midfielder", "rating": "7.1333"},
     "goals": {"total": 7, "assists": 5}}
  ]
}`

func TestRecordMapper_StatisticsFirstPicksContextLeague(t *testing.T) {
	got, ok := NewRecordMapper().Map(ExternalRecord(statsFirstFixture), 283)
	require.True(t, ok)

	assert.Equal(t, int64(276), got.ExternalID)
	assert.Equal(t, "D. Olaru", got.Name)
	assert.Equal(t, 27, got.Age)
	assert.Equal(t, "FCSB", got.TeamName)
	assert.Equal(t, int64(559), got.TeamExternalID)
	assert.Equal(t, player.Statistics{
		TeamName:      "FCSB",
		Goals:         7,
		Assists:       5,
		Appearances:   30,
		MinutesPlayed: 2450,
		Rating:        "7.13",
	}, got.Stats)
}

func TestRecordMapper_StatisticsFirstFallsBackToFirstBlock(t *testing.T) {
	got, ok := NewRecordMapper().Map(ExternalRecord(statsFirstFixture), 999)
	require.True(t, ok)

	assert.Equal(t, "Romania", got.TeamName)
	assert.Equal(t, 2, got.Stats.Appearances)
	assert.Equal(t, 0, got.Stats.Goals)
	assert.Equal(t, player.Unknown, got.Stats.Rating)
}

func TestRecordMapper_AcceptsBothAppearanceSpellings(t *testing.T) {
	raw := `{"player":{"id":5,"name":"A. Popa"},"statistics":[{"team":{"id":1,"name":"Rapid"},"games":{"appearances":"12"}}]}`

	got, ok := NewRecordMapper().Map(ExternalRecord(raw), 0)
	require.True(t, ok)
	assert.Equal(t, 12, got.Stats.Appearances)
}

func TestRecordMapper_SquadFirstShape(t *testing.T) {
	raw := `{"team":{"id":774,"name":"Romania"},"player":{"id":9,"name":"H. Moldovan","age":26,"position":"Goalkeeper","photo":"https://img/9.png"}}`

	got, ok := NewRecordMapper().Map(ExternalRecord(raw), 0)
	require.True(t, ok)

	assert.Equal(t, int64(9), got.ExternalID)
	assert.Equal(t, "Goalkeeper", got.Position)
	assert.Equal(t, "Romania", got.TeamName)
	assert.Equal(t, "Romania", got.Stats.TeamName)
	assert.Equal(t, 0, got.Stats.Appearances)
	assert.Equal(t, player.Unknown, got.Nationality)
	assert.Equal(t, player.Unknown, got.Height)
}

func TestRecordMapper_DefaultsMissingStrings(t *testing.T) {
	raw := `{"player":{"id":11,"firstname":"Ianis","lastname":"Hagi"},"statistics":[]}`

	got, ok := NewRecordMapper().Map(ExternalRecord(raw), 283)
	require.True(t, ok)

	assert.Equal(t, "Ianis Hagi", got.Name)
	assert.Equal(t, player.Unknown, got.Position)
	assert.Equal(t, player.Unknown, got.Weight)
	assert.Equal(t, "", got.TeamName)
}

func TestRecordMapper_RejectsUnreadableRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing player", raw: `{"statistics":[{"team":{"id":1}}]}`},
		{name: "null player", raw: `{"player":null,"team":{"id":1}}`},
		{name: "not json", raw: `<html>`},
		{name: "missing id", raw: `{"player":{"name":"No Id"}}`},
		{name: "missing name", raw: `{"player":{"id":4}}`},
	}

	mapper := NewRecordMapper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := mapper.Map(ExternalRecord(tt.raw), 283)
			assert.False(t, ok)
		})
	}
}

func TestFlexInt_OutOfRangeReadsAsZero(t *testing.T) {
	tests := map[string]int64{
		`"1e30"`:   0,
		`-1e30`:    0,
		`"12.9"`:   12,
		`"abc"`:    0,
		`null`:     0,
		`"2450"`:   2450,
		`9.22e18`:  9220000000000000000,
		`"-1e300"`: 0,
	}

	for raw, want := range tests {
		var got flexInt
		require.NoError(t, got.UnmarshalJSON([]byte(raw)), raw)
		assert.Equal(t, flexInt(want), got, raw)
	}
}
