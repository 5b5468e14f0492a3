package usecase

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/football-sync/internal/domain/player"
)

// NormalizedPlayer is the provider-independent shape produced by RecordMapper.
type NormalizedPlayer struct {
	ExternalID     int64  `validate:"gt=0"`
	Name           string `validate:"required,max=200"`
	Nationality    string `validate:"required"`
	Position       string `validate:"required"`
	Age            int    `validate:"gte=0,lte=80"`
	Height         string
	Weight         string
	TeamExternalID int64 `validate:"gte=0"`
	TeamName       string
	Stats          player.Statistics
	ImageURL       string
	// National marks records from a national-team squad; their team never
	// replaces a club assignment.
	National bool
}

// RecordMapper converts raw provider records into NormalizedPlayer values.
// It never fails: anything it cannot read is reported as not mapped.
type RecordMapper struct {
	validate *validator.Validate
}

func NewRecordMapper() *RecordMapper {
	return &RecordMapper{validate: validator.New()}
}

// Map tries the statistics-first shape, then the squad-first shape.
// The statistics block for contextLeagueID wins; otherwise the first block is used.
func (m *RecordMapper) Map(raw ExternalRecord, contextLeagueID int64) (NormalizedPlayer, bool) {
	var probe recordProbe
	if err := sonic.Unmarshal(raw, &probe); err != nil {
		return NormalizedPlayer{}, false
	}
	if isJSONNull(probe.Player) {
		return NormalizedPlayer{}, false
	}

	var (
		out NormalizedPlayer
		ok  bool
	)
	switch {
	case !isJSONNull(probe.Statistics):
		out, ok = mapStatisticsFirst(raw, contextLeagueID)
	case !isJSONNull(probe.Team):
		out, ok = mapSquadFirst(raw)
	default:
		out, ok = mapStatisticsFirst(raw, contextLeagueID)
	}
	if !ok {
		return NormalizedPlayer{}, false
	}

	if err := m.validate.Struct(out); err != nil {
		return NormalizedPlayer{}, false
	}
	if err := out.toPlayer().Validate(); err != nil {
		return NormalizedPlayer{}, false
	}
	return out, true
}

func (n NormalizedPlayer) toPlayer() player.Player {
	return player.Player{
		ExternalID:  n.ExternalID,
		Name:        n.Name,
		Nationality: n.Nationality,
		Position:    n.Position,
		Age:         n.Age,
		Height:      n.Height,
		Weight:      n.Weight,
		TeamName:    n.TeamName,
		Stats:       n.Stats,
		ImageURL:    n.ImageURL,
	}
}

type recordProbe struct {
	Player     json.RawMessage `json:"player"`
	Statistics json.RawMessage `json:"statistics"`
	Team       json.RawMessage `json:"team"`
}

type providerPlayer struct {
	ID          flexInt    `json:"id"`
	Name        flexString `json:"name"`
	Firstname   flexString `json:"firstname"`
	Lastname    flexString `json:"lastname"`
	Age         flexInt    `json:"age"`
	Nationality flexString `json:"nationality"`
	Height      flexString `json:"height"`
	Weight      flexString `json:"weight"`
	Photo       flexString `json:"photo"`
	Position    flexString `json:"position"`
}

type providerTeamRef struct {
	ID   flexInt    `json:"id"`
	Name flexString `json:"name"`
}

type statisticsBlock struct {
	Team   providerTeamRef `json:"team"`
	League providerTeamRef `json:"league"`
	Games  struct {
		Appearences *flexInt   `json:"appearences"`
		Appearances *flexInt   `json:"appearances"`
		Minutes     flexInt    `json:"minutes"`
		Position    flexString `json:"position"`
		Rating      flexString `json:"rating"`
	} `json:"games"`
	Goals struct {
		Total   flexInt `json:"total"`
		Assists flexInt `json:"assists"`
	} `json:"goals"`
}

type statisticsFirstRecord struct {
	Player     *providerPlayer   `json:"player"`
	Statistics []statisticsBlock `json:"statistics"`
}

type squadFirstRecord struct {
	Team   providerTeamRef `json:"team"`
	Player *providerPlayer `json:"player"`
}

func mapStatisticsFirst(raw []byte, contextLeagueID int64) (NormalizedPlayer, bool) {
	var rec statisticsFirstRecord
	if err := sonic.Unmarshal(raw, &rec); err != nil || rec.Player == nil {
		return NormalizedPlayer{}, false
	}

	out := normalizedFromPlayer(*rec.Player)
	block, found := pickStatisticsBlock(rec.Statistics, contextLeagueID)
	if !found {
		return out, true
	}

	appearances := 0
	switch {
	case block.Games.Appearences != nil:
		appearances = int(*block.Games.Appearences)
	case block.Games.Appearances != nil:
		appearances = int(*block.Games.Appearances)
	}

	teamName := strings.TrimSpace(string(block.Team.Name))
	out.TeamExternalID = int64(block.Team.ID)
	out.TeamName = teamName
	out.Position = orUnknown(firstNonEmpty(string(block.Games.Position), string(rec.Player.Position)))
	out.Stats = player.Statistics{
		TeamName:      teamName,
		Goals:         int(block.Goals.Total),
		Assists:       int(block.Goals.Assists),
		Appearances:   appearances,
		MinutesPlayed: int(block.Games.Minutes),
		Rating:        normalizeRating(string(block.Games.Rating)),
	}
	return out, true
}

func mapSquadFirst(raw []byte) (NormalizedPlayer, bool) {
	var rec squadFirstRecord
	if err := sonic.Unmarshal(raw, &rec); err != nil || rec.Player == nil {
		return NormalizedPlayer{}, false
	}

	out := normalizedFromPlayer(*rec.Player)
	teamName := strings.TrimSpace(string(rec.Team.Name))
	out.TeamExternalID = int64(rec.Team.ID)
	out.TeamName = teamName
	out.Stats.TeamName = teamName
	return out, true
}

func normalizedFromPlayer(p providerPlayer) NormalizedPlayer {
	name := strings.TrimSpace(string(p.Name))
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(string(p.Firstname)) + " " + strings.TrimSpace(string(p.Lastname)))
	}

	return NormalizedPlayer{
		ExternalID:  int64(p.ID),
		Name:        name,
		Nationality: orUnknown(string(p.Nationality)),
		Position:    orUnknown(string(p.Position)),
		Age:         int(p.Age),
		Height:      orUnknown(string(p.Height)),
		Weight:      orUnknown(string(p.Weight)),
		ImageURL:    strings.TrimSpace(string(p.Photo)),
		Stats:       player.Statistics{Rating: player.Unknown},
	}
}

func pickStatisticsBlock(blocks []statisticsBlock, contextLeagueID int64) (statisticsBlock, bool) {
	if len(blocks) == 0 {
		return statisticsBlock{}, false
	}
	if contextLeagueID > 0 {
		for _, block := range blocks {
			if int64(block.League.ID) == contextLeagueID {
				return block, true
			}
		}
	}
	return blocks[0], true
}

func normalizeRating(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return player.Unknown
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func orUnknown(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return player.Unknown
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}

func isJSONNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// flexInt reads numbers that may arrive as JSON numbers, numeric strings or null.
// Values outside the int64 range read as 0.
type flexInt int64

func (v *flexInt) UnmarshalJSON(raw []byte) error {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if text == "" || text == "null" {
		*v = 0
		return nil
	}
	if parsed, err := strconv.ParseInt(text, 10, 64); err == nil {
		*v = flexInt(parsed)
		return nil
	}
	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(parsed) || parsed >= math.MaxInt64 || parsed < math.MinInt64 {
		*v = 0
		return nil
	}
	*v = flexInt(parsed)
	return nil
}

// flexString reads strings that may arrive as numbers or null.
type flexString string

func (v *flexString) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := sonic.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = flexString(s)
		return nil
	}
	*v = flexString(trimmed)
	return nil
}
