package apifootball

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/football-sync/internal/usecase"
)

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type pageEnvelope struct {
	Response []json.RawMessage `json:"response"`
	Paging   paging            `json:"paging"`
	Errors   providerErrors    `json:"errors"`
}

type teamsEnvelope struct {
	Response []teamItem     `json:"response"`
	Errors   providerErrors `json:"errors"`
}

type teamItem struct {
	Team struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Code     string `json:"code"`
		Country  string `json:"country"`
		National bool   `json:"national"`
		Logo     string `json:"logo"`
	} `json:"team"`
}

type squadEnvelope struct {
	Response []squadItem    `json:"response"`
	Errors   providerErrors `json:"errors"`
}

type squadItem struct {
	Team    json.RawMessage   `json:"team"`
	Players []json.RawMessage `json:"players"`
}

type squadMember struct {
	Team   json.RawMessage `json:"team"`
	Player json.RawMessage `json:"player"`
}

// flattenSquads turns {team, players[]} into one squad-first record per player.
func flattenSquads(items []squadItem) []usecase.ExternalRecord {
	out := make([]usecase.ExternalRecord, 0, 32)
	for _, item := range items {
		for _, p := range item.Players {
			raw, err := sonic.Marshal(squadMember{Team: item.Team, Player: p})
			if err != nil {
				continue
			}
			out = append(out, usecase.ExternalRecord(raw))
		}
	}
	return out
}

// providerErrors accepts the provider's "errors" field, which is an empty
// array on success and an object (or occasionally an array of strings) on rejection.
type providerErrors map[string]string

func (e *providerErrors) UnmarshalJSON(raw []byte) error {
	var decoded any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decode provider errors: %w", err)
	}

	out := providerErrors{}
	switch value := decoded.(type) {
	case map[string]any:
		for key, item := range value {
			if text := stringify(item); text != "" {
				out[key] = text
			}
		}
	case []any:
		for i, item := range value {
			if text := stringify(item); text != "" {
				out[strconv.Itoa(i)] = text
			}
		}
	case string:
		if text := strings.TrimSpace(value); text != "" {
			out["message"] = text
		}
	}

	*e = out
	return nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		raw, err := sonic.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(raw)
	}
}
