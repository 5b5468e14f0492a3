package usecase

import (
	"context"
	"sort"
	"strings"
)

// Provider resources used by the sync service.
const (
	ResourcePlayers    = "/players"
	ResourceTopScorers = "/players/topscorers"
	ResourceSquads     = "/players/squads"
)

// ExternalRecord is one raw element of a provider "response" array.
type ExternalRecord []byte

// ProviderErrors is the provider "errors" object. A non-empty value means the
// request was rejected, usually by the rate limiter.
type ProviderErrors map[string]string

func (e ProviderErrors) String() string {
	if len(e) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e[key])
	}
	return strings.Join(parts, "; ")
}

// ExternalPage is one decoded page of a paginated provider collection.
type ExternalPage struct {
	Records []ExternalRecord
	Current int
	Total   int
	Errors  ProviderErrors
}

type ExternalTeam struct {
	ExternalID int64
	Name       string
	Code       string
	Country    string
	National   bool
	LogoURL    string
}

// PageSource fetches a single page of a provider collection.
type PageSource interface {
	FetchPage(ctx context.Context, resource string, params map[string]string, page int) (ExternalPage, error)
}

// SportsProvider is the full provider surface the sync service depends on.
type SportsProvider interface {
	PageSource
	FetchTeams(ctx context.Context, leagueID int64, season int) ([]ExternalTeam, error)
}
