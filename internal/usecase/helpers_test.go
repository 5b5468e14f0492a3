package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

type sequenceIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return "ply_test_" + strconv.Itoa(g.next), nil
}

type recordingLimiter struct {
	mu    sync.Mutex
	waits []time.Duration
	err   error
}

func (l *recordingLimiter) Wait(ctx context.Context, d time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.waits = append(l.waits, d)
	if l.err != nil {
		return l.err
	}
	return ctx.Err()
}

func (l *recordingLimiter) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.waits)
}

type pageCall struct {
	resource string
	params   map[string]string
	page     int
}

// scriptedSource serves pages per resource key in order and records every call.
type scriptedSource struct {
	mu    sync.Mutex
	pages map[string][]scriptedPage
	teams map[int64][]ExternalTeam
	calls []pageCall

	teamsErr error
}

type scriptedPage struct {
	page ExternalPage
	err  error
}

func newScriptedSource() *scriptedSource {
	return &scriptedSource{
		pages: make(map[string][]scriptedPage),
		teams: make(map[int64][]ExternalTeam),
	}
}

func sourceKey(resource string, params map[string]string) string {
	return resource + "?team=" + params["team"] + "&league=" + params["league"]
}

func (s *scriptedSource) addPage(resource string, params map[string]string, page ExternalPage, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sourceKey(resource, params)
	s.pages[key] = append(s.pages[key], scriptedPage{page: page, err: err})
}

func (s *scriptedSource) FetchPage(_ context.Context, resource string, params map[string]string, page int) (ExternalPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, pageCall{resource: resource, params: params, page: page})
	script := s.pages[sourceKey(resource, params)]
	if page-1 >= len(script) {
		return ExternalPage{}, fmt.Errorf("unexpected page %d for %s", page, resource)
	}
	step := script[page-1]
	return step.page, step.err
}

func (s *scriptedSource) FetchTeams(_ context.Context, leagueID int64, _ int) ([]ExternalTeam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.teamsErr != nil {
		return nil, s.teamsErr
	}
	return s.teams[leagueID], nil
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func records(raw ...string) []ExternalRecord {
	out := make([]ExternalRecord, 0, len(raw))
	for _, item := range raw {
		out = append(out, ExternalRecord(item))
	}
	return out
}
