package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/radieske/dota2-scout/internal/scout/dto"
	"github.com/radieske/dota2-scout/internal/scout/stratz"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) int64 { return now.Add(-d).Unix() }
	day := 24 * time.Hour

	cases := []struct {
		ts   int64
		want string
	}{
		{ago(30 * time.Second), "just now"},
		{ago(time.Minute), "1 minute ago"},
		{ago(59 * time.Minute), "59 minutes ago"},
		{ago(2 * time.Hour), "2 hours ago"},
		{ago(day), "1 day ago"},
		{ago(6 * day), "6 days ago"},
		{ago(7 * day), "1 week ago"},
		{ago(27 * day), "3 weeks ago"},
		{ago(29 * day), "4 weeks ago"},
		{ago(30 * day), "1 month ago"},
		{ago(200 * day), "6 months ago"},
		{ago(365 * day), "1 year ago"},
		{ago(800 * day), "2 years ago"},
	}
	for _, c := range cases {
		if got := RelativeTime(now, c.ts); got != c.want {
			t.Errorf("RelativeTime(%d) = %q, want %q", now.Unix()-c.ts, got, c.want)
		}
	}
}

func TestParsePositions(t *testing.T) {
	cases := map[string][]dto.Position{
		"CARRY":        {dto.Position1},
		"mid":          {dto.Position2},
		"OFFLANE":      {dto.Position3},
		"SOFT_SUPPORT": {dto.Position4},
		"HARD_SUPPORT": {dto.Position5},
		"SUPPORT":      {dto.Position4, dto.Position5},
	}
	for in, want := range cases {
		got, err := ParsePositions(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if len(got) != len(want) || got[0] != want[0] {
			t.Fatalf("%s: got %v want %v", in, got, want)
		}
	}
	if _, err := ParsePositions("JUNGLE"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestFormatLine(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := stratz.HeroStat{HeroID: 1, MatchCount: 3, WinCount: 2, LastMatchDateTime: now.Add(-2 * time.Hour).Unix()}
	if got := FormatLine(s, now); got != "Anti-Mage: 2-1 (67%), 2 hours ago" {
		t.Fatalf("got %q", got)
	}
}

type fakeSource struct {
	recent, byPos, overall []stratz.HeroStat
	err                    error
	gotPositions           []string
}

func (f *fakeSource) RecentHeroes(_ context.Context, _ int64, positions []string) ([]stratz.HeroStat, error) {
	f.gotPositions = positions
	return f.recent, f.err
}

func (f *fakeSource) TopHeroesByPosition(_ context.Context, _ int64, _ []string) ([]stratz.HeroStat, error) {
	return f.byPos, nil
}

func (f *fakeSource) TopHeroes(_ context.Context, _ int64) ([]stratz.HeroStat, error) {
	return f.overall, nil
}

func TestFetchAndPrint(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ts := now.Add(-time.Hour).Unix()
	src := &fakeSource{
		recent: []stratz.HeroStat{
			{HeroID: 2, MatchCount: 1, WinCount: 1, LastMatchDateTime: ts},
			{HeroID: 1, MatchCount: 4, WinCount: 1, LastMatchDateTime: ts},
		},
		overall: []stratz.HeroStat{{HeroID: 8, MatchCount: 10, WinCount: 5, LastMatchDateTime: ts}},
	}

	r, err := Fetch(context.Background(), src, 42, []dto.Position{dto.Position1})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(src.gotPositions) != 1 || src.gotPositions[0] != "POSITION_1" {
		t.Fatalf("positions = %v", src.gotPositions)
	}

	var buf bytes.Buffer
	if err := Print(&buf, r, now); err != nil {
		t.Fatalf("print: %v", err)
	}
	want := strings.Join([]string{
		"Recent heroes:",
		"Anti-Mage: 1-3 (25%), 1 hour ago",
		"Axe: 1-0 (100%), 1 hour ago",
		"",
		"Top heroes by position:",
		"",
		"Top 10 heroes:",
		"Juggernaut: 5-5 (50%), 1 hour ago",
		"",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFetchError(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	if _, err := Fetch(context.Background(), src, 1, nil); err == nil {
		t.Fatal("expected error")
	}
}
