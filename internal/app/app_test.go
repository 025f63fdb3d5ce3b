package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/boxscore-refiner/internal/config"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/logging"
)

const rawGame = `{
  "header": {"competitions": [{"status": {"period": 2, "type": {"name": "STATUS_IN_PROGRESS", "state": "in"}},
    "competitors": [{"team": {"id": "4"}, "score": "14", "homeAway": "home"}, {"team": {"id": "5"}, "score": "3", "homeAway": "away"}]}]},
  "boxscore": {
    "teams": [
      {"team": {"id": "4", "abbreviation": "CIN", "displayName": "Cincinnati Bengals"}, "homeAway": "home"},
      {"team": {"id": "5", "abbreviation": "CLE", "displayName": "Cleveland Browns"}, "homeAway": "away"}
    ],
    "players": [{
      "team": {"id": "4", "abbreviation": "CIN"},
      "statistics": [{"name": "passing", "keys": ["completions/passingAttempts", "passingYards"],
        "athletes": [{"athlete": {"id": "3915511", "displayName": "Joe Burrow"}, "stats": ["12/18", "1,104"]}]}]
    }]
  }
}`

const cinRoster = `{
  "team": {"id": "4", "abbreviation": "CIN"},
  "athletes": [{"position": "offense", "items": [
    {"id": "3915511", "displayName": "Joe Burrow", "position": {"abbreviation": "QB"}, "jersey": "9"},
    {"id": "4362628", "displayName": "Ja'Marr Chase", "position": {"abbreviation": "WR"}, "jersey": "1",
     "headshot": {"href": "https://a.espncdn.com/i/headshots/nfl/players/full/4362628.png"}}
  ]}]
}`

type refinedDoc struct {
	EventID string `json:"eventId"`
	Status  string `json:"status"`
	Teams   []struct {
		Abbreviation string         `json:"abbreviation"`
		Score        float64        `json:"score"`
		Stats        map[string]any `json:"stats"`
		Players      []struct {
			AthleteID   string         `json:"athleteId"`
			FullName    string         `json:"fullName"`
			Position    string         `json:"position"`
			HeadshotURL string         `json:"headshotUrl"`
			Stats       map[string]any `json:"stats"`
		} `json:"players"`
	} `json:"teams"`
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func testConfig(root string) config.Config {
	return config.Config{
		AppEnv:            config.EnvDev,
		ServiceName:       "boxscore-refiner",
		ServiceVersion:    "test",
		SourceDir:         filepath.Join(root, "nfl_live_stats"),
		RostersDir:        filepath.Join(root, "nfl_rosters"),
		OutputDir:         filepath.Join(root, "nfl_refined_live_stats"),
		Interval:          config.DefaultInterval,
		RosterLoadWorkers: 2,
		RosterCacheTTL:    time.Minute,
	}
}

func TestNewRefiner_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t.TempDir())
	cfg.OutputDir = cfg.SourceDir

	_, err := NewRefiner(cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNewRefiner_RefinesDirectoryEndToEnd(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := testConfig(root)
	writeFile(t, cfg.SourceDir, "401772.json", rawGame)
	writeFile(t, cfg.SourceDir, "401773.json", `{"boxscore": `)
	writeFile(t, cfg.RostersDir, "CIN_roster.json", cinRoster)
	writeFile(t, cfg.OutputDir, "401000.json", `{"eventId": "401000"}`)

	svc, err := NewRefiner(cfg, logging.NewNop())
	require.NoError(t, err)

	report, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Refined)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, []string{"401000"}, report.Orphans.Deleted)
	assert.Equal(t, 1, report.RosterTeams)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "401000.json"))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "401772.json"))
	require.NoError(t, err)

	var doc refinedDoc
	require.NoError(t, sonic.ConfigStd.Unmarshal(data, &doc))
	assert.Equal(t, "401772", doc.EventID)
	assert.Equal(t, "STATUS_IN_PROGRESS", doc.Status)
	require.Len(t, doc.Teams, 2)

	cin := doc.Teams[0]
	assert.Equal(t, "CIN", cin.Abbreviation)
	assert.Equal(t, float64(14), cin.Score)
	require.Len(t, cin.Players, 2)
	assert.Equal(t, "Ja'Marr Chase", cin.Players[0].FullName)
	assert.Equal(t, "WR", cin.Players[0].Position)
	assert.NotEmpty(t, cin.Players[0].HeadshotURL)
	assert.Equal(t, "Joe Burrow", cin.Players[1].FullName)
	assert.Equal(t, "QB", cin.Players[1].Position)
	assert.EqualValues(t, 1104, cin.Players[1].Stats["passing"].(map[string]any)["passingYards"])

	// Chase has no passing line but still gets the zero-filled category.
	assert.EqualValues(t, 0, cin.Players[0].Stats["passing"].(map[string]any)["passingYards"])
	assert.Contains(t, cin.Stats, "scoring")
}
