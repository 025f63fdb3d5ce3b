package boxscore

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/boxscore-refiner/internal/domain/category"
	"github.com/riskibarqy/boxscore-refiner/internal/domain/game"
)

var fixedNow = time.Date(2025, 10, 12, 17, 30, 0, 0, time.UTC)

func decode(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var out any
	require.NoError(t, dec.Decode(&out))
	return out
}

func newTestExtractor() *Extractor {
	return NewExtractor(category.Default(), func() time.Time { return fixedNow })
}

const liveBoxscore = `{
  "players": [
    {
      "team": {"id": 4, "abbreviation": "CIN", "displayName": "Cincinnati Bengals"},
      "statistics": [
        {
          "name": "passing",
          "keys": ["completions/passingAttempts", "passingYards", "passingTouchdowns"],
          "totals": ["22/31", "1,251", "2"],
          "athletes": [
            {"athlete": {"id": "3915511", "displayName": "Joe Burrow", "position": {"abbreviation": "QB"}, "jersey": "9", "headshot": {"href": "https://img/3915511.png"}}, "stats": ["22/31", "251", "2"]}
          ]
        },
        {
          "name": "defense",
          "keys": ["totalTackles", "interceptions", "yards"],
          "athletes": [
            {"athlete": {"id": "4", "displayName": "Cam Taylor-Britt"}, "stats": ["5", "1", "28"]},
            "garbage",
            {"athlete": {}, "stats": ["1", "0", "0"]}
          ]
        }
      ]
    },
    {"team": {"abbreviation": "NOID"}},
    {
      "team": {"id": "5", "abbreviation": "CLE", "displayName": "Cleveland Browns"},
      "statistics": [
        {"name": "rushing", "keys": ["rushingAttempts", "rushingYards"], "athletes": [{"athlete": {"displayName": "Nick Chubb"}, "stats": ["18", "97"]}]}
      ]
    }
  ],
  "teams": [
    {"team": {"id": "4", "abbreviation": "CIN"}, "homeAway": "home", "displayOrder": 2},
    {"team": {"id": "5"}, "homeAway": "away", "displayOrder": 1}
  ]
}`

const header = `"header": {"competitions": [{"status": {"type": {"state": "in"}, "period": 3}, "competitors": [
  {"team": {"id": "4"}, "score": "24", "possession": true},
  {"team": {"id": "5"}, "score": "17", "possession": false}
]}]}`

func TestLocateRoot(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"top level": liveBoxscore,
		"boxscore":  `{"boxscore": ` + liveBoxscore + `}`,
		"summary":   `{"summary": {"boxscore": ` + liveBoxscore + `}}`,
	}
	for name, raw := range cases {
		root, ok := LocateRoot(decode(t, raw))
		require.True(t, ok, name)
		_, hasPlayers := root["players"]
		assert.True(t, hasPlayers, name)
	}

	for _, raw := range []string{`{}`, `[]`, `"x"`, `{"boxscore": null}`, `{"players": []}`, `{"summary": {"boxscore": {}}}`} {
		_, ok := LocateRoot(decode(t, raw))
		assert.False(t, ok, raw)
	}
}

func TestExtract_NoBoxscoreYieldsNoteDocument(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`{}`, `{"header": {}}`, `null`, `[1,2]`, `{"boxscore": "oops"}`} {
		res := newTestExtractor().Extract(decode(t, raw), "401")
		assert.Equal(t, "401", res.Game.EventID)
		assert.NotNil(t, res.Game.Teams)
		assert.Empty(t, res.Game.Teams)
		assert.Equal(t, game.NoBoxscoreNote, res.Game.Note)
		assert.Equal(t, fixedNow, res.Game.GeneratedAt)
	}
}

func TestExtract_LiveGame(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{"boxscore": `+liveBoxscore+`, `+header+`}`)
	res := newTestExtractor().Extract(raw, "401772")
	g := res.Game

	assert.Equal(t, game.StatusInProgress, g.Status)
	require.NotNil(t, g.Period)
	assert.Equal(t, 3, *g.Period)
	assert.Empty(t, g.Note)
	require.Len(t, g.Teams, 2)

	cin := g.Teams[0]
	assert.Equal(t, "4", cin.TeamID)
	assert.Equal(t, 24.0, cin.Score)
	assert.True(t, cin.Possession)
	assert.Equal(t, "home", cin.HomeAway)
	require.NotNil(t, cin.DisplayOrder)
	assert.Equal(t, 2, *cin.DisplayOrder)
	assert.Equal(t, "22/31", cin.Stats[category.Passing]["completions/passingAttempts"])
	assert.Equal(t, int64(1251), cin.Stats[category.Passing]["passingYards"])

	require.Len(t, cin.Players, 2)
	burrow := cin.Players[0]
	assert.Equal(t, "3915511", burrow.AthleteID)
	assert.Equal(t, "QB", burrow.Position)
	assert.Equal(t, "9", burrow.Jersey)
	assert.Equal(t, "https://img/3915511.png", burrow.HeadshotURL)
	assert.Equal(t, int64(251), burrow.Stats[category.Passing]["passingYards"])
	assert.Equal(t, "0/0", burrow.Stats[category.Kicking]["fieldGoalsMade/fieldGoalAttempts"])

	db := cin.Players[1]
	assert.Equal(t, int64(5), db.Stats[category.Defensive]["totalTackles"])
	assert.Equal(t, int64(1), db.Stats[category.Interceptions]["interceptions"])
	assert.Equal(t, int64(28), db.Stats[category.Interceptions]["interceptionYards"])

	cle := g.Teams[1]
	assert.Equal(t, 17.0, cle.Score)
	assert.False(t, cle.Possession)
	assert.Equal(t, "Cleveland Browns", cle.DisplayName)
	require.Len(t, cle.Players, 1)
	assert.Equal(t, "name:Nick Chubb", cle.Players[0].Identity().String())

	scopes := map[string]int{}
	for _, s := range res.Skips {
		scopes[s.Scope]++
	}
	assert.Equal(t, 1, scopes[ScopeTeam], "team without id")
	assert.Equal(t, 2, scopes[ScopeAthlete], "non-object athlete and athlete without identity")
}

func TestExtract_PreGameTeamsOnly(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{
	  "boxscore": {"teams": [
	    {"team": {"id": "12", "abbreviation": "KC", "displayName": "Kansas City Chiefs"}, "homeAway": "home"},
	    {"team": {"id": "33", "abbreviation": "BAL"}, "homeAway": "away"}
	  ]},
	  "header": {"competitions": [{"status": {"type": {"name": "status_scheduled"}, "period": 0}}]}
	}`)
	g := newTestExtractor().Extract(raw, "9").Game

	assert.Equal(t, game.StatusScheduled, g.Status)
	assert.Nil(t, g.Period)
	require.Len(t, g.Teams, 2)
	for _, team := range g.Teams {
		assert.Empty(t, team.Players)
		assert.NotNil(t, team.Players)
		assert.Len(t, team.Stats, len(category.Default().Categories()))
		assert.Zero(t, team.Score)
	}
}

func TestExtract_ScoringPlays(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{
	  "boxscore": {"teams": [{"team": {"id": "1"}}, {"team": {"id": "2"}}]},
	  "scoringPlays": [
	    {"team": {"id": "1"}, "type": {"abbreviation": "TD"}},
	    {"team": {"id": "1"}, "type": {"abbreviation": "FG"}},
	    {"team": {"id": "2"}, "type": {"abbreviation": "TD"}},
	    {"team": {"id": "3"}, "type": {"abbreviation": "TD"}},
	    {"team": {"id": "2"}, "type": {"abbreviation": "PAT"}}
	  ]
	}`)
	g := newTestExtractor().Extract(raw, "7").Game

	require.Len(t, g.Teams, 2, "a scoring play must not create a team")
	assert.Equal(t, category.Fields{"touchdowns": int64(1), "fieldGoals": int64(1), "safeties": int64(0)}, g.Teams[0].Stats[category.Scoring])
	assert.Equal(t, category.Fields{"touchdowns": int64(1), "fieldGoals": int64(0), "safeties": int64(0)}, g.Teams[1].Stats[category.Scoring])
}

func TestExtract_DoesNotReferenceRawTree(t *testing.T) {
	t.Parallel()

	raw := decode(t, `{"boxscore": `+liveBoxscore+`}`)
	g := newTestExtractor().Extract(raw, "1").Game

	root, _ := LocateRoot(raw)
	root["players"] = nil
	assert.Equal(t, "22/31", g.Teams[0].Players[0].Stats[category.Passing]["completions/passingAttempts"])
}
