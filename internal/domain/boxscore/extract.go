// Package boxscore turns one raw boxscore payload into a canonical game
// document. Nothing here returns an error: a payload without a boxscore yields
// the note document, and malformed records are skipped and reported.
package boxscore

import (
	"strconv"
	"time"

	"github.com/riskibarqy/boxscore-refiner/internal/domain/category"
	"github.com/riskibarqy/boxscore-refiner/internal/domain/game"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/jsonpath"
)

const (
	ScopeTeam     = "team"
	ScopeCategory = "category"
	ScopeAthlete  = "athlete"
)

// Skip records one raw record the extractor had to drop.
type Skip struct {
	Scope  string
	Key    string
	Reason string
}

// Result is the extracted document plus every record skipped on the way.
type Result struct {
	Game  game.Game
	Skips []Skip
}

type Extractor struct {
	schema category.Schema
	now    func() time.Time
}

func NewExtractor(schema category.Schema, now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{schema: schema, now: now}
}

// LocateRoot finds the boxscore object: the payload itself when it carries
// players and teams arrays, then "boxscore", then "summary.boxscore".
func LocateRoot(raw any) (map[string]any, bool) {
	top, ok := raw.(map[string]any)
	if !ok || len(top) == 0 {
		return nil, false
	}
	_, hasPlayers := jsonpath.Get(top, "players").Slice()
	_, hasTeams := jsonpath.Get(top, "teams").Slice()
	if hasPlayers && hasTeams {
		return top, true
	}
	for _, path := range [][]any{{"boxscore"}, {"summary", "boxscore"}} {
		if root, ok := jsonpath.Get(top, path...).Map(); ok && len(root) > 0 {
			return root, true
		}
	}
	return nil, false
}

// Extract builds the canonical document for eventID. Teams are not yet
// roster-merged.
func (e *Extractor) Extract(raw any, eventID string) Result {
	b := game.NewBuilder(eventID, e.schema)
	status, period := ExtractStatus(raw)
	header := game.Header{
		GeneratedAt: e.now(),
		Status:      status,
		Period:      period,
		Drive:       ExtractDrive(raw),
	}

	root, ok := LocateRoot(raw)
	if !ok {
		header.Note = game.NoBoxscoreNote
		return Result{Game: b.Finalize(header)}
	}

	x := &extraction{
		builder:    b,
		scoreboard: readScoreboard(raw),
	}
	for i, block := range jsonpath.Get(root, "players").Maps() {
		x.statsPass(i, block)
	}
	x.skipNonObjects(ScopeTeam, "players", jsonpath.Get(root, "players"))
	for i, block := range jsonpath.Get(root, "teams").Maps() {
		x.metadataPass(i, block)
	}
	x.skipNonObjects(ScopeTeam, "teams", jsonpath.Get(root, "teams"))

	if counts, ok := AggregateScoring(raw, b.TeamIDs()); ok {
		for teamID, fields := range counts {
			if tb, found := b.Lookup(teamID); found {
				tb.SetCategory(category.Scoring, fields)
			}
		}
	}

	return Result{Game: b.Finalize(header), Skips: x.skips}
}

type competitor struct {
	score      float64
	possession bool
}

type extraction struct {
	builder    *game.Builder
	scoreboard map[string]competitor
	skips      []Skip
}

func (x *extraction) skip(scope, key, reason string) {
	x.skips = append(x.skips, Skip{Scope: scope, Key: key, Reason: reason})
}

func (x *extraction) skipNonObjects(scope, key string, v jsonpath.Value) {
	items, _ := v.Slice()
	for i, item := range items {
		if _, ok := item.(map[string]any); !ok {
			x.skip(scope, key+"["+strconv.Itoa(i)+"]", "record is not an object")
		}
	}
}

// ensureTeam creates the team on first sight with its scoreboard values.
func (x *extraction) ensureTeam(meta game.TeamMeta) *game.TeamBuilder {
	_, existed := x.builder.Lookup(meta.ID)
	tb := x.builder.Team(meta)
	if !existed {
		c := x.scoreboard[meta.ID]
		tb.SetScore(c.score)
		tb.SetPossession(c.possession)
	}
	return tb
}

func (x *extraction) statsPass(index int, block map[string]any) {
	meta := teamMeta(jsonpath.Get(block, "team"))
	if meta.ID == "" {
		x.skip(ScopeTeam, "players["+strconv.Itoa(index)+"]", "team id missing")
		return
	}
	tb := x.ensureTeam(meta)

	statistics := jsonpath.Get(block, "statistics")
	x.skipNonObjects(ScopeCategory, meta.ID+".statistics", statistics)
	for _, rawCat := range statistics.Maps() {
		name := jsonpath.Get(rawCat, "name").StringOr("")
		if name == "" {
			name = "unknown"
		}
		if totals := category.ParseTotals(rawCat); len(totals) > 0 {
			tb.ApplyStats(category.Map(name, totals))
		}

		athletes := jsonpath.Get(rawCat, "athletes")
		x.skipNonObjects(ScopeAthlete, meta.ID+"."+name, athletes)
		for i, entry := range athletes.Maps() {
			pm := playerMeta(jsonpath.Get(entry, "athlete"))
			if pm.AthleteID == "" && pm.FullName == "" {
				x.skip(ScopeAthlete, meta.ID+"."+name+"["+strconv.Itoa(i)+"]", "athlete has neither id nor name")
				continue
			}
			tb.ApplyPlayerStats(pm, category.Map(name, category.ParseRecord(rawCat, entry)))
		}
	}
}

func (x *extraction) metadataPass(index int, block map[string]any) {
	meta := teamMeta(jsonpath.Get(block, "team"))
	if meta.ID == "" {
		x.skip(ScopeTeam, "teams["+strconv.Itoa(index)+"]", "team id missing")
		return
	}
	tb := x.ensureTeam(meta)
	tb.SetHomeAway(jsonpath.Get(block, "homeAway").StringOr(""))
	if order, ok := jsonpath.Get(block, "displayOrder").Int(); ok {
		tb.SetDisplayOrder(int(order))
	}
}

func teamMeta(team jsonpath.Value) game.TeamMeta {
	return game.TeamMeta{
		ID:           team.Get("id").StringOr(""),
		Abbreviation: team.Get("abbreviation").StringOr(""),
		DisplayName:  team.Get("displayName").StringOr(""),
	}
}

func playerMeta(athlete jsonpath.Value) game.PlayerMeta {
	return game.PlayerMeta{
		AthleteID:   athlete.Get("id").StringOr(""),
		FullName:    jsonpath.First(athlete.Get("displayName"), athlete.Get("fullName")).StringOr(""),
		Position:    jsonpath.First(athlete.Get("position", "abbreviation"), athlete.Get("position", "name")).StringOr(""),
		Jersey:      athlete.Get("jersey").StringOr(""),
		HeadshotURL: athlete.Get("headshot", "href").StringOr(""),
	}
}

// readScoreboard pulls scores and possession from the first competition.
func readScoreboard(raw any) map[string]competitor {
	out := make(map[string]competitor)
	for _, c := range jsonpath.Get(raw, "header", "competitions", 0, "competitors").Maps() {
		teamID := jsonpath.Get(c, "team", "id").StringOr("")
		if teamID == "" {
			continue
		}
		entry := competitor{possession: jsonpath.Get(c, "possession").Bool()}
		switch score := category.Coerce(jsonpath.Get(c, "score").Raw()).(type) {
		case int64:
			entry.score = float64(score)
		case float64:
			entry.score = score
		}
		out[teamID] = entry
	}
	return out
}
