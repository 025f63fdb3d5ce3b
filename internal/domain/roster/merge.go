package roster

import (
	"sort"
	"strings"

	"github.com/riskibarqy/boxscore-refiner/internal/domain/category"
	"github.com/riskibarqy/boxscore-refiner/internal/domain/game"
)

// MergeStats counts what a merge changed.
type MergeStats struct {
	Inserted   int
	Backfilled int
	Unrostered int
}

// FieldUnion returns the default and scoring schemas extended with every
// field already present on the game's players and teams.
func FieldUnion(g game.Game) category.Schema {
	union := category.Default().Union(category.ScoringSchema())
	observe := func(stats category.Stats) {
		for name, fields := range stats {
			for field := range fields {
				union.Observe(name, field)
			}
		}
	}
	for _, t := range g.Teams {
		observe(t.Stats)
		for _, p := range t.Players {
			observe(p.Stats)
		}
	}
	return union
}

// Merge returns a copy of g in which every rostered player of both teams is
// present and every player and team carries every field of the union at its
// default when absent. Existing values and populated metadata are never
// overwritten. Merging the result again changes nothing.
func Merge(g game.Game, corpus *Corpus) (game.Game, MergeStats) {
	out := g.Clone()
	union := FieldUnion(out)
	var stats MergeStats

	for i := range out.Teams {
		team := &out.Teams[i]
		entries, ok := corpus.Lookup(team.Abbreviation, team.TeamID)
		if !ok {
			stats.Unrostered++
		}

		index := make(map[game.Identity]int, len(team.Players))
		for j, p := range team.Players {
			index[p.Identity()] = j
		}
		for _, e := range entries {
			key := e.Identity()
			if j, found := index[key]; found {
				if backfill(&team.Players[j], e) {
					stats.Backfilled++
				}
				continue
			}
			team.Players = append(team.Players, game.Player{
				AthleteID:   e.AthleteID,
				FullName:    e.FullName,
				Position:    e.Position,
				Jersey:      e.Jersey,
				HeadshotURL: e.HeadshotURL,
				Stats:       make(category.Stats),
			})
			index[key] = len(team.Players) - 1
			stats.Inserted++
		}

		if team.Stats == nil {
			team.Stats = make(category.Stats)
		}
		union.Fill(team.Stats)
		for j := range team.Players {
			if team.Players[j].Stats == nil {
				team.Players[j].Stats = make(category.Stats)
			}
			union.Fill(team.Players[j].Stats)
		}
		sortPlayers(team.Players)
	}
	return out, stats
}

func backfill(p *game.Player, e Entry) bool {
	changed := false
	if p.Position == "" && e.Position != "" {
		p.Position = e.Position
		changed = true
	}
	if p.Jersey == "" && e.Jersey != "" {
		p.Jersey = e.Jersey
		changed = true
	}
	if p.HeadshotURL == "" && e.HeadshotURL != "" {
		p.HeadshotURL = e.HeadshotURL
		changed = true
	}
	return changed
}

func sortPlayers(players []game.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := strings.ToLower(players[i].FullName), strings.ToLower(players[j].FullName)
		if a != b {
			return a < b
		}
		return players[i].AthleteID < players[j].AthleteID
	})
}
