package roster

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/riskibarqy/boxscore-refiner/internal/platform/jsonpath"
)

const rosterSuffix = "_roster.json"

var ErrUnidentifiedTeam = errors.New("roster team cannot be identified")

// ParseFile reads one decoded roster payload. name is the file's base name and
// is used to infer the abbreviation for files named <ABBR>_roster.json.
func ParseFile(name string, data any) (Team, error) {
	doc, ok := data.(map[string]any)
	if !ok {
		return Team{}, fmt.Errorf("roster %s: payload is not an object", name)
	}

	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	abbr := ""
	suffixed := strings.HasSuffix(strings.ToLower(base), rosterSuffix)
	if suffixed {
		abbr, _, _ = strings.Cut(base, "_")
	}
	team := jsonpath.Get(doc, "team")
	if abbr == "" {
		abbr = jsonpath.First(team.Get("abbreviation"), team.Get("slug")).StringOr("")
	}
	if abbr == "" {
		abbr = stem
	}

	out := Team{
		Source:       base,
		ID:           team.Get("id").StringOr(""),
		Abbreviation: strings.ToUpper(strings.TrimSpace(abbr)),
	}
	// <teamId>.json without a team object is still addressable by id.
	if out.ID == "" && !suffixed && isNumeric(stem) {
		out.ID = stem
	}
	if out.ID == "" && out.Abbreviation == "" {
		return Team{}, fmt.Errorf("roster %s: %w", name, ErrUnidentifiedTeam)
	}

	for _, item := range athletes(doc) {
		a, ok := item.(map[string]any)
		if !ok {
			out.Skipped++
			continue
		}
		entry := parseEntry(jsonpath.Of(a))
		if entry.AthleteID == "" && entry.FullName == "" {
			out.Skipped++
			continue
		}
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// athletes flattens grouped athletes[].items[] or returns a flat athletes[].
func athletes(doc map[string]any) []any {
	list, _ := jsonpath.Get(doc, "athletes").Slice()
	if len(list) == 0 {
		return nil
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return list
	}
	if _, grouped := first["items"]; !grouped {
		return list
	}

	var out []any
	for _, group := range list {
		items, _ := jsonpath.Get(group, "items").Slice()
		out = append(out, items...)
	}
	return out
}

func parseEntry(a jsonpath.Value) Entry {
	pos := a.Get("position")
	position := jsonpath.First(pos.Get("abbreviation"), pos.Get("displayName"), pos.Get("name")).StringOr("")
	if position == "" {
		position = pos.StringOr("")
	}
	return Entry{
		AthleteID:   a.Get("id").StringOr(""),
		FullName:    jsonpath.First(a.Get("displayName"), a.Get("fullName")).StringOr(""),
		Position:    position,
		Jersey:      a.Get("jersey").StringOr(""),
		HeadshotURL: a.Get("headshot", "href").StringOr(""),
	}
}
