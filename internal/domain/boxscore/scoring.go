package boxscore

import (
	"strings"

	"github.com/riskibarqy/boxscore-refiner/internal/domain/category"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/jsonpath"
)

// scoringPlays finds the play-by-play scoring list regardless of key casing.
func scoringPlays(raw any) ([]map[string]any, bool) {
	top, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	if plays := jsonpath.Get(top, "scoringPlays"); plays.Present() {
		return plays.Maps(), true
	}
	for key, value := range top {
		if strings.EqualFold(key, "scoringPlays") {
			if _, ok := value.([]any); ok {
				return jsonpath.Of(value).Maps(), true
			}
		}
	}
	return nil, false
}

// AggregateScoring counts touchdowns, field goals and safeties per team. Only
// teams in teamIDs are counted; a play naming any other team is ignored. The
// second result is false when the payload has no scoring list at all.
func AggregateScoring(raw any, teamIDs []string) (map[string]category.Fields, bool) {
	plays, ok := scoringPlays(raw)
	if !ok {
		return nil, false
	}

	counts := make(map[string]*[3]int64, len(teamIDs))
	for _, id := range teamIDs {
		counts[id] = &[3]int64{}
	}

	for _, play := range plays {
		teamID := jsonpath.Get(play, "team", "id").StringOr("")
		tally, known := counts[teamID]
		if teamID == "" || !known {
			continue
		}
		abbr := jsonpath.First(
			jsonpath.Get(play, "scoringType", "abbreviation"),
			jsonpath.Get(play, "type", "abbreviation"),
		).StringOr("")
		switch strings.ToUpper(abbr) {
		case "TD":
			tally[0]++
		case "FG":
			tally[1]++
		case "S":
			tally[2]++
		}
	}

	out := make(map[string]category.Fields, len(counts))
	for id, tally := range counts {
		out[id] = category.Fields{
			"touchdowns": tally[0],
			"fieldGoals": tally[1],
			"safeties":   tally[2],
		}
	}
	return out, true
}
