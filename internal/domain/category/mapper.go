package category

import (
	"strings"

	"github.com/riskibarqy/boxscore-refiner/internal/platform/jsonpath"
)

// ParseRecord reads one athlete entry of a raw stat category. Upstream sends
// keys[] with a parallel stats[] list, a stats{} map, or keys[] with totals[].
func ParseRecord(rawCategory, athlete map[string]any) Fields {
	keys := stringKeys(jsonpath.Get(rawCategory, "keys"))

	stats := jsonpath.Get(athlete, "stats")
	if values, ok := stats.Slice(); ok && len(keys) > 0 {
		return pair(keys, values)
	}
	if values, ok := stats.Map(); ok {
		return coerceMap(values)
	}
	if values, ok := jsonpath.Get(athlete, "totals").Slice(); ok && len(keys) > 0 {
		return pair(keys, values)
	}
	return Fields{}
}

// ParseTotals reads the team-level totals of a raw stat category.
func ParseTotals(rawCategory map[string]any) Fields {
	keys := stringKeys(jsonpath.Get(rawCategory, "keys"))
	totals := jsonpath.Get(rawCategory, "totals")
	if values, ok := totals.Slice(); ok && len(keys) > 0 {
		return pair(keys, values)
	}
	if values, ok := totals.Map(); ok {
		return coerceMap(values)
	}
	return Fields{}
}

func stringKeys(v jsonpath.Value) []string {
	items, ok := v.Slice()
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		key, _ := jsonpath.Of(item).String()
		keys = append(keys, key)
	}
	return keys
}

func pair(keys []string, values []any) Fields {
	out := make(Fields, len(keys))
	for i, key := range keys {
		if key == "" {
			continue
		}
		if i < len(values) {
			out[key] = Coerce(values[i])
			continue
		}
		out[key] = int64(0)
	}
	return out
}

func coerceMap(values map[string]any) Fields {
	out := make(Fields, len(values))
	for key, value := range values {
		out[key] = Coerce(value)
	}
	return out
}

// Map translates one parsed record of the raw category rawName into canonical
// writes. The result may touch more than one category: defensive interception
// fields are mirrored into the interceptions category. Unknown categories and
// empty records produce no writes.
func Map(rawName string, parsed Fields) Stats {
	if len(parsed) == 0 {
		return Stats{}
	}
	r := record(parsed)
	out := Stats{}

	switch strings.ToLower(strings.TrimSpace(rawName)) {
	case "passing":
		f := Fields{
			"passingYards":        r.first("passingYards", "yards"),
			"yardsPerPassAttempt": r.first("yardsPerPassAttempt", "yardsPerAttempt"),
			"passingTouchdowns":   r.first("passingTouchdowns", "touchdowns"),
			"interceptions":       r.first("interceptions"),
			"adjQBR":              r.first("adjQBR", "qbr"),
			"QBRating":            r.first("QBRating", "rating", "passerRating"),
		}
		r.combined(f, "completions/passingAttempts", "/", []string{"completions"}, []string{"attempts"})
		r.combined(f, "sacks-sackYardsLost", "-", []string{"sacks"}, []string{"sackYardsLost", "sackYards"})
		out[Passing] = f
	case "rushing":
		out[Rushing] = Fields{
			"rushingAttempts":     r.first("rushingAttempts", "attempts"),
			"rushingYards":        r.first("rushingYards", "yards"),
			"yardsPerRushAttempt": r.first("yardsPerRushAttempt", "yardsPerCarry"),
			"rushingTouchdowns":   r.first("rushingTouchdowns", "touchdowns"),
			"longRushing":         r.first("longRushing", "longest"),
		}
	case "receiving":
		out[Receiving] = Fields{
			"receptions":          r.first("receptions"),
			"receivingYards":      r.first("receivingYards", "yards"),
			"yardsPerReception":   r.first("yardsPerReception"),
			"receivingTouchdowns": r.first("receivingTouchdowns", "touchdowns"),
			"longReception":       r.first("longReception", "longest"),
			"receivingTargets":    r.first("receivingTargets", "targets"),
		}
	case "fumbles":
		out[Fumbles] = Fields{
			"fumbles":          r.first("fumbles"),
			"fumblesLost":      r.first("fumblesLost", "lost"),
			"fumblesRecovered": r.first("fumblesRecovered", "recovered"),
		}
	case "defense", "defensive":
		out[Defensive] = Fields{
			"totalTackles":        r.first("totalTackles", "tackles"),
			"soloTackles":         r.first("soloTackles"),
			"sacks":               r.first("sacks"),
			"tacklesForLoss":      r.first("tacklesForLoss", "tfl"),
			"passesDefended":      r.first("passesDefended"),
			"QBHits":              r.first("QBHits", "qbHits"),
			"defensiveTouchdowns": r.first("defensiveTouchdowns", "touchdowns"),
		}
		mirrored := Fields{}
		r.nonZero(mirrored, "interceptions", "interceptions")
		r.nonZero(mirrored, "interceptionYards", "interceptionYards", "yards")
		r.nonZero(mirrored, "interceptionTouchdowns", "interceptionTouchdowns", "touchdowns")
		if len(mirrored) > 0 {
			out[Interceptions] = mirrored
		}
	case "interceptions":
		out[Interceptions] = Fields{
			"interceptions":          r.first("interceptions", "picks"),
			"interceptionYards":      r.first("interceptionYards", "yards"),
			"interceptionTouchdowns": r.first("touchdowns", "interceptionTouchdowns"),
		}
	case "kickreturns":
		out[KickReturns] = Fields{
			"kickReturns":          r.first("kickReturns", "returns"),
			"kickReturnYards":      r.first("kickReturnYards", "yards"),
			"yardsPerKickReturn":   r.first("yardsPerKickReturn", "average"),
			"longKickReturn":       r.first("longKickReturn", "longest"),
			"kickReturnTouchdowns": r.first("kickReturnTouchdowns", "touchdowns"),
		}
	case "puntreturns":
		out[PuntReturns] = Fields{
			"puntReturns":          r.first("puntReturns", "returns"),
			"puntReturnYards":      r.first("puntReturnYards", "yards"),
			"yardsPerPuntReturn":   r.first("yardsPerPuntReturn", "average"),
			"longPuntReturn":       r.first("longPuntReturn", "longest"),
			"puntReturnTouchdowns": r.first("puntReturnTouchdowns", "touchdowns"),
		}
	case "kicking":
		f := Fields{
			"fieldGoalPct":       r.first("fieldGoalPct", "fgPct"),
			"longFieldGoalMade":  r.first("longFieldGoalMade", "longest"),
			"totalKickingPoints": r.first("totalKickingPoints", "points"),
		}
		r.combined(f, "fieldGoalsMade/fieldGoalAttempts", "/", []string{"fieldGoalsMade", "fgm"}, []string{"fieldGoalAttempts", "fga"})
		r.combined(f, "extraPointsMade/extraPointAttempts", "/", []string{"extraPointsMade", "xpm"}, []string{"extraPointAttempts", "xpa"})
		out[Kicking] = f
	case "punting":
		out[Punting] = Fields{
			"punts":             r.first("punts"),
			"puntYards":         r.first("puntYards", "yards"),
			"grossAvgPuntYards": r.first("grossAvgPuntYards", "average"),
			"touchbacks":        r.first("touchbacks"),
			"puntsInside20":     r.first("puntsInside20", "inside20"),
			"longPunt":          r.first("longPunt", "longest"),
		}
	}
	return out
}

type record Fields

func (r record) get(key string) any {
	return Coerce(r[key])
}

// first returns the first non-zero candidate, else the last candidate's value.
func (r record) first(keys ...string) any {
	var last any = int64(0)
	for _, key := range keys {
		last = r.get(key)
		if !IsZero(last) {
			return last
		}
	}
	return last
}

func (r record) nonZero(target Fields, field string, keys ...string) {
	if v := r.first(keys...); !IsZero(v) {
		target[field] = v
	}
}

// combined writes a "made<sep>attempted" field. A supplied combined string is
// kept verbatim even when the components disagree; otherwise the field is
// synthesized only when a component is non-zero.
func (r record) combined(target Fields, field, sep string, left, right []string) {
	if supplied, ok := r[field].(string); ok && strings.TrimSpace(supplied) != "" {
		target[field] = strings.TrimSpace(supplied)
		return
	}
	l := r.first(left...)
	rt := r.first(right...)
	if IsZero(l) && IsZero(rt) {
		return
	}
	target[field] = FormatNumber(l) + sep + FormatNumber(rt)
}
