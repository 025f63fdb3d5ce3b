package boxscore

import (
	"github.com/riskibarqy/boxscore-refiner/internal/domain/game"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/jsonpath"
)

// ExtractDrive snapshots drives.current. The last play's end state wins over
// the drive's start. Returns nil when the payload has no usable drive.
func ExtractDrive(raw any) *game.Drive {
	cur := jsonpath.Get(raw, "drives", "current")
	if m, ok := cur.Map(); !ok || len(m) == 0 {
		return nil
	}

	team := cur.Get("team")
	d := &game.Drive{
		TeamID:           team.Get("id").StringOr(""),
		TeamName:         jsonpath.First(team.Get("displayName"), team.Get("name")).StringOr(""),
		TeamAbbreviation: team.Get("abbreviation").StringOr(""),
		FieldPosition:    cur.Get("start", "text").StringOr(""),
		Clock:            cur.Get("start", "clock", "displayValue").StringOr(""),
		Period:           optionalInt(cur.Get("start", "period", "number")),
	}

	plays, _ := cur.Get("plays").Slice()
	if len(plays) > 0 {
		last := jsonpath.Of(plays[len(plays)-1])
		end, start := last.Get("end"), last.Get("start")
		if p := optionalInt(last.Get("period", "number")); p != nil {
			d.Period = p
		}
		if clock := last.Get("clock", "displayValue").StringOr(""); clock != "" {
			d.Clock = clock
		}
		d.Down = optionalInt(firstPresent(end.Get("down"), start.Get("down")))
		d.Distance = optionalInt(firstPresent(end.Get("distance"), start.Get("distance")))
		if pos := jsonpath.First(end.Get("possessionText"), end.Get("downDistanceText")).StringOr(""); pos != "" {
			d.FieldPosition = pos
		}
	}

	if *d == (game.Drive{}) {
		return nil
	}
	return d
}

func firstPresent(values ...jsonpath.Value) jsonpath.Value {
	for _, v := range values {
		if v.Present() {
			return v
		}
	}
	return jsonpath.Value{}
}

func optionalInt(v jsonpath.Value) *int {
	n, ok := v.Int()
	if !ok {
		return nil
	}
	return game.IntPtr(int(n))
}
