package boxscore

import (
	"strings"

	"github.com/riskibarqy/boxscore-refiner/internal/domain/game"
	"github.com/riskibarqy/boxscore-refiner/internal/platform/jsonpath"
)

var statusByState = map[string]game.Status{
	"pre":      game.StatusScheduled,
	"in":       game.StatusInProgress,
	"post":     game.StatusFinal,
	"halftime": game.StatusHalftime,
}

// ExtractStatus derives the canonical status and current period from
// header.competitions[0].status. The period is nil before kickoff and for any
// value that is not a positive integer.
func ExtractStatus(raw any) (game.Status, *int) {
	status := jsonpath.Get(raw, "header", "competitions", 0, "status")

	out := game.StatusUnknown
	if name := strings.ToUpper(status.Get("type", "name").StringOr("")); name != "" {
		out = game.Status(name)
	} else {
		state := strings.ToLower(jsonpath.First(status.Get("type", "state"), status.Get("state")).StringOr(""))
		if mapped, ok := statusByState[state]; ok {
			out = mapped
		}
	}

	if out == game.StatusScheduled {
		return out, nil
	}
	period, ok := status.Get("period").Int()
	if !ok || period <= 0 {
		return out, nil
	}
	return out, game.IntPtr(int(period))
}
