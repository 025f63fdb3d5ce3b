package game

import (
	"time"

	"github.com/riskibarqy/boxscore-refiner/internal/domain/category"
)

// Source tags every document this refiner produces.
const Source = "espn-nfl-boxscore"

// NoBoxscoreNote marks the terminal document written when a payload carries
// no recognizable boxscore.
const NoBoxscoreNote = "No boxscore in payload"

type Status string

const (
	StatusScheduled  Status = "STATUS_SCHEDULED"
	StatusInProgress Status = "STATUS_IN_PROGRESS"
	StatusHalftime   Status = "STATUS_HALFTIME"
	StatusFinal      Status = "STATUS_FINAL"
	StatusUnknown    Status = "STATUS_UNKNOWN"
)

// Game is the canonical per-game document.
type Game struct {
	EventID     string    `json:"eventId" validate:"required"`
	GeneratedAt time.Time `json:"generatedAt" validate:"required"`
	Source      string    `json:"source"`
	Status      Status    `json:"status" validate:"required"`
	Period      *int      `json:"period"`
	Drive       *Drive    `json:"drive,omitempty"`
	Teams       []Team    `json:"teams" validate:"unique=TeamID,dive"`
	Note        string    `json:"note,omitempty"`
}

type Team struct {
	TeamID       string         `json:"teamId" validate:"required"`
	Abbreviation string         `json:"abbreviation"`
	DisplayName  string         `json:"displayName"`
	Score        float64        `json:"score"`
	Possession   bool           `json:"possession"`
	HomeAway     string         `json:"homeAway,omitempty"`
	DisplayOrder *int           `json:"displayOrder,omitempty"`
	Stats        category.Stats `json:"stats" validate:"required"`
	Players      []Player       `json:"players" validate:"dive"`
}

type Player struct {
	AthleteID   string         `json:"athleteId"`
	FullName    string         `json:"fullName"`
	Position    string         `json:"position"`
	Jersey      string         `json:"jersey"`
	HeadshotURL string         `json:"headshotUrl"`
	Stats       category.Stats `json:"stats" validate:"required"`
}

// Identity returns the player's dedup key.
func (p Player) Identity() Identity {
	return IdentityOf(p.AthleteID, p.FullName)
}

// Drive is a snapshot of the drive in progress.
type Drive struct {
	TeamID           string `json:"teamId"`
	TeamName         string `json:"teamName"`
	TeamAbbreviation string `json:"teamAbbreviation"`
	Down             *int   `json:"down"`
	Distance         *int   `json:"distance"`
	FieldPosition    string `json:"fieldPosition"`
	Period           *int   `json:"period"`
	Clock            string `json:"clock"`
}

// Clone returns a deep copy.
func (g Game) Clone() Game {
	out := g
	out.Period = cloneInt(g.Period)
	if g.Drive != nil {
		d := *g.Drive
		d.Down = cloneInt(g.Drive.Down)
		d.Distance = cloneInt(g.Drive.Distance)
		d.Period = cloneInt(g.Drive.Period)
		out.Drive = &d
	}
	out.Teams = make([]Team, len(g.Teams))
	for i, t := range g.Teams {
		out.Teams[i] = t.Clone()
	}
	return out
}

func (t Team) Clone() Team {
	out := t
	out.DisplayOrder = cloneInt(t.DisplayOrder)
	out.Stats = t.Stats.Clone()
	out.Players = make([]Player, len(t.Players))
	for i, p := range t.Players {
		p.Stats = p.Stats.Clone()
		out.Players[i] = p
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

// IntPtr is a helper for optional integer fields.
func IntPtr(v int) *int {
	return &v
}
