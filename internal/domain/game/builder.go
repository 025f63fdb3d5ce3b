package game

import (
	"time"

	"github.com/riskibarqy/boxscore-refiner/internal/domain/category"
)

// TeamMeta is the identity part of a team record.
type TeamMeta struct {
	ID           string
	Abbreviation string
	DisplayName  string
}

// PlayerMeta is the non-stat part of a player record.
type PlayerMeta struct {
	AthleteID   string
	FullName    string
	Position    string
	Jersey      string
	HeadshotURL string
}

func (m PlayerMeta) Identity() Identity {
	return IdentityOf(m.AthleteID, m.FullName)
}

// Header carries the document-level fields set once per game.
type Header struct {
	GeneratedAt time.Time
	Status      Status
	Period      *int
	Drive       *Drive
	Note        string
}

// Builder accumulates teams and players for one game. Nothing it holds is
// visible outside until Finalize copies it into a Game.
type Builder struct {
	eventID string
	schema  category.Schema
	teams   map[string]*TeamBuilder
	order   []string
}

func NewBuilder(eventID string, schema category.Schema) *Builder {
	return &Builder{
		eventID: eventID,
		schema:  schema,
		teams:   make(map[string]*TeamBuilder),
	}
}

// Team returns the builder for meta.ID, creating it on first sight. A team
// seen again only gets its empty identity fields backfilled.
func (b *Builder) Team(meta TeamMeta) *TeamBuilder {
	if tb, ok := b.teams[meta.ID]; ok {
		if tb.team.Abbreviation == "" {
			tb.team.Abbreviation = meta.Abbreviation
		}
		if tb.team.DisplayName == "" {
			tb.team.DisplayName = meta.DisplayName
		}
		return tb
	}

	tb := &TeamBuilder{
		schema: b.schema,
		team: Team{
			TeamID:       meta.ID,
			Abbreviation: meta.Abbreviation,
			DisplayName:  meta.DisplayName,
			Stats:        b.schema.Blank(),
		},
		players: make(map[Identity]*Player),
	}
	b.teams[meta.ID] = tb
	b.order = append(b.order, meta.ID)
	return tb
}

// Lookup returns an existing team builder without creating one.
func (b *Builder) Lookup(teamID string) (*TeamBuilder, bool) {
	tb, ok := b.teams[teamID]
	return tb, ok
}

// TeamIDs lists team ids in insertion order.
func (b *Builder) TeamIDs() []string {
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out
}

// Finalize produces the immutable document.
func (b *Builder) Finalize(h Header) Game {
	status := h.Status
	if status == "" {
		status = StatusUnknown
	}
	g := Game{
		EventID:     b.eventID,
		GeneratedAt: h.GeneratedAt.UTC(),
		Source:      Source,
		Status:      status,
		Period:      cloneInt(h.Period),
		Note:        h.Note,
		Teams:       make([]Team, 0, len(b.order)),
	}
	if h.Drive != nil {
		d := *h.Drive
		g.Drive = &d
	}
	for _, id := range b.order {
		g.Teams = append(g.Teams, b.teams[id].build())
	}
	return g.Clone()
}

type TeamBuilder struct {
	schema  category.Schema
	team    Team
	players map[Identity]*Player
	order   []Identity
}

func (t *TeamBuilder) SetScore(score float64) { t.team.Score = score }

func (t *TeamBuilder) SetPossession(v bool) { t.team.Possession = v }

func (t *TeamBuilder) SetHomeAway(v string) {
	if v != "" {
		t.team.HomeAway = v
	}
}

func (t *TeamBuilder) SetDisplayOrder(v int) { t.team.DisplayOrder = IntPtr(v) }

// ApplyStats writes mapped fields into the team's categories.
func (t *TeamBuilder) ApplyStats(writes category.Stats) {
	t.team.Stats.Apply(writes)
}

// SetCategory replaces one category wholesale.
func (t *TeamBuilder) SetCategory(name string, fields category.Fields) {
	t.team.Stats[name] = fields.Clone()
}

// ApplyPlayerStats writes mapped fields for the player identified by meta,
// adding the player with default stats on first sight.
func (t *TeamBuilder) ApplyPlayerStats(meta PlayerMeta, writes category.Stats) {
	id := meta.Identity()
	p, ok := t.players[id]
	if !ok {
		p = &Player{
			AthleteID:   meta.AthleteID,
			FullName:    meta.FullName,
			Position:    meta.Position,
			Jersey:      meta.Jersey,
			HeadshotURL: meta.HeadshotURL,
			Stats:       t.schema.Blank(),
		}
		t.players[id] = p
		t.order = append(t.order, id)
	}
	p.Stats.Apply(writes)
}

func (t *TeamBuilder) build() Team {
	out := t.team
	out.Players = make([]Player, 0, len(t.order))
	for _, id := range t.order {
		out.Players = append(out.Players, *t.players[id])
	}
	return out
}
