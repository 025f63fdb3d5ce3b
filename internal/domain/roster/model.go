package roster

import (
	"context"
	"strings"

	"github.com/riskibarqy/boxscore-refiner/internal/domain/game"
)

// Entry is one rostered athlete.
type Entry struct {
	AthleteID   string
	FullName    string
	Position    string
	Jersey      string
	HeadshotURL string
}

func (e Entry) Identity() game.Identity {
	return game.IdentityOf(e.AthleteID, e.FullName)
}

// Team is the parsed content of one roster file.
type Team struct {
	Source       string
	ID           string
	Abbreviation string
	Entries      []Entry
	Skipped      int
}

// Corpus indexes every loaded roster by upper-cased abbreviation and by team
// id. It is never mutated after construction.
type Corpus struct {
	byAbbr map[string][]Entry
	byID   map[string][]Entry
	teams  int
}

// NewCorpus indexes teams in order; a later team wins a key collision.
func NewCorpus(teams []Team) *Corpus {
	c := &Corpus{
		byAbbr: make(map[string][]Entry, len(teams)),
		byID:   make(map[string][]Entry, len(teams)),
		teams:  len(teams),
	}
	for _, t := range teams {
		if t.Abbreviation != "" {
			c.byAbbr[strings.ToUpper(t.Abbreviation)] = t.Entries
		}
		if t.ID != "" {
			c.byID[t.ID] = t.Entries
		}
	}
	return c
}

// Lookup resolves a game team to its roster: abbreviation as given, then
// upper-cased, then team id.
func (c *Corpus) Lookup(abbreviation, teamID string) ([]Entry, bool) {
	if c == nil {
		return nil, false
	}
	if abbreviation != "" {
		if entries, ok := c.byAbbr[abbreviation]; ok {
			return entries, true
		}
		if entries, ok := c.byAbbr[strings.ToUpper(abbreviation)]; ok {
			return entries, true
		}
	}
	if teamID != "" {
		if entries, ok := c.byID[teamID]; ok {
			return entries, true
		}
	}
	return nil, false
}

// Teams reports how many roster files went into the corpus.
func (c *Corpus) Teams() int {
	if c == nil {
		return 0
	}
	return c.teams
}

// Repository loads every roster file from the roster store.
type Repository interface {
	Load(ctx context.Context) ([]Team, error)
}
