package game

// IdentityKind tells how a player was identified upstream.
type IdentityKind uint8

const (
	ByID IdentityKind = iota + 1
	ByName
)

// Identity is the dedup key of a player within a team. Players with a numeric
// athlete id are keyed by it; the rest fall back to their full name.
type Identity struct {
	Kind  IdentityKind
	Value string
}

func IdentityOf(athleteID, fullName string) Identity {
	if athleteID != "" {
		return Identity{Kind: ByID, Value: athleteID}
	}
	return Identity{Kind: ByName, Value: fullName}
}

// String renders the key the way roster files and older documents spell it.
func (i Identity) String() string {
	if i.Kind == ByName {
		return "name:" + i.Value
	}
	return i.Value
}
