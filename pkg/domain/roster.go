package domain

// Member declares one worker a supervisor may route to.
type Member struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Roster is the immutable worker registry of a team. Order is preserved
// because it is part of the prompt the oracle sees.
type Roster struct {
	members []Member
}

// NewRoster builds a roster from the given members.
func NewRoster(members ...Member) Roster {
	r := Roster{members: make([]Member, 0, len(members))}
	r.members = append(r.members, members...)
	return r
}

// Members returns the declared members in declaration order.
func (r Roster) Members() []Member {
	out := make([]Member, len(r.members))
	copy(out, r.members)
	return out
}

// Names returns the member names in declaration order.
func (r Roster) Names() []string {
	names := make([]string, len(r.members))
	for i, m := range r.members {
		names[i] = m.Name
	}
	return names
}

// Has reports whether name is a declared member.
func (r Roster) Has(name string) bool {
	for _, m := range r.members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// Len returns the number of declared members.
func (r Roster) Len() int {
	return len(r.members)
}
