package bracket

import (
	"regexp"
	"strings"
)

// TeamSize is the number of members a team needs to enter a round-robin.
const TeamSize = 5

type Entrant struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type Team struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
	// Optional, index-aligned with MemberIDs
	MemberNames []string `json:"memberNames,omitempty"`
}

// MemberName returns the display name of the k-th member (0-based).
func (t Team) MemberName(k int) string {
	if k < len(t.MemberNames) && strings.TrimSpace(t.MemberNames[k]) != "" {
		return strings.TrimSpace(t.MemberNames[k])
	}
	if k < len(t.MemberIDs) {
		return nameFromIdentifier(t.MemberIDs[k])
	}
	return ""
}

type Roster []Entrant

type TeamList []Team

func (r Roster) Find(id string) (Entrant, bool) {
	for _, e := range r {
		if e.ID == id {
			return e, true
		}
	}
	return Entrant{}, false
}

func (l TeamList) Find(id string) (Team, bool) {
	for _, t := range l {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// RawEntrant is an entrant as it arrives from upstream records, where any
// field may be missing.
type RawEntrant struct {
	ID    string
	Name  string
	Email string
}

type RawTeam struct {
	ID          string
	Name        string
	MemberIDs   []string
	MemberNames []string
}

// NormalizeEntrants drops nil and id-less records and resolves a display name
// for the rest. The output is never longer than the input.
func NormalizeEntrants(raw []*RawEntrant) []Entrant {
	entrants := make([]Entrant, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		if r == nil {
			continue
		}
		id := strings.TrimSpace(r.ID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		entrants = append(entrants, Entrant{
			ID:          id,
			DisplayName: displayName(r.Name, r.Email, id),
		})
	}
	return entrants
}

// NormalizeTeams applies the same rules as NormalizeEntrants to teams. Member
// counts are left alone; the round-robin generator validates them.
func NormalizeTeams(raw []*RawTeam) []Team {
	teams := make([]Team, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		if r == nil {
			continue
		}
		id := strings.TrimSpace(r.ID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		members := make([]string, 0, len(r.MemberIDs))
		names := make([]string, 0, len(r.MemberIDs))
		for i, m := range r.MemberIDs {
			m = strings.TrimSpace(m)
			if m == "" {
				continue
			}
			members = append(members, m)
			if i < len(r.MemberNames) {
				names = append(names, strings.TrimSpace(r.MemberNames[i]))
			} else {
				names = append(names, "")
			}
		}

		teams = append(teams, Team{
			ID:          id,
			Name:        displayName(r.Name, "", id),
			MemberIDs:   members,
			MemberNames: names,
		})
	}
	return teams
}

func displayName(name, email, id string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if e := strings.TrimSpace(email); e != "" {
		return e
	}
	return nameFromIdentifier(id)
}

// Member ids are often emails with '@' and '.' flattened to '_'
var sanitizedEmail = regexp.MustCompile(`^"?([^"\s]+?)_[a-z0-9-]+_(com|net|org|edu|io|co)$`)

func nameFromIdentifier(id string) string {
	if m := sanitizedEmail.FindStringSubmatch(id); m != nil {
		return m[1]
	}
	return id
}
