// Package roster turns raw participant rows into participants and back.
package roster

import (
	"strings"

	"santa/internal/matching"
	"santa/internal/models"
)

// Parse converts rows into participants in input order. Blank names are dropped
// and invalid UTF-8 is replaced.
// Two names on one row are partners and exclude each other.
func Parse(rows []models.Row) []models.Participant {
	participants := make([]models.Participant, 0, 2*len(rows))
	for _, row := range rows {
		first := cleanText(row.First.Name)
		second := cleanText(row.Second.Name)

		if first != "" {
			participants = append(participants, newParticipant(first, cleanText(row.First.Exclusions), second))
		}
		if second != "" {
			participants = append(participants, newParticipant(second, cleanText(row.Second.Exclusions), first))
		}
	}
	return participants
}

// cleanText trims s and replaces invalid UTF-8 with U+FFFD, so names survive
// a reveal token round trip unchanged.
func cleanText(s string) string {
	return strings.TrimSpace(strings.ToValidUTF8(s, "\uFFFD"))
}

func newParticipant(name, exclusions, partner string) models.Participant {
	list := SplitExclusions(exclusions)
	if partner != "" {
		list = appendUnique(list, partner)
	}
	return models.Participant{Name: name, Partner: partner, Exclusions: list}
}

// SplitExclusions splits comma separated text into trimmed names.
// Empty entries are dropped and repeats collapsed, first spelling wins.
func SplitExclusions(text string) []string {
	names := make([]string, 0)
	for _, part := range strings.Split(text, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = appendUnique(names, name)
		}
	}
	return names
}

func appendUnique(names []string, name string) []string {
	key := matching.Normalize(name)
	for _, existing := range names {
		if matching.Normalize(existing) == key {
			return names
		}
	}
	return append(names, name)
}

// ToRows regroups participants into input rows, partners sharing a row.
// The partner entry Parse adds to each exclusion list is left out of the text.
func ToRows(participants []models.Participant) []models.Row {
	index := make(map[string]int, len(participants))
	for i, p := range participants {
		if _, ok := index[matching.Normalize(p.Name)]; !ok {
			index[matching.Normalize(p.Name)] = i
		}
	}

	used := make([]bool, len(participants))
	rows := make([]models.Row, 0, len(participants))
	for i, p := range participants {
		if used[i] {
			continue
		}
		used[i] = true
		row := models.Row{First: toPerson(p)}

		if p.Partner != "" {
			j, ok := index[matching.Normalize(p.Partner)]
			if ok && !used[j] && matching.Normalize(participants[j].Partner) == matching.Normalize(p.Name) {
				used[j] = true
				row.Second = toPerson(participants[j])
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func toPerson(p models.Participant) models.Person {
	partner := matching.Normalize(p.Partner)
	explicit := make([]string, 0, len(p.Exclusions))
	for _, name := range p.Exclusions {
		if partner != "" && matching.Normalize(name) == partner {
			continue
		}
		explicit = append(explicit, name)
	}
	return models.Person{Name: p.Name, Exclusions: strings.Join(explicit, ", ")}
}
