package models

// Person is one individual as typed into a participant row.
// Exclusions is the raw comma separated list of names this person must not draw.
type Person struct {
	Name       string `json:"name"`
	Exclusions string `json:"exclusions"`
}

// Row is one raw input row. A row holds a single person or a couple;
// Second is left blank for singles.
type Row struct {
	First  Person `json:"first"`
	Second Person `json:"second"`
}

// Participant represents a person taking part in the draw.
// Exclusions always contains Partner when one is declared.
type Participant struct {
	Name       string   `json:"name"`
	Partner    string   `json:"partner,omitempty"`
	Exclusions []string `json:"exclusions"`
}

// Pair is a single giver/receiver match without any session metadata.
type Pair struct {
	Giver    string `json:"giver"`
	Receiver string `json:"receiver"`
}

// Assignment stores the outcome of a draw for one giver,
// together with the reveal token that discloses it.
type Assignment struct {
	Giver    string `json:"giver"`
	Receiver string `json:"receiver"`
	Token    string `json:"token,omitempty"`
}

// Pair returns the giver/receiver pair of the assignment.
func (a Assignment) Pair() Pair {
	return Pair{Giver: a.Giver, Receiver: a.Receiver}
}
