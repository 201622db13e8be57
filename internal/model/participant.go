package model

import (
	"fmt"
	"strings"
)

// Participant is one of the three fixed household members.
type Participant int

const (
	Armando Participant = iota
	David
	Noah

	// NumParticipants sizes every per-participant array.
	NumParticipants = 3
)

// Participants lists every household member in display order.
var Participants = [NumParticipants]Participant{Armando, David, Noah}

var participantNames = [NumParticipants]string{"Armando", "David", "Noah"}

// String returns the display name.
func (p Participant) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Participant(%d)", int(p))
	}
	return participantNames[p]
}

// Valid reports whether p is one of the known participants.
func (p Participant) Valid() bool {
	return p >= 0 && int(p) < NumParticipants
}

// ParseParticipant resolves a name, case-insensitively, to a Participant.
func ParseParticipant(name string) (Participant, error) {
	name = strings.TrimSpace(name)
	for i, n := range participantNames {
		if strings.EqualFold(n, name) {
			return Participant(i), nil
		}
	}
	return 0, fmt.Errorf("unknown participant %q", name)
}
