package session

import "sealwire/internal/domain"

// ArchivedStatesMax bounds how many superseded session states a record
// retains alongside the current one. Matches the deployed protocol's
// published constant.
const ArchivedStatesMax = 40

// prependState makes st the record's current state, archiving the rest
// and discarding the oldest past the cap. Messages still in flight
// under a discarded state become undecryptable.
func prependState(rec *domain.SessionRecord, st domain.SessionState) {
	rec.States = append([]domain.SessionState{st}, rec.States...)
	if len(rec.States) > ArchivedStatesMax+1 {
		rec.States = rec.States[:ArchivedStatesMax+1]
	}
}

// promoteState moves the state at index i to the front, keeping
// relative order of the others.
func promoteState(rec *domain.SessionRecord, i int, st domain.SessionState) {
	rest := append([]domain.SessionState(nil), rec.States[:i]...)
	rest = append(rest, rec.States[i+1:]...)
	rec.States = append([]domain.SessionState{st}, rest...)
}

// stateForBaseKey finds the state created by the handshake with the
// given Alice base key, so a retransmitted handshake reuses it.
func stateForBaseKey(rec *domain.SessionRecord, baseKey domain.X25519Public) int {
	for i := range rec.States {
		if rec.States[i].AliceBaseKey == baseKey {
			return i
		}
	}
	return -1
}
