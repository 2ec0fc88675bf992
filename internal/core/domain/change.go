package domain

import "time"

// ChangeBatch is a coalesced burst of file changes emitted by the change
// tracker after the quiescence window expires. Paths are deduplicated.
type ChangeBatch struct {
	SessionID InternedString
	Paths     []string
	At        time.Time
}
