package domain

import "time"

// TimelineEntry records one status change on an approval-workflow entity.
// Timelines are append-only: entries are never reordered or deleted.
type TimelineEntry struct {
	Status string    `json:"status"`
	Actor  string    `json:"actor"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

// Timeline is the ordered status history of an entity.
type Timeline []TimelineEntry

// Append returns the timeline with a new entry added.
func (t Timeline) Append(status, actor, note string, at time.Time) Timeline {
	return append(t, TimelineEntry{Status: status, Actor: actor, Note: note, At: at})
}

// Last returns the most recent entry, or nil for an empty timeline.
func (t Timeline) Last() *TimelineEntry {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}
