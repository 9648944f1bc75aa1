// Package meeting provides the meeting data model and normalization of raw
// meeting documents into it.
package meeting

import "time"

// TimestampLayout is the fixed textual pattern every timestamp in an input
// document must follow.
const TimestampLayout = "2006-01-02 15:04:05"

// Kind distinguishes online meetings (join/leave sessions, chat log) from
// offline meetings (check-in/check-out attendance, logged activities).
type Kind string

const (
	KindOnline  Kind = "online"
	KindOffline Kind = "offline"
)

// Meeting is one normalized meeting record. Immutable after construction;
// aggregates over it are recomputed, never patched in place.
type Meeting struct {
	ID       string `json:"meeting_id"`
	Title    string `json:"title"`
	Date     string `json:"date"` // display-only free text, not a parsed date
	Kind     Kind   `json:"type"`
	Location string `json:"location,omitempty"` // empty for online meetings

	Participants []Participant `json:"participants"`

	// Chats is populated for online meetings only. Ordering by timestamp is
	// not guaranteed; consumers must sort before any temporal analysis.
	Chats []Chat `json:"chats,omitempty"`

	// Activities is populated for offline meetings only.
	Activities []Activity `json:"activities,omitempty"`
}

// Participant is one person's record within a single meeting. Names are
// unique per meeting but not globally; the same name across meetings denotes
// the same person for aggregation purposes.
type Participant struct {
	Name string `json:"name"`

	// Participation holds the kind-specific payload: OnlinePresence for
	// online meetings, OfflinePresence for offline meetings.
	Participation Participation `json:"-"`
}

// Participation is the kind-specific payload of a Participant. Exactly one
// concrete shape exists per meeting kind, so an online participant with an
// attendance record is unrepresentable.
type Participation interface {
	isParticipation()
}

// OnlinePresence carries the join/leave sessions of an online participant.
// Sessions may be empty (the participant never joined).
type OnlinePresence struct {
	Sessions []Session `json:"sessions"`
}

func (OnlinePresence) isParticipation() {}

// OfflinePresence carries the attendance record of an offline participant.
// Attendance is nil when the input carried no attendance block; such
// participants are excluded from status-based statistics but still count in
// rate denominators that iterate all participants.
type OfflinePresence struct {
	Attendance *Attendance `json:"attendance,omitempty"`
}

func (OfflinePresence) isParticipation() {}

// Session is one contiguous join-to-leave interval for an online participant.
// Join <= Leave is assumed, not enforced.
type Session struct {
	Join     time.Time `json:"join"`
	Leave    time.Time `json:"leave"`
	Duration int64     `json:"duration_seconds"` // leave - join, in seconds
}

// Attendance status values. Free-form values beyond these are preserved as-is.
const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusAbsent  = "absent"
)

// Attendance is an offline participant's single presence record for a meeting.
type Attendance struct {
	Status string `json:"status"`

	// CheckIn and CheckOut are both nil when Status is absent, and may be
	// individually nil on incomplete records.
	CheckIn  *time.Time `json:"check_in,omitempty"`
	CheckOut *time.Time `json:"check_out,omitempty"`

	// LateByMinutes and EarlyLeaveMinutes are >= 0 and meaningful only for
	// present/late statuses. Both default to 0 when absent from the input.
	LateByMinutes     int `json:"late_by_minutes"`
	EarlyLeaveMinutes int `json:"early_leave_minutes"`
}

// Attended reports whether the participant was present or late.
func (a *Attendance) Attended() bool {
	return a != nil && (a.Status == StatusPresent || a.Status == StatusLate)
}

// Chat is one chat message in an online meeting. Sender references a
// participant by name; there is no live relation to the Participant entity.
type Chat struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
}

// Activity is one logged activity in an offline meeting. Participant
// references a participant by name.
type Activity struct {
	Timestamp   time.Time `json:"timestamp"`
	Participant string    `json:"participant"`
	Label       string    `json:"activity"`
}

// Batch is the immutable collection of normalized meetings for one run,
// with a meeting-ID index. It is constructed once by NormalizeBatch and
// passed by reference to every component; there is no ambient global state.
type Batch struct {
	Meetings []Meeting

	byID map[string]*Meeting
}

// NewBatch builds a Batch over the given meetings. The last meeting wins on
// a duplicate ID, mirroring the overwrite semantics of a keyed lookup.
func NewBatch(meetings []Meeting) *Batch {
	b := &Batch{
		Meetings: meetings,
		byID:     make(map[string]*Meeting, len(meetings)),
	}
	for i := range b.Meetings {
		b.byID[b.Meetings[i].ID] = &b.Meetings[i]
	}
	return b
}

// ByID returns the meeting with the given identifier, or nil.
func (b *Batch) ByID(id string) *Meeting {
	return b.byID[id]
}

// CountByKind returns how many meetings in the batch are of the given kind.
func (b *Batch) CountByKind(k Kind) int {
	n := 0
	for i := range b.Meetings {
		if b.Meetings[i].Kind == k {
			n++
		}
	}
	return n
}
