package meeting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	sterrors "github.com/studtrack/studtrack-cli/pkg/errors"
	"github.com/studtrack/studtrack-cli/pkg/logging"
)

// Document is the raw root object of a meeting data file, as decoded from
// JSON or YAML, before normalization.
type Document struct {
	Meetings []RawMeeting `json:"meetings" yaml:"meetings"`
}

// RawMeeting mirrors one element of the input `meetings` array.
type RawMeeting struct {
	MeetingID    string           `json:"meeting_id" yaml:"meeting_id"`
	Title        string           `json:"title" yaml:"title"`
	Date         string           `json:"date" yaml:"date"`
	Type         string           `json:"type" yaml:"type"`
	Location     string           `json:"location" yaml:"location"`
	Participants []RawParticipant `json:"participants" yaml:"participants"`
	Chats        []RawChat        `json:"chats" yaml:"chats"`
	Activities   []RawActivity    `json:"activities" yaml:"activities"`
}

// RawParticipant carries either a session list (online) or an attendance
// block (offline); the meeting's type decides which is read.
type RawParticipant struct {
	Name       string         `json:"name" yaml:"name"`
	Sessions   []RawSession   `json:"sessions" yaml:"sessions"`
	Attendance *RawAttendance `json:"attendance" yaml:"attendance"`
}

// RawSession is one join/leave pair as timestamp text.
type RawSession struct {
	Join  string `json:"join" yaml:"join"`
	Leave string `json:"leave" yaml:"leave"`
}

// RawAttendance is the optional attendance block of an offline participant.
type RawAttendance struct {
	Status            string  `json:"status" yaml:"status"`
	CheckIn           *string `json:"check_in" yaml:"check_in"`
	CheckOut          *string `json:"check_out" yaml:"check_out"`
	LateByMinutes     *int    `json:"late_by_minutes" yaml:"late_by_minutes"`
	EarlyLeaveMinutes *int    `json:"early_leave_minutes" yaml:"early_leave_minutes"`
}

// RawChat is one chat message as timestamp text.
type RawChat struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Sender    string `json:"sender" yaml:"sender"`
	Message   string `json:"message" yaml:"message"`
}

// RawActivity is one logged activity as timestamp text.
type RawActivity struct {
	Timestamp   string `json:"timestamp" yaml:"timestamp"`
	Participant string `json:"participant" yaml:"participant"`
	Activity    string `json:"activity" yaml:"activity"`
}

// DecodeDocument decodes a raw meeting document from JSON or YAML bytes.
// JSON is detected by a leading '{' or '['; anything else is decoded as YAML.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding JSON document: %w", err)
		}
		return &doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding YAML document: %w", err)
	}
	return &doc, nil
}

// NormalizeOptions configures batch normalization.
type NormalizeOptions struct {
	// SkipInvalid makes NormalizeBatch skip meetings that fail to normalize,
	// logging each one, instead of aborting the whole batch on the first
	// failure. Either policy is applied consistently to the entire batch.
	SkipInvalid bool

	// Logger receives skip warnings. Defaults to a nop logger.
	Logger logging.Logger
}

// NormalizeBatch converts a raw document into an immutable Batch.
// With SkipInvalid unset, the first malformed meeting aborts the batch and
// its error is returned. With SkipInvalid set, malformed meetings are
// dropped with a warning and the remainder is normalized.
func NormalizeBatch(doc *Document, opts NormalizeOptions) (*Batch, error) {
	log := opts.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}

	meetings := make([]Meeting, 0, len(doc.Meetings))
	for i := range doc.Meetings {
		m, err := Normalize(&doc.Meetings[i])
		if err != nil {
			if !opts.SkipInvalid {
				return nil, err
			}
			log.Warn("skipping malformed meeting",
				logging.F("meeting_id", doc.Meetings[i].MeetingID),
				logging.Err(err))
			continue
		}
		meetings = append(meetings, *m)
	}
	return NewBatch(meetings), nil
}

// Normalize converts one raw meeting description into a Meeting.
//
// Missing `type` defaults to online; missing `location` defaults to empty.
// Timestamps must match TimestampLayout exactly; any value that fails to
// parse fails the whole record with a ParseError naming the offending field
// path. Missing meeting_id, title, date, or participant name fail with a
// SchemaError.
func Normalize(raw *RawMeeting) (*Meeting, error) {
	if raw.MeetingID == "" {
		return nil, sterrors.NewSchemaError("", "meeting_id")
	}
	if raw.Title == "" {
		return nil, sterrors.NewSchemaError(raw.MeetingID, "title")
	}
	if raw.Date == "" {
		return nil, sterrors.NewSchemaError(raw.MeetingID, "date")
	}

	kind := Kind(raw.Type)
	switch kind {
	case "":
		kind = KindOnline
	case KindOnline, KindOffline:
	default:
		return nil, sterrors.NewParseError(raw.MeetingID, "type", raw.Type, nil)
	}

	m := &Meeting{
		ID:       raw.MeetingID,
		Title:    raw.Title,
		Date:     raw.Date,
		Kind:     kind,
		Location: raw.Location,
	}

	m.Participants = make([]Participant, 0, len(raw.Participants))
	for i := range raw.Participants {
		p, err := normalizeParticipant(raw.MeetingID, kind, i, &raw.Participants[i])
		if err != nil {
			return nil, err
		}
		m.Participants = append(m.Participants, *p)
	}

	if kind == KindOnline {
		m.Chats = make([]Chat, 0, len(raw.Chats))
		for i := range raw.Chats {
			ts, err := parseTimestamp(raw.MeetingID, fmt.Sprintf("chats[%d].timestamp", i), raw.Chats[i].Timestamp)
			if err != nil {
				return nil, err
			}
			m.Chats = append(m.Chats, Chat{
				Timestamp: ts,
				Sender:    raw.Chats[i].Sender,
				Message:   raw.Chats[i].Message,
			})
		}
	} else {
		m.Activities = make([]Activity, 0, len(raw.Activities))
		for i := range raw.Activities {
			ts, err := parseTimestamp(raw.MeetingID, fmt.Sprintf("activities[%d].timestamp", i), raw.Activities[i].Timestamp)
			if err != nil {
				return nil, err
			}
			m.Activities = append(m.Activities, Activity{
				Timestamp:   ts,
				Participant: raw.Activities[i].Participant,
				Label:       raw.Activities[i].Activity,
			})
		}
	}

	return m, nil
}

func normalizeParticipant(meetingID string, kind Kind, idx int, raw *RawParticipant) (*Participant, error) {
	if raw.Name == "" {
		return nil, sterrors.NewSchemaError(meetingID, fmt.Sprintf("participants[%d].name", idx))
	}

	p := &Participant{Name: raw.Name}

	if kind == KindOnline {
		sessions := make([]Session, 0, len(raw.Sessions))
		for j := range raw.Sessions {
			base := fmt.Sprintf("participants[%d].sessions[%d]", idx, j)
			join, err := parseTimestamp(meetingID, base+".join", raw.Sessions[j].Join)
			if err != nil {
				return nil, err
			}
			leave, err := parseTimestamp(meetingID, base+".leave", raw.Sessions[j].Leave)
			if err != nil {
				return nil, err
			}
			sessions = append(sessions, Session{
				Join:     join,
				Leave:    leave,
				Duration: int64(leave.Sub(join) / time.Second),
			})
		}
		p.Participation = OnlinePresence{Sessions: sessions}
		return p, nil
	}

	// Offline: an absent attendance block yields a participant with no
	// attendance, retained in all-participant denominators.
	if raw.Attendance == nil {
		p.Participation = OfflinePresence{}
		return p, nil
	}

	base := fmt.Sprintf("participants[%d].attendance", idx)
	if raw.Attendance.Status == "" {
		return nil, sterrors.NewSchemaError(meetingID, base+".status")
	}

	att := &Attendance{Status: raw.Attendance.Status}
	if raw.Attendance.CheckIn != nil {
		t, err := parseTimestamp(meetingID, base+".check_in", *raw.Attendance.CheckIn)
		if err != nil {
			return nil, err
		}
		att.CheckIn = &t
	}
	if raw.Attendance.CheckOut != nil {
		t, err := parseTimestamp(meetingID, base+".check_out", *raw.Attendance.CheckOut)
		if err != nil {
			return nil, err
		}
		att.CheckOut = &t
	}
	if raw.Attendance.LateByMinutes != nil {
		att.LateByMinutes = *raw.Attendance.LateByMinutes
	}
	if raw.Attendance.EarlyLeaveMinutes != nil {
		att.EarlyLeaveMinutes = *raw.Attendance.EarlyLeaveMinutes
	}

	p.Participation = OfflinePresence{Attendance: att}
	return p, nil
}

// parseTimestamp parses a timestamp under the fixed layout, wrapping any
// failure in a ParseError carrying the meeting ID and field path.
func parseTimestamp(meetingID, field, value string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, value)
	if err != nil {
		return time.Time{}, sterrors.NewParseError(meetingID, field, value, err)
	}
	return t, nil
}
