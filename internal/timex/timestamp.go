package timex

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Layout is the wire and storage format for sync timestamps: ISO-8601,
// UTC, second precision. Because the format is fixed-width, lexicographic
// comparison of stored values matches chronological comparison, which the
// changed-since SQL relies on.
const Layout = "2006-01-02T15:04:05Z"

// Timestamp is a UTC timestamp truncated to whole seconds. It marshals to
// JSON as an ISO-8601 string and is stored in the database as TEXT.
type Timestamp struct {
	time.Time
}

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return New(time.Now())
}

// New truncates t to second precision in UTC.
func New(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Second)}
}

// Parse accepts ISO-8601 timestamps with either a "Z" or numeric UTC offset
// (the original data uses "+00:00") and normalizes them to UTC seconds.
func Parse(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return New(t), nil
}

func (t Timestamp) String() string {
	return t.UTC().Format(Layout)
}

// After reports whether t is strictly after other. Sync conflict resolution
// uses strict comparison only: ties never supersede.
func (t Timestamp) After(other Timestamp) bool {
	return t.Time.After(other.Time)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		*t = New(v)
		return nil
	case nil:
		*t = Timestamp{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
}

// NullTimestamp represents a Timestamp that may be NULL, mirroring
// sql.NullTime. It is used for tombstone markers (deleted_at).
type NullTimestamp struct {
	Time  Timestamp
	Valid bool
}

// NullNow returns a valid NullTimestamp holding the current time.
func NullNow() NullTimestamp {
	return NullTimestamp{Time: Now(), Valid: true}
}

func (n NullTimestamp) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Time.MarshalJSON()
}

func (n *NullTimestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = NullTimestamp{}
		return nil
	}
	var t Timestamp
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	*n = NullTimestamp{Time: t, Valid: true}
	return nil
}

func (n NullTimestamp) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Time.Value()
}

func (n *NullTimestamp) Scan(src any) error {
	if src == nil {
		*n = NullTimestamp{}
		return nil
	}
	var t Timestamp
	if err := t.Scan(src); err != nil {
		return err
	}
	*n = NullTimestamp{Time: t, Valid: true}
	return nil
}
