package project

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a research project.
// The string value is what gets written to the data file.
type Status string

const (
	StatusPlanning   Status = "En planificación"
	StatusInProgress Status = "En curso"
	StatusCompleted  Status = "Completado"
	StatusCancelled  Status = "Cancelado"
)

// Statuses lists every status in menu order (digit 1 is index 0).
var Statuses = []Status{StatusPlanning, StatusInProgress, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// StatusFromDigit maps a menu digit ("1".."4") to a Status.
func StatusFromDigit(d string) (Status, bool) {
	d = strings.TrimSpace(d)
	if len(d) != 1 || d[0] < '1' || d[0] > '4' {
		return "", false
	}
	return Statuses[d[0]-'1'], true
}

// InputDateLayout is the day/month/year layout users type and see.
const InputDateLayout = "02/01/2006"

// Wire layouts. A non-zero fraction is always written with six digits.
const (
	dateLayout         = "2006-01-02T15:04:05"
	dateFractionLayout = "2006-01-02T15:04:05.000000"
)

// Date is a project start date. It serializes as an ISO-8601 local
// date-time without zone, with microsecond precision at most.
type Date struct {
	time.Time
}

// NewDate truncates t to microseconds so it round-trips through the file.
func NewDate(t time.Time) Date {
	return Date{Time: t.Truncate(time.Microsecond)}
}

// Today returns the current local time as a Date.
func Today() Date { return NewDate(time.Now()) }

// ParseInputDate parses a dd/mm/yyyy string typed by a user.
func ParseInputDate(s string) (Date, error) {
	t, err := time.ParseInLocation(InputDateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("formato de fecha incorrecto, use dd/mm/aaaa: %w", err)
	}
	return NewDate(t), nil
}

// ParseDate parses the wire format. RFC 3339 with a zone is accepted too.
func ParseDate(s string) (Date, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return NewDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NewDate(t.In(time.Local)), nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return NewDate(t), nil
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

// String returns the wire form.
func (d Date) String() string {
	if d.Nanosecond() != 0 {
		return d.Format(dateFractionLayout)
	}
	return d.Format(dateLayout)
}

// Display returns the dd/mm/yyyy form.
func (d Date) Display() string { return d.Format(InputDateLayout) }

// The embedded time.Time carries its own JSON and text methods, so Date
// overrides both sets to keep the zone-less wire form.

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha_inicio must be a string: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

// Project is one research-project record.
type Project struct {
	ID           int    `json:"id" yaml:"id"`
	Title        string `json:"titulo" yaml:"titulo"`
	Investigator string `json:"investigador_principal" yaml:"investigador_principal"`
	StartDate    Date   `json:"fecha_inicio" yaml:"fecha_inicio"`
	Status       Status `json:"estado" yaml:"estado"`
}

// String renders the one-line summary shown in listings.
func (p Project) String() string {
	return fmt.Sprintf("[%d] %s - IP: %s - Inicio: %s - Estado: %s",
		p.ID, p.Title, p.Investigator, p.StartDate.Display(), p.Status)
}

// Patch carries the fields of an edit. Zero values mean "keep current".
type Patch struct {
	Title        string
	Investigator string
	StartDate    *Date
	Status       Status
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return strings.TrimSpace(p.Title) == "" &&
		strings.TrimSpace(p.Investigator) == "" &&
		p.StartDate == nil &&
		p.Status == ""
}
