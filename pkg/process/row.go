package process

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/procflow/pkg/errors"
)

// Column is the name of a row column.
type Column = string

// Row columns, named as in the source tables.
const (
	ColObjectType   Column = "Object Type"
	ColDisplayName  Column = "Display Name"
	ColActivityID   Column = "Activity ID"
	ColTaskID       Column = "Task ID"
	ColDelay        Column = "Delay"
	ColSLAViolation Column = "SLA Violation"
	ColHadError     Column = "Had Error"
	ColConditional  Column = "Conditional"
	ColPositionX    Column = "Position X"
	ColPositionY    Column = "Position Y"
	ColInitialID    Column = "Initial Activity ID"
	ColTerminalID   Column = "Terminal Activity ID"
	ColActivated    Column = "Activated"
	ColColor        Column = "Color"
	ColTrellisBy    Column = "Trellis By"
)

// Columns lists every recognized column in document order.
var Columns = []Column{
	ColObjectType, ColDisplayName, ColActivityID, ColTaskID, ColDelay,
	ColSLAViolation, ColHadError, ColConditional, ColPositionX, ColPositionY,
	ColInitialID, ColTerminalID, ColActivated, ColColor, ColTrellisBy,
}

// Object type values.
const (
	TypeActivity   = "Activity"
	TypeTask       = "Task"
	TypeTransition = "Transition"
)

// Row is one input record keyed by column name. Missing keys read as empty.
type Row map[Column]string

func (r Row) get(c Column) string { return strings.TrimSpace(r[c]) }

// AddRow converts r into an entity and adds it to the model. It reports
// false, with no error, for rows that describe nothing drawable: unknown
// object types, activities or tasks without an ID, and transitions without
// endpoints.
func (m *Model) AddRow(r Row) (bool, error) {
	switch r.get(ColObjectType) {
	case TypeActivity:
		a, err := ParseActivity(r)
		if a == nil || err != nil {
			return false, err
		}
		return true, m.AddActivity(a)
	case TypeTask:
		t := ParseTask(r)
		if t == nil {
			return false, nil
		}
		return true, m.AddTask(t)
	case TypeTransition:
		t := ParseTransition(r)
		if t == nil {
			return false, nil
		}
		return true, m.AddTransition(t)
	}
	return false, nil
}

// ParseActivity reads an activity from r. It returns nil when the row has
// no activity ID.
func ParseActivity(r Row) (*Activity, error) {
	id := r.get(ColActivityID)
	if id == "" {
		return nil, nil
	}
	x, err := parsePosition(r, ColPositionX)
	if err != nil {
		return nil, err
	}
	y, err := parsePosition(r, ColPositionY)
	if err != nil {
		return nil, err
	}
	return &Activity{
		ID:           id,
		Label:        r.get(ColDisplayName),
		Color:        r.get(ColColor),
		TaskID:       optional(r[ColTaskID]),
		Delay:        optional(r[ColDelay]),
		SLAViolation: flag(r[ColSLAViolation]),
		HadError:     flag(r[ColHadError]),
		Conditional:  flag(r[ColConditional]),
		X:            x,
		Y:            y,
	}, nil
}

// ParseTask reads a task from r. It returns nil when the row has no task ID.
func ParseTask(r Row) *Task {
	id := optional(r[ColTaskID])
	if id == "" {
		return nil
	}
	return &Task{
		ID:           id,
		Label:        r.get(ColDisplayName),
		Color:        r.get(ColColor),
		Delay:        optional(r[ColDelay]),
		SLAViolation: flag(r[ColSLAViolation]),
	}
}

// ParseTransition reads a transition from r. It returns nil when both
// endpoints are missing.
func ParseTransition(r Row) *Transition {
	t := &Transition{
		Start:     optional(r[ColInitialID]),
		End:       optional(r[ColTerminalID]),
		Label:     r.get(ColDisplayName),
		Color:     r.get(ColColor),
		Activated: flag(r[ColActivated]),
	}
	if t.Start == "" && t.End == "" {
		return nil
	}
	return t
}

// parsePosition parses a coordinate and drops its fractional part.
func parsePosition(r Row, c Column) (float64, error) {
	v := r.get(c)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "activity %q: invalid %s %q", r.get(ColActivityID), c, v)
	}
	return math.Trunc(f), nil
}
