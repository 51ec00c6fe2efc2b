package process

import (
	"strings"

	"github.com/matzehuels/procflow/pkg/geometry"
)

// Kind names the entity kind of a diagram element.
type Kind string

const (
	KindActivity   Kind = "activity"
	KindTask       Kind = "task"
	KindTransition Kind = "transition"
)

// emptyValue is the placeholder the source tables use for missing values.
const emptyValue = "(Empty)"

// Activity is a positioned node of the process.
type Activity struct {
	ID           string  `json:"id" bson:"id"`
	Label        string  `json:"label,omitempty" bson:"label,omitempty"`
	Color        string  `json:"color,omitempty" bson:"color,omitempty"`
	TaskID       string  `json:"task_id,omitempty" bson:"task_id,omitempty"`
	Delay        string  `json:"delay,omitempty" bson:"delay,omitempty"`
	SLAViolation bool    `json:"sla_violation,omitempty" bson:"sla_violation,omitempty"`
	HadError     bool    `json:"had_error,omitempty" bson:"had_error,omitempty"`
	Conditional  bool    `json:"conditional,omitempty" bson:"conditional,omitempty"`
	X            float64 `json:"x" bson:"x"`
	Y            float64 `json:"y" bson:"y"`
}

// Position returns the top-left corner of the activity.
func (a *Activity) Position() geometry.Point { return geometry.Pt(a.X, a.Y) }

// Delayed reports whether the activity ran late. Any delay not starting
// with "-" counts.
func (a *Activity) Delayed() bool {
	return a.Delay != "" && !strings.HasPrefix(a.Delay, "-")
}

// DisplayLabel returns the label if set, otherwise the ID.
func (a *Activity) DisplayLabel() string {
	if a.Label != "" {
		return a.Label
	}
	return a.ID
}

// Task groups the activities whose TaskID names it.
type Task struct {
	ID           string `json:"id" bson:"id"`
	Label        string `json:"label,omitempty" bson:"label,omitempty"`
	Color        string `json:"color,omitempty" bson:"color,omitempty"`
	Delay        string `json:"delay,omitempty" bson:"delay,omitempty"`
	SLAViolation bool   `json:"sla_violation,omitempty" bson:"sla_violation,omitempty"`
}

// Delayed reports whether the task ran late. Only delays starting with "+"
// count.
func (t *Task) Delayed() bool { return strings.HasPrefix(t.Delay, "+") }

// DisplayLabel returns the label if set, otherwise the ID.
func (t *Task) DisplayLabel() string {
	if t.Label != "" {
		return t.Label
	}
	return t.ID
}

// Transition is a directed edge between two activities. Either endpoint may
// be empty, but not both.
type Transition struct {
	Start     string `json:"start,omitempty" bson:"start,omitempty"`
	End       string `json:"end,omitempty" bson:"end,omitempty"`
	Label     string `json:"label,omitempty" bson:"label,omitempty"`
	Color     string `json:"color,omitempty" bson:"color,omitempty"`
	Activated bool   `json:"activated,omitempty" bson:"activated,omitempty"`
}

// ID returns "<start>/<end>".
func (t *Transition) ID() string { return TransitionID(t.Start, t.End) }

// Trigger reports whether the transition has no start activity.
func (t *Transition) Trigger() bool { return t.Start == "" && t.End != "" }

// Terminal reports whether the transition has no end activity.
func (t *Transition) Terminal() bool { return t.End == "" && t.Start != "" }

// Line reports whether both endpoints are present.
func (t *Transition) Line() bool { return t.Start != "" && t.End != "" }

// TransitionID builds the identity of the transition from start to end.
func TransitionID(start, end string) string { return start + "/" + end }

// optional maps the "(Empty)" placeholder to the empty string.
func optional(v string) string {
	v = strings.TrimSpace(v)
	if v == emptyValue {
		return ""
	}
	return v
}

// flag parses a boolean column. Only "true" in any case is true.
func flag(v string) bool { return strings.EqualFold(strings.TrimSpace(v), "true") }
