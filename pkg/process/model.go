package process

import (
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/geometry"
)

// Task box padding around the member activities.
const (
	taskPadX      = 10
	taskPadTop    = 30
	taskPadBottom = 30

	// ActivityWidth and ActivityHeight are the flow-mode activity footprint.
	ActivityWidth  = 120
	ActivityHeight = 65
)

// Model holds the entities of one diagram in insertion order.
type Model struct {
	activities  *orderedmap.OrderedMap[string, *Activity]
	tasks       *orderedmap.OrderedMap[string, *Task]
	transitions *orderedmap.OrderedMap[string, *Transition]
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		activities:  orderedmap.New[string, *Activity](),
		tasks:       orderedmap.New[string, *Task](),
		transitions: orderedmap.New[string, *Transition](),
	}
}

// AddActivity appends a. A repeated ID is a contract violation.
func (m *Model) AddActivity(a *Activity) error {
	if err := errors.ValidateID(a.ID); err != nil {
		return err
	}
	if _, ok := m.activities.Get(a.ID); ok {
		return errors.ContractViolation("duplicate activity id %q", a.ID)
	}
	m.activities.Set(a.ID, a)
	return nil
}

// AddTask appends t. A repeated ID is a contract violation.
func (m *Model) AddTask(t *Task) error {
	if err := errors.ValidateID(t.ID); err != nil {
		return err
	}
	if _, ok := m.tasks.Get(t.ID); ok {
		return errors.ContractViolation("duplicate task id %q", t.ID)
	}
	m.tasks.Set(t.ID, t)
	return nil
}

// AddTransition appends t. A transition without endpoints or with a
// repeated ID is a contract violation. Endpoint references are checked by
// Validate, since activities may be added later.
func (m *Model) AddTransition(t *Transition) error {
	if t.Start == "" && t.End == "" {
		return errors.ContractViolation("transition has neither start nor end activity")
	}
	id := t.ID()
	if _, ok := m.transitions.Get(id); ok {
		return errors.ContractViolation("duplicate transition id %q", id)
	}
	m.transitions.Set(id, t)
	return nil
}

// Validate checks references between entities: every transition endpoint
// must name a known activity and every activity position must be finite.
func (m *Model) Validate() error {
	for pair := m.activities.Oldest(); pair != nil; pair = pair.Next() {
		a := pair.Value
		if math.IsNaN(a.X) || math.IsInf(a.X, 0) || math.IsNaN(a.Y) || math.IsInf(a.Y, 0) {
			return errors.ContractViolation("activity %q has a non-finite position", a.ID)
		}
	}
	for pair := m.transitions.Oldest(); pair != nil; pair = pair.Next() {
		t := pair.Value
		for _, id := range []string{t.Start, t.End} {
			if id == "" {
				continue
			}
			if _, ok := m.activities.Get(id); !ok {
				return errors.ContractViolation("transition %q references unknown activity %q", pair.Key, id)
			}
		}
	}
	return nil
}

// Activity returns the activity with the given ID.
func (m *Model) Activity(id string) (*Activity, bool) { return m.activities.Get(id) }

// Task returns the task with the given ID.
func (m *Model) Task(id string) (*Task, bool) { return m.tasks.Get(id) }

// Transition returns the transition with the given ID.
func (m *Model) Transition(id string) (*Transition, bool) { return m.transitions.Get(id) }

// Activities returns the activities in insertion order.
func (m *Model) Activities() []*Activity { return values(m.activities) }

// Tasks returns the tasks in insertion order.
func (m *Model) Tasks() []*Task { return values(m.tasks) }

// Transitions returns the transitions in insertion order.
func (m *Model) Transitions() []*Transition { return values(m.transitions) }

// Len returns the total number of entities.
func (m *Model) Len() int {
	return m.activities.Len() + m.tasks.Len() + m.transitions.Len()
}

// Conditional reports whether either endpoint of t is a conditional
// activity.
func (m *Model) Conditional(t *Transition) bool {
	for _, id := range []string{t.Start, t.End} {
		if a, ok := m.activities.Get(id); ok && a.Conditional {
			return true
		}
	}
	return false
}

// TaskBox returns the box drawn around the activities of the task. The
// second result is false when no activity references the task.
func (m *Model) TaskBox(taskID string) (geometry.Rect, bool) {
	var (
		minX, minY = math.Inf(1), math.Inf(1)
		maxX, maxY = math.Inf(-1), math.Inf(-1)
		found      bool
	)
	for pair := m.activities.Oldest(); pair != nil; pair = pair.Next() {
		a := pair.Value
		if a.TaskID != taskID {
			continue
		}
		found = true
		minX, maxX = math.Min(minX, a.X), math.Max(maxX, a.X)
		minY, maxY = math.Min(minY, a.Y), math.Max(maxY, a.Y)
	}
	if !found {
		return geometry.Rect{}, false
	}
	return geometry.Rect{
		X:      minX - taskPadX,
		Y:      minY - taskPadTop,
		Width:  maxX - minX + ActivityWidth + 2*taskPadX,
		Height: maxY - minY + ActivityHeight + taskPadTop + taskPadBottom,
	}, true
}

func values[V any](om *orderedmap.OrderedMap[string, V]) []V {
	out := make([]V, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}
