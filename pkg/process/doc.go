// Package process defines the entities of a process diagram and the model
// that holds them.
//
// # Entities
//
// A process is made of three kinds of objects:
//
//   - [Activity]: a positioned node, optionally belonging to a task
//   - [Task]: a group of activities, drawn as the box around its members
//   - [Transition]: a directed edge between two activities
//
// A transition may omit one endpoint. A missing start makes it a trigger
// (something enters the process at the end activity); a missing end makes it
// a terminal. A transition with neither endpoint is rejected.
//
// # Model
//
// [Model] keeps each kind in its own insertion-ordered map so layouts are
// deterministic for a given input order:
//
//	m := process.NewModel()
//	_ = m.AddActivity(&process.Activity{ID: "A", X: 0, Y: 0})
//	_ = m.AddActivity(&process.Activity{ID: "B", X: 200, Y: 0})
//	_ = m.AddTransition(&process.Transition{Start: "A", End: "B"})
//	if err := m.Validate(); err != nil {
//	    // CONTRACT_VIOLATION: unknown activity, duplicate id, ...
//	}
//
// # Rows
//
// Documents arrive as flat rows keyed by column name (see [Column]).
// [Model.AddRow] turns one row into the matching entity, and [Split] groups
// rows into trellis panels that are laid out independently.
package process
