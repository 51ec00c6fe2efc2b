// Package flow routes transitions between activities of a flow diagram.
//
// Lines are orthogonal. For each pair of activities the router classifies
// the end activity relative to the start one and looks the result up in a
// decision table that yields the attachment sides and the connector shape:
//
//   - S-bend: two turns, used whenever the activities are separated by at
//     least [MinSeparation] on one axis
//   - L-bend: one turn, used when the activities are close but the end one
//     clears the start footprint
//   - Center loop-back: leaves and enters on the same side, used when the
//     activities nearly overlap
//
// A placement the table does not cover yields [route.ErrNoRoute]; the caller
// draws the transition without a line.
//
// Triggers and terminals (transitions with one endpoint) are drawn as
// dangling arrows by [Trigger] and [Terminal].
package flow
