// Package deck implements the slide deck state machine: an ordered registry
// of slide ids, the single active slide, and prev/next/go-to navigation with
// an optional wrap-around policy.
//
// Slides attach themselves through a Card, which resolves its own identity
// and registers with the Controller. The Controller is the only writer of the
// registry and the active id. Removing the active slide moves the active id
// to its predecessor in cyclic order.
//
// Validation of the requested active slide can be deferred to a checkpoint
// with Controller.Batch, so that a burst of attach/detach notifications in
// arbitrary order does not trip the unknown-slide check half way through.
package deck
