// Package policy provides optional declarative rules applied on top of the
// ability call boundary – for example to block selected abilities or to
// require approval before outward-facing actions run.
package policy
