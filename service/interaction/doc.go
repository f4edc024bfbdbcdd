// Package interaction implements the customer interaction layer: the ask
// stage posts a clarification question here and the wait stage collects the
// customer's answer, with an awaitable handoff between the two.
package interaction
