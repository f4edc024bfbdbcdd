// Package deskly drives customer support cases through a fixed eleven stage
// pipeline, delegating every piece of remote work to named abilities behind
// a routed call boundary.
//
// The pipeline is built from pluggable service layers such as:
//
//   - engine  – ordered stage execution over the shared case state
//   - invoker – the ability call boundary with retries and fallbacks
//   - runner  – queued run execution with a worker pool and recovery
//   - interaction – optional customer question and answer exchange
//
// Deskly is designed to be embedded in host applications.  End-users
// typically interact with it via the high-level Service façade exposed by
// the root package:
//
//	srv, _ := deskly.New(ctx)
//	rt := srv.Runtime()
//	aRun, wait, _ := rt.StartCase(ctx, payload)
//	_ = rt.Start(ctx)
//	out, _ := wait(ctx, time.Minute)
//
// For more details see the README and individual sub-packages.
package deskly
