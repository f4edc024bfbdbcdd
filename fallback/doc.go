// Package fallback keeps the deterministic substitute results used when a
// provider call fails. Every ability of the fixed vocabulary has a
// registered fallback, which keeps the stage pipeline total: a run reaches
// its terminal stage even under a full provider outage.
package fallback
