package model

import (
	"github.com/pmezard/go-difflib/difflib"
)

// SnapshotDiff produces a unified diff between two rendered case state
// snapshots; it returns an empty string when nothing changed. The engine uses
// it in verbose mode to log what each stage altered.
func SnapshotDiff(stage Stage, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "state (before " + string(stage) + ")",
		ToFile:   "state (after " + string(stage) + ")",
		Context:  2,
	}
	return difflib.GetUnifiedDiffString(ud)
}
