package invoker

import (
	"time"

	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
)

// Outcome is what a stage receives back from one ability call.  A degraded
// outcome carries the fallback result together with the reason the primary
// call was abandoned; the caller never sees the underlying failure as an
// error.
type Outcome struct {
	Stage    model.Stage   `json:"stage"`
	Ability  string        `json:"ability"`
	Provider string        `json:"provider"`
	Args     types.Args    `json:"args,omitempty"`
	Result   types.Result  `json:"result,omitempty"`
	View     interface{}   `json:"view,omitempty"`
	Degraded bool          `json:"degraded,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Attempts int           `json:"attempts"`
	Elapsed  time.Duration `json:"elapsed"`
}
