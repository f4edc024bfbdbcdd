package invoker

import (
	"encoding/json"
	"fmt"

	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
	"github.com/viant/deskly/router"
)

// Listener is invoked once an ability call completes, degraded or not.
// Implementations can log, collect metrics or perform any other side-effects
// they require.
//
// For convenience the listener is defined as a function type rather than an
// interface; users can therefore pass a plain function literal when
// customising the invoker.
type Listener func(stage model.Stage, route *router.Route, args types.Args, outcome *Outcome)

// StdoutListener serialises the call arguments and outcome into JSON and
// prints them to standard output.  Errors from json.Marshal are ignored on
// purpose – they indicate non-serialisable values the listener could not have
// rendered anyway.
func StdoutListener(stage model.Stage, route *router.Route, args types.Args, outcome *Outcome) {
	if route == nil || outcome == nil {
		return
	}
	if args != nil {
		in, _ := json.Marshal(args)
		fmt.Printf("[%v] %v.%v <- %s\n", stage, route.Provider, route.Ability, in)
	}
	out, _ := json.Marshal(outcome.Result)
	marker := ""
	if outcome.Degraded {
		marker = " (degraded)"
	}
	fmt.Printf("[%v] %v.%v%v -> %s\n", stage, route.Provider, route.Ability, marker, out)
}
