//go:build property
// +build property

package engine

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/viant/deskly/model"
	"github.com/viant/deskly/router"
	"github.com/viant/deskly/service/invoker"
	"github.com/viant/deskly/service/provider/desk"
	"github.com/viant/deskly/service/provider/local"
)

// TestExecute_DecisionProperty drives the full pipeline over the score and
// threshold range: a case escalates exactly when the score falls below the
// threshold, the ticket closes exactly otherwise, and every run completes
// all stages.
func TestExecute_DecisionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("escalate exactly when score < threshold", prop.ForAll(
		func(score, threshold int) bool {
			routes := router.DefaultTable()
			providers := newProviders(
				local.New(local.WithSolutionScore(score)),
				desk.New(desk.WithThreshold(threshold)),
			)
			caller := invoker.NewService(providers, routes, invoker.WithConfig(fastConfig()))
			service, err := New(caller, routes, providers, WithThreshold(threshold))
			if err != nil {
				return false
			}
			state := newState()
			final, err := service.Execute(context.Background(), state)
			if err != nil || final == nil {
				return false
			}
			escalate := score < threshold
			if final.Escalated != escalate {
				return false
			}
			if state.TicketClosed == escalate {
				return false
			}
			expectStatus := model.StatusClosed
			if escalate {
				expectStatus = model.StatusEscalated
			}
			return final.Status == expectStatus && len(final.CompletedStages) == model.StageCount()
		},
		gen.IntRange(0, 150),
		gen.IntRange(1, 120),
	))

	properties.TestingRun(t)
}
