package deskly_test

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	_ "github.com/viant/afs/embed"
	"github.com/viant/deskly"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/model/types"
	"github.com/viant/deskly/router"
	"github.com/viant/deskly/runtime/run"
	"github.com/viant/deskly/service/event"
	"github.com/viant/deskly/service/invoker"
)

//go:embed testdata/*
var embedFS embed.FS

func newPayload() *model.Payload {
	return &model.Payload{
		CustomerName: "John Smith",
		Email:        "john.smith@email.com",
		Query:        "I have a billing issue with my premium account. The charge seems incorrect for last month.",
		Priority:     model.PriorityHigh,
		TicketID:     "12345",
	}
}

func TestService_RunCase(t *testing.T) {
	testCases := []struct {
		description    string
		score          int
		expectStatus   model.Status
		expectEscalate bool
	}{
		{
			description:    "score below threshold escalates",
			score:          85,
			expectStatus:   model.StatusEscalated,
			expectEscalate: true,
		},
		{
			description:  "score above threshold closes the ticket",
			score:        95,
			expectStatus: model.StatusClosed,
		},
	}
	ctx := context.Background()
	for _, testCase := range testCases {
		svc, err := deskly.New(ctx, deskly.WithSolutionScore(testCase.score))
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		output, err := svc.Runtime().RunCase(ctx, newPayload())
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, run.StatusCompleted, output.Status, testCase.description)
		if !assert.NotNil(t, output.Final, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expectStatus, output.Final.Status, testCase.description)
		assert.EqualValues(t, testCase.expectEscalate, output.Final.Escalated, testCase.description)
		assert.EqualValues(t, testCase.score, output.Final.SolutionScore, testCase.description)
		assert.EqualValues(t, "12345", output.Final.TicketID, testCase.description)
		assert.EqualValues(t, "Dear John Smith, inquiry resolved.", output.Final.Resolution, testCase.description)
		assert.EqualValues(t, model.Stages(), output.Final.CompletedStages, testCase.description)
	}
}

func TestService_StartCase(t *testing.T) {
	ctx := context.Background()
	svc, err := deskly.New(ctx, deskly.WithWorkers(2))
	if !assert.Nil(t, err) {
		return
	}
	runtime := svc.Runtime()

	var runEvents int32
	err = event.SetListenerOf[*run.Run](runtime.Events(), func(e *event.Event[*run.Run]) {
		atomic.AddInt32(&runEvents, 1)
	})
	assert.Nil(t, err)

	assert.Nil(t, runtime.Start(ctx))
	defer runtime.Shutdown(ctx)

	aRun, wait, err := runtime.StartCase(ctx, newPayload())
	if !assert.Nil(t, err) {
		return
	}
	output, err := wait(ctx, 10*time.Second)
	if !assert.Nil(t, err) {
		return
	}
	assert.EqualValues(t, run.StatusCompleted, output.Status)
	assert.NotNil(t, output.Final)
	assert.True(t, output.Final.Escalated)

	stored, err := runtime.Run(ctx, aRun.ID)
	assert.Nil(t, err)
	assert.True(t, stored.IsFinished())
	runs, err := runtime.Runs(ctx)
	assert.Nil(t, err)
	assert.EqualValues(t, 1, len(runs))

	pending, err := runtime.Interactions().ListPending(ctx)
	assert.Nil(t, err)
	assert.EqualValues(t, 1, len(pending))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runEvents) >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestService_RouterMiss(t *testing.T) {
	ctx := context.Background()
	var routes []*router.Route
	for _, route := range router.DefaultTable().All() {
		if route.Ability == model.AbilityEscalationDecision {
			continue
		}
		routes = append(routes, route)
	}
	svc, err := deskly.New(ctx, deskly.WithRoutes(router.NewTable(routes...)))
	if !assert.Nil(t, err) {
		return
	}
	output, err := svc.Runtime().RunCase(ctx, newPayload())
	if !assert.NotNil(t, err) {
		return
	}
	var configErr *types.ConfigurationError
	assert.True(t, errors.As(err, &configErr))
	assert.EqualValues(t, run.StatusFailed, output.Status)
	assert.Nil(t, output.Final)

	stored, err := svc.Runtime().Run(ctx, output.RunID)
	assert.Nil(t, err)
	assert.EqualValues(t, run.StatusFailed, stored.GetStatus())
	assert.Contains(t, stored.Error, "is not routed")
}

type outageProvider struct {
	name string
}

func (p *outageProvider) Name() string {
	return p.name
}

func (p *outageProvider) Abilities() types.Signatures {
	return nil
}

func (p *outageProvider) Ability(name string) (types.Executable, error) {
	return func(ctx context.Context, args types.Args) (types.Result, error) {
		return nil, fmt.Errorf("%v is down", name)
	}, nil
}

func TestService_TotalOutage(t *testing.T) {
	ctx := context.Background()
	svc, err := deskly.New(ctx,
		deskly.WithProviders(
			&outageProvider{name: model.ProviderInternal},
			&outageProvider{name: model.ProviderExternal},
		),
		deskly.WithInvokerOptions(invoker.WithConfig(invoker.Config{
			CallTimeout: time.Second,
			MaxRetries:  1,
			RetryDelay:  time.Millisecond,
		})),
	)
	if !assert.Nil(t, err) {
		return
	}
	output, err := svc.Runtime().RunCase(ctx, newPayload())
	if !assert.Nil(t, err) {
		return
	}
	assert.EqualValues(t, run.StatusCompleted, output.Status)
	if !assert.NotNil(t, output.Final) {
		return
	}
	assert.True(t, output.Final.Escalated)
	assert.EqualValues(t, 85, output.Final.SolutionScore)
	assert.EqualValues(t, model.Stages(), output.Final.CompletedStages)

	degraded := 0
	for _, entry := range output.State.Log {
		if strings.Contains(entry, "degraded") {
			degraded++
		}
	}
	assert.True(t, degraded > 0)
}

func TestService_ConfigDocument(t *testing.T) {
	ctx := context.Background()
	svc, err := deskly.New(ctx,
		deskly.WithMetaFsOptions(&embedFS),
		deskly.WithMetaBaseURL("embed:///testdata"),
		deskly.WithConfigURL("config.yaml"),
	)
	if !assert.Nil(t, err) {
		return
	}
	assert.EqualValues(t, 95, svc.Config().Engine.Threshold)
	assert.EqualValues(t, 2, svc.Config().Runner.WorkerCount)

	output, err := svc.Runtime().RunCase(ctx, newPayload())
	if !assert.Nil(t, err) {
		return
	}
	assert.True(t, output.Final.Escalated)
}

func TestService_RouteSheet(t *testing.T) {
	ctx := context.Background()
	svc, err := deskly.New(ctx,
		deskly.WithMetaFsOptions(&embedFS),
		deskly.WithMetaBaseURL("embed:///testdata"),
		deskly.WithRoutesURL("routes"),
	)
	if !assert.Nil(t, err) {
		return
	}
	assert.EqualValues(t, 15, svc.Runtime().Routes().Size())

	output, err := svc.Runtime().RunCase(ctx, newPayload())
	if !assert.Nil(t, err) {
		return
	}
	assert.EqualValues(t, run.StatusCompleted, output.Status)
}

func TestService_InvalidSetup(t *testing.T) {
	ctx := context.Background()
	_, err := deskly.New(ctx, deskly.WithConfig(&deskly.Config{
		Engine: deskly.EngineConfig{Threshold: -1},
		Runner: deskly.RunnerConfig{WorkerCount: 5},
		Store:  deskly.StoreConfig{Vendor: deskly.VendorMemory},
		Queue:  deskly.QueueConfig{Vendor: deskly.VendorMemory},
	}))
	assert.NotNil(t, err)

	_, err = deskly.New(ctx, deskly.WithEndpoints(&deskly.Endpoint{Name: "kb", Transport: "carrier-pigeon"}))
	assert.NotNil(t, err)
}
