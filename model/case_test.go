package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/deskly/internal/clock"
	"github.com/viant/deskly/model/types"
)

func testPayload() *Payload {
	return &Payload{
		CustomerName: "John Smith",
		Email:        "john.smith@email.com",
		Query:        "I was charged twice for my subscription last month",
		Priority:     "high",
		TicketID:     "12345",
	}
}

func TestPayload_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(p *Payload)
		field       string
	}{
		{
			description: "valid payload",
			mutate:      func(p *Payload) {},
		},
		{
			description: "missing name",
			mutate:      func(p *Payload) { p.CustomerName = " " },
			field:       "customerName",
		},
		{
			description: "missing email",
			mutate:      func(p *Payload) { p.Email = "" },
			field:       "email",
		},
		{
			description: "malformed email",
			mutate:      func(p *Payload) { p.Email = "not-an-address" },
			field:       "email",
		},
		{
			description: "missing query",
			mutate:      func(p *Payload) { p.Query = "" },
			field:       "query",
		},
		{
			description: "unknown priority",
			mutate:      func(p *Payload) { p.Priority = "urgent" },
			field:       "priority",
		},
		{
			description: "missing ticket id",
			mutate:      func(p *Payload) { p.TicketID = "" },
			field:       "ticketId",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			payload := testPayload()
			testCase.mutate(payload)
			err := payload.Validate()
			if testCase.field == "" {
				assert.NoError(t, err)
				return
			}
			var validation *types.ValidationError
			assert.True(t, errors.As(err, &validation))
			assert.EqualValues(t, testCase.field, validation.Field)
		})
	}
}

func TestStage_Order(t *testing.T) {
	stages := Stages()
	assert.EqualValues(t, 11, len(stages))
	assert.EqualValues(t, StageIntake, stages[0])
	assert.EqualValues(t, StageComplete, stages[len(stages)-1])
	for i, stage := range stages {
		assert.EqualValues(t, i, stage.Index())
	}
	next, ok := StageIntake.Next()
	assert.True(t, ok)
	assert.EqualValues(t, StageUnderstand, next)
	_, ok = StageComplete.Next()
	assert.False(t, ok)
	assert.True(t, StageComplete.IsTerminal())
	assert.False(t, Stage("TRIAGE").IsValid())
}

func TestCaseState_StageProgress(t *testing.T) {
	aCase := NewCaseState(testPayload())

	err := aCase.StartStage(StageUnderstand)
	assert.NotNil(t, err, "stages have to start in order")

	for _, stage := range Stages() {
		assert.NoError(t, aCase.StartStage(stage))
		assert.EqualValues(t, stage, aCase.CurrentStage)
		assert.NoError(t, aCase.CompleteStage(stage))
	}
	assert.EqualValues(t, Stages(), aCase.CompletedStages)

	var fault *types.EngineFault
	err = aCase.CompleteStage(StageComplete)
	assert.True(t, errors.As(err, &fault))
	assert.EqualValues(t, string(StageComplete), fault.Stage)
}

func TestCaseState_Log(t *testing.T) {
	pinned := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	previous := clock.NowFunc
	clock.NowFunc = func() time.Time { return pinned }
	defer func() { clock.NowFunc = previous }()

	aCase := NewCaseState(testPayload())
	aCase.AppendLog(StageIntake, "case accepted for %v", aCase.CustomerName)
	aCase.AppendLog(StageUnderstand, "intent classified")

	assert.EqualValues(t, 2, len(aCase.Log))
	assert.EqualValues(t, "2025-06-01T10:30:00Z [INTAKE] case accepted for John Smith", aCase.Log[0].String())
}

func TestCaseState_Decision(t *testing.T) {
	aCase := NewCaseState(testPayload())
	assert.False(t, aCase.Decided())
	assert.NoError(t, aCase.SetDecision(85, true, "Score threshold"))
	assert.True(t, aCase.Decided())
	assert.EqualValues(t, 85, aCase.SolutionScore)
	assert.True(t, aCase.EscalationRequired)

	err := aCase.SetDecision(95, false, "again")
	var fault *types.EngineFault
	assert.True(t, errors.As(err, &fault), "decision applies at most once")

	err = aCase.SetTicketClosed("Resolved")
	assert.True(t, errors.As(err, &fault), "escalated case never closes")
	assert.False(t, aCase.TicketClosed)
}

func TestCaseState_Finalize(t *testing.T) {
	aCase := NewCaseState(testPayload())
	assert.NoError(t, aCase.SetDecision(95, false, "Score threshold"))
	assert.NoError(t, aCase.SetTicketClosed("Resolved"))

	final, err := aCase.Finalize()
	assert.NoError(t, err)
	assert.EqualValues(t, StatusClosed, final.Status)
	assert.EqualValues(t, "Resolved", final.Resolution)
	assert.EqualValues(t, 95, final.SolutionScore)
	assert.False(t, final.Escalated)

	_, err = aCase.Finalize()
	var fault *types.EngineFault
	assert.True(t, errors.As(err, &fault), "final payload populates exactly once")
}

func TestCaseState_Values(t *testing.T) {
	aCase := NewCaseState(testPayload())
	values := aCase.Values()
	assert.EqualValues(t, "John Smith", values["customer_name"])
	assert.EqualValues(t, "12345", values["ticket_id"])
	_, ok := values["solution_score"]
	assert.False(t, ok, "score absent before the decision stage")

	assert.NoError(t, aCase.SetDecision(85, true, "Score threshold"))
	values = aCase.Values()
	assert.EqualValues(t, 85, values["solution_score"])
}

func TestSnapshotDiff(t *testing.T) {
	aCase := NewCaseState(testPayload())
	before := aCase.Render()
	aCase.ParsedRequest = &ParsedRequest{Intent: "billing_inquiry", Urgency: "medium"}
	after := aCase.Render()

	diff, err := SnapshotDiff(StageUnderstand, before, after)
	assert.NoError(t, err)
	assert.Contains(t, diff, "+intent: billing_inquiry")

	same, err := SnapshotDiff(StageUnderstand, after, after)
	assert.NoError(t, err)
	assert.Empty(t, same)
}
