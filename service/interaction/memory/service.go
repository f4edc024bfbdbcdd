package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/deskly/internal/clock"
	"github.com/viant/deskly/service/dao/store"
	"github.com/viant/deskly/service/interaction"
	"github.com/viant/deskly/service/messaging"
	qmem "github.com/viant/deskly/service/messaging/memory"
)

type service struct {
	questions *store.MemoryStore[string, interaction.Question]
	answers   *store.MemoryStore[string, interaction.Answer]

	// fan-out queue
	events messaging.Queue[interaction.Event]

	pollEvery time.Duration
}

// key selectors
func questionKey(q *interaction.Question) string { return q.ID }
func answerKey(a *interaction.Answer) string     { return a.ID }

// Option customizes the memory interaction service
type Option func(*service)

// WithPollInterval sets the Await polling interval
func WithPollInterval(interval time.Duration) Option {
	return func(s *service) {
		if interval > 0 {
			s.pollEvery = interval
		}
	}
}

// New creates the in-memory interaction service
func New(options ...Option) interaction.Service {
	ret := &service{
		questions: store.NewMemoryStore[string, interaction.Question](questionKey),
		answers:   store.NewMemoryStore[string, interaction.Answer](answerKey),
		events:    qmem.NewQueue[interaction.Event](qmem.DefaultConfig()),
		pollEvery: 20 * time.Millisecond,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *service) Post(ctx context.Context, question *interaction.Question) error {
	if question == nil || question.Question == "" {
		return errors.New("invalid question")
	}

	// A question without an identifier takes the run id, which is unique per
	// run; this protects against silent drops caused by empty IDs.
	if question.ID == "" {
		if question.RunID != "" {
			question.ID = question.RunID
		} else {
			question.ID = fmt.Sprintf("anon-%d", clock.Now().UnixNano())
		}
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = clock.Now()
	}

	// Idempotent save so a re-posted question overwrites its previous copy.
	_ = s.questions.Save(ctx, question)
	_ = s.events.Publish(ctx, &interaction.Event{Topic: interaction.TopicQuestionPosted, Data: question})
	return nil
}

func (s *service) ListPending(ctx context.Context) ([]*interaction.Question, error) {
	all, err := s.questions.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]*interaction.Question, 0, len(all))
	for _, question := range all {
		if answer, _ := s.answers.Load(ctx, question.ID); answer == nil {
			pending = append(pending, question)
		}
	}
	return pending, nil
}

func (s *service) Answer(ctx context.Context, id string, reply string, confidence float64) (*interaction.Answer, error) {
	if id == "" {
		return nil, errors.New("empty id")
	}
	question, _ := s.questions.Load(ctx, id)
	if question == nil {
		return nil, fmt.Errorf("question %s not found", id)
	}
	if existing, _ := s.answers.Load(ctx, id); existing != nil {
		return nil, fmt.Errorf("already answered")
	}

	answer := &interaction.Answer{
		ID:         id,
		Answer:     reply,
		Confidence: confidence,
		AnsweredAt: clock.Now(),
	}
	_ = s.answers.Save(ctx, answer)
	_ = s.events.Publish(ctx, &interaction.Event{Topic: interaction.TopicAnswerPosted, Data: answer})
	return answer, nil
}

// Await blocks until the question's answer arrives, polling the answer store;
// it returns a wrapped ctx error on timeout or cancellation.
func (s *service) Await(ctx context.Context, id string, timeout time.Duration) (*interaction.Answer, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ticker := time.NewTicker(s.pollEvery)
	defer ticker.Stop()
	for {
		if answer, _ := s.answers.Load(ctx, id); answer != nil {
			return answer, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("no answer for question %v: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (s *service) Queue() messaging.Queue[interaction.Event] { return s.events }

var _ interaction.Service = (*service)(nil)
