package deskly

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/mcp"
	"github.com/viant/x"

	"github.com/viant/deskly/extension"
	"github.com/viant/deskly/fallback"
	"github.com/viant/deskly/model/types"
	"github.com/viant/deskly/router"
	"github.com/viant/deskly/runtime/run"
	"github.com/viant/deskly/service/dao"
	runfs "github.com/viant/deskly/service/dao/run/fs"
	runmem "github.com/viant/deskly/service/dao/run/memory"
	runsqlite "github.com/viant/deskly/service/dao/run/sqlite"
	"github.com/viant/deskly/service/engine"
	"github.com/viant/deskly/service/event"
	"github.com/viant/deskly/service/interaction"
	imemory "github.com/viant/deskly/service/interaction/memory"
	"github.com/viant/deskly/service/invoker"
	"github.com/viant/deskly/service/messaging"
	fsqueue "github.com/viant/deskly/service/messaging/fs"
	memqueue "github.com/viant/deskly/service/messaging/memory"
	"github.com/viant/deskly/service/meta"
	"github.com/viant/deskly/service/provider/desk"
	"github.com/viant/deskly/service/provider/local"
	providermcp "github.com/viant/deskly/service/provider/mcp"
	"github.com/viant/deskly/service/runner"
	"github.com/viant/deskly/service/secret"
)

// Service is the assembled case pipeline: providers, routing, invoker, stage
// engine and queued runner behind a single construction call.
type Service struct {
	runtime        *Runtime
	config         *Config
	configURL      string
	metaService    *meta.Service
	metaBaseURL    string
	metaFsOptions  []storage.Option
	secrets        *secret.Service
	providers      *extension.Providers
	extraProviders []types.Provider
	viewTypes      []*x.Type
	routes         *router.Table
	routesURL      string
	fallbacks      *fallback.Registry
	invokerOptions []invoker.Option
	engineOptions  []engine.Option
	interactions   interaction.Service
	events         *event.Service
	runDAO         dao.Service[string, run.Run]
	queue          messaging.Queue[runner.Task]
	endpoints      []*Endpoint

	threshold     *int
	solutionScore *int
	waitTimeout   *time.Duration
	verbose       *bool
	workers       *int
}

func (s *Service) init(ctx context.Context, options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.ensureBaseSetup(ctx); err != nil {
		return err
	}
	if err := s.connectEndpoints(ctx); err != nil {
		return err
	}
	caller := invoker.NewService(s.providers, s.routes,
		append([]invoker.Option{invoker.WithFallbacks(s.fallbacks)}, s.invokerOptions...)...)
	engineOptions := append([]engine.Option{
		engine.WithConfig(engine.Config{
			Threshold:   s.config.Engine.Threshold,
			WaitTimeout: s.config.Engine.WaitTimeout(),
			Verbose:     s.config.Engine.Verbose,
		}),
		engine.WithInteractions(s.interactions),
	}, s.engineOptions...)
	stageEngine, err := engine.New(caller, s.routes, s.providers, engineOptions...)
	if err != nil {
		return err
	}
	runnerOptions := []runner.Option{
		runner.WithConfig(runner.Config{WorkerCount: s.config.Runner.WorkerCount}),
	}
	if s.events != nil {
		runnerOptions = append(runnerOptions, runner.WithEvents(s.events))
	}
	caseRunner, err := runner.New(stageEngine, s.runDAO, s.queue, runnerOptions...)
	if err != nil {
		return err
	}
	s.runtime = &Runtime{
		engine:       stageEngine,
		runner:       caseRunner,
		runDAO:       s.runDAO,
		queue:        s.queue,
		events:       s.events,
		interactions: s.interactions,
		routes:       s.routes,
		providers:    s.providers,
	}
	return nil
}

func (s *Service) ensureBaseSetup(ctx context.Context) error {
	if s.metaService == nil {
		s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	}
	if s.config == nil {
		s.config = DefaultConfig()
		if s.configURL != "" {
			if err := s.metaService.Load(ctx, s.configURL, s.config); err != nil {
				return err
			}
		}
	}
	s.applyOverrides()
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.secrets == nil {
		s.secrets = secret.New()
	}
	if s.providers == nil {
		var localOptions []local.Option
		if s.solutionScore != nil {
			localOptions = append(localOptions, local.WithSolutionScore(*s.solutionScore))
		}
		s.providers = extension.NewProviders(
			extension.WithViewTypes(s.viewTypes...),
			extension.WithProvider(local.New(localOptions...)),
			extension.WithProvider(desk.New(desk.WithThreshold(s.config.Engine.Threshold))),
		)
	}
	for _, provider := range s.extraProviders {
		s.providers.Register(provider)
	}
	if s.routes == nil {
		location := s.routesURL
		if location == "" {
			location = s.config.RoutesURL
		}
		if location == "" {
			s.routes = router.DefaultTable()
		} else {
			routes, err := s.metaService.LoadRoutes(ctx, location)
			if err != nil {
				return err
			}
			s.routes = routes
		}
	}
	if s.fallbacks == nil {
		s.fallbacks = fallback.DefaultRegistry(s.config.Engine.Threshold)
	}
	if s.runDAO == nil {
		runDAO, err := s.newRunDAO()
		if err != nil {
			return err
		}
		s.runDAO = runDAO
	}
	if s.queue == nil {
		queue, err := s.newQueue()
		if err != nil {
			return err
		}
		s.queue = queue
	}
	if s.events == nil {
		events, err := s.newEvents()
		if err != nil {
			return err
		}
		s.events = events
	}
	if s.interactions == nil {
		s.interactions = imemory.New()
	}
	return nil
}

func (s *Service) applyOverrides() {
	if s.threshold != nil {
		s.config.Engine.Threshold = *s.threshold
	}
	if s.waitTimeout != nil {
		s.config.Engine.WaitTimeoutMs = int(s.waitTimeout.Milliseconds())
	}
	if s.verbose != nil {
		s.config.Engine.Verbose = *s.verbose
	}
	if s.workers != nil {
		s.config.Runner.WorkerCount = *s.workers
	}
}

func (s *Service) newRunDAO() (dao.Service[string, run.Run], error) {
	switch s.config.Store.Vendor {
	case VendorFs:
		return runfs.New(s.config.Store.BaseURL)
	case VendorSQLite:
		return runsqlite.New(s.config.Store.BaseURL)
	default:
		return runmem.New(), nil
	}
}

func (s *Service) newQueue() (messaging.Queue[runner.Task], error) {
	switch s.config.Queue.Vendor {
	case VendorFs:
		config := fsqueue.DefaultConfig()
		config.BasePath = url.Join(s.config.Queue.BaseURL, "tasks")
		return fsqueue.NewQueue[runner.Task](afs.New(), config)
	default:
		return memqueue.NewQueue[runner.Task](memqueue.DefaultConfig()), nil
	}
}

func (s *Service) newEvents() (*event.Service, error) {
	switch s.config.Queue.Vendor {
	case VendorFs:
		baseURL := s.config.Queue.BaseURL
		return event.New(VendorFs, event.WithNewFsQueueConfig(func(name string) fsqueue.Config {
			config := fsqueue.DefaultConfig()
			config.BasePath = url.Join(baseURL, "events", name)
			return config
		}))
	default:
		return event.New(VendorMemory, event.WithNewMemoryQueueConfig(func(name string) memqueue.Config {
			return memqueue.DefaultConfig()
		}))
	}
}

// connectEndpoints turns every configured MCP endpoint into a registered
// provider; a failing endpoint fails construction rather than a later run.
func (s *Service) connectEndpoints(ctx context.Context) error {
	endpoints := make([]*Endpoint, 0, len(s.config.Endpoints)+len(s.endpoints))
	endpoints = append(endpoints, s.config.Endpoints...)
	endpoints = append(endpoints, s.endpoints...)
	for _, endpoint := range endpoints {
		if err := endpoint.Validate(); err != nil {
			return err
		}
		var providerOptions []providermcp.Option
		if endpoint.SecretURL != "" {
			token, err := s.secrets.Token(ctx, endpoint.SecretURL, endpoint.SecretKey)
			if err != nil {
				return fmt.Errorf("endpoint %v: %w", endpoint.Name, err)
			}
			providerOptions = append(providerOptions, providermcp.WithToken(token))
		}
		client, err := mcp.NewClient(nil, endpoint.ClientOptions())
		if err != nil {
			return fmt.Errorf("endpoint %v: %w", endpoint.Name, err)
		}
		provider, err := providermcp.New(ctx, endpoint.Name, client, providerOptions...)
		if err != nil {
			return fmt.Errorf("endpoint %v: %w", endpoint.Name, err)
		}
		s.providers.Register(provider)
	}
	return nil
}

// RegisterProviders adds ability providers after construction
func (s *Service) RegisterProviders(providers ...types.Provider) {
	for i := range providers {
		s.providers.Register(providers[i])
	}
}

// RegisterViewTypes adds result view types to the extension registry
func (s *Service) RegisterViewTypes(viewTypes ...*x.Type) {
	for i := range viewTypes {
		s.providers.Types().Register(viewTypes[i])
	}
}

// Runtime returns the case runtime
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// New assembles a deskly service
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(ctx, options); err != nil {
		return nil, err
	}
	return ret, nil
}
