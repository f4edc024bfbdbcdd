package deskly

import (
	"time"

	"github.com/viant/afs/storage"
	"github.com/viant/x"

	"github.com/viant/deskly/fallback"
	"github.com/viant/deskly/model/types"
	"github.com/viant/deskly/router"
	"github.com/viant/deskly/runtime/run"
	"github.com/viant/deskly/service/dao"
	"github.com/viant/deskly/service/engine"
	"github.com/viant/deskly/service/event"
	"github.com/viant/deskly/service/interaction"
	"github.com/viant/deskly/service/invoker"
	"github.com/viant/deskly/service/messaging"
	"github.com/viant/deskly/service/meta"
	"github.com/viant/deskly/service/runner"
	"github.com/viant/deskly/service/secret"
	"github.com/viant/deskly/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the deskly service
type Option func(s *Service)

// WithConfig sets the whole configuration
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithConfigURL loads the configuration document from the supplied location
// through the meta service before the service is assembled.
func WithConfigURL(URL string) Option {
	return func(s *Service) { s.configURL = URL }
}

// WithMetaService sets the meta service
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) { s.metaService = service }
}

// WithMetaBaseURL sets the meta base URL
func WithMetaBaseURL(url string) Option {
	return func(s *Service) { s.metaBaseURL = url }
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) { s.metaFsOptions = options }
}

// WithSecrets sets the endpoint credential service
func WithSecrets(service *secret.Service) Option {
	return func(s *Service) { s.secrets = service }
}

// WithProviders registers extra ability providers; a provider sharing a name
// with a built-in one replaces it.
func WithProviders(providers ...types.Provider) Option {
	return func(s *Service) { s.extraProviders = append(s.extraProviders, providers...) }
}

// WithViewTypes seeds the result view type registry
func WithViewTypes(viewTypes ...*x.Type) Option {
	return func(s *Service) { s.viewTypes = append(s.viewTypes, viewTypes...) }
}

// WithRoutes sets the routing table
func WithRoutes(routes *router.Table) Option {
	return func(s *Service) { s.routes = routes }
}

// WithRoutesURL points at a route sheet loaded through the meta service
func WithRoutesURL(URL string) Option {
	return func(s *Service) { s.routesURL = URL }
}

// WithFallbacks sets the deterministic fallback registry
func WithFallbacks(registry *fallback.Registry) Option {
	return func(s *Service) { s.fallbacks = registry }
}

// WithInvokerOptions passes additional options to the ability invoker
func WithInvokerOptions(options ...invoker.Option) Option {
	return func(s *Service) { s.invokerOptions = append(s.invokerOptions, options...) }
}

// WithEngineOptions passes additional options to the stage engine
func WithEngineOptions(options ...engine.Option) Option {
	return func(s *Service) { s.engineOptions = append(s.engineOptions, options...) }
}

// WithThreshold overrides the escalation threshold
func WithThreshold(threshold int) Option {
	return func(s *Service) { s.threshold = &threshold }
}

// WithSolutionScore overrides the score the built-in solution evaluation
// reports; handy to steer a demo onto the automated or the escalated path.
func WithSolutionScore(score int) Option {
	return func(s *Service) { s.solutionScore = &score }
}

// WithWaitTimeout bounds the wait stage hold for a customer answer
func WithWaitTimeout(timeout time.Duration) Option {
	return func(s *Service) { s.waitTimeout = &timeout }
}

// WithVerbose toggles stage-over-stage diff printing
func WithVerbose(verbose bool) Option {
	return func(s *Service) { s.verbose = &verbose }
}

// WithWorkers sets the queued run worker count
func WithWorkers(count int) Option {
	return func(s *Service) { s.workers = &count }
}

// WithEventService sets the event service
func WithEventService(service *event.Service) Option {
	return func(s *Service) { s.events = service }
}

// WithInteractions sets the customer interaction service used by the ask and
// wait stages.
func WithInteractions(service interaction.Service) Option {
	return func(s *Service) { s.interactions = service }
}

// WithRunDAO sets the run store
func WithRunDAO(service dao.Service[string, run.Run]) Option {
	return func(s *Service) { s.runDAO = service }
}

// WithQueue sets the task queue
func WithQueue(queue messaging.Queue[runner.Task]) Option {
	return func(s *Service) { s.queue = queue }
}

// WithEndpoints adds remote MCP ability endpoints on top of the configured ones
func WithEndpoints(endpoints ...*Endpoint) Option {
	return func(s *Service) { s.endpoints = append(s.endpoints, endpoints...) }
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times – the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. This enables
// integrations with exporters other than the built-in stdout exporter, for example OTLP, Jaeger or
// Zipkin. The function is safe to call multiple times – the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
