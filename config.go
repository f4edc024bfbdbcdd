package deskly

import (
	"fmt"
	"strings"
	"time"

	"github.com/viant/mcp"

	"github.com/viant/deskly/model"
)

// Store and queue vendor identifiers
const (
	VendorMemory = "memory"
	VendorFs     = "fs"
	VendorSQLite = "sqlite"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from JSON or YAML; the zero-value is useful, all nested
// fields inherit their package defaults.
type Config struct {
	Engine    EngineConfig `json:"engine" yaml:"engine"`
	Runner    RunnerConfig `json:"runner" yaml:"runner"`
	Store     StoreConfig  `json:"store" yaml:"store"`
	Queue     QueueConfig  `json:"queue" yaml:"queue"`
	RoutesURL string       `json:"routesURL,omitempty" yaml:"routesURL,omitempty"`
	Endpoints []*Endpoint  `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
}

// EngineConfig tunes the stage pipeline.
type EngineConfig struct {
	// Threshold is the minimum solution score that keeps a case on the
	// automated path; scores below it escalate to a human agent.
	Threshold     int  `json:"threshold" yaml:"threshold"`
	WaitTimeoutMs int  `json:"waitTimeoutMs,omitempty" yaml:"waitTimeoutMs,omitempty"`
	Verbose       bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// WaitTimeout returns the wait stage hold as a duration
func (e *EngineConfig) WaitTimeout() time.Duration {
	return time.Duration(e.WaitTimeoutMs) * time.Millisecond
}

// RunnerConfig sizes the queued run worker pool.
type RunnerConfig struct {
	WorkerCount int `json:"workers" yaml:"workers"`
}

// StoreConfig selects the run store backend.
type StoreConfig struct {
	Vendor string `json:"vendor" yaml:"vendor"`
	// BaseURL is the fs store base location or the sqlite database path.
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

// QueueConfig selects the task queue backend.
type QueueConfig struct {
	Vendor  string `json:"vendor" yaml:"vendor"`
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
}

// Endpoint describes a remote MCP ability server the service connects to at
// start-up; its tools join the provider registry under the endpoint name.
type Endpoint struct {
	Name      string   `json:"name" yaml:"name"`
	Transport string   `json:"transport" yaml:"transport"`
	URL       string   `json:"url,omitempty" yaml:"url,omitempty"`
	Command   string   `json:"command,omitempty" yaml:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	// SecretURL points at a scy resource holding the endpoint bearer token.
	SecretURL string `json:"secretURL,omitempty" yaml:"secretURL,omitempty"`
	SecretKey string `json:"secretKey,omitempty" yaml:"secretKey,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{Threshold: model.DefaultThreshold},
		Runner: RunnerConfig{WorkerCount: 5},
		Store:  StoreConfig{Vendor: VendorMemory},
		Queue:  QueueConfig{Vendor: VendorMemory},
	}
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Engine.Threshold <= 0 {
		return fmt.Errorf("engine.threshold must be > 0")
	}
	if c.Runner.WorkerCount <= 0 {
		return fmt.Errorf("runner.workers must be > 0")
	}
	switch c.Store.Vendor {
	case VendorMemory:
	case VendorFs, VendorSQLite:
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store.baseURL is required for the %v store", c.Store.Vendor)
		}
	default:
		return fmt.Errorf("unsupported store vendor: %s", c.Store.Vendor)
	}
	switch c.Queue.Vendor {
	case VendorMemory:
	case VendorFs:
		if c.Queue.BaseURL == "" {
			return fmt.Errorf("queue.baseURL is required for the %v queue", c.Queue.Vendor)
		}
	default:
		return fmt.Errorf("unsupported queue vendor: %s", c.Queue.Vendor)
	}
	for _, endpoint := range c.Endpoints {
		if err := endpoint.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the endpoint before any connection attempt
func (e *Endpoint) Validate() error {
	if e == nil || strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("endpoint name is required")
	}
	switch strings.ToLower(e.Transport) {
	case "stdio":
		if e.Command == "" {
			return fmt.Errorf("endpoint %v: command is required for stdio transport", e.Name)
		}
	case "sse", "streaming":
		if e.URL == "" {
			return fmt.Errorf("endpoint %v: url is required for %v transport", e.Name, e.Transport)
		}
	default:
		return fmt.Errorf("endpoint %v: unsupported transport %q", e.Name, e.Transport)
	}
	return nil
}

// ClientOptions maps the endpoint onto MCP client options.
func (e *Endpoint) ClientOptions() *mcp.ClientOptions {
	options := &mcp.ClientOptions{Name: e.Name}
	transport := strings.ToLower(e.Transport)
	switch transport {
	case "stdio":
		options.Transport = mcp.ClientTransport{
			Type: transport,
			ClientTransportStdio: mcp.ClientTransportStdio{
				Command:   e.Command,
				Arguments: e.Arguments,
			},
		}
	default:
		options.Transport = mcp.ClientTransport{
			Type:                transport,
			ClientTransportHTTP: mcp.ClientTransportHTTP{URL: e.URL},
		}
	}
	return options
}
