package printcart

import (
	"context"
	"sync"

	"github.com/printcart/printcart-go/internal/auth"
)

// clientState is an immutable snapshot of a client configuration. A resource
// sends its requests with the snapshot it was created from; new resources,
// children included, always take the current one.
type clientState struct {
	config    Config
	transport Transport
	registry  *Registry
	decode    ErrorDecoder
	logger    Logger
}

func (s *clientState) do(ctx context.Context, req *Request) (Body, error) {
	if s.transport == nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: ErrTransportRequired}
	}

	resp, err := s.transport.Send(ctx, req)

	return processResponse(req, resp, err, s.decode)
}

// Client is the entry point of the SDK. It holds the configuration, the
// resource registry and the transport, and hands out root resources.
type Client struct {
	mutex    sync.RWMutex
	state    *clientState
	registry *Registry
	builder  TransportBuilder
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client)

// WithRegistry replaces the default resource catalog.
func WithRegistry(registry *Registry) ClientOption {
	return func(c *Client) {
		c.registry = registry
	}
}

// WithTransportBuilder installs the function that creates a transport for
// every configuration that does not inject one through Config.Transport.
func WithTransportBuilder(builder TransportBuilder) ClientOption {
	return func(c *Client) {
		c.builder = builder
	}
}

// NewClient creates a client and applies cfg.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	client := &Client{
		registry: DefaultRegistry(),
	}

	for _, opt := range opts {
		opt(client)
	}

	err := client.registry.Validate()
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		cfg = &Config{}
	}

	err = client.Configure(cfg)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// Configure replaces the whole configuration of the client. Fields left
// empty in cfg take their defaults, never their previous values. Resources
// created before the call keep sending with their own credentials, but every
// resource created afterwards, including children of older resources, uses
// the new configuration.
func (c *Client) Configure(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}

	config := cfg.withDefaults()

	transport, err := c.buildTransport(&config)
	if err != nil {
		return err
	}

	state := &clientState{
		config:    config,
		transport: transport,
		registry:  c.registry,
		decode:    config.ErrorDecoder,
		logger:    config.Logger,
	}

	c.mutex.Lock()
	c.state = state
	c.mutex.Unlock()

	if state.logger != nil {
		state.logger.Debug("Client configured", map[string]interface{}{
			"api_url":     config.APIBaseURL(),
			"credentials": auth.NewBasicCredentials(config.Username, config.Password).String(),
			"cache":       config.Cache != nil,
		})
	}

	return nil
}

func (c *Client) buildTransport(config *Config) (Transport, error) {
	transport := config.Transport

	if transport == nil && c.builder != nil {
		built, err := c.builder(config)
		if err != nil {
			return nil, err
		}

		transport = built
	}

	if transport == nil {
		return nil, nil
	}

	if config.Cache != nil {
		transport = NewCachingTransport(transport, config.Cache, config.CacheTTL)
	}

	if config.Interceptors != nil {
		transport = config.Interceptors.Wrap(transport)
	}

	return transport, nil
}

func (c *Client) snapshot() *clientState {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.state
}

// APIURL returns the configured versioned API root, e.g.
// "https://api.printcart.com/v1/".
func (c *Client) APIURL() string {
	state := c.snapshot()

	return state.config.APIBaseURL()
}

// Config returns a copy of the active configuration with defaults applied.
func (c *Client) Config() Config {
	return c.snapshot().config
}

// Registry returns the resource catalog of the client.
func (c *Client) Registry() *Registry {
	return c.registry
}

// Resource returns the root resource registered under name. The optional id
// addresses a single entity.
func (c *Client) Resource(name string, id ...string) (*Resource, error) {
	state := c.snapshot()

	desc, err := state.registry.Root(name)
	if err != nil {
		return nil, err
	}

	return newResource(c, state, desc, firstID(id), "")
}
