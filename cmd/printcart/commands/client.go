package commands

import (
	"fmt"

	"github.com/printcart/printcart-go/internal/constants"
	"github.com/printcart/printcart-go/internal/logtrace"
	"github.com/printcart/printcart-go/pkg/pcclient"
	"github.com/printcart/printcart-go/pkg/printcart"
	"github.com/spf13/viper"
)

// Viper keys shared by flags, environment variables and the config file.
const (
	keyAPIURL     = "api_url"
	keyAPIVersion = "api_version"
	keyUsername   = "username"
	keyPassword   = "password"
	keyOutput     = "output"
	keyNoColor    = "no_color"
	keyVerbose    = "verbose"
	keyTimeout    = "timeout"
	keyRetries    = "retries"
	keyCache      = "cache"
	keyNATSURL    = "nats_url"
	keyResources  = "resources"
)

// resourceConfig declares a resource type the built-in catalog lacks.
type resourceConfig struct {
	Name     string        `json:"name"               yaml:"name"               mapstructure:"name"`
	Key      string        `json:"key"                yaml:"key"                mapstructure:"key"`
	Root     bool          `json:"root,omitempty"     yaml:"root,omitempty"     mapstructure:"root"`
	Actions  []string      `json:"actions,omitempty"  yaml:"actions,omitempty"  mapstructure:"actions"`
	Children []childConfig `json:"children,omitempty" yaml:"children,omitempty" mapstructure:"children"`
}

type childConfig struct {
	Name     string `json:"name"               yaml:"name"               mapstructure:"name"`
	Resource string `json:"resource,omitempty" yaml:"resource,omitempty" mapstructure:"resource"`
}

// newClient builds an SDK client from the merged flag, environment and file
// configuration.
func newClient() (*printcart.Client, error) {
	username := viper.GetString(keyUsername)
	password := viper.GetString(keyPassword)

	if username == "" || password == "" {
		return nil, constants.ErrNoCredentials
	}

	verbose := viper.GetBool(keyVerbose)

	config := &printcart.Config{
		Username:    username,
		Password:    password,
		APIURL:      viper.GetString(keyAPIURL),
		APIVersion:  viper.GetString(keyAPIVersion),
		HTTPTimeout: viper.GetDuration(keyTimeout),
		RetryMax:    viper.GetInt(keyRetries),
		Debug:       verbose,
		Logger:      logtrace.NewConsole(verbose),
	}

	cache, err := newCache()
	if err != nil {
		return nil, err
	}

	config.Cache = cache

	registry, err := newRegistry()
	if err != nil {
		return nil, err
	}

	client, err := pcclient.New(config, printcart.WithRegistry(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// newCache returns the response cache selected with --cache, or nil.
func newCache() (printcart.Cache, error) {
	cacheType := printcart.CacheType(viper.GetString(keyCache))

	switch cacheType {
	case "", printcart.CacheTypeNone:
		return nil, nil
	case printcart.CacheTypeNATS:
		return printcart.NewCacheFromConfig(&printcart.CacheConfig{
			Type: cacheType,
			NATS: &printcart.NATSKVConfig{URL: viper.GetString(keyNATSURL)},
		})
	default:
		return printcart.NewCacheFromConfig(&printcart.CacheConfig{Type: cacheType})
	}
}

func loadResources() ([]resourceConfig, error) {
	var resources []resourceConfig

	err := viper.UnmarshalKey(keyResources, &resources)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidResources, err)
	}

	return resources, nil
}

// newRegistry returns the built-in catalog extended with the resources
// declared under the resources key of the config file.
func newRegistry() (*printcart.Registry, error) {
	resources, err := loadResources()
	if err != nil {
		return nil, err
	}

	if len(resources) == 0 {
		return printcart.DefaultRegistry(), nil
	}

	registry := printcart.DefaultRegistry().Clone()

	for _, res := range resources {
		desc := printcart.ResourceDescriptor{
			Name:    res.Name,
			Key:     res.Key,
			Actions: res.Actions,
		}

		for _, child := range res.Children {
			target := child.Resource
			if target == "" {
				target = child.Name
			}

			desc.Children = append(desc.Children, printcart.ChildRef{Name: child.Name, Resource: target})
		}

		err := registry.Register(desc, res.Root)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", constants.ErrInvalidResources, err)
		}
	}

	err = registry.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidResources, err)
	}

	registry.Seal()

	return registry, nil
}
