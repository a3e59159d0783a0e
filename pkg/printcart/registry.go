package printcart

import (
	"fmt"
	"slices"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Names of the resources in the default catalog.
const (
	NameProduct        = "Product"
	NameSide           = "Side"
	NameImage          = "Image"
	NameFont           = "Font"
	NameDesign         = "Design"
	NameTemplate       = "Template"
	NameStorage        = "Storage"
	NameClipartStorage = "ClipartStorage"
	NameProject        = "Project"
	NameAccount        = "Account"
	NameWebhook        = "Webhook"
	NameStore          = "Store"
	NameIntegration    = "Integration"
)

// ChildRef declares a child resource. Name is the call name used on the host
// resource; Resource is the descriptor it resolves to. They differ when a
// child is exposed under an alias.
type ChildRef struct {
	Name     string
	Resource string
}

// ResourceDescriptor is the static description of a resource type.
type ResourceDescriptor struct {
	// Name is the canonical identifier, e.g. "Product".
	Name string
	// Key is the URL path segment and request envelope key, e.g. "products".
	Key string
	// Children are the declared child resources, in declaration order.
	Children []ChildRef
	// Actions are the custom action names callable on the resource.
	Actions []string
}

// Child returns the child declared under the given call name.
func (d *ResourceDescriptor) Child(name string) (ChildRef, bool) {
	for _, child := range d.Children {
		if child.Name == name {
			return child, true
		}
	}

	return ChildRef{}, false
}

// HasAction reports whether the descriptor declares the action.
func (d *ResourceDescriptor) HasAction(name string) bool {
	return slices.Contains(d.Actions, name)
}

func (d *ResourceDescriptor) clone() *ResourceDescriptor {
	return &ResourceDescriptor{
		Name:     d.Name,
		Key:      d.Key,
		Children: slices.Clone(d.Children),
		Actions:  slices.Clone(d.Actions),
	}
}

func (d *ResourceDescriptor) validate() error {
	if !startsUpper(d.Name) {
		return fmt.Errorf("%w: name %q must start with an upper-case letter", ErrInvalidDescriptor, d.Name)
	}

	if d.Key == "" {
		return fmt.Errorf("%w: %s has no key", ErrInvalidDescriptor, d.Name)
	}

	seen := make(map[string]bool, len(d.Children))
	for _, child := range d.Children {
		if !startsUpper(child.Name) || child.Resource == "" {
			return fmt.Errorf("%w: %s declares invalid child %q", ErrInvalidDescriptor, d.Name, child.Name)
		}

		if seen[child.Name] {
			return fmt.Errorf("%w: %s declares child %s twice", ErrInvalidDescriptor, d.Name, child.Name)
		}

		seen[child.Name] = true
	}

	for _, action := range d.Actions {
		if action == "" || startsUpper(action) {
			return fmt.Errorf("%w: %s declares invalid action %q", ErrInvalidDescriptor, d.Name, action)
		}
	}

	return nil
}

// Registry maps resource names to descriptors. It holds two logical tables:
// every registered descriptor (used for child resolution) and the subset
// exposed at the top level of a Client.
type Registry struct {
	mutex       sync.RWMutex
	descriptors map[string]*ResourceDescriptor
	roots       map[string]bool
	order       []string
	sealed      bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]*ResourceDescriptor),
		roots:       make(map[string]bool),
	}
}

// Register adds a descriptor. When root is true the resource is also
// reachable directly from a Client.
func (r *Registry) Register(desc ResourceDescriptor, root bool) error {
	err := desc.validate()
	if err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.sealed {
		return ErrRegistrySealed
	}

	if _, exists := r.descriptors[desc.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateResource, desc.Name)
	}

	r.descriptors[desc.Name] = desc.clone()
	r.roots[desc.Name] = root
	r.order = append(r.order, desc.Name)

	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*ResourceDescriptor, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	desc, ok := r.descriptors[name]

	return desc, ok
}

// Root resolves a top-level resource name.
func (r *Registry) Root(name string) (*ResourceDescriptor, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	desc, ok := r.descriptors[name]
	if !ok || !r.roots[name] {
		return nil, &UnknownResourceError{Resource: name}
	}

	return desc, nil
}

// Child resolves a child of host by its call name. A name the host does not
// declare is an UnknownResourceError; a declared child whose descriptor is
// missing is a ConfigurationError.
func (r *Registry) Child(host *ResourceDescriptor, name string) (*ResourceDescriptor, error) {
	ref, ok := host.Child(name)
	if !ok {
		return nil, &UnknownResourceError{Resource: name, Host: host.Name}
	}

	desc, ok := r.Lookup(ref.Resource)
	if !ok {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("child %s of %s refers to unregistered resource %s", ref.Name, host.Name, ref.Resource),
		}
	}

	return desc, nil
}

// Validate checks that every declared child resolves to a registered descriptor.
func (r *Registry) Validate() error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, name := range r.order {
		desc := r.descriptors[name]
		for _, child := range desc.Children {
			if _, ok := r.descriptors[child.Resource]; !ok {
				return &ConfigurationError{
					Reason: fmt.Sprintf("child %s of %s refers to unregistered resource %s", child.Name, desc.Name, child.Resource),
				}
			}
		}
	}

	return nil
}

// Names returns every registered name in registration order.
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return slices.Clone(r.order)
}

// RootNames returns the top-level names in registration order.
func (r *Registry) RootNames() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.order))
	for _, name := range r.order {
		if r.roots[name] {
			names = append(names, name)
		}
	}

	return names
}

// IsRoot reports whether name is reachable from a Client.
func (r *Registry) IsRoot(name string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.roots[name]
}

// Clone returns an unsealed copy that can be extended with Register.
func (r *Registry) Clone() *Registry {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	clone := NewRegistry()
	for _, name := range r.order {
		clone.descriptors[name] = r.descriptors[name].clone()
		clone.roots[name] = r.roots[name]
		clone.order = append(clone.order, name)
	}

	return clone
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sealed = true
}

// defaultDescriptors is the resource catalog of the Printcart API.
var defaultDescriptors = []ResourceDescriptor{
	{Name: NameProduct, Key: "products", Children: []ChildRef{
		{Name: NameDesign, Resource: NameDesign},
		{Name: NameSide, Resource: NameSide},
	}},
	{Name: NameSide, Key: "sides", Children: []ChildRef{
		{Name: NameTemplate, Resource: NameTemplate},
	}},
	{Name: NameImage, Key: "images"},
	{Name: NameFont, Key: "fonts"},
	{Name: NameDesign, Key: "designs"},
	{Name: NameTemplate, Key: "templates"},
	{Name: NameStorage, Key: "storages"},
	{Name: NameClipartStorage, Key: "clipart_storages"},
	{Name: NameProject, Key: "projects", Children: []ChildRef{
		{Name: NameDesign, Resource: NameDesign},
		{Name: NameProduct, Resource: NameProduct},
	}},
	{Name: NameAccount, Key: "accounts"},
	{Name: NameWebhook, Key: "webhooks"},
	{Name: NameStore, Key: "stores"},
	{Name: NameIntegration, Key: "integration"},
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	registry := NewRegistry()
	for _, desc := range defaultDescriptors {
		err := registry.Register(desc, true)
		if err != nil {
			panic(fmt.Sprintf("invalid default resource catalog: %v", err))
		}
	}

	err := registry.Validate()
	if err != nil {
		panic(fmt.Sprintf("invalid default resource catalog: %v", err))
	}

	registry.Seal()

	return registry
})

// DefaultRegistry returns the sealed registry of the Printcart catalog.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

func startsUpper(name string) bool {
	first, _ := utf8.DecodeRuneInString(name)

	return first != utf8.RuneError && unicode.IsUpper(first)
}
