package printcart

import (
	"context"
	"net/http"
	"strings"
)

// Action is a custom, non-CRUD endpoint declared by a resource, addressed as
// the resource URL followed by the action name.
type Action struct {
	resource *Resource
	name     string
}

// Name returns the action name.
func (a *Action) Name() string {
	return a.name
}

// Resource returns the resource the action belongs to.
func (a *Action) Resource() *Resource {
	return a.resource
}

// URL returns the absolute URL of the action.
func (a *Action) URL() string {
	return a.resource.url + "/" + a.name
}

// Do issues method against the action URL. data is sent verbatim unless
// WithWrap(true) is given; pass nil for no body.
func (a *Action) Do(ctx context.Context, method string, data any, opts ...RequestOption) (Body, error) {
	o := buildOptions(false, opts)

	target := o.url
	if target == "" {
		target = a.URL()
	}

	payload, err := encodePayload(data, o.wrap, a.resource.descriptor.Key)
	if err != nil {
		return nil, err
	}

	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodPost
	}

	return a.resource.send(ctx, method, target, payload, o)
}
