package printcart

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/printcart/printcart-go/internal/auth"
	"github.com/printcart/printcart-go/internal/constants"
	"github.com/tidwall/sjson"
)

// Resource is one addressable API entity: a collection, or a single item
// when it was created with an ID. Resources are immutable and cheap; they are
// created by every accessor call and are safe to use from several goroutines.
//
// Verbs use the configuration the resource was created with. Child resources
// are created from the client's current configuration.
type Resource struct {
	id         string
	url        string
	descriptor *ResourceDescriptor
	headers    map[string]string
	client     *Client
	state      *clientState
}

// newResource composes the URL of a resource under parentURL, or under the
// API root when parentURL is empty.
func newResource(client *Client, state *clientState, desc *ResourceDescriptor, id, parentURL string) (*Resource, error) {
	err := state.config.ValidateCredentials()
	if err != nil {
		return nil, err
	}

	base := state.config.APIBaseURL()
	if parentURL != "" {
		base = parentURL + "/"
	}

	resourceURL := base + desc.Key
	if id != "" {
		resourceURL += "/" + url.PathEscape(id)
	}

	headers := auth.NewBasicCredentials(state.config.Username, state.config.Password).Headers()
	headers["Accept"] = "application/json"

	return &Resource{
		id:         id,
		url:        resourceURL,
		descriptor: desc,
		headers:    headers,
		client:     client,
		state:      state,
	}, nil
}

// ID returns the resource ID, or "" for a collection.
func (r *Resource) ID() string {
	return r.id
}

// URL returns the absolute URL of the resource.
func (r *Resource) URL() string {
	return r.url
}

// Name returns the descriptor name, e.g. "Product".
func (r *Resource) Name() string {
	return r.descriptor.Name
}

// Key returns the path segment and envelope key, e.g. "products".
func (r *Resource) Key() string {
	return r.descriptor.Key
}

// Descriptor returns the resource descriptor. It must not be modified.
func (r *Resource) Descriptor() *ResourceDescriptor {
	return r.descriptor
}

// Headers returns a copy of the headers sent with every request.
func (r *Resource) Headers() map[string]string {
	return maps.Clone(r.headers)
}

// GenerateURL returns the resource URL with params encoded as a query string.
func (r *Resource) GenerateURL(params url.Values) string {
	return withQuery(r.url, params)
}

// Child returns the child resource declared under name, scoped under this
// resource. The optional id addresses a single child entity.
func (r *Resource) Child(name string, id ...string) (*Resource, error) {
	state := r.client.snapshot()

	desc, err := state.registry.Child(r.descriptor, name)
	if err != nil {
		return nil, err
	}

	return newResource(r.client, state, desc, firstID(id), r.url)
}

// Action returns the custom action declared under name.
func (r *Resource) Action(name string) (*Action, error) {
	if !r.descriptor.HasAction(name) {
		return nil, &UnknownActionError{Action: name, Host: r.descriptor.Name}
	}

	return &Action{resource: r, name: name}, nil
}

// MemberKind tells child resources and custom actions apart.
type MemberKind int

// Member kinds.
const (
	MemberChild MemberKind = iota + 1
	MemberAction
)

// String returns the kind name.
func (k MemberKind) String() string {
	switch k {
	case MemberChild:
		return "child"
	case MemberAction:
		return "action"
	default:
		return "unknown"
	}
}

// Member is a resolved symbol: exactly one of Child and Action is set,
// according to Kind.
type Member struct {
	Kind   MemberKind
	Name   string
	Child  *Resource
	Action *Action
}

// ClassifyMember returns the kind a symbol denotes: a name starting with an
// upper-case letter is a child resource, any other name is a custom action.
func ClassifyMember(symbol string) (MemberKind, error) {
	first, _ := utf8.DecodeRuneInString(symbol)
	if first == utf8.RuneError {
		return 0, ErrEmptyMemberName
	}

	if unicode.IsUpper(first) {
		return MemberChild, nil
	}

	return MemberAction, nil
}

// Lookup resolves symbol against this resource. Child resources and custom
// actions share one syntax and are told apart by the case of the first
// character. The id is only used for child resources.
func (r *Resource) Lookup(symbol string, id ...string) (Member, error) {
	kind, err := ClassifyMember(symbol)
	if err != nil {
		return Member{}, err
	}

	if kind == MemberChild {
		child, err := r.Child(symbol, id...)
		if err != nil {
			return Member{}, err
		}

		return Member{Kind: kind, Name: symbol, Child: child}, nil
	}

	action, err := r.Action(symbol)
	if err != nil {
		return Member{}, err
	}

	return Member{Kind: kind, Name: symbol, Action: action}, nil
}

// RequestOption customizes a single verb call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	url     string
	wrap    bool
	headers map[string]string
}

// WithURL sends the request to u instead of the URL derived from the resource.
func WithURL(u string) RequestOption {
	return func(o *requestOptions) {
		o.url = u
	}
}

// WithWrap controls whether the request body is nested under the resource key.
func WithWrap(wrap bool) RequestOption {
	return func(o *requestOptions) {
		o.wrap = wrap
	}
}

// WithoutWrap sends the request body verbatim.
func WithoutWrap() RequestOption {
	return WithWrap(false)
}

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}

		o.headers[key] = value
	}
}

func buildOptions(wrap bool, opts []RequestOption) *requestOptions {
	o := &requestOptions{wrap: wrap}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Get issues a GET against the resource URL with params as the query string.
func (r *Resource) Get(ctx context.Context, params url.Values, opts ...RequestOption) (Body, error) {
	o := buildOptions(false, opts)

	target := o.url
	if target == "" {
		target = r.GenerateURL(params)
	}

	return r.send(ctx, http.MethodGet, target, nil, o)
}

// Count issues a GET against the count endpoint of the resource.
func (r *Resource) Count(ctx context.Context, opts ...RequestOption) (Body, error) {
	o := buildOptions(false, opts)

	target := o.url
	if target == "" {
		target = r.url + constants.CountSuffix
	}

	return r.send(ctx, http.MethodGet, target, nil, o)
}

// Post creates a resource. Unless WithoutWrap is given, non-empty data is
// sent as {"<key>": data}.
func (r *Resource) Post(ctx context.Context, data any, opts ...RequestOption) (Body, error) {
	return r.write(ctx, http.MethodPost, r.url, data, opts)
}

// Put updates the resource, with the same enveloping rule as Post.
func (r *Resource) Put(ctx context.Context, data any, opts ...RequestOption) (Body, error) {
	return r.write(ctx, http.MethodPut, r.url, data, opts)
}

// PutBatch updates several entities in one call through the batch endpoint.
func (r *Resource) PutBatch(ctx context.Context, data any, opts ...RequestOption) (Body, error) {
	return r.write(ctx, http.MethodPut, r.url+constants.BatchSuffix, data, opts)
}

// Delete deletes the resource. A successful call always returns an empty
// body, whatever the server sent.
func (r *Resource) Delete(ctx context.Context, params url.Values, opts ...RequestOption) (Body, error) {
	o := buildOptions(false, opts)

	target := o.url
	if target == "" {
		target = r.GenerateURL(params)
	}

	_, err := r.send(ctx, http.MethodDelete, target, nil, o)
	if err != nil {
		return nil, err
	}

	return Body{}, nil
}

// DeleteBatch deletes several entities through the batch endpoint. The
// optional data, typically the list of IDs, is enveloped like Post.
func (r *Resource) DeleteBatch(ctx context.Context, data any, params url.Values, opts ...RequestOption) (Body, error) {
	return r.write(ctx, http.MethodDelete, withQuery(r.url+constants.BatchSuffix, params), data, opts)
}

func (r *Resource) write(ctx context.Context, method, target string, data any, opts []RequestOption) (Body, error) {
	o := buildOptions(true, opts)
	if o.url != "" {
		target = o.url
	}

	payload, err := encodePayload(data, o.wrap, r.descriptor.Key)
	if err != nil {
		return nil, err
	}

	return r.send(ctx, method, target, payload, o)
}

func (r *Resource) send(ctx context.Context, method, target string, payload []byte, o *requestOptions) (Body, error) {
	headers := maps.Clone(r.headers)
	if payload != nil {
		headers["Content-Type"] = "application/json"
	}

	maps.Copy(headers, o.headers)

	req := &Request{
		Method:  method,
		URL:     target,
		Headers: headers,
		Body:    payload,
	}

	return r.state.do(ctx, req)
}

// encodePayload marshals data to JSON and, when wrap is set and the data is
// not empty, nests it under key. []byte and json.RawMessage are taken as
// already encoded JSON.
func encodePayload(data any, wrap bool, key string) ([]byte, error) {
	if data == nil {
		return nil, nil
	}

	var raw []byte

	switch v := data.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		raw = encoded
	}

	if !wrap || isEmptyJSON(raw) {
		return raw, nil
	}

	wrapped, err := sjson.SetRawBytes([]byte(`{}`), escapePathKey(key), raw)
	if err != nil {
		return nil, fmt.Errorf("wrapping request body under %q: %w", key, err)
	}

	return wrapped, nil
}

func isEmptyJSON(raw []byte) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "{}", "[]", `""`:
		return true
	default:
		return false
	}
}

var pathKeyEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)

func escapePathKey(key string) string {
	return pathKeyEscaper.Replace(key)
}

func withQuery(base string, params url.Values) string {
	if len(params) == 0 {
		return base
	}

	return base + "?" + params.Encode()
}

func firstID(id []string) string {
	if len(id) == 0 {
		return ""
	}

	return id[0]
}
