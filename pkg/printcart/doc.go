// Package printcart provides object-oriented access to the Printcart REST API.
//
// # Overview
//
// The package is built around a single Resource type. A Resource is a
// transient URL builder and verb dispatcher: it knows the absolute URL of one
// API entity (a collection, or a single item when an ID is given), the basic
// auth headers to send, and how to reach its declared child resources. All
// resource types (Product, Side, Design, ...) are described by a static
// ResourceDescriptor table held in a Registry; no resource needs code of its
// own beyond a one-line typed wrapper.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/printcart/printcart-go/pkg/pcclient"
//	  "github.com/printcart/printcart-go/pkg/printcart"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := pcclient.New(printcart.Config{Username: "u", Password: "p"})
//	  if err != nil { log.Fatal(err) }
//
//	  product, err := cli.Product("42")
//	  if err != nil { log.Fatal(err) }
//
//	  body, err := product.Get(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = body.Get("data.name").String()
//	}
//
// # Nesting
//
// Child resources are reached through typed accessors generated from the
// descriptor table (Product.Design, Project.Product, Side.Template, ...) or
// dynamically through Resource.Child and Resource.Lookup. Every level appends
// exactly one path segment plus an optional ID segment:
//
//	designs, _ := product.Design()          // .../v1/products/42/designs
//	body, err := designs.Post(ctx, map[string]any{"name": "X"})
//	// POST body: {"designs":{"name":"X"}}
//
// Lookup applies the naming rule of the API catalog: a name starting with an
// upper-case letter is a child resource, anything else is a custom action
// declared on the resource descriptor.
//
// # Errors
//
// Failures are reported as ConfigurationError (missing credentials),
// UnknownResourceError (undeclared root or child name), TransportError
// (non-success HTTP status or network failure) and APIError (a success
// response whose body declares an error). Use errors.Is with the Err*
// sentinels or errors.As with the typed errors to tell them apart.
//
// # Interceptors and caching
//
// Config.Interceptors wraps the transport with request/response hooks
// (logging, headers, metrics), and Config.Cache enables a GET response cache
// backed by memory or NATS JetStream KV.
package printcart
