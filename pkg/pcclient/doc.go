// Package pcclient provides the entry point for constructing a Printcart API
// client backed by the default HTTP transport.
//
// The resource model, verbs and errors live in the printcart package;
// pcclient only wires an HTTP transport (go-retryablehttp, no retries unless
// Config.RetryMax is set) into a printcart.Client.
//
// Quick start
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
//
//	  cli, err := pcclient.New(&printcart.Config{
//	    Username: "user",
//	    Password: "pass",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  product, err := cli.Product("42")
//	  if err != nil { log.Fatal(err) }
//
//	  designs, err := product.Design()
//	  if err != nil { log.Fatal(err) }
//
//	  body, err := designs.Get(ctx, nil)
//	  if err != nil { log.Fatal(err) }
//	  log.Println(body.Get("data.#").Int(), "designs")
//	}
//
// # Endpoints
//
// Config.APIURL may omit the scheme, in which case https is assumed. The API
// version is appended by the client, so "api.printcart.com" and
// "https://api.printcart.com/" both resolve to https://api.printcart.com/v1/.
package pcclient
