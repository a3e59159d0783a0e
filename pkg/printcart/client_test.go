package printcart_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/printcart/printcart-go/pkg/printcart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientAPIURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config printcart.Config
		want   string
	}{
		{name: "defaults", config: printcart.Config{}, want: "https://api.printcart.com/v1/"},
		{name: "version", config: printcart.Config{APIVersion: "v2"}, want: "https://api.printcart.com/v2/"},
		{name: "custom root", config: printcart.Config{APIURL: "http://localhost:8080/", APIVersion: "v1"}, want: "http://localhost:8080/v1/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := printcart.NewClient(&tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.APIURL())
		})
	}
}

func TestClientConfigureReplacesWholesale(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{}
	client := newTestClient(t, transport)

	err := client.Configure(&printcart.Config{
		Username:   testUsername,
		Password:   testPassword,
		APIVersion: "v2",
		Transport:  transport,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://api.printcart.com/v2/", client.APIURL())

	v2Products, err := client.Product()
	require.NoError(t, err)

	err = client.Configure(&printcart.Config{Username: testUsername, Password: testPassword, Transport: transport})
	require.NoError(t, err)

	// The version is not carried over from the previous configuration.
	assert.Equal(t, testBaseURL, client.APIURL())

	// Resources keep the configuration they were created with.
	assert.Equal(t, "https://api.printcart.com/v2/products", v2Products.URL())

	_, err = v2Products.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.printcart.com/v2/products", transport.last(t).URL)
}

func TestClientReconfigureAffectsChildConstruction(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{}
	client := newTestClient(t, transport)

	product, err := client.Resource(printcart.NameProduct, "42")
	require.NoError(t, err)

	err = client.Configure(&printcart.Config{Transport: transport})
	require.NoError(t, err)

	_, err = product.Child(printcart.NameDesign)
	require.Error(t, err)
	assert.True(t, printcart.IsConfigurationError(err))

	_, err = product.Lookup(printcart.NameDesign)
	assert.True(t, printcart.IsConfigurationError(err))

	err = client.Configure(&printcart.Config{Username: "admin", Password: "secret", Transport: transport})
	require.NoError(t, err)

	designs, err := product.Child(printcart.NameDesign)
	require.NoError(t, err)
	assert.Equal(t, "Basic YWRtaW46c2VjcmV0", designs.Headers()["Authorization"])

	// The parent still sends with the credentials it was created with.
	_, err = product.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Basic dTpw", transport.last(t).Headers["Authorization"])

	_, err = designs.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Basic YWRtaW46c2VjcmV0", transport.last(t).Headers["Authorization"])
}

func TestClientConfiguredLogMasksPassword(t *testing.T) {
	t.Parallel()

	logger := &captureLogger{}
	client, err := printcart.NewClient(&printcart.Config{
		Username:  "admin",
		Password:  "secret",
		Transport: &recordingTransport{},
		Logger:    logger,
	})
	require.NoError(t, err)
	require.NotNil(t, client)

	require.Contains(t, logger.messages(), "Client configured")
	for _, entry := range logger.logs {
		if entry.msg != "Client configured" {
			continue
		}

		assert.Equal(t, "admin:***", entry.fields["credentials"])
		for _, value := range entry.fields {
			assert.NotContains(t, fmt.Sprint(value), "secret")
		}
	}
}

func TestClientMissingCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  printcart.Config
		missing []string
	}{
		{name: "no username", config: printcart.Config{Password: "p"}, missing: []string{"Username"}},
		{name: "no password", config: printcart.Config{Username: "u"}, missing: []string{"Password"}},
		{name: "neither", config: printcart.Config{}, missing: []string{"Username", "Password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := printcart.NewClient(&tt.config)
			require.NoError(t, err)

			_, err = client.Product()
			require.Error(t, err)
			assert.True(t, printcart.IsConfigurationError(err))

			var configErr *printcart.ConfigurationError
			require.ErrorAs(t, err, &configErr)
			assert.ElementsMatch(t, tt.missing, configErr.Missing)

			_, err = client.Resource(printcart.NameFont, "1")
			assert.True(t, printcart.IsConfigurationError(err))
		})
	}
}

func TestClientUnknownRootResource(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, &recordingTransport{})

	_, err := client.Resource("Clipart")
	require.Error(t, err)
	assert.True(t, printcart.IsUnknownResource(err))
	assert.Contains(t, err.Error(), "invalid resource name Clipart")
}

func TestClientTypedAccessorsCoverCatalog(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, &recordingTransport{})
	registry := client.Registry()

	for _, name := range registry.RootNames() {
		method := reflect.ValueOf(client).MethodByName(name)
		require.True(t, method.IsValid(), "Client has no accessor for %s", name)

		out := method.Call(nil)
		require.Len(t, out, 2)
		require.True(t, out[1].IsNil(), "accessor %s failed: %v", name, out[1].Interface())

		desc, ok := registry.Lookup(name)
		require.True(t, ok)

		resource, ok := out[0].Interface().(interface{ URL() string })
		require.True(t, ok)
		assert.Equal(t, testBaseURL+desc.Key, resource.URL())

		for _, child := range desc.Children {
			childMethod := out[0].MethodByName(child.Name)
			require.True(t, childMethod.IsValid(), "%s has no accessor for child %s", name, child.Name)

			childOut := childMethod.Call([]reflect.Value{reflect.ValueOf("9")})
			require.True(t, childOut[1].IsNil())

			childDesc, ok := registry.Lookup(child.Resource)
			require.True(t, ok)

			childResource, ok := childOut[0].Interface().(interface{ URL() string })
			require.True(t, ok)
			assert.Equal(t, resource.URL()+"/"+childDesc.Key+"/9", childResource.URL())
		}
	}
}

func TestClientDefaultCatalog(t *testing.T) {
	t.Parallel()

	registry := printcart.DefaultRegistry()

	assert.Equal(t, []string{
		"Product", "Side", "Image", "Font", "Design", "Template", "Storage",
		"ClipartStorage", "Project", "Account", "Webhook", "Store", "Integration",
	}, registry.RootNames())

	integration, ok := registry.Lookup(printcart.NameIntegration)
	require.True(t, ok)
	assert.Equal(t, "integration", integration.Key)
}

func newOrderRegistry(t *testing.T) *printcart.Registry {
	t.Helper()

	registry := printcart.DefaultRegistry().Clone()
	err := registry.Register(printcart.ResourceDescriptor{
		Name: "Order",
		Key:  "orders",
		Children: []printcart.ChildRef{
			{Name: "Item", Resource: printcart.NameProduct},
		},
		Actions: []string{"cancel"},
	}, true)
	require.NoError(t, err)

	return registry
}

func TestClientCustomRegistry(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{}
	client := newTestClient(t, transport, printcart.WithRegistry(newOrderRegistry(t)))

	order, err := client.Resource("Order", "5")
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"orders/5", order.URL())

	item, err := order.Child("Item", "3")
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"orders/5/products/3", item.URL())
	assert.Equal(t, printcart.NameProduct, item.Name())

	// Aliased children keep the children of their target descriptor.
	design, err := item.Child(printcart.NameDesign)
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"orders/5/products/3/designs", design.URL())
}

func TestClientInvalidRegistry(t *testing.T) {
	t.Parallel()

	registry := printcart.NewRegistry()
	err := registry.Register(printcart.ResourceDescriptor{
		Name:     "Order",
		Key:      "orders",
		Children: []printcart.ChildRef{{Name: "Line", Resource: "Line"}},
	}, true)
	require.NoError(t, err)

	_, err = printcart.NewClient(&printcart.Config{}, printcart.WithRegistry(registry))
	require.Error(t, err)
	assert.True(t, printcart.IsConfigurationError(err))
}

func TestResourceActions(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{}
	client := newTestClient(t, transport, printcart.WithRegistry(newOrderRegistry(t)))

	order, err := client.Resource("Order", "5")
	require.NoError(t, err)

	action, err := order.Action("cancel")
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"orders/5/cancel", action.URL())

	_, err = action.Do(context.Background(), "post", map[string]any{"reason": "dup"})
	require.NoError(t, err)

	req := transport.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, testBaseURL+"orders/5/cancel", req.URL)
	assert.JSONEq(t, `{"reason":"dup"}`, string(req.Body))

	_, err = action.Do(context.Background(), http.MethodPut, map[string]any{"reason": "dup"}, printcart.WithWrap(true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"orders":{"reason":"dup"}}`, string(transport.last(t).Body))

	_, err = order.Action("refund")
	require.Error(t, err)
	require.ErrorIs(t, err, printcart.ErrUnknownAction)
}

func TestResourceLookup(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, &recordingTransport{}, printcart.WithRegistry(newOrderRegistry(t)))

	order, err := client.Resource("Order", "5")
	require.NoError(t, err)

	member, err := order.Lookup("Item", "1")
	require.NoError(t, err)
	assert.Equal(t, printcart.MemberChild, member.Kind)
	require.NotNil(t, member.Child)
	assert.Nil(t, member.Action)
	assert.Equal(t, testBaseURL+"orders/5/products/1", member.Child.URL())

	member, err = order.Lookup("cancel")
	require.NoError(t, err)
	assert.Equal(t, printcart.MemberAction, member.Kind)
	require.NotNil(t, member.Action)
	assert.Equal(t, "cancel", member.Action.Name())

	_, err = order.Lookup("Cancel")
	assert.True(t, printcart.IsUnknownResource(err))

	_, err = order.Lookup("refund")
	assert.True(t, errors.Is(err, printcart.ErrUnknownAction))

	_, err = order.Lookup("")
	require.ErrorIs(t, err, printcart.ErrEmptyMemberName)
}

func TestClientTransportBuilder(t *testing.T) {
	t.Parallel()

	transport := &recordingTransport{}
	var built *printcart.Config

	builder := func(cfg *printcart.Config) (printcart.Transport, error) {
		built = cfg

		return transport, nil
	}

	client, err := printcart.NewClient(&printcart.Config{
		Username:    testUsername,
		Password:    testPassword,
		UserAgent:   "agent/1",
		HTTPTimeout: 5,
	}, printcart.WithTransportBuilder(builder))
	require.NoError(t, err)
	require.NotNil(t, built)
	assert.Equal(t, "agent/1", built.UserAgent)
	assert.Equal(t, "https://api.printcart.com", built.APIURL)

	fonts, err := client.Font()
	require.NoError(t, err)

	_, err = fonts.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, transport.count())
}

func TestClientTransportBuilderError(t *testing.T) {
	t.Parallel()

	buildErr := errors.New("boom")

	_, err := printcart.NewClient(&printcart.Config{}, printcart.WithTransportBuilder(func(*printcart.Config) (printcart.Transport, error) {
		return nil, buildErr
	}))
	require.ErrorIs(t, err, buildErr)
}
