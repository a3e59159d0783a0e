package printcart

// Typed wrappers over Resource for the default catalog. Each embeds
// *Resource, so every verb is available directly on the wrapper, and adds
// one method per declared child.

// Product is the products collection or a single product.
type Product struct{ *Resource }

// Side is a product side.
type Side struct{ *Resource }

// Image is an uploaded image.
type Image struct{ *Resource }

// Font is a font.
type Font struct{ *Resource }

// Design is a design.
type Design struct{ *Resource }

// Template is a side template.
type Template struct{ *Resource }

// Storage is a storage.
type Storage struct{ *Resource }

// ClipartStorage is a clipart storage.
type ClipartStorage struct{ *Resource }

// Project is a project.
type Project struct{ *Resource }

// Account is an account.
type Account struct{ *Resource }

// Webhook is a webhook subscription.
type Webhook struct{ *Resource }

// Store is a store.
type Store struct{ *Resource }

// Integration is the integration endpoint.
type Integration struct{ *Resource }

func root[T any](c *Client, name string, wrap func(*Resource) T, id []string) (T, error) {
	resource, err := c.Resource(name, id...)
	if err != nil {
		var zero T

		return zero, err
	}

	return wrap(resource), nil
}

func child[T any](r *Resource, name string, wrap func(*Resource) T, id []string) (T, error) {
	resource, err := r.Child(name, id...)
	if err != nil {
		var zero T

		return zero, err
	}

	return wrap(resource), nil
}

func wrapProduct(r *Resource) *Product               { return &Product{r} }
func wrapSide(r *Resource) *Side                     { return &Side{r} }
func wrapImage(r *Resource) *Image                   { return &Image{r} }
func wrapFont(r *Resource) *Font                     { return &Font{r} }
func wrapDesign(r *Resource) *Design                 { return &Design{r} }
func wrapTemplate(r *Resource) *Template             { return &Template{r} }
func wrapStorage(r *Resource) *Storage               { return &Storage{r} }
func wrapClipartStorage(r *Resource) *ClipartStorage { return &ClipartStorage{r} }
func wrapProject(r *Resource) *Project               { return &Project{r} }
func wrapAccount(r *Resource) *Account               { return &Account{r} }
func wrapWebhook(r *Resource) *Webhook               { return &Webhook{r} }
func wrapStore(r *Resource) *Store                   { return &Store{r} }
func wrapIntegration(r *Resource) *Integration       { return &Integration{r} }

// Product returns the products collection, or the product with the given id.
func (c *Client) Product(id ...string) (*Product, error) {
	return root(c, NameProduct, wrapProduct, id)
}

// Side returns the sides collection, or the side with the given id.
func (c *Client) Side(id ...string) (*Side, error) {
	return root(c, NameSide, wrapSide, id)
}

// Image returns the images collection, or the image with the given id.
func (c *Client) Image(id ...string) (*Image, error) {
	return root(c, NameImage, wrapImage, id)
}

// Font returns the fonts collection, or the font with the given id.
func (c *Client) Font(id ...string) (*Font, error) {
	return root(c, NameFont, wrapFont, id)
}

// Design returns the designs collection, or the design with the given id.
func (c *Client) Design(id ...string) (*Design, error) {
	return root(c, NameDesign, wrapDesign, id)
}

// Template returns the templates collection, or the template with the given id.
func (c *Client) Template(id ...string) (*Template, error) {
	return root(c, NameTemplate, wrapTemplate, id)
}

// Storage returns the storages collection, or the storage with the given id.
func (c *Client) Storage(id ...string) (*Storage, error) {
	return root(c, NameStorage, wrapStorage, id)
}

// ClipartStorage returns the clipart storages collection, or one clipart storage.
func (c *Client) ClipartStorage(id ...string) (*ClipartStorage, error) {
	return root(c, NameClipartStorage, wrapClipartStorage, id)
}

// Project returns the projects collection, or the project with the given id.
func (c *Client) Project(id ...string) (*Project, error) {
	return root(c, NameProject, wrapProject, id)
}

// Account returns the accounts collection, or the account with the given id.
func (c *Client) Account(id ...string) (*Account, error) {
	return root(c, NameAccount, wrapAccount, id)
}

// Webhook returns the webhooks collection, or the webhook with the given id.
func (c *Client) Webhook(id ...string) (*Webhook, error) {
	return root(c, NameWebhook, wrapWebhook, id)
}

// Store returns the stores collection, or the store with the given id.
func (c *Client) Store(id ...string) (*Store, error) {
	return root(c, NameStore, wrapStore, id)
}

// Integration returns the integration resource.
func (c *Client) Integration(id ...string) (*Integration, error) {
	return root(c, NameIntegration, wrapIntegration, id)
}

// Design returns the designs of the product.
func (p *Product) Design(id ...string) (*Design, error) {
	return child(p.Resource, NameDesign, wrapDesign, id)
}

// Side returns the sides of the product.
func (p *Product) Side(id ...string) (*Side, error) {
	return child(p.Resource, NameSide, wrapSide, id)
}

// Template returns the templates of the side.
func (s *Side) Template(id ...string) (*Template, error) {
	return child(s.Resource, NameTemplate, wrapTemplate, id)
}

// Design returns the designs of the project.
func (p *Project) Design(id ...string) (*Design, error) {
	return child(p.Resource, NameDesign, wrapDesign, id)
}

// Product returns the products of the project.
func (p *Project) Product(id ...string) (*Product, error) {
	return child(p.Resource, NameProduct, wrapProduct, id)
}
