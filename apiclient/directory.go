package apiclient

import (
	"context"
	"fieldops/domain"
	"net/http"
)

func (c *Client) ListClients(ctx context.Context) ([]domain.Person, error) {
	return c.listPersons(ctx, "/clientes/")
}

func (c *Client) ListTechnicians(ctx context.Context) ([]domain.Person, error) {
	return c.listPersons(ctx, "/tecnicos/")
}

func (c *Client) ListSupervisors(ctx context.Context) ([]domain.Person, error) {
	return c.listPersons(ctx, "/supervisores/")
}

func (c *Client) listPersons(ctx context.Context, path string) ([]domain.Person, error) {
	persons := []domain.Person{}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &persons); err != nil {
		return nil, err
	}
	return persons, nil
}

// ClientCreation is the quick-create payload of the order form's secondary
// dialog. The server assigns a default password for these accounts.
type ClientCreation struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

func (c *Client) CreateClient(ctx context.Context, creation *ClientCreation) (*domain.Person, error) {
	person := domain.Person{}
	if err := c.doJSON(ctx, http.MethodPost, "/clientes/", creation, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// UserProvision creates a technician or supervisor account.
type UserProvision struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Rol       string `json:"rol"`
}

func (c *Client) ProvisionUser(ctx context.Context, provision *UserProvision) error {
	return c.doJSON(ctx, http.MethodPost, "/crear-usuario/", provision, nil)
}
