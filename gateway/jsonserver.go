package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zzafergok/mobiversite-ecommerce/models"
)

// JSONServerGateway talks to a json-server style REST mock. The mock cannot
// update records reliably, so every cart write appends a new record and the
// newest one wins on read.
type JSONServerGateway struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewJSONServerGateway(baseURL string, timeout time.Duration) *JSONServerGateway {
	return &JSONServerGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

func (g *JSONServerGateway) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

func decodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upstream error: status=%d body=%s", resp.StatusCode, string(body))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (g *JSONServerGateway) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := g.do(ctx, http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (g *JSONServerGateway) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var products []models.Product
	if err := g.do(ctx, http.MethodGet, "/products", url.Values{"id": {id}}, nil, &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}
	return &products[0], nil
}

func (g *JSONServerGateway) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	if err := g.do(ctx, http.MethodGet, "/products", url.Values{"category": {category}}, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (g *JSONServerGateway) GetCategories(ctx context.Context) ([]string, error) {
	products, err := g.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	return categoriesOf(products), nil
}

func (g *JSONServerGateway) GetUserCart(ctx context.Context, userID string) (*models.Cart, error) {
	var carts []models.Cart
	if err := g.do(ctx, http.MethodGet, "/carts", url.Values{"userId": {userID}}, nil, &carts); err != nil {
		return nil, err
	}
	if len(carts) == 0 {
		return nil, nil
	}
	sort.SliceStable(carts, func(i, j int) bool { return carts[i].Timestamp > carts[j].Timestamp })
	return &carts[0], nil
}

func (g *JSONServerGateway) UpdateUserCart(ctx context.Context, userID string, items []models.LineItem) error {
	if items == nil {
		items = []models.LineItem{}
	}
	now := g.now()
	cart := models.Cart{UserID: userID, Items: items, Timestamp: now.UnixMilli(), UpdatedAt: now.UTC()}
	return g.do(ctx, http.MethodPost, "/carts", nil, cart, nil)
}

func (g *JSONServerGateway) ClearUserCart(ctx context.Context, userID string) error {
	return g.UpdateUserCart(ctx, userID, nil)
}

func (g *JSONServerGateway) GetUserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	return g.firstUser(ctx, url.Values{"username": {username}, "password": {password}})
}

func (g *JSONServerGateway) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return g.firstUser(ctx, url.Values{"id": {id}})
}

func (g *JSONServerGateway) firstUser(ctx context.Context, query url.Values) (*models.User, error) {
	var users []models.User
	if err := g.do(ctx, http.MethodGet, "/users", query, nil, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (g *JSONServerGateway) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	in := *user
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.CreatedAt = g.now().UTC()

	var created models.User
	if err := g.do(ctx, http.MethodPost, "/users", nil, in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *JSONServerGateway) UpdateUserPartial(ctx context.Context, id string, patch models.ProfilePatch) (*models.User, error) {
	body := patch.Fields()
	body["updatedAt"] = g.now().UTC()

	var updated models.User
	if err := g.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (g *JSONServerGateway) CheckUsernameExists(ctx context.Context, username string) (bool, error) {
	u, err := g.firstUser(ctx, url.Values{"username": {username}})
	return u != nil, err
}

func (g *JSONServerGateway) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := g.firstUser(ctx, url.Values{"email": {email}})
	return u != nil, err
}

func (g *JSONServerGateway) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := g.do(ctx, http.MethodGet, "/orders", url.Values{"userId": {userID}}, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (g *JSONServerGateway) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var orders []models.Order
	if err := g.do(ctx, http.MethodGet, "/orders", url.Values{"id": {id}}, nil, &orders); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

func (g *JSONServerGateway) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	var created models.Order
	if err := g.do(ctx, http.MethodPost, "/orders", nil, order, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
