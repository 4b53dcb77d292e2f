package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/controllers"
	"github.com/zzafergok/mobiversite-ecommerce/events"
	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/kvstore"
	"github.com/zzafergok/mobiversite-ecommerce/middleware"
	"github.com/zzafergok/mobiversite-ecommerce/routes"
	"github.com/zzafergok/mobiversite-ecommerce/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// storefront is a fully wired router over the static gateway and an
// in-memory client store.
type storefront struct {
	t        *testing.T
	router   *gin.Engine
	gw       *gateway.StaticGateway
	registry *services.Registry
	tokens   *services.TokenService
	orders   services.OrderService
}

func newStorefront(t *testing.T) *storefront {
	return newStorefrontWithOrders(t, nil)
}

func newStorefrontWithOrders(t *testing.T, orders services.OrderService) *storefront {
	logger := zap.NewNop()
	gw := gateway.NewSeededStaticGateway()
	tokens := services.NewTokenService("test-secret", time.Hour)
	registry := services.NewRegistry(services.RegistryConfig{
		Backend:     kvstore.NewMemoryBackend(),
		Gateway:     gw,
		Auth:        services.NewAuthService(gw, tokens, logger),
		Logger:      logger,
		TTL:         time.Hour,
		Environment: string(gateway.BackendStatic),
	})
	if orders == nil {
		orders = services.NewOrderService(gw, events.NewLogPublisher(logger), logger)
	}
	cookies := middleware.CookieOptions{}

	r := gin.New()
	r.GET("/health", controllers.Health(gateway.BackendStatic, registry.Len))
	routes.RegisterRoutes(r, routes.Handlers{
		Products: controllers.NewProductController(gw, logger),
		Auth:     controllers.NewAuthController(cookies, tokens.TTL()),
		Cart:     controllers.NewCartController(gw, logger),
		Wishlist: controllers.NewWishlistController(gw, logger),
		Lists:    controllers.NewListsController(gw, logger),
		Orders:   controllers.NewOrderController(orders),
	}, middleware.ClientSession(registry, cookies))

	return &storefront{t: t, router: r, gw: gw, registry: registry, tokens: tokens, orders: orders}
}

// browser keeps cookies between requests the way a browser would.
type browser struct {
	s       *storefront
	cookies map[string]string
}

func (s *storefront) browser() *browser {
	return &browser{s: s, cookies: map[string]string{}}
}

func (b *browser) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	b.s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(b.s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	w := httptest.NewRecorder()
	b.s.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c.Value
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (b *browser) login(username, password string) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, "/auth/login", gin.H{"username": username, "password": password})
}
