package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zzafergok/mobiversite-ecommerce/middleware"
	"github.com/zzafergok/mobiversite-ecommerce/models"
	"github.com/zzafergok/mobiversite-ecommerce/services"
)

// AuthController drives the per-client session and keeps the auth cookie in
// step with it.
type AuthController struct {
	cookies  middleware.CookieOptions
	tokenTTL time.Duration
}

func NewAuthController(cookies middleware.CookieOptions, tokenTTL time.Duration) *AuthController {
	return &AuthController{cookies: cookies, tokenTTL: tokenTTL}
}

// Login handles POST /auth/login.
func (ac *AuthController) Login(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	res := client.Session.Login(ctx.Request.Context(), req)
	if !res.Success {
		ctx.JSON(res.StatusCode, gin.H{"error": res.Error})
		return
	}
	ac.cookies.SetAuthCookie(ctx, res.Token, int(ac.tokenTTL.Seconds()))
	ctx.JSON(http.StatusOK, gin.H{"user": res.User})
}

// Register handles POST /auth/register.
func (ac *AuthController) Register(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	var req models.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	res := client.Session.Register(ctx.Request.Context(), req)
	if !res.Success {
		ctx.JSON(res.StatusCode, gin.H{"error": res.Error})
		return
	}
	ac.cookies.SetAuthCookie(ctx, res.Token, int(ac.tokenTTL.Seconds()))
	ctx.JSON(http.StatusCreated, gin.H{"user": res.User, "message": res.Message})
}

// Logout handles POST /auth/logout. It succeeds for anonymous clients too.
func (ac *AuthController) Logout(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	res := client.Session.Logout(ctx.Request.Context())
	ac.cookies.SetAuthCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"message": res.Message})
}

// Me handles GET /auth/me.
func (ac *AuthController) Me(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	user := client.Session.User()
	if user == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile handles PATCH /auth/profile.
func (ac *AuthController) UpdateProfile(ctx *gin.Context) {
	client, ok := currentClient(ctx)
	if !ok {
		return
	}
	var patch models.ProfilePatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	before := client.Session.Token()
	res := client.Session.UpdateProfile(ctx.Request.Context(), patch)
	if !res.Success {
		ctx.JSON(res.StatusCode, gin.H{"error": res.Error})
		return
	}
	if res.Token != before {
		ac.cookies.SetAuthCookie(ctx, res.Token, int(ac.tokenTTL.Seconds()))
	}
	ctx.JSON(http.StatusOK, gin.H{"user": res.User, "message": res.Message})
}

// currentClient fetches the bundle attached by the session middleware.
func currentClient(ctx *gin.Context) (*services.Client, bool) {
	client := middleware.CurrentClient(ctx)
	if client == nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Client session unavailable"})
		return nil, false
	}
	return client, true
}
