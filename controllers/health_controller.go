package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zzafergok/mobiversite-ecommerce/gateway"
)

// Health reports liveness together with the active gateway backend.
func Health(backend gateway.Backend, live func() int) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":      "OK",
			"service":     "storefront-service",
			"environment": backend,
			"clients":     live(),
		})
	}
}
