package routes

import (
	"net/http"
	"strings"
	"time"

	"chalethaven/handlers"
	"chalethaven/middleware"
	"chalethaven/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers console sign-in endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", hb.Auth.Login)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.Authenticator, false))
		protected.GET("/verify", hb.Auth.Verify)
		protected.POST("/logout", hb.Auth.Logout)
	}
}

// RegisterListingRoutes registers chalet endpoints. Reads are public; an admin
// token additionally reveals inactive chalets.
func RegisterListingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chalets")
	{
		public := api.Group("")
		public.Use(middleware.JWTAuthMiddleware(hb.Authenticator, true))
		public.GET("", hb.Listings.List)
		public.GET("/:slug", hb.Listings.Get)

		admin := api.Group("")
		admin.Use(middleware.JWTAuthMiddleware(hb.Authenticator, false), middleware.RequireRoles(hb.AdminRoles...))
		admin.POST("", hb.Listings.Create)
		admin.PATCH("/:slug", hb.Listings.Update)
	}
}

// RegisterBookingRoutes registers the booking engine endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/bookings/quote", hb.Bookings.Quote)
	r.POST("/api/stripe/create-checkout-session", hb.Checkout.CreateSession)
}

// RegisterUploadRoutes registers the admin media endpoints.
func RegisterUploadRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/upload")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.Authenticator, false), middleware.RequireRoles(hb.AdminRoles...))
		api.POST("", hb.Storage.Upload)
		api.POST("/sign", hb.Storage.Sign)
		api.DELETE("/*publicID", hb.Storage.Delete)
	}
}

func RegisterContactRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/contact", hb.Contact.Submit)
}

func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Health)
}

// corsOrigins turns SITE_URL (comma separated) into allowed origins.
func corsOrigins(siteURL string) []string {
	var origins []string
	for _, o := range strings.Split(siteURL, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, siteURL string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(siteURL),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterListingRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterUploadRoutes(r, hb)
	RegisterContactRoutes(r, hb)
	RegisterHealthRoute(r, hb)

	r.NoRoute(func(c *gin.Context) {
		utils.JSONError(c, http.StatusNotFound, "Route not found", c.Request.URL.Path)
	})
}
