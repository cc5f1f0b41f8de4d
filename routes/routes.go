package routes

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/controllers"
	"github.com/honeyhomes/honey-homes-api/metrics"
	"github.com/honeyhomes/honey-homes-api/middleware"
	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/honeyhomes/honey-homes-api/utils"
)

const loginRequired = "Please login to continue"

// SetupRouter builds the full HTTP surface. It is shared by main and the
// integration tests. Background work started here stops when ctx is done.
func SetupRouter(ctx context.Context, cfg *config.Config) *gin.Engine {
	utils.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(metrics.Middleware())
	router.Use(cors.New(corsConfig(cfg)))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	limiter.StartCleanup(ctx, 5*time.Minute)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", controllers.HealthCheck)
		v1.GET("/database/status", controllers.DatabaseStatus)

		// Catalog is public
		v1.GET("/services", controllers.ListServices)
		v1.GET("/services/:id", controllers.GetService)

		// Locally stored avatars are public like the bucket
		v1.GET("/avatars/:user/:file", controllers.GetAvatar)

		v1.POST("/auth/signup", limiter.Handler(), controllers.SignUp)
		v1.POST("/auth/signin", limiter.Handler(), controllers.SignIn)
	}

	authed := v1.Group("")
	authed.Use(middleware.EnsureValidToken(cfg), middleware.LoadSession())
	{
		authed.POST("/auth/signout", middleware.RequireAuth(loginRequired), controllers.SignOut)
		authed.GET("/me", middleware.RequireAuth(loginRequired), controllers.GetMe)
		authed.GET("/dashboard", middleware.RequireAuth(loginRequired), controllers.GetDashboard)

		cart := authed.Group("/cart", middleware.RequireAuth("Please login to add items to cart"))
		{
			cart.GET("", controllers.GetCart)
			cart.DELETE("", controllers.ClearCart)
			cart.POST("/items", controllers.AddCartItem)
			cart.DELETE("/items/:id", controllers.RemoveCartItem)
			cart.POST("/checkout", middleware.RequireRole(models.RoleCustomer), controllers.Checkout)
		}

		orders := authed.Group("/orders", middleware.RequireAuth("Please login to book a service"))
		{
			orders.POST("", middleware.RequireRole(models.RoleCustomer), controllers.CreateOrder)
			orders.GET("", controllers.ListMyOrders)
			orders.GET("/:id", controllers.GetMyOrder)
		}

		profile := authed.Group("/profile", middleware.RequireAuth(loginRequired))
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("", controllers.UpdateProfile)
			profile.POST("/avatar", controllers.UploadAvatar)
		}

		authed.GET("/realtime/profiles", middleware.RequireAuth(loginRequired), controllers.ProfileUpdates)

		technician := authed.Group("/technician", middleware.RequireRole(models.RoleTechnician))
		{
			technician.GET("/orders", controllers.ListTechnicianOrders)
			technician.PATCH("/orders/:id/status", controllers.UpdateTechnicianOrderStatus)
		}

		admin := authed.Group("/admin", middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/orders", controllers.ListAllOrders)
			admin.PATCH("/orders/:id/status", controllers.AdminUpdateOrderStatus)
			admin.PATCH("/orders/:id/assign", controllers.AssignTechnician)
			admin.GET("/technicians", controllers.ListTechnicians)
			admin.GET("/users", controllers.ListUsers)
			admin.PATCH("/users/:id/role", controllers.UpdateUserRole)
			admin.GET("/stats", controllers.GetStats)
		}
	}

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsCfg.MaxAge = 12 * time.Hour
	if len(cfg.CORSAllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		corsCfg.AllowCredentials = true
	}
	return corsCfg
}
