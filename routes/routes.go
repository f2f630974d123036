package routes

import (
	"log/slog"

	"github.com/PabloUrbano2000/little-lemon-api/configs"
	"github.com/PabloUrbano2000/little-lemon-api/controllers"
	"github.com/PabloUrbano2000/little-lemon-api/middlewares"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/idempotency"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/throttle"
	"github.com/PabloUrbano2000/little-lemon-api/repository"
	"github.com/PabloUrbano2000/little-lemon-api/services"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

// Deps is what the router needs from main. Idempotency and Events may be nil.
type Deps struct {
	DB          *gorm.DB
	Config      *configs.Config
	Log         *slog.Logger
	Limiter     throttle.Limiter
	Idempotency *idempotency.Store
	Events      services.EventRecorder
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(otelgin.Middleware("little-lemon-api"))
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.CORSMiddleware())

	// Repositories
	userRepo := repository.NewUserRepository(d.DB)
	menuRepo := repository.NewMenuRepository(d.DB)
	cartRepo := repository.NewCartRepository(d.DB)
	orderRepo := repository.NewOrderRepository(d.DB)

	// Services
	authSvc := services.NewAuthService(d.DB, userRepo, d.Config.JWTSecret, d.Config.JWTTTL)
	groupSvc := services.NewGroupService(d.DB, userRepo)
	menuSvc := services.NewMenuService(d.DB, menuRepo)
	cartSvc := services.NewCartService(d.DB, cartRepo, menuRepo)
	orderSvc := services.NewOrderService(d.DB, orderRepo, cartRepo, userRepo, d.Events)
	listSvc := services.NewListingService(d.DB, orderRepo)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	groupCtrl := controllers.NewGroupController(groupSvc)
	menuCtrl := controllers.NewMenuController(menuSvc)
	cartCtrl := controllers.NewCartController(cartSvc)
	orderCtrl := controllers.NewOrderController(orderSvc, listSvc)
	healthCtrl := controllers.NewHealthController(d.DB)

	r.GET("/health", healthCtrl.Check)

	api := r.Group("/", middlewares.Authenticate(authSvc))
	throttled := middlewares.Throttle(d.Limiter, d.Config.ThrottleAnonPerMin, d.Config.ThrottleUserPerMin)

	// Auth
	a := api.Group("/auth")
	{
		a.POST("/users", authCtrl.Register)
		a.POST("/token/login", authCtrl.Login)
		a.GET("/users/me", middlewares.RequireAuth(), authCtrl.Me)
	}

	// Catalog: reads are public, writes are manager-only
	api.GET("/categories", menuCtrl.Categories)
	api.POST("/categories", middlewares.RequireManager(), menuCtrl.CreateCategory)

	menu := api.Group("/menu-items", throttled)
	{
		menu.GET("", menuCtrl.List)
		menu.GET("/:id", menuCtrl.Detail)
		menu.POST("", middlewares.RequireManager(), menuCtrl.Create)
		menu.PUT("/:id", middlewares.RequireManager(), menuCtrl.Update)
		menu.PATCH("/:id", middlewares.RequireManager(), menuCtrl.Update)
		menu.DELETE("/:id", middlewares.RequireManager(), menuCtrl.Delete)
	}

	// Cart
	cart := api.Group("/cart/menu-items", middlewares.RequireAuth())
	{
		cart.GET("", cartCtrl.List)
		cart.POST("", cartCtrl.Add)
		cart.DELETE("", cartCtrl.Clear)
	}

	// Orders: role rules live in services.Decide
	orders := api.Group("/orders", middlewares.RequireAuth())
	{
		orders.GET("", orderCtrl.List)
		orders.POST("", middlewares.Idempotency(d.Idempotency, "checkout"), orderCtrl.Create)
		orders.GET("/:id", throttled, orderCtrl.Detail)
		orders.PUT("/:id", throttled, orderCtrl.Update)
		orders.PATCH("/:id", throttled, orderCtrl.Update)
		orders.DELETE("/:id", throttled, orderCtrl.Delete)
	}

	// Groups (manager only)
	groups := api.Group("/groups/:group/users", middlewares.RequireManager())
	{
		groups.GET("", groupCtrl.List)
		groups.POST("", groupCtrl.Add)
		groups.DELETE("/:id", groupCtrl.Remove)
	}
}
