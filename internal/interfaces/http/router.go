package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/restaurant-inventory-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName     string
	Movements   MovementRegistrar
	Reports     MovementReporter
	Items       ItemService
	Metrics     MetricsProvider
	Validate    *validator.Validate // nil = NewValidator()
	Logger      *logger.Logger
	JWTSecret   string
	JWTIssuer   string
	SwaggerFile string // vacío = sin /docs
}

// NewApp construye la aplicación Fiber con middlewares, /health, /docs y las rutas de la API.
func NewApp(deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(RequestLogger(deps.Logger))
	app.Use(recover.New())

	if deps.SwaggerFile != "" {
		// Swagger UI: http://localhost:<port>/docs
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: deps.SwaggerFile,
			Path:     "docs",
			Title:    "Restaurant Inventory API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	Router(app, deps)
	return app
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	validate := deps.Validate
	if validate == nil {
		validate = NewValidator()
	}
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	inventoryHandler := NewInventoryHandler(deps.Movements, deps.Reports, validate)
	api.Post("/movement", inventoryHandler.RegisterMovement)
	api.Get("/movements", inventoryHandler.ListMovements)

	metricsHandler := NewMetricsHandler(deps.Metrics)
	api.Get("/metrics", metricsHandler.GetMetrics)

	itemHandler := NewItemHandler(deps.Items, validate)
	api.Post("/add_item", itemHandler.Create)
	items := api.Group("/inventory_items")
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Get("/:id/movements", inventoryHandler.ListItemMovements)
}
