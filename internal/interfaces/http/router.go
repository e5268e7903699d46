package http

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/mercado-api/internal/application/analytics"
	"github.com/jhoicas/mercado-api/internal/application/auth"
	"github.com/jhoicas/mercado-api/internal/application/inventory"
	"github.com/jhoicas/mercado-api/internal/application/usecase"
	"github.com/jhoicas/mercado-api/pkg/logger"
	"github.com/jhoicas/mercado-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ProductUC      *usecase.ProductUseCase
	RecordMovement *inventory.RecordMovementUseCase
	ListMovements  *inventory.ListMovementsUseCase
	Replenishment  *inventory.ReplenishmentUseCase
	Dashboard      *analytics.DashboardUseCase // nil = sin /dashboard
	JWTSecret      string
}

// ServerConfig piezas transversales de la app HTTP.
type ServerConfig struct {
	AppName     string
	CORSOrigins string // lista separada por comas; vacío = "*"
	SwaggerFile string // si no existe no se monta /docs
	Logger      *logger.Logger
	Metrics     *metrics.Metrics // nil = sin /metrics
	DB          Pinger           // nil = /health no consulta la base
}

// NewApp construye la app Fiber con middlewares, /health, /metrics, /docs y las rutas de la API.
func NewApp(cfg ServerConfig, deps RouterDeps) *fiber.App {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})

	app.Use(RequestID())
	if cfg.Metrics != nil {
		app.Use(Metrics(cfg.Metrics))
	}
	app.Use(RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Mercado API",
			}))
		} else {
			log.Warn().Str("file", cfg.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
		}
	}

	app.Get("/health", Health(cfg.AppName, cfg.DB))
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Usuarios y sesión (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	app.Post("/usuarios", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)

	// Productos
	products := app.Group("/produtos")
	productHandler := NewProductHandler(deps.ProductUC, deps.Replenishment)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/reposicao", productHandler.GetReplenishmentList)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Movimientos: el registro requiere Bearer Token, el historial es público
	movements := app.Group("/movimentacoes")
	movementHandler := NewMovementHandler(deps.RecordMovement, deps.ListMovements)
	movements.Get("/", movementHandler.List)
	movements.Post("/", AuthMiddleware(deps.JWTSecret), movementHandler.Record)

	// Dashboard
	if deps.Dashboard != nil {
		dashboardHandler := NewDashboardHandler(deps.Dashboard)
		app.Get("/dashboard/resumo", dashboardHandler.GetSummary)
	}
}

func normalizeOrigins(raw string) string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ",")
}
