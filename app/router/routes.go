// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/blachmet/cennik/app/dto"
	"github.com/blachmet/cennik/app/handlers"
	"github.com/blachmet/cennik/app/middleware"
	_ "github.com/blachmet/cennik/docs"
	"github.com/blachmet/cennik/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cache"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app                 *fiber.App
	pricingHandler      handlers.PricingHandlerInterface
	availabilityHandler handlers.AvailabilityHandlerInterface
	bulkPriceHandler    handlers.BulkPriceHandlerInterface
	importHandler       handlers.ImportHandlerInterface
	exportHandler       handlers.ExportHandlerInterface
	catalogHandler      handlers.CatalogHandlerInterface
	identity            *middleware.IdentityMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	pricingHandler handlers.PricingHandlerInterface,
	availabilityHandler handlers.AvailabilityHandlerInterface,
	bulkPriceHandler handlers.BulkPriceHandlerInterface,
	importHandler handlers.ImportHandlerInterface,
	exportHandler handlers.ExportHandlerInterface,
	catalogHandler handlers.CatalogHandlerInterface,
	identity *middleware.IdentityMiddleware,
) Router {
	// Configure Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Blachmet Cennik API",
		ServerHeader: "Blachmet-Cennik",
		ErrorHandler: errorHandler,
		BodyLimit:    16 * 1024 * 1024, // 16MB, price workbooks are uploaded whole
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:                 app,
		pricingHandler:      pricingHandler,
		availabilityHandler: availabilityHandler,
		bulkPriceHandler:    bulkPriceHandler,
		importHandler:       importHandler,
		exportHandler:       exportHandler,
		catalogHandler:      catalogHandler,
		identity:            identity,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// API documentation route (development only)
	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "local" {
		api.Get("/docs", r.getAPIDocumentation)
		api.Get("/swagger.json", r.serveSwaggerJSON)
		// Serve Swagger UI
		r.app.Get("/swagger", r.serveSwaggerUI)
		log.Println("API documentation enabled for development")
	}

	// Apply general rate limiting to all API routes (aligned with nginx)
	api.Use(limiter.New(limiter.Config{
		Max:        2000,            // Maximum 2000 requests (matches nginx api zone)
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			// Skip rate limiting for health checks
			return c.Path() == "/api/v1/health"
		},
	}))

	// Acting-user resolution for audit attribution (never rejects)
	api.Use(r.identity.Identify())

	// Price calculator endpoints
	pricing := api.Group("/pricing")
	pricing.Post("/calculate", r.pricingHandler.CalculatePrice)
	pricing.Get("/table", r.pricingHandler.PriceTable)
	pricing.Get("/options", r.pricingHandler.AvailableOptions)
	pricing.Get("/exchange-rate", r.pricingHandler.GetExchangeRate)
	pricing.Put("/exchange-rate", r.pricingHandler.UpdateExchangeRate)

	// Availability matrix endpoints
	availability := api.Group("/availability")
	availability.Get("/grinding", r.availabilityHandler.CheckGrinding)
	availability.Get("/grinding/options", r.availabilityHandler.GrindingOptions)
	availability.Get("/grinding/matrix", r.availabilityHandler.GrindingMatrix)
	availability.Put("/grinding/matrix", r.availabilityHandler.UpsertGrindingPrice)
	availability.Post("/grinding/matrix/bulk", r.availabilityHandler.BulkUpdateMatrix)
	availability.Get("/film", r.availabilityHandler.CheckFilm)
	availability.Get("/film/matrix", r.availabilityHandler.FilmMatrix)

	// Bulk price mutation endpoints
	bulk := api.Group("/prices/bulk")
	bulk.Post("/preview", r.bulkPriceHandler.Preview)
	bulk.Post("/apply", r.bulkPriceHandler.Apply)
	bulk.Get("/filter-options", r.bulkPriceHandler.FilterOptions)
	bulk.Get("/history", r.bulkPriceHandler.History)

	// Spreadsheet import endpoints; history before the :id routes
	imports := api.Group("/imports")
	imports.Get("/history", r.importHandler.History)
	imports.Post("/analyze", r.importHandler.Analyze)
	imports.Get("/:id/preview", r.importHandler.Preview)
	imports.Post("/:id/apply", r.importHandler.Apply)
	imports.Delete("/:id", r.importHandler.Cancel)

	// Export endpoints
	api.Get("/exports/prices", r.exportHandler.ExportPrices)

	// Material catalog endpoints
	api.Get("/materials", r.catalogHandler.ListMaterials)
	api.Post("/materials", r.catalogHandler.CreateMaterial)
	api.Post("/materials/seed", r.catalogHandler.SeedMaterials)
	api.Get("/material-groups", r.catalogHandler.ListMaterialGroups)
	api.Get("/processing-options", r.catalogHandler.ListProcessingOptions)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// SetupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000, // 1 year
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' https:; connect-src 'self' https:; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware with production settings
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://cennik.blachmet.pl",
			"https://admin.blachmet.pl",
			"https://www.blachmet.pl",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"X-Acting-User",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Response-Time",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Skip compression for rendered workbooks, xlsx is already deflated
			contentType := c.Get("Content-Type")
			return contains(contentType, "openxmlformats") ||
				contains(contentType, "image/")
		},
	}))

	// Cache middleware for static content
	r.app.Use(cache.New(cache.Config{
		Next: func(c fiber.Ctx) bool {
			// Only cache GET requests to specific endpoints
			return c.Method() != "GET" ||
				!contains(c.Path(), "/health") &&
					!contains(c.Path(), "/docs")
		},
		Expiration:          30 * time.Minute,
		DisableCacheControl: false,
	}))

	// Advanced logging middleware
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks in production
			return c.Path() == "/api/v1/health"
		},
	}))

	// Prometheus request metrics
	r.app.Use(middleware.Metrics())

	// Custom security middleware
	r.app.Use(r.securityMiddleware)

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Custom security middleware
func (r *FiberRouter) securityMiddleware(c fiber.Ctx) error {
	// Add security headers
	c.Set("X-Response-Time", utils.UTCNow().Format(time.RFC3339))
	c.Set("Server", "Blachmet-Cennik")

	// Continue to next middleware
	return c.Next()
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "cennik-api",
		},
	})
}

// API documentation endpoint
func (r *FiberRouter) getAPIDocumentation(c fiber.Ctx) error {
	docs := GetRouteDocumentation()
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "API documentation retrieved successfully",
		Data: fiber.Map{
			"title":       "Blachmet Cennik API Documentation",
			"version":     "1.0.0",
			"description": "Metal sheet catalog, pricing and price maintenance API",
			"endpoints":   docs,
		},
	})
}

// Serve Swagger UI HTML page
func (r *FiberRouter) serveSwaggerUI(c fiber.Ctx) error {
	htmlContent := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Blachmet Cennik API - Swagger UI</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css" />
    <style>
        html {
            box-sizing: border-box;
            overflow: -moz-scrollbars-vertical;
            overflow-y: scroll;
        }
        *, *:before, *:after {
            box-sizing: inherit;
        }
        body {
            margin:0;
            background: #fafafa;
        }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            const ui = SwaggerUIBundle({
                url: '/api/v1/swagger.json',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIStandalonePreset
                ],
                plugins: [
                    SwaggerUIBundle.plugins.DownloadUrl
                ],
                layout: "StandaloneLayout",
                validatorUrl: null,
                onComplete: function() {
                    console.log("Swagger UI loaded successfully");
                }
            });
        };
    </script>
</body>
</html>`

	c.Set("Content-Type", "text/html")
	return c.SendString(htmlContent)
}

// Serve Swagger JSON specification
func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	// Read the generated swagger.json file
	swaggerData, err := os.ReadFile("docs/swagger.json")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error: dto.ErrorDetail{
				Code: "SWAGGER_LOAD_ERROR",
			},
		})
	}

	c.Set("Content-Type", "application/json")
	return c.Send(swaggerData)
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a fiber.*Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	log.Printf("Error %d: %v", code, err)

	// Get RequestID for tracing
	requestID := c.Locals("requestid")

	// Return JSON error response
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// Helper functions

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// contains checks if a string contains a substring
func contains(str, substr string) bool {
	return strings.Contains(str, substr)
}

// GetRouteDocumentation returns API documentation
func GetRouteDocumentation() []map[string]any {
	return []map[string]any{
		{
			"method":      "POST",
			"path":        "/api/v1/pricing/calculate",
			"description": "Calculate a per-kg price breakdown for one sheet configuration",
			"parameters": map[string]any{
				"material_id":    "number (required) - Material ID",
				"thickness":      "number (required) - Thickness in mm",
				"width":          "number (required) - Width in mm",
				"length":         "number (optional) - Length in mm",
				"surface_finish": "string (optional) - Surface finish (default 2B)",
				"grinding":       "object (optional) - provider, grit, with_sb",
				"film":           "object (optional) - film_type",
				"currency":       "string (optional) - PLN|EUR (default PLN)",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/pricing/table",
			"description": "Price table rows filtered by category, grade, finish and dimensions",
			"parameters": map[string]any{
				"category":       "string (optional) - Material category",
				"grade":          "string (optional) - Material grade",
				"surface_finish": "string (optional) - Surface finish",
				"thickness_min":  "number (optional) - Lower thickness bound",
				"thickness_max":  "number (optional) - Upper thickness bound",
				"width":          "number (optional) - Exact width",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/pricing/options",
			"description": "Processing options available for one material and dimension pair",
			"parameters": map[string]any{
				"material_id": "number (required) - Material ID",
				"thickness":   "number (required) - Thickness in mm",
				"width":       "number (required) - Width in mm",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/pricing/exchange-rate",
			"description": "Current EUR/PLN conversion rate",
			"parameters":  map[string]any{},
		},
		{
			"method":      "PUT",
			"path":        "/api/v1/pricing/exchange-rate",
			"description": "Set the EUR/PLN conversion rate",
			"parameters": map[string]any{
				"rate": "number (required) - PLN per 1 EUR",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/availability/grinding",
			"description": "Check a single grinding combination; zero price means blocked",
			"parameters": map[string]any{
				"provider":  "string (required) - Grinding provider",
				"thickness": "number (required) - Thickness in mm",
				"width":     "number (required) - Width in mm",
				"grit":      "string (optional) - Grit designation",
				"with_sb":   "boolean (optional) - Require the SB variant",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/availability/grinding/options",
			"description": "All grinding offers for a thickness/width pair",
			"parameters": map[string]any{
				"thickness": "number (required) - Thickness in mm",
				"width":     "number (required) - Width in mm",
				"grit":      "string (optional) - Narrow to one grit",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/availability/grinding/matrix",
			"description": "One provider's thickness x grit matrix with blocked flags",
			"parameters": map[string]any{
				"provider":      "string (required) - Grinding provider",
				"width_variant": "string (optional) - Width variant (BORYS)",
			},
		},
		{
			"method":      "PUT",
			"path":        "/api/v1/availability/grinding/matrix",
			"description": "Create or update one grinding matrix cell",
			"parameters": map[string]any{
				"provider":  "string (required) - Grinding provider",
				"grit":      "string (optional) - Grit designation",
				"thickness": "number (required) - Thickness in mm",
				"price":     "number (required) - PLN/kg, 0 blocks the cell",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/availability/grinding/matrix/bulk",
			"description": "Upsert a batch of grinding matrix cells in one transaction",
			"parameters": map[string]any{
				"provider": "string (required) - Grinding provider",
				"cells":    "array (required) - Matrix cells",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/availability/film",
			"description": "Check a single film combination; zero price means blocked",
			"parameters": map[string]any{
				"film_type": "string (required) - Film type",
				"thickness": "number (required) - Thickness in mm",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/availability/film/matrix",
			"description": "The thickness x film-type matrix with blocked flags",
			"parameters":  map[string]any{},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/prices/bulk/preview",
			"description": "Preview a filtered price mutation without persisting it",
			"parameters": map[string]any{
				"filters":      "object (optional) - Row selection criteria",
				"change_type":  "string (required) - percentage|absolute",
				"change_value": "number (required) - Delta, 0 is a legal no-op",
				"round_to":     "number (optional) - Decimal places 0-4 (default 2)",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/prices/bulk/apply",
			"description": "Apply a filtered price mutation and record an audit entry",
			"parameters": map[string]any{
				"filters":      "object (optional) - Row selection criteria",
				"change_type":  "string (required) - percentage|absolute",
				"change_value": "number (required) - Delta",
				"notes":        "string (optional) - Audit note",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/prices/bulk/filter-options",
			"description": "Facet values still selectable under the current filters",
			"parameters": map[string]any{
				"categories":       "string (optional) - Comma-separated categories",
				"group_ids":        "string (optional) - Comma-separated group IDs",
				"grades":           "string (optional) - Comma-separated grades",
				"surface_finishes": "string (optional) - Comma-separated finishes",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/prices/bulk/history",
			"description": "Recorded bulk mutations, newest first",
			"parameters": map[string]any{
				"limit":       "number (optional) - Page size (default 50)",
				"offset":      "number (optional) - Offset (default 0)",
				"change_type": "string (optional) - Filter by change type",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/imports/analyze",
			"description": "Parse a workbook, diff it against current prices and stage the changes",
			"parameters": map[string]any{
				"file": "file (optional) - xlsx or csv upload",
				"path": "string (optional) - Server-side workbook path",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/imports/:id/preview",
			"description": "Page through the staged changes of an analyzed import",
			"parameters": map[string]any{
				"page":        "number (optional) - Page number (default 1)",
				"per_page":    "number (optional) - Rows per page (default 50)",
				"change_type": "string (optional) - add|update|remove|error|unchanged",
				"data_type":   "string (optional) - base_prices|grinding|film",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/imports/:id/apply",
			"description": "Commit the staged changes of an analyzed import",
			"parameters": map[string]any{
				"mode":    "string (required) - update_existing|add_new|full_sync",
				"confirm": "boolean (required) - Must be true",
			},
		},
		{
			"method":      "DELETE",
			"path":        "/api/v1/imports/:id",
			"description": "Discard a staged import",
			"parameters":  map[string]any{},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/imports/history",
			"description": "Recorded import and export operations",
			"parameters": map[string]any{
				"operation_type": "string (optional) - import|export",
				"limit":          "number (optional) - Page size (default 50)",
				"offset":         "number (optional) - Offset (default 0)",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/exports/prices",
			"description": "Stream a styled workbook or CSV of the selected price data",
			"parameters": map[string]any{
				"type":   "string (required) - base_prices|grinding|film|modifiers|all",
				"format": "string (optional) - xlsx|csv (default xlsx)",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/materials",
			"description": "Catalog materials, optionally filtered by category or group",
			"parameters": map[string]any{
				"category":         "string (optional) - Material category",
				"group_id":         "number (optional) - Material group ID",
				"include_inactive": "boolean (optional) - Include inactive materials",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/materials",
			"description": "Add a material to the catalog",
			"parameters": map[string]any{
				"grade":    "string (required) - Material grade",
				"name":     "string (required) - Display name",
				"category": "string (required) - stal_nierdzewna|stal_czarna|aluminium",
				"density":  "number (optional) - g/cm3, defaults from the standard grade table",
			},
		},
		{
			"method":      "POST",
			"path":        "/api/v1/materials/seed",
			"description": "Create any standard grades missing from the catalog",
			"parameters":  map[string]any{},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/material-groups",
			"description": "Material groups with active material counts",
			"parameters": map[string]any{
				"category": "string (optional) - Material category",
			},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/processing-options",
			"description": "Per-finish processing compatibility rules",
			"parameters":  map[string]any{},
		},
		{
			"method":      "GET",
			"path":        "/api/v1/health",
			"description": "Health check endpoint",
			"parameters":  map[string]any{},
		},
	}
}
