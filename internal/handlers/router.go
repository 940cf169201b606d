package handlers

import (
	"crm-backend/internal/auth"
	"crm-backend/internal/control"
	"crm-backend/internal/database"
	"crm-backend/internal/uploads"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP API is built from
type Dependencies struct {
	DB          *database.GormDB
	Control     *control.Service
	Churn       ChurnReporter
	Auth        *auth.Manager
	Sender      Sender
	Uploads     *uploads.Store
	Index       ClientIndex // optional
	CORSOrigins []string
}

// SetupRouter registers every route. Everything except /login, /health and
// the uploaded files requires a bearer token.
func SetupRouter(deps Dependencies) *gin.Engine {
	useJSONFieldNames()

	r := gin.Default()
	r.Use(cors.New(corsConfig(deps.CORSOrigins)))

	adminHandler := NewAdminHandler(deps.DB)
	authHandler := NewAuthHandler(deps.Auth)
	clientHandler := NewClientHandler(deps.DB, deps.Index)
	movementHandler := NewMovementHandler(deps.DB)
	broadcastHandler := NewBroadcastHandler(deps.DB, deps.Sender)
	churnHandler := NewChurnHandler(deps.Churn, deps.Control)
	uploadHandler := NewUploadHandler(deps.Uploads)
	whatsappHandler := NewWhatsAppHandler(deps.Sender)

	r.GET("/health", adminHandler.Health)
	r.POST("/login", authHandler.Login)
	r.Static("/uploads", deps.Uploads.Dir())

	api := r.Group("/", deps.Auth.Middleware())
	{
		api.GET("/me", authHandler.Me)
		api.GET("/stats", adminHandler.GetStats)

		clientes := api.Group("/clientes")
		clientes.GET("", clientHandler.List)
		clientes.GET("/filtrar", clientHandler.Filter)
		clientes.GET("/buscar", clientHandler.Search)
		clientes.GET("/:id", clientHandler.Get)
		clientes.POST("", clientHandler.Create)
		clientes.PUT("/:id", clientHandler.Update)
		clientes.DELETE("/:id", clientHandler.Delete)

		movimientos := api.Group("/movimientos")
		movimientos.GET("", movementHandler.List)
		movimientos.GET("/:id", movementHandler.Get)
		movimientos.POST("", movementHandler.Create)
		movimientos.DELETE("/:id", movementHandler.Delete)

		difusiones := api.Group("/difusiones")
		difusiones.GET("", broadcastHandler.List)
		difusiones.GET("/:id", broadcastHandler.Get)
		difusiones.POST("", broadcastHandler.Create)
		difusiones.POST("/programar", broadcastHandler.Schedule)
		difusiones.POST("/:id/enviar", broadcastHandler.Send)
		difusiones.PUT("/:id", broadcastHandler.Update)
		difusiones.DELETE("/:id", broadcastHandler.Delete)

		churn := api.Group("/churn")
		churn.GET("", churnHandler.Report)
		churn.GET("/control/variables", churnHandler.GetVariables)
		churn.PUT("/control/variables", churnHandler.UpdateVariables)
		churn.GET("/control/frequencies", churnHandler.ListFrequencies)
		churn.PUT("/control/frequencies/:id", churnHandler.UpdateFrequency)

		api.POST("/upload-image", uploadHandler.UploadImage)
		api.POST("/whatsapp/send", whatsappHandler.Send)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
