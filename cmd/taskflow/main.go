package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/taskflow/taskflow/docs" // generated swagger spec
	"github.com/taskflow/taskflow/internal/app"
	"github.com/taskflow/taskflow/pkg/logger"
)

// @title           TaskFlow API
// @version         1.0
// @description     Task management service with per-user tasks, dashboard and analytics.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	a, err := app.NewApp()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize app")
	}

	a.Server.Handler = setupSwagger(a.Server.Handler)

	if err := a.Run(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to run app")
	}
}

// setupSwagger mounts the Swagger UI in front of the API routes.
func setupSwagger(handler http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Mount("/", handler)

	return r
}
