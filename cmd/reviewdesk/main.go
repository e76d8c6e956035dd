package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"github.com/ManuelReschke/ReviewDesk/app/repository"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/account"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/database"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/env"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/router"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/session"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/workflow"
)

func main() {
	env.SetupEnvFile()
	db := database.SetupDatabase(database.ConfigFromEnv())
	defer database.Close(db)

	app := NewApplication(db)
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication(db *gorm.DB) *fiber.App {
	repos := repository.NewFactory(db)

	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/reviewdesk to project root
		"../../../", // Fallback
	}

	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public/docs/v1/openapi.yml"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	app := fiber.New(fiber.Config{
		AppName: "ReviewDesk",
	})

	// recovery, request ids and logging
	app.Use(recover.New(), requestid.New(), logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Repos:     repos,
		Engine:    workflow.NewEngine(repos),
		Accounts:  account.NewService(repos),
		Sessions:  session.NewStore(session.ConfigFromEnv()),
		AuthLimit: env.GetEnvInt("AUTH_RATE_LIMIT", 20),
	})

	return app
}
