package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sthmu/Student-Manager/config"
	"github.com/sthmu/Student-Manager/database"
	"github.com/sthmu/Student-Manager/handlers"
	"github.com/sthmu/Student-Manager/repository"
	"github.com/sthmu/Student-Manager/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.AdminCode == "" {
		log.Printf("warn: ADMIN_REGISTRATION_CODE is not set; registration is disabled")
	}
	if cfg.JWTSecret == "dev-secret" {
		log.Printf("warn: JWT_SECRET is not set; using the dev default")
	}

	db := database.Connect(cfg)
	if err := database.Bootstrap(db); err != nil {
		// Startup continues; requests against a broken schema will fail
		// individually and /health will report the state.
		log.Printf("warn: schema bootstrap failed: %v", err)
	}

	users := repository.NewUserRepository(db)
	students := repository.NewStudentRepository(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, routes.Deps{
		Auth:     handlers.NewAuthHandler(users, cfg),
		Students: handlers.NewStudentHandler(students),
		Health: handlers.NewHealthHandler(func() database.Status {
			return database.GetStatus(db)
		}),
		JWTSecret: cfg.JWTSecret,
	})

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
