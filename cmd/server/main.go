package main

import (
	"context"
	"net/http"
	"os"

	webAdapter "stockpos/internal/adapters/web"
	"stockpos/internal/app"
	"stockpos/internal/core"
	"stockpos/internal/db"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer pool.Close()

	userService := core.NewUserService(pool)
	customerService := core.NewCustomerService(pool)
	productService := core.NewProductService(pool)
	saleService := core.NewSaleService(pool)

	svc := app.NewAppService(pool, userService, customerService, productService, saleService)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}
