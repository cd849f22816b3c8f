// Comando migrate aplica las migraciones goose embebidas sin levantar la API.
//
//	go run ./cmd/migrate -cmd up
//	go run ./cmd/migrate -cmd down
//	go run ./cmd/migrate -cmd status
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Catalogo-api/pkg/config"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

func main() {
	command := flag.String("cmd", "up", "comando goose: up, down, status, version, redo, reset")
	timeout := flag.Duration("timeout", 5*time.Minute, "tiempo máximo de ejecución")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrate")

	db, err := postgres.OpenDB(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir base de datos")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := postgres.RunMigrations(ctx, db, *command, flag.Args()...); err != nil {
		log.Error().Err(err).Str("cmd", *command).Msg("migración fallida")
		os.Exit(1)
	}
	log.Info().Str("cmd", *command).Msg("migración completada")
}
