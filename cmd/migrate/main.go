// Comando migrate: aplica o revierte el esquema de la base de datos.
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
//	go run ./cmd/migrate version
//	go run ./cmd/migrate force 1
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/bakery-stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bakery-stock-api/pkg/config"
	"github.com/jhoicas/bakery-stock-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: migrate up|down|version|force <version>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		var (
			v     uint
			dirty bool
		)
		v, dirty, err = m.Version()
		if err == nil {
			fmt.Printf("versión %d (dirty=%t)\n", v, dirty)
		}
	case "force":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "uso: migrate force <version>")
			os.Exit(2)
		}
		var v int
		v, err = strconv.Atoi(os.Args[2])
		if err == nil {
			err = m.Force(v)
		}
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q\n", os.Args[1])
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", os.Args[1]).Msg("migración fallida")
		os.Exit(1)
	}
}
