package main

import (
	"database/sql"
	"log"

	"github.com/banachtech/smile/api"
	"github.com/banachtech/smile/config"
	db "github.com/banachtech/smile/db/sqlc"
	"github.com/banachtech/smile/logger"
	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("cannot load config: ", err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		log.Fatal("cannot init logger: ", err)
	}

	conn, err := sql.Open(cfg.DBDriver, cfg.DBSource)
	if err != nil {
		log.Fatal("cannot connect to db: ", err)
	}
	defer conn.Close()

	store := db.NewStore(conn)
	server := api.NewServer(cfg, store)

	logger.L().Info("starting server", "address", cfg.ServerAddress)
	if err := server.Start(cfg.ServerAddress); err != nil {
		logger.L().Error("server stopped", "error", err)
	}
}
