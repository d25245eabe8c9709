package main

import (
	server "smartbanner/internal/app/server"
	"smartbanner/internal/config"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg.Server.LogLevel)
	server.Run(cfg)
}
