// Command server runs the webapp account service.
package main

import (
	"context"
	"log"

	"github.com/csye-webapp/webapp/internal/server"
	"github.com/csye-webapp/webapp/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	app.Run(context.Background())
}
