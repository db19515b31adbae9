package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Andii-12/Deltasoft-backend/internal/di"
	"github.com/Andii-12/Deltasoft-backend/internal/structures"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly.
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging to console")
	flag.Parse()

	flags := &structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	}

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "deltasoft: %s\n", err)
		os.Exit(1)
	}
}
