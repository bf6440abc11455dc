package main

import (
	"github.com/joho/godotenv"

	"github.com/scoutops/mbc-pipeline/internal/cli"
)

func main() {
	// Optional .env for MBC_ overrides and credentials paths; a missing
	// file is fine.
	godotenv.Load() // nolint:errcheck

	cli.Execute()
}
