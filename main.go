package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/amirhf/clipfeed/services/search-go/cmd"
)

func main() {
	// Load .env (optional, for local dev)
	_ = godotenv.Load()

	os.Exit(run(logrus.StandardLogger(), os.Args[1:]))
}

func run(log logrus.FieldLogger, args []string) int {
	if err := cmd.Execute(args); err != nil {
		log.WithError(err).Error("clipsearch failed")
		return 1
	}
	return 0
}
