package main

import (
	"github.com/brandpoint/intelligence-engine/internal/server"
	"github.com/brandpoint/intelligence-engine/internal/util"
	"github.com/brandpoint/intelligence-engine/pkg/logger"
	"github.com/brandpoint/intelligence-engine/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
