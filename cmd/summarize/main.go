package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/summarize/internal/cli"
	"github.com/temirov/summarize/internal/utils"
)

// main is the entry point for the summarize command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer func() { _ = loggerInstance.Sync() }()
	if applicationExecutionError := cli.Execute(context.Background()); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
	}
}
