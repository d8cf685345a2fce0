package main

import (
	"fmt"

	"github.com/tyemirov/dirtree/internal/cli"
	"github.com/tyemirov/dirtree/internal/utils"
)

// main is the entry point for the dirtree command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer func() { _ = loggerInstance.Sync() }()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
