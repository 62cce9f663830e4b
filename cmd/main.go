package main

import (
	"fmt"
	"os"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, color.Red.Sprintf("msgkit: %v", err))
	}
	os.Exit(code)
}

// run loads the configuration then hands over to the command tree.
// Storage is only opened by the commands that need it.
func run(args []string) (int, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	root := newRootCommand(&app{config: config, log: log})
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}
