package main

import (
	"github.com/toolsmith-dev/toolsmith/cmd"
	"github.com/toolsmith-dev/toolsmith/internal/config"
)

func main() {
	_ = config.LoadDotEnvFile(".env")
	cmd.Execute()
}
