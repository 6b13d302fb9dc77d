package main

import (
	"fmt"
	"os"

	"github.com/taskflow/core/cmd/taskflow/commands"
)

// @title TaskFlow API
// @version 1.0
// @description Personal task list: add, edit, complete, star, archive and delete tasks

// @host localhost:8080
// @BasePath /api/v1

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
