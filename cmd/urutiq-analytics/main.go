package main

import (
	"os"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
