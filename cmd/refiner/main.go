package main

import (
	"fmt"
	"os"

	"github.com/riskibarqy/boxscore-refiner/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "refiner:", err)
		os.Exit(1)
	}
}
