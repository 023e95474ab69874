package main

import (
	"os"

	"github.com/ariel-frischer/scriv/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
