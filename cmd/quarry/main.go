package main

import (
	"os"

	"github.com/quarrydb/quarry-go/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
