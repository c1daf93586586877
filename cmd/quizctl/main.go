package main

import (
	"github.com/triviad/triviad/internal/cli"
)

func main() {
	cli.Execute()
}
