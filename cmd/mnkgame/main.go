package main

import (
	"github.com/mcoot/mnkgame-go/internal/cli"
)

func main() {
	cli.Execute()
}
