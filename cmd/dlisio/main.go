package main

import (
	"github.com/jokva/dlisio/cmd/dlisio/cmd"
)

func main() {
	cmd.Execute()
}
