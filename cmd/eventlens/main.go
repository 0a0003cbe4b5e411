package main

import (
	"github.com/eventlens-io/eventlens/cmd"
)

func main() {
	cmd.Execute()
}
