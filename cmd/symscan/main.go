package main

import (
	"github.com/symscan/symscan/cmd/symscan/cmd"
)

func main() {
	cmd.Execute()
}
