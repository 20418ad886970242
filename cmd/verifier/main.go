package main

import (
	"github.com/plasmanet/plasma-go/cmd/verifier/cmd"
)

func main() {
	cmd.Execute()
}
