package main

import (
	"github.com/MeKo-Tech/craftdet/cmd/craftdet/cmd"
)

func main() {
	cmd.Execute()
}
