package main

import "github.com/rustyeddy/equitysim/internal/cli"

func main() {
	cli.Execute()
}
