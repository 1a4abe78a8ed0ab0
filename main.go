package main

import "github.com/s22625/planwatch/internal/cli"

func main() {
	cli.Execute()
}
