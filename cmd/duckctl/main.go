package main

import "github.com/mcoot/duckrace/internal/cli"

func main() {
	cli.Execute()
}
