package main

import "github.com/verticut/verticut/internal/cli"

func main() {
	cli.Main()
}
