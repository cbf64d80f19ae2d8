package main

import "toolbay/internal/cli"

func main() {
	cli.Execute()
}
