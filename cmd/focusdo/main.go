package main

import "github.com/mkarpova/focusdo/internal/cli"

func main() {
	cli.Execute()
}
