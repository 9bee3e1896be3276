package main

import "github.com/mcoot/supertictactoe/internal/cli"

func main() {
	cli.Execute()
}
