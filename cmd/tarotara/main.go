package main

import "github.com/tarotara/tarotara/cmd/tarotara/cli"

func main() {
	cli.Execute()
}
