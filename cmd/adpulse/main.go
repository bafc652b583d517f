package main

import "github.com/emiliopalmerini/adpulse/internal/cli"

func main() {
	cli.Execute()
}
