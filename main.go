package main

import "github.com/panglihaoshuai/context-summarizer-skill/frontend/cli/cmd"

func main() {
	cmd.Execute()
}
