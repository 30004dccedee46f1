// Package main is the entry point for the shard CLI.
package main

import "github.com/deltadevsde/shard/cmd"

func main() {
	cmd.Execute()
}
