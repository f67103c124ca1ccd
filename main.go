// Package main is the entry point for the legendscope CLI, which scores League
// of Legends match history into playstyle and faultlines analyses and serves
// them over HTTP.
package main

import "github.com/legendscope/legendscope/cmd"

func main() {
	cmd.Execute()
}
