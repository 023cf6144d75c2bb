// Package main is the entry point for the codeatlas application: an API
// server, background analysis worker, and one-shot CLI for analyzing
// JavaScript/TypeScript projects through their syntax trees.
package main

import "codeatlas/cmd"

func main() {
	cmd.Execute()
}
