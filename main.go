// Package main is the entry point for the stringscan CLI.
package main

import "stringscan.dev/pkg/stringscan/cmd"

func main() {
	cmd.Execute()
}
