// Package main is the entry point for the modelcard CLI tool.
package main

import (
	"github.com/featrix/modelcard/internal/cmd"
)

func main() {
	cmd.Execute()
}
