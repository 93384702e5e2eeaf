/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/derkv/cmd/derkv/cmd"
)

func main() {
	cmd.Execute()
}
