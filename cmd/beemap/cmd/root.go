/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/beemap/pkg/di"
)

var container *di.Container

// SetContainer injects the dependency container before Execute runs
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "beemap",
	Short: "beemap - write-optimized ordered map",
	Long: `beemap is an in-memory ordered map built on a buffered B-tree:
writes land in node buffers and are pushed toward the leaves lazily,
by reads. The CLI serves it over REST, drives benchmark workloads and
offers an interactive prompt.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
