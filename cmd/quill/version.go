package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quill/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the quill version",
	Run:   runVersion,
}

func init() {
	versionCmd.Flags().Bool("plain", false, "print the bare version string")
}

func runVersion(cmd *cobra.Command, _ []string) {
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		fmt.Println(version.Plain())
		return
	}
	useColor(cmd)
	fmt.Println("quill", version.Version)
	if version.GitCommit != "" {
		fmt.Println("commit:", version.GitCommit)
	}
	if version.BuildDate != "" {
		fmt.Println("built:", version.BuildDate)
	}
}
