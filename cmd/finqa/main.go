package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var root = &cobra.Command{
		Use:           "finqa",
		Short:         "Answer financial questions from annual filings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML config file (default ./finqa.yaml, then ~/.config/finqa/config.yaml)")

	root.AddCommand(indexCMD(&cfgPath), askCMD(&cfgPath), tuiCMD(&cfgPath), serveCMD(&cfgPath))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
