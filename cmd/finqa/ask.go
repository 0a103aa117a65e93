package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func askCMD(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Answer one question and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.log.Sync()

			syn, err := a.synthesizer()
			if err != nil {
				return err
			}
			ans, err := syn.Synthesize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(ans)
		},
	}
}
