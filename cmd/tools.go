package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lorekeeper/lorekeeper/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool definitions offered to the model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := tools.NewRegistry()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(reg.Definitions(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}
