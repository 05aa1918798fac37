package cmd

import (
	"encoding/json"

	"github.com/nekruzvatanshoev/addrsuggest/pkg/addrsuggest/dal"
	"github.com/spf13/cobra"
)

var (
	LookupCmd = &cobra.Command{
		Use:   LookupCmdName,
		Short: LookupCmdShort,
		Long:  LookupCmdLong,
		Args:  cobra.ExactArgs(1),
		RunE:  lookupCmdFunc(),
	}
)

func lookupCmdFunc() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		_, _, svc, cleanup, err := setup(cmd.Context(), cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer cleanup()

		suggestions := svc.Suggest(cmd.Context(), args[0])

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(dal.NewSuggestionResponse(suggestions))
	}
}
