package cli

import (
	"fmt"

	"ordinance-go/internal/controller"
	"ordinance-go/internal/help"

	"github.com/spf13/cobra"
)

var helpAPICmd = &cobra.Command{
	Use:       "help-api [gemini|openai]",
	Short:     "API 키 발급 안내",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(help.Gemini), string(help.OpenAI)},
	RunE:      runHelpAPI,
}

func init() {
	rootCmd.AddCommand(helpAPICmd)
}

func runHelpAPI(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, p := range help.Providers() {
			printer.Print("%s", p)
		}
		return nil
	}

	text, ok := help.Text(help.Provider(args[0]))
	if !ok {
		return fmt.Errorf("%w: %s", controller.ErrUnknownProvider, args[0])
	}
	printer.Print("%s", text)
	return nil
}
