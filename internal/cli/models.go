package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"folio/internal/capabilities"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models folio knows the capabilities of",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry, err := capabilities.NewRegistry()
		if err != nil {
			return err
		}
		return printModels(cmd.OutOrStdout(), registry)
	},
}

// printModels writes one row per model, providers sorted, models in file order.
func printModels(w io.Writer, registry *capabilities.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tMODEL\tTOOLS\tJSON\tCONTEXT")
	for _, provider := range registry.GetAllProviders() {
		models, err := registry.ListProviderModels(provider)
		if err != nil {
			return err
		}
		for _, m := range models {
			window := "-"
			if m.ContextWindow > 0 {
				window = fmt.Sprintf("%d", m.ContextWindow)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", provider, m.ID, yesNo(m.SupportsTools), yesNo(m.SupportsJSONOutput), window)
		}
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
