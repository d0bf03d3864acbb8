package cmd

import (
	"fmt"
	"os"

	"document-manager/feature/results"
	"document-manager/feature/results/render"

	"github.com/spf13/cobra"
)

var renderOutput string

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <event.json>",
	Short: "Render an appointment result event to a local PDF",
	Long:  `Decodes an appointment result event from a JSON file and writes the report without touching the object store.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		event, err := results.DecodeEvent(body)
		if err != nil {
			return err
		}
		doc, err := render.NewPDFRenderer().Render(event)
		if err != nil {
			return err
		}

		out := renderOutput
		if out == "" {
			out = event.StorageKey()
		}
		if err := os.WriteFile(out, doc, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(doc))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default <resultId>.pdf)")
	RootCmd.AddCommand(renderCmd)
}
