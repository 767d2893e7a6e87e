package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sourceflow/pkg/chart"
	"github.com/matzehuels/sourceflow/pkg/errors"
	"github.com/matzehuels/sourceflow/pkg/mermaid"
)

// htmlLegendHeight is the container height for each legend chart in HTML output.
const htmlLegendHeight = 250

// legendCommand creates the legend command, which renders the key charts
// explaining node shapes and path styles.
func (c *CLI) legendCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Render the diagram key charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, paths := chart.Legend()

			switch format {
			case formatMermaid:
				text := fmt.Sprintf("%%%% Node key\n%s\n\n%%%% Path key\n%s", nodes.Markup(), paths.Markup())
				return writeText(text, output)
			case formatHTML:
				page, err := legendHTML(nodes, paths)
				if err != nil {
					return err
				}
				return writeFile(page, defaultOutput(output, "legend", "html"))
			default:
				return errors.New(errors.ErrCodeInvalidFormat,
					"unknown format %q: must be mermaid or html", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatMermaid, "output format: mermaid (default), html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout or legend.html)")

	return cmd
}

// legendHTML renders both legend charts into one page.
func legendHTML(nodes, paths *mermaid.Flowchart) (string, error) {
	return mermaid.HTMLPage(
		[]string{nodes.Markup(), paths.Markup()},
		mermaid.DisplayOptions{Height: htmlLegendHeight},
	)
}
