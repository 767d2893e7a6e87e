package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sourceflow/pkg/chart"
	"github.com/matzehuels/sourceflow/pkg/errors"
	"github.com/matzehuels/sourceflow/pkg/mermaid"
	"github.com/matzehuels/sourceflow/pkg/render"
	"github.com/matzehuels/sourceflow/pkg/source"
)

// Output formats for the diagram and legend commands.
const (
	formatMermaid = "mermaid"
	formatHTML    = "html"
	formatDOT     = "dot"
	formatSVG     = "svg"
)

// htmlDiagramHeight is the container height for generated HTML pages.
const htmlDiagramHeight = 600

// diagramOpts holds the command-line flags for the diagram command.
type diagramOpts struct {
	output string // output file path; empty means stdout or a key-derived default
	format string // mermaid, html, dot or svg
	store  storeOpts
}

// diagramCommand creates the diagram command, which renders the dependency
// diagram for a single source key.
func (c *CLI) diagramCommand() *cobra.Command {
	opts := diagramOpts{format: formatMermaid}

	cmd := &cobra.Command{
		Use:   "diagram [config] <key>",
		Short: "Render the dependency diagram for a source key",
		Long: `Render the dependency diagram for a source key.

The config is read from a local YAML or TOML file, or from the shared store
with --from-store. Output defaults to mermaid markup on stdout; html and svg
are written to a file derived from the key unless -o is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, key, err := splitConfigArgs(args, opts.store)
			if err != nil {
				return err
			}
			return c.runDiagram(cmd.Context(), path, key, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout or <key>.<ext>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: mermaid (default), html, dot, svg")
	opts.store.register(cmd)

	return cmd
}

// splitConfigArgs resolves the positional arguments: with --from-store only
// the key is expected, otherwise a config path followed by the key.
func splitConfigArgs(args []string, store storeOpts) (path, key string, err error) {
	if store.fromStore != "" {
		if len(args) != 1 {
			return "", "", errors.New(errors.ErrCodeInvalidConfig,
				"--from-store takes a single key argument")
		}
		return "", args[0], nil
	}
	if len(args) != 2 {
		return "", "", errors.New(errors.ErrCodeInvalidConfig,
			"expected a config file and a source key (or use --from-store)")
	}
	return args[0], args[1], nil
}

func (c *CLI) runDiagram(ctx context.Context, path, key string, opts *diagramOpts) error {
	config, err := c.loadConfig(ctx, path, opts.store)
	if err != nil {
		return err
	}

	p := newProgress(c.Logger)
	tree, err := source.Resolve(config, key)
	if err != nil {
		return err
	}
	flow, err := chart.Build(mermaid.NewFlowchart(), tree)
	if err != nil {
		return err
	}

	switch opts.format {
	case formatMermaid:
		if err := writeText(flow.Markup(), opts.output); err != nil {
			return err
		}
	case formatHTML:
		page, err := mermaid.HTML(flow.Markup(), mermaid.DisplayOptions{
			Height:    htmlDiagramHeight,
			Scrolling: true,
		})
		if err != nil {
			return err
		}
		if err := writeFile(page, defaultOutput(opts.output, key, "html")); err != nil {
			return err
		}
	case formatDOT:
		if err := writeText(render.ToDOT(flow), opts.output); err != nil {
			return err
		}
	case formatSVG:
		svg, err := render.ToSVG(ctx, render.ToDOT(flow))
		if err != nil {
			return err
		}
		if err := writeFile(string(svg), defaultOutput(opts.output, key, "svg")); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat,
			"unknown format %q: must be mermaid, html, dot or svg", opts.format)
	}

	p.done(fmt.Sprintf("Rendered diagram for %s", key))
	return nil
}

// defaultOutput derives the output filename from the source key when no -o
// flag was given.
func defaultOutput(output, key, ext string) string {
	if output != "" {
		return output
	}
	return key + "." + ext
}

// writeText prints to stdout, or to a file when an output path is set.
func writeText(text, output string) error {
	if output == "" {
		fmt.Println(text)
		return nil
	}
	return writeFile(text, output)
}

func writeFile(text, path string) error {
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	printFile(path)
	return nil
}
