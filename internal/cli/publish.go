package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sourceflow/pkg/errors"
	"github.com/matzehuels/sourceflow/pkg/source"
	"github.com/matzehuels/sourceflow/pkg/store"
)

// publishCommand creates the publish command, which uploads a local sources
// config to the shared store under a name.
func (c *CLI) publishCommand() *cobra.Command {
	var name, mongoURI, database string

	cmd := &cobra.Command{
		Use:   "publish <config>",
		Short: "Publish a sources config to the shared store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "--name is required")
			}
			if mongoURI == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "--mongo is required")
			}
			return c.runPublish(cmd.Context(), args[0], name, mongoURI, database)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name to publish the config under")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB connection URI for the shared store")
	cmd.Flags().StringVar(&database, "database", "", "store database name (default sourceflow)")

	return cmd
}

func (c *CLI) runPublish(ctx context.Context, path, name, mongoURI, database string) error {
	config, err := source.LoadFile(path)
	if err != nil {
		return err
	}

	// Publishing a config nobody can resolve helps no one; check every key.
	for _, key := range config.Keys() {
		if _, err := source.Resolve(config, key); err != nil {
			return err
		}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("publishing %s", name))
	spinner.Start()

	s, err := store.NewMongoStore(ctx, mongoURI, database)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("could not reach the store: %v", err))
		return err
	}
	defer s.Close(ctx)

	if err := s.Publish(ctx, name, config); err != nil {
		spinner.StopWithError(fmt.Sprintf("publish failed: %v", err))
		return err
	}

	spinner.StopWithSuccess(fmt.Sprintf("published %s (%d sources)", name, len(config)))
	return nil
}

// configsCommand creates the configs command, which lists published configs
// or deletes one with --delete.
func (c *CLI) configsCommand() *cobra.Command {
	var mongoURI, database, deleteName string

	cmd := &cobra.Command{
		Use:   "configs",
		Short: "List or delete published configs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if mongoURI == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "--mongo is required")
			}
			return c.runConfigs(cmd.Context(), mongoURI, database, deleteName)
		},
	}

	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB connection URI for the shared store")
	cmd.Flags().StringVar(&database, "database", "", "store database name (default sourceflow)")
	cmd.Flags().StringVar(&deleteName, "delete", "", "delete the named config instead of listing")

	return cmd
}

func (c *CLI) runConfigs(ctx context.Context, mongoURI, database, deleteName string) error {
	s, err := store.NewMongoStore(ctx, mongoURI, database)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	if deleteName != "" {
		if err := s.Delete(ctx, deleteName); err != nil {
			return err
		}
		printSuccess("deleted %s", deleteName)
		return nil
	}

	records, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		printInfo("no configs published yet")
		return nil
	}

	fmt.Println(StyleTitle.Render("Published configs"))
	for _, record := range records {
		fmt.Printf("  %s %s %s\n",
			StyleValue.Render(record.Name),
			StyleDim.Render(fmt.Sprintf("%d sources", len(record.Config))),
			StyleDim.Render(record.UpdatedAt.Format("2006-01-02 15:04")),
		)
	}
	return nil
}
