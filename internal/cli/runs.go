package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gasket/pkg/errors"
	pkgio "github.com/matzehuels/gasket/pkg/io"
	"github.com/matzehuels/gasket/pkg/pipeline"
	"github.com/matzehuels/gasket/pkg/store"
)

// runsCommand creates the runs command for managing saved runs.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Manage saved runs",
		Long: `Manage runs saved with 'gasket generate --save' or the HTTP API.

The run store backend is selected by the [store] section of the config file.`,
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())
	cmd.AddCommand(c.runsDeleteCommand())

	return cmd
}

func (c *CLI) runsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				runs, err := st.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					printInfo("No saved runs")
					return nil
				}
				for _, run := range runs {
					printRun(run)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of runs to list")

	return cmd
}

func (c *CLI) runsShowCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print a saved run as JSON or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				run, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				data, err := runArtifact(run, format, detailed)
				if err != nil {
					return err
				}
				if output == "" {
					_, err := os.Stdout.Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				printSuccess("Run %s written", run.ID)
				printFile(output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatJSON, "output format: json, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add center coordinates to DOT labels")

	return cmd
}

func (c *CLI) runsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted run %s", args[0])
				return nil
			})
		},
	}
}

// withStore opens the configured run store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

// runArtifact renders a stored run in format.
func runArtifact(run *store.Run, format string, detailed bool) ([]byte, error) {
	if format == pipeline.FormatJSON {
		return run.Document, nil
	}
	doc, err := pkgio.UnmarshalDocument(run.Document)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "stored run %s is corrupt", run.ID)
	}
	g, err := doc.Gasket()
	if err != nil {
		return nil, err
	}
	return []byte(pkgio.ToDOT(g, pkgio.DOTOptions{Detailed: detailed})), nil
}

// printRun prints one run summary line.
func printRun(run *store.Run) {
	s := run.Summary
	fmt.Println(StyleHighlight.Render(run.ID) + "  " +
		StyleDim.Render(run.CreatedAt.Local().Format(time.DateTime)) + "  " +
		StyleValue.Render(fmt.Sprintf("%-7s depth %-2d", s.Policy, s.MaxDepth)) + " " +
		StyleNumber.Render(fmt.Sprintf("%d circles", s.Circles)))
}
