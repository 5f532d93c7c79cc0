package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hupe1980/modelcompat"
	"github.com/hupe1980/modelcompat/blobstore"
	"github.com/hupe1980/modelcompat/catalog"
	"github.com/hupe1980/modelcompat/catalog/dynamodb"
	"github.com/hupe1980/modelcompat/config"
	"github.com/hupe1980/modelcompat/prommetrics"
	"github.com/hupe1980/modelcompat/render"
	"github.com/hupe1980/modelcompat/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newVersionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the catalog, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ex, err := a.newExplorer(cmd.Context())
			if err != nil {
				return err
			}
			versions := ex.Catalog().Versions()
			if a.output == outputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(versions)
			}
			return render.Versions(cmd.OutOrStdout(), versions)
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <version>",
		Short: "Show the models supported by one version",
		Long: `Show the models supported by one version.

A version is selected by its catalog index, its version label or its
display name (case-insensitive).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := a.newExplorer(cmd.Context())
			if err != nil {
				return err
			}
			idx, err := ex.Catalog().Resolve(args[0])
			if err != nil {
				return err
			}
			v, err := ex.Single(cmd.Context(), idx)
			if err != nil {
				return err
			}
			return a.emit(cmd, v)
		},
	}
}

func newIntersectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "intersect <min> <max>",
		Short: "Show the models supported by every version in a range",
		Long: `Show the models supported by every version from <min> to <max>, inclusive.

The bounds may be given in either order. Versions whose data cannot be
loaded are skipped and reported; the result may then be incomplete.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := a.newExplorer(cmd.Context())
			if err != nil {
				return err
			}
			lo, hi, err := resolvePair(ex.Catalog(), args[0], args[1])
			if err != nil {
				return err
			}
			v, err := ex.Intersect(cmd.Context(), lo, hi)
			if err != nil {
				return err
			}
			return a.emit(cmd, v)
		},
	}
}

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "diff <older> <newer>",
		Aliases: []string{"dropped"},
		Short:   "Show the models dropped between two versions",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := a.newExplorer(cmd.Context())
			if err != nil {
				return err
			}
			older, newer, err := resolvePair(ex.Catalog(), args[0], args[1])
			if err != nil {
				return err
			}
			if newer <= older {
				return fmt.Errorf("%q must be newer than %q", args[1], args[0])
			}
			v, err := ex.Difference(cmd.Context(), older, newer)
			if err != nil {
				return err
			}
			return a.emit(cmd, v)
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the explorer over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			var (
				exOpts  []modelcompat.Option
				srvOpts = []server.Option{server.WithLogger(a.logger)}
			)
			if a.cfg.Server.Metrics {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				mc, err := prommetrics.New(reg)
				if err != nil {
					return err
				}
				exOpts = append(exOpts, modelcompat.WithMetricsCollector(mc))
				srvOpts = append(srvOpts, server.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
			}

			ex, err := a.newExplorer(cmd.Context(), exOpts...)
			if err != nil {
				return err
			}
			return server.New(ex, srvOpts...).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the version catalog",
	}
	cmd.AddCommand(newCatalogPublishCmd(a))
	return cmd
}

func newCatalogPublishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <index.json>",
		Short: "Publish a catalog document to the configured DynamoDB table",
		Long: `Publish writes every version of the catalog document in one DynamoDB
transaction. If any position of the catalog already exists nothing is
written.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Catalog.Kind != config.CatalogDynamoDB {
				return fmt.Errorf("catalog publish requires catalog.kind %q", config.CatalogDynamoDB)
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			c, err := catalog.Decode(data)
			if err != nil {
				return err
			}
			src, err := dynamodb.New(cmd.Context(), a.cfg.Catalog.Table, a.cfg.Catalog.Name, a.cfg.Catalog.Region)
			if err != nil {
				return err
			}
			if err := src.Publish(cmd.Context(), c.Versions()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %d versions to %s\n", c.Len(), a.cfg.Catalog.Table)
			return nil
		},
	}
}

func resolvePair(c *catalog.Catalog, a, b string) (int, int, error) {
	first, err := c.Resolve(a)
	if err != nil {
		return 0, 0, err
	}
	second, err := c.Resolve(b)
	if err != nil {
		return 0, 0, err
	}
	return first, second, nil
}

// emit writes v in the selected format and exports it when --export is set.
func (a *app) emit(cmd *cobra.Command, v modelcompat.View) error {
	out := cmd.OutOrStdout()

	switch a.output {
	case outputJSON:
		if err := modelcompat.WriteJSON(out, v.Models); err != nil {
			return err
		}
		fmt.Fprintln(out)
		// stdout stays a parseable document; the warning goes to stderr.
		if warning := v.Warning(); warning != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), warning)
		}
	default:
		var opts []render.Option
		if a.noAge {
			opts = append(opts, render.WithoutAge())
		}
		if err := render.Text(out, v, time.Now(), opts...); err != nil {
			return err
		}
	}

	if a.exportDir == "" {
		return nil
	}
	return a.export(cmd.Context(), cmd, v)
}

func (a *app) export(ctx context.Context, cmd *cobra.Command, v modelcompat.View) error {
	name, err := modelcompat.Export(ctx, blobstore.NewLocalStore(a.exportDir), v)
	if errors.Is(err, modelcompat.ErrEmptyResult) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Nothing to export.")
		return nil
	}
	a.logger.LogExport(ctx, name, err)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s (%d models)\n", name, len(v.Models))
	return nil
}
