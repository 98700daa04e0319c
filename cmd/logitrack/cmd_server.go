package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/logitrack/pkg/app"
)

// logitrack serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate, seed and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, flush, err := boot(ctx)
		if err != nil {
			return err
		}
		defer flush()

		a, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		if err := a.Initialize(ctx); err != nil {
			return err
		}
		return a.Serve(ctx)
	},
}

// logitrack route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, flush, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer flush()

		infos, err := app.RouteTable(cfg)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
