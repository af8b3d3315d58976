package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/temperature-column-map/internal/weather"
)

func newFetchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch every point once and print the records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case "table", "json", "yaml":
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
			}

			d := buildDeps()
			res := d.pipeline.Run(cmd.Context(), d.registry.All())

			for _, w := range res.Warnings {
				cmd.PrintErrf("WARNING\t %s\n", w)
			}
			return writeRecords(cmd.OutOrStdout(), output, res.Records)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func writeRecords(w io.Writer, format string, records weather.ResultSet) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(records)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CITY\tTEMP (C)\tELEVATION (m)\tBUCKET")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%.1f\t%.0f\t%s\n", r.ID, r.TemperatureC, r.Elevation, r.Bucket)
	}
	return tw.Flush()
}
