package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nameplate/internal/export"
	"nameplate/internal/labels"
	"nameplate/internal/service"
)

func tableCmd(root *rootOptions) *cobra.Command {
	var orderPath, xlsxPath string
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print spreadsheet rows for an order or an exported workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			var records [][]string
			if xlsxPath != "" {
				body, err := os.ReadFile(xlsxPath)
				if err != nil {
					return err
				}
				records, err = export.ReadSpreadsheet(body)
				if err != nil {
					return err
				}
			} else {
				order, err := readOrder(cmd, orderPath)
				if err != nil {
					return err
				}
				e := &service.Exporter{MaxLabels: root.cfg.Limits.MaxLabels}
				if err := e.Prepare(order); err != nil {
					return err
				}
				records = labels.BuildTable(order).Records()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range records {
				fmt.Fprintln(tw, strings.Join(r, "\t"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&orderPath, "order", "o", "", "order JSON file, or - for stdin")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "read rows back from an exported workbook")
	cmd.MarkFlagsOneRequired("order", "xlsx")
	cmd.MarkFlagsMutuallyExclusive("order", "xlsx")
	return cmd
}
