package commands

import (
	"github.com/spf13/cobra"

	"nameplate/internal/labels"
	"nameplate/internal/service"
)

func summaryCmd(root *rootOptions) *cobra.Command {
	var orderPath string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the webhook summary of an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := readOrder(cmd, orderPath)
			if err != nil {
				return err
			}
			e := &service.Exporter{MaxLabels: root.cfg.Limits.MaxLabels}
			if err := e.Prepare(order); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), labels.Summarize(order, "", ""))
		},
	}
	cmd.Flags().StringVarP(&orderPath, "order", "o", "", "order JSON file, or - for stdin")
	_ = cmd.MarkFlagRequired("order")
	return cmd
}
