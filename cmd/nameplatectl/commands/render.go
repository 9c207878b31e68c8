package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nameplate/internal/domain"
	"nameplate/internal/export"
	"nameplate/internal/infra/chrome"
	"nameplate/internal/notify"
	"nameplate/internal/service"
	"nameplate/internal/storage"
)

func renderCmd(root *rootOptions) *cobra.Command {
	var (
		orderPath string
		outDir    string
		format    string
		backend   string
		sendHook  bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an order into the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := readOrder(cmd, orderPath)
			if err != nil {
				return err
			}
			if format == "" {
				format = order.Format
			}
			f, err := domain.ParseFormat(format)
			if err != nil {
				return err
			}

			cfg := root.cfg
			if backend != "" {
				cfg.PDF.Backend = backend
			}
			var printer export.HTMLPrinter
			switch cfg.PDF.Backend {
			case "native":
			case "chrome":
				p := chrome.NewPrinter(cfg)
				defer p.Close()
				printer = p
			default:
				return fmt.Errorf("%w: unknown backend %q", domain.ErrConfiguration, cfg.PDF.Backend)
			}

			store, err := storage.NewLocal(outDir, "")
			if err != nil {
				return err
			}
			e := &service.Exporter{
				Renderer:         export.NewRenderer(cfg, printer),
				Store:            store,
				MaxLabels:        cfg.Limits.MaxLabels,
				MaxArtifactBytes: cfg.Limits.MaxArtifactBytes,
			}
			if sendHook {
				e.Notifier = notify.NewWebhook(cfg.Notify.WebhookURL, cfg.Notify.Timeout, cfg.Notify.SecretToken)
			}

			timeout := 2*time.Duration(cfg.PDF.TimeoutSecs)*time.Second + cfg.Notify.Timeout
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			res, err := e.Export(ctx, order, f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&orderPath, "order", "o", "", "order JSON file, or - for stdin")
	cmd.Flags().StringVar(&outDir, "out", "out", "directory the artifacts are written to")
	cmd.Flags().StringVarP(&format, "format", "f", "", "pdf, html or xlsx (default: the order's format, else pdf)")
	cmd.Flags().StringVar(&backend, "backend", "", "PDF backend: native or chrome (default: from config)")
	cmd.Flags().BoolVar(&sendHook, "notify", false, "post the order summary to notify.webhook_url")
	_ = cmd.MarkFlagRequired("order")
	return cmd
}
