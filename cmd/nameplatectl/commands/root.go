package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nameplate/internal/config"
	"nameplate/internal/domain"
	"nameplate/internal/infra/logging"
)

type rootOptions struct {
	configPath string
	verbose    bool
	cfg        config.Config
}

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:           "nameplatectl",
		Short:         "Lay out and export nameplate label orders",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if o.verbose {
				level = "debug"
			}
			logging.InitConsole(cmd.ErrOrStderr(), level)

			if o.configPath == "" {
				o.cfg = config.Defaults()
				return nil
			}
			cfg, err := loadConfig(o.configPath)
			if err != nil {
				return err
			}
			o.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "service config file (default: built-in defaults)")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(renderCmd(o), summaryCmd(o), tableCmd(o))
	return root
}

// loadConfig turns the loader's panic on invalid values into an error.
func loadConfig(path string) (cfg config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrConfiguration, r)
		}
	}()
	return config.LoadFrom(path), nil
}

// readOrder decodes an order from path, or from stdin when path is "-".
func readOrder(cmd *cobra.Command, path string) (*domain.OrderRequest, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var order domain.OrderRequest
	if err := json.NewDecoder(r).Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: decode order: %v", domain.ErrValidation, err)
	}
	return &order, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
