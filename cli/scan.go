package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/kvesta/hostvuln/config"
	"github.com/kvesta/hostvuln/internal"
	"github.com/kvesta/hostvuln/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	inventoryFile string
	noAudit       bool
)

// scanFlags maps the scan flags onto configuration keys.
var scanFlags = map[string]string{
	"output":  "output.path",
	"format":  "output.format",
	"open":    "output.open",
	"workers": "scan.workers",
	"cache":   "cache.enabled",
	"api-key": "nvd.api_key",
}

func newScanCommand() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [OPTIONS]",
		Short: "Scan the installed software and host configuration",
		Long: `Examples:
  # Scan this host
  $ hostvuln scan

  # Scan an exported inventory and write both report formats
  $ hostvuln scan --inventory packages.yaml --format both -o reports/host.html

  # Use an NVD API key and four workers
  $ HOSTVULN_NVD_API_KEY=<key> hostvuln scan --workers 4 --delay 1s`,
		Args: NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScanSettings(cmd)
			if err != nil {
				return err
			}

			closer, err := logger.Setup(s.Log)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			_, err = internal.DoScan(ctx, s, inventoryFile)
			return err
		},
	}

	flags := scanCmd.Flags()
	flags.StringVar(&inventoryFile, "inventory", "", "read the inventory from a yaml or json file")
	flags.StringP("output", "o", "output", "output file location")
	flags.String("format", "html", "report format: html, json, both or none")
	flags.Bool("open", false, "open the report when the scan is done")
	flags.Int("workers", 1, "number of concurrent NVD queries")
	flags.Bool("cache", false, "cache NVD responses on disk")
	flags.String("api-key", "", "NVD API key")
	flags.Duration("delay", 0, "minimum spacing between NVD requests")
	flags.BoolVar(&noAudit, "no-audit", false, "skip the host configuration audit")

	return scanCmd
}

func loadScanSettings(cmd *cobra.Command) (*config.Settings, error) {
	v, err := config.NewViper(cfgFile)
	if err != nil {
		return nil, err
	}

	if err = bindFlags(v, cmd); err != nil {
		return nil, err
	}

	s, err := config.FromViper(v)
	if err != nil {
		return nil, err
	}

	if noAudit {
		s.Scan.Audit = false
	}

	return s, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range scanFlags {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}

	// only an explicit delay overrides the configured pacing
	if cmd.Flags().Changed("delay") {
		d, _ := cmd.Flags().GetDuration("delay")
		v.Set("nvd.delay", d)
	}

	return nil
}
