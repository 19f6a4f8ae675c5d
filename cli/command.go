package cli

import (
	"fmt"

	"github.com/kvesta/hostvuln/config"
	"github.com/kvesta/hostvuln/pkg/vulnlib"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	resetCache bool
)

// NewRootCommand builds the hostvuln command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hostvuln [OPTIONS]",
		Short: "Host vulnerability scanner",
		Long: `hostvuln inventories the software installed on this host, looks every
known product up in the NVD, flags the CVEs listed in CISA's Known Exploited
Vulnerabilities catalog and audits a few host security settings.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information and quit",
		Args:  NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hostvuln %s\n", config.Version)
		},
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve <name> [version]",
		Short: "Print the CPE an installed package maps to",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			version := ""
			if len(args) > 1 {
				version = args[1]
			}

			id, ok := s.IdentifierMap().Resolve(args[0], version)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "not mapped")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		},
	}

	// Manage the NVD response cache
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Show or reset the NVD response cache",
		Args:  NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			if !resetCache {
				fmt.Fprintf(cmd.OutOrStdout(), "cache: %s (enabled: %t, ttl: %s)\n",
					s.Cache.Path, s.Cache.Enabled, s.Cache.TTL)
				return nil
			}

			if err = vulnlib.ResetCache(s.Cache.Path); err != nil {
				return fmt.Errorf("resetting cache failed: %w", err)
			}

			log.Print(config.Green("Resetting cache success"))
			return nil
		},
	}

	cacheCmd.Flags().BoolVarP(&resetCache, "reset", "r", false, "remove the cache database")

	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}
