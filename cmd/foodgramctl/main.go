// Package main provides foodgramctl, the operator tool for a Foodgram data
// directory: loading reference data, creating administrators and rebuilding
// the search index.
package main

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/foodgramapp/foodgram-server/internal/di"
)

// globalFlags are forwarded to the server's configuration loader so the
// tool sees the same data directory and settings as the server.
type globalFlags struct {
	dataPath string
	envFile  string
	logLevel string
}

func (g *globalFlags) configArgs() []string {
	args := []string{"-env-file", g.envFile, "-log-level", g.logLevel}
	if g.dataPath != "" {
		args = append(args, "-data-path", g.dataPath)
	}
	return args
}

// open builds the service graph without the HTTP server or background jobs.
func (g *globalFlags) open() (*do.RootScope, error) {
	injector := di.NewContainer(g.configArgs())
	if err := di.InitServices(injector); err != nil {
		_ = injector.Shutdown()
		return nil, err
	}
	return injector, nil
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "foodgramctl",
		Short: "Manage a Foodgram data directory",
		Long: `foodgramctl works directly on the server's data directory.

It loads ingredient and tag reference data, creates administrator accounts
and rebuilds the full-text search index. Stop the server before reindexing.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&g.dataPath, "data-path", "", "Data directory (default: $DATA_PATH or ~/Foodgram/data)")
	root.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "Path to .env file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newLoadCmd(g))
	root.AddCommand(newCreateAdminCmd(g))
	root.AddCommand(newReindexCmd(g))

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
