// Package cli implements certctl, the operator tool for the certificate
// service: reference lookups, migrations, development tokens and event tailing.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand assembles every certctl subcommand.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "certctl",
		Short:         "Operate the certificate compliance service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		ImpedanceCommand(),
		TemplatesCommand(),
		CodesCommand(),
		MigrateCommand(),
		TokenCommand(),
		EventsCommand(),
	)
	return root
}
