package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"certhub/internal/certificate/compliance"
	"certhub/internal/certificate/severity"
	"certhub/internal/certificate/templates"
)

// ImpedanceCommand looks up the maximum permitted earth fault loop impedance.
func ImpedanceCommand() *cobra.Command {
	var (
		device string
		rating int
		table  bool
	)

	cmd := &cobra.Command{
		Use:   "impedance",
		Short: "Look up maximum Zs for a protective device",
		Long: `Look up the maximum permitted earth fault loop impedance (Zs) for a
protective device type and rating.

Examples:
  certctl impedance --device B --rating 32
  certctl impedance --table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if table {
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "DEVICE\tRATING\tMAX ZS")
				for _, e := range compliance.Table() {
					fmt.Fprintf(w, "%s\t%dA\t%.2f\n", e.Device, e.Rating, e.MaxZs)
				}
				return w.Flush()
			}

			deviceType, err := compliance.ParseDeviceType(device)
			if err != nil {
				return err
			}
			maxZs, ok := compliance.MaxImpedance(deviceType, rating)
			if !ok {
				fmt.Fprintf(out, "%s %dA: not in table\n", deviceType, rating)
				return nil
			}
			fmt.Fprintf(out, "%s %dA: %.2f ohm\n", deviceType, rating, maxZs)
			return nil
		},
	}

	cmd.Flags().StringVar(&device, "device", "", "Protective device type (B, C, D, RCBO, BS88, BS1361, BS1362, BS3036)")
	cmd.Flags().IntVar(&rating, "rating", 0, "Device rating in amps")
	cmd.Flags().BoolVar(&table, "table", false, "Print the whole table")
	cmd.MarkFlagsMutuallyExclusive("device", "table")
	cmd.MarkFlagsRequiredTogether("device", "rating")
	return cmd
}

// TemplatesCommand lists the circuit template catalogue.
func TemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List circuit templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tDESIGNATION\tDEVICE\tRCD")
			for _, t := range templates.All() {
				device := "-"
				if t.DeviceType != "" {
					device = fmt.Sprintf("%s%d", t.DeviceType, t.DeviceRating)
				}
				rcd := "-"
				if t.RCDRequired {
					rcd = fmt.Sprintf("%s %dmA", t.RCDType, t.RCDRatingMA)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Key, t.Designation, device, rcd)
			}
			return w.Flush()
		},
	}
}

// CodesCommand lists observation classification codes.
func CodesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List observation codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tLABEL\tPRIORITY\tACTION REQUIRED")
			for _, d := range severity.Definitions() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", d.Code, d.Label, d.Priority, d.ActionRequired)
			}
			return w.Flush()
		},
	}
}
