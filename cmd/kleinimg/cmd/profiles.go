package cmd

import (
	"fmt"
	"text/tabwriter"

	"kleinimg/internal/compression"

	"github.com/spf13/cobra"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "Lists the compression profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBOX\tQUALITY\tBUDGET\tFORMAT\tUSED FOR")
			for _, p := range compression.Profiles() {
				fmt.Fprintf(w, "%s\t%dx%d\t%.2f\t%d KB\t%s\t%s\n",
					p.Name, p.MaxWidth, p.MaxHeight, p.InitialQuality, p.MaxSizeKB, p.Format, usedFor(p.Name))
			}
			return w.Flush()
		},
	}
}

func usedFor(profile string) string {
	switch profile {
	case compression.ProductProfile.Name:
		return "product"
	case compression.BannerProfile.Name:
		return "banner, category"
	}
	for _, tier := range compression.QuickTiers {
		if tier.Profile.Name != profile {
			continue
		}
		if tier.ThresholdBytes == 0 {
			return "general, quick (smaller sources)"
		}
		return fmt.Sprintf("general, quick (sources over %d KB)", tier.ThresholdBytes/1024)
	}
	return ""
}
