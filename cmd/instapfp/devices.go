package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neilthomass/instaPFP/devices"
)

// listDevicesCmd prints the known device-emulation presets.
var listDevicesCmd = &cobra.Command{
	Use:   "list-devices",
	Short: "Print known device-emulation presets",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(devices.Names(), "\n"))
	},
}

func init() {
	rootCmd.AddCommand(listDevicesCmd)
}
