package main

import (
	"fmt"
	"os"

	"power_relay/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "power_relay",
	Short: "Three-channel relay controller with timers and current protection",
	Long: `Drives three relays and a USB-PD trigger, switches them on a
schedule, cuts power when a channel exceeds its current limit and serves
a JSON API for all of it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Read(viper.GetViper(), cfgFile)
	},
}

// @title           Power Relay API
// @version         1.0
// @description     Relay, timer, protection and PD voltage control.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/config.yml)")
	rootCmd.Version = version
}
