package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/satchel/internal/logging"
)

var (
	cfgFile string
	version = "0.1.0"

	// logger is shared by every subcommand; built in the persistent
	// pre-run so flags and config are already resolved.
	logger = logging.Nop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "satchel",
	Short: "A personal utility toolbox",
	Long: `satchel is a small personal toolbox: find files with glob filters and
access checks, securely shred them, measure disk read speed, watch
directories for changes, and fetch true random values from random.org.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.satchel.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("silent", false, "Disable all logging except errors")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to a file instead of stderr")

	// Bind flags to viper
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("silent", rootCmd.PersistentFlags().Lookup("silent"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".satchel" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".satchel")
	}

	viper.SetEnvPrefix("satchel")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setupLogger() error {
	level := "info"
	if viper.GetBool("verbose") {
		level = "debug"
	} else if viper.GetBool("silent") {
		level = "error"
	}

	l, _, err := logging.New(logging.Config{
		Level:       level,
		File:        viper.GetString("log-file"),
		Development: viper.GetBool("verbose"),
	})
	if err != nil {
		return err
	}
	logger = l
	return nil
}
