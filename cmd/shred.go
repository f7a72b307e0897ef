package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/satchel/internal/randomorg"
	"github.com/TFMV/satchel/internal/shred"
)

var shredCmd = &cobra.Command{
	Use:   "shred [options] <file>...",
	Short: "Securely overwrite and delete files",
	Long: `Overwrite files with fixed and random patterns, verify each pass,
rename them to a random name and delete them.

Examples:
  satchel shred secrets.txt
  satchel shred --standard=7-pass --adaptive disk.img
  satchel shred --true-random --api-key=$SATCHEL_RANDOM_API_KEY notes.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShred(args)
	},
}

func init() {
	rootCmd.AddCommand(shredCmd)

	shredCmd.Flags().String("standard", "3-pass", "Overwrite standard (3-pass|7-pass)")
	shredCmd.Flags().Int("block-size", 0, "Write block size in bytes (0 = default)")
	shredCmd.Flags().Bool("adaptive", false, "Probe the file for the fastest block size")
	shredCmd.Flags().Bool("true-random", false, "Source random passes from random.org")
	shredCmd.Flags().Bool("progress", false, "Show a progress bar")
	shredCmd.Flags().String("api-key", "", "random.org API key for --true-random")

	viper.BindPFlag("shred.standard", shredCmd.Flags().Lookup("standard"))
	viper.BindPFlag("shred.block-size", shredCmd.Flags().Lookup("block-size"))
	viper.BindPFlag("shred.adaptive", shredCmd.Flags().Lookup("adaptive"))
	viper.BindPFlag("shred.true-random", shredCmd.Flags().Lookup("true-random"))
	viper.BindPFlag("shred.progress", shredCmd.Flags().Lookup("progress"))
	viper.BindPFlag("shred.api-key", shredCmd.Flags().Lookup("api-key"))
}

func runShred(paths []string) error {
	standard, err := shred.ParseStandard(viper.GetString("shred.standard"))
	if err != nil {
		return err
	}

	gen := &randomorg.Generator{Logger: logger}
	if viper.GetBool("shred.true-random") {
		key := viper.GetString("shred.api-key")
		if key == "" {
			key = viper.GetString("random.api-key")
		}
		if key == "" {
			return fmt.Errorf("shred: --true-random requires an api key")
		}
		gen.Client = randomorg.NewClient(key, randomorg.DefaultTimeout)
	}

	opts := shred.Options{
		Standard:   standard,
		BlockSize:  viper.GetInt("shred.block-size"),
		Adaptive:   viper.GetBool("shred.adaptive"),
		TrueRandom: viper.GetBool("shred.true-random"),
		Progress:   viper.GetBool("shred.progress"),
		Generator:  gen,
		Logger:     logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, path := range paths {
		if err := shred.Shred(ctx, path, opts); err != nil {
			return err
		}
		fmt.Printf("shredded %s\n", path)
	}
	return nil
}
