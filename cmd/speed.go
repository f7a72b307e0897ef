package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/satchel/internal/speed"
)

var speedCmd = &cobra.Command{
	Use:   "speed <file>",
	Short: "Measure read speed and disk usage",
	Long: `Measure sequential read speed for a file and report usage of the disk
it lives on. With --best the file is probed with a range of block sizes
and the fastest one is reported.

Examples:
  satchel speed /var/log/syslog
  satchel speed --block-size=65536 disk.img
  satchel speed --best disk.img`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSpeed(args[0])
	},
}

func init() {
	rootCmd.AddCommand(speedCmd)

	speedCmd.Flags().Int("block-size", speed.DefaultBlockSize, "Read block size in bytes")
	speedCmd.Flags().Bool("best", false, "Probe block sizes and report the fastest")

	viper.BindPFlag("speed.block-size", speedCmd.Flags().Lookup("block-size"))
	viper.BindPFlag("speed.best", speedCmd.Flags().Lookup("best"))
}

func runSpeed(path string) error {
	if viper.GetBool("speed.best") {
		best, err := speed.BestBlockSize(path)
		if err != nil {
			return err
		}
		fmt.Printf("best block size: %d bytes\n", best)
		return nil
	}

	blockSize := viper.GetInt("speed.block-size")
	mbps, err := speed.MeasureReadSpeed(path, blockSize)
	if err != nil {
		return err
	}
	fmt.Printf("read speed: %.2f MB/s (block size %d)\n", mbps, blockSize)

	report, err := speed.Disk(path)
	if err != nil {
		return err
	}
	fmt.Printf("disk %s (%s): %.1f%% used, %d of %d bytes free\n",
		report.Path, report.Filesystem, report.UsedPercent, report.FreeBytes, report.TotalBytes)
	return nil
}
