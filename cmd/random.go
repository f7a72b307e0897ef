package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/satchel/internal/randomorg"
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Generate random values via random.org",
	Long: `Generate true random integers, strings and choices through the
random.org API. Without an API key, or when the quota is exhausted, the
generator falls back to the local CSPRNG unless --fail-on-error is set.`,
}

var randomIntCmd = &cobra.Command{
	Use:   "int",
	Short: "Generate random integers",
	Example: `  satchel random int --count=5 --min=1 --max=100
  satchel random int --count=6 --min=1 --max=49 --unique`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := newGenerator()
		vals, err := gen.Integers(cmd.Context(),
			viper.GetInt("random.count"),
			viper.GetInt("random.min"),
			viper.GetInt("random.max"),
			viper.GetBool("random.unique"))
		if err != nil {
			return err
		}
		for _, v := range vals {
			fmt.Println(v)
		}
		return nil
	},
}

var randomStringCmd = &cobra.Command{
	Use:   "string",
	Short: "Generate a random string",
	Example: `  satchel random string --length=32
  satchel random string --length=8 --charset=0123456789abcdef`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := newGenerator()
		s, err := gen.String(cmd.Context(),
			viper.GetInt("random.length"),
			viper.GetString("random.charset"),
			viper.GetBool("random.unique"))
		if err != nil {
			return err
		}
		fmt.Println(s)
		return nil
	},
}

var randomChoiceCmd = &cobra.Command{
	Use:     "choice <item>...",
	Short:   "Pick random items from the arguments",
	Example: `  satchel random choice --count=2 red green blue`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := newGenerator()
		picks, err := gen.Choice(cmd.Context(), args,
			viper.GetInt("random.count"),
			viper.GetBool("random.unique"))
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(picks, "\n"))
		return nil
	},
}

var randomQuotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the remaining random.org byte quota",
	RunE: func(cmd *cobra.Command, args []string) error {
		key := viper.GetString("random.api-key")
		if key == "" {
			return fmt.Errorf("random: quota requires an api key")
		}
		client := randomorg.NewClient(key, viper.GetDuration("random.timeout"))
		left, err := client.Quota(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("remaining quota: %d bytes\n", left)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(randomCmd)
	randomCmd.AddCommand(randomIntCmd, randomStringCmd, randomChoiceCmd, randomQuotaCmd)

	randomCmd.PersistentFlags().String("api-key", "", "random.org API key")
	randomCmd.PersistentFlags().Duration("timeout", randomorg.DefaultTimeout, "random.org request timeout")
	randomCmd.PersistentFlags().Bool("fail-on-error", false, "Fail instead of falling back to the local CSPRNG")
	randomCmd.PersistentFlags().IntP("count", "c", 1, "Number of values to generate")
	randomCmd.PersistentFlags().Bool("unique", false, "Require distinct values")

	randomIntCmd.Flags().Int("min", 0, "Lower bound (inclusive)")
	randomIntCmd.Flags().Int("max", 100, "Upper bound (inclusive)")
	randomStringCmd.Flags().Int("length", 16, "String length")
	randomStringCmd.Flags().String("charset", "", "Characters to draw from (default alphanumeric)")

	viper.BindPFlag("random.api-key", randomCmd.PersistentFlags().Lookup("api-key"))
	viper.BindPFlag("random.timeout", randomCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("random.fail-on-error", randomCmd.PersistentFlags().Lookup("fail-on-error"))
	viper.BindPFlag("random.count", randomCmd.PersistentFlags().Lookup("count"))
	viper.BindPFlag("random.unique", randomCmd.PersistentFlags().Lookup("unique"))
	viper.BindPFlag("random.min", randomIntCmd.Flags().Lookup("min"))
	viper.BindPFlag("random.max", randomIntCmd.Flags().Lookup("max"))
	viper.BindPFlag("random.length", randomStringCmd.Flags().Lookup("length"))
	viper.BindPFlag("random.charset", randomStringCmd.Flags().Lookup("charset"))
}

func newGenerator() *randomorg.Generator {
	gen := &randomorg.Generator{
		FailOnError: viper.GetBool("random.fail-on-error"),
		Logger:      logger,
	}
	if key := viper.GetString("random.api-key"); key != "" {
		gen.Client = randomorg.NewClient(key, viper.GetDuration("random.timeout"))
	}
	return gen
}
