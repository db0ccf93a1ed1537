package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jokva/dlisio/pkg/dlis"
)

// rootCmd represents the base command when called without any subcommands:
// open the file and print its storage label and first visible envelope.
var rootCmd = &cobra.Command{
	Use:   "dlisio FILE",
	Short: "Read DLIS v1 well-log files",
	Long: `dlisio reads DLIS (RP66 v1) well-log files and exposes their
logical record contents: the storage unit label, the record index, and the
object sets of explicitly-formatted records.

Invoked with just a file, it prints the storage unit label and the first
visible envelope.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := dlis.Open(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		if warn := s.LabelWarning(); warn != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), warn)
		}

		sul := s.StorageLabel()
		cmd.Printf("storage unit label:\n")
		cmd.Printf("    sequence-number: %d\n", sul.Sequence)
		cmd.Printf("    version: V%d.%02d\n", sul.Major, sul.Minor)
		cmd.Printf("    layout: %s\n", sul.Layout)
		cmd.Printf("    id: %s\n", sul.ID)

		vrl := s.FirstVRL()
		cmd.Printf("visible envelope (VRL):\n")
		cmd.Printf("    length: %d\n", vrl.Length)
		cmd.Printf("    pad-byte: %#02x\n", 0xFF)
		cmd.Printf("    version: %d\n", vrl.Version)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose diagnostics")
}

// logger builds the edge logger; the decode core itself never logs.
func logger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
