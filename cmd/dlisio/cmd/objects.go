package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jokva/dlisio/pkg/codec"
	"github.com/jokva/dlisio/pkg/dlis"
)

// objectsCmd represents the objects command
var objectsCmd = &cobra.Command{
	Use:   "objects FILE",
	Short: "Parse and print the object sets",
	Long: `Reassemble every explicitly-formatted, unencrypted logical record
and parse its payload into object sets, printing each set's type, name and
objects.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := dlis.Open(args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		var explicit []*dlis.Record
		it := s.Iter()
		for it.Next() {
			rec := it.Record()
			if rec.Explicit() && !rec.Encrypted() {
				explicit = append(explicit, rec)
			}
		}
		if err := it.Err(); err != nil {
			return err
		}

		sets, err := s.ParseObjects(explicit)
		if err != nil {
			return err
		}

		for _, set := range sets {
			if set.Name != "" {
				cmd.Printf("set %s name=%s objects=%d\n",
					codec.DecodeText(string(set.Type)),
					codec.DecodeText(string(set.Name)),
					len(set.Objects))
			} else {
				cmd.Printf("set %s objects=%d\n",
					codec.DecodeText(string(set.Type)), len(set.Objects))
			}
			for _, obj := range set.Objects {
				cmd.Printf("    %s\n", obj.Name)
			}
		}
		cmd.Printf("object sets: %d\n", len(sets))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(objectsCmd)
}
