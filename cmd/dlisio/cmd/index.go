package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jokva/dlisio/pkg/config"
	"github.com/jokva/dlisio/pkg/dlis"
	"github.com/jokva/dlisio/pkg/index"
	"github.com/jokva/dlisio/pkg/rp66"
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index FILE",
	Short: "Scan the record index and print a summary",
	Long: `Scan the file's visible records into an index of logical record
boundaries and print per-type record counts.

With --cache the scan result is persisted keyed by the file's identity, so
reopening an unchanged file skips the linear scan.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		useCache, _ := cmd.Flags().GetBool("cache")
		cacheDir, _ := cmd.Flags().GetString("cache-dir")
		if cacheDir == "" {
			cacheDir = config.DefaultConfig().Cache.Dir
		}

		var cache *index.Cache
		var cached *rp66.Index
		if useCache {
			var err error
			cache, err = index.OpenCache(cacheDir)
			if err != nil {
				return fmt.Errorf("failed to open index cache: %w", err)
			}
			defer cache.Close()

			if ix, ok := cache.Get(path); ok {
				cached = ix
				cmd.Printf("index: cached\n")
			}
		}

		var opts []dlis.Option
		if cached != nil {
			opts = append(opts, dlis.WithIndex(cached))
		}
		s, err := dlis.Open(path, opts...)
		if err != nil {
			return err
		}
		defer s.Close()

		if cache != nil && cached == nil {
			if err := cache.Put(path, s.Index()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to cache index: %v\n", err)
			}
		}

		byType := map[uint8]int{}
		encrypted := 0
		inconsistent := 0
		it := s.Iter()
		for it.Next() {
			rec := it.Record()
			byType[rec.Type]++
			if rec.Encrypted() {
				encrypted++
			}
			if !rec.Consistent {
				inconsistent++
			}
		}
		if err := it.Err(); err != nil {
			return err
		}

		cmd.Printf("records: %d\n", s.Len())
		cmd.Printf("encrypted: %d\n", encrypted)
		cmd.Printf("inconsistent: %d\n", inconsistent)

		types := make([]int, 0, len(byType))
		for typ := range byType {
			types = append(types, int(typ))
		}
		sort.Ints(types)
		for _, typ := range types {
			cmd.Printf("    type %3d: %d\n", typ, byType[uint8(typ)])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().Bool("cache", false, "Reuse and populate the persistent index cache")
	indexCmd.Flags().String("cache-dir", "", "Index cache directory")
}
