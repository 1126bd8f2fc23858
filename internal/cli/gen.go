package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"txclean/internal/datagen"
)

var (
	genOut  string
	genRows int
	genSeed uint64
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a synthetic dirty transactions feed",
	Long: `Gen writes a CSV feed carrying the noise patterns the pipeline is
built for: sentinel and duplicate order IDs, mixed date encodings, messy
names, country variants, placeholder products, and zero/negative amounts.
The same seed always produces the same feed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(genOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", genOut, err)
		}
		defer f.Close()

		g := datagen.New(genSeed)
		if err := g.WriteCSV(f, genRows); err != nil {
			return fmt.Errorf("generate feed: %w", err)
		}
		cmd.Printf("wrote %d rows to %s\n", genRows, genOut)
		return nil
	},
}

func init() {
	genCmd.Flags().StringVar(&genOut, "out", "transactions_raw.csv", "output CSV path")
	genCmd.Flags().IntVar(&genRows, "rows", 1000, "number of data rows")
	genCmd.Flags().Uint64Var(&genSeed, "seed", 42, "generator seed")
}
