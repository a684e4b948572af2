package smap

import (
	"fmt"
	"io"
	"os"

	"github.com/ValentinKolb/sortedkv/cmd/util"
	"github.com/ValentinKolb/sortedkv/lib/logging"
	"github.com/ValentinKolb/sortedkv/lib/sortedmap"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// MapCommands represents the map command group
	MapCommands = &cobra.Command{
		Use:   "map",
		Short: "Load key-value pairs into a sorted map and query it",
		Long: `Load key-value pairs into a sorted map and query it.

The input holds one pair per line, key and value separated by --sep.
Empty lines are ignored, a duplicate key fails the load.`,
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	key := "input"
	MapCommands.PersistentFlags().StringP(key, "i", "-", util.WrapString("File to read the pairs from, - for stdin"))
	key = "sep"
	MapCommands.PersistentFlags().String(key, "\t", util.WrapString("Separator between key and value"))
	key = "impl"
	MapCommands.PersistentFlags().String(key, "rbtree", util.WrapString("Tree engine backing the map (rbtree, btree, gbtree)"))

	MapCommands.AddCommand(listCmd)
	MapCommands.AddCommand(getCmd)
	MapCommands.AddCommand(afterCmd)
	MapCommands.AddCommand(statsCmd)
}

// loadMap reads the configured input into a new map
func loadMap(cmd *cobra.Command) (*sortedmap.Map[string], error) {
	impl, err := util.GetImplementation()
	if err != nil {
		return nil, err
	}

	var r io.Reader = cmd.InOrStdin()
	if path := viper.GetString("input"); path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer file.Close()
		r = file
	}

	entries, err := ReadEntries(r, viper.GetString("sep"))
	if err != nil {
		return nil, err
	}

	m, err := sortedmap.NewFromEntries(entries, sortedmap.WithImplementation(impl))
	if err != nil {
		return nil, fmt.Errorf("failed to load map: %w", err)
	}

	logger.GetLogger(logging.PkgCLI).Debugf("loaded %d entries into %s map", m.Count(), impl)
	return m, nil
}
