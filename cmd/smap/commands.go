package smap

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/sortedkv/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	listCmd = &cobra.Command{
		Use:     "list",
		Short:   "Prints all pairs in key order",
		Args:    cobra.NoArgs,
		PreRunE: util.SetupCommand,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMap(cmd)
			if err != nil {
				return err
			}
			sep := viper.GetString("sep")
			for k, v := range m.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s\n", k, sep, v)
			}
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:     "get [key]",
		Short:   "Prints the value for a key",
		Args:    cobra.ExactArgs(1),
		PreRunE: util.SetupCommand,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMap(cmd)
			if err != nil {
				return err
			}
			value, err := m.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
	afterCmd = &cobra.Command{
		Use:     "after [key]",
		Short:   "Prints the keys strictly greater than key (all keys without key)",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: util.SetupCommand,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMap(cmd)
			if err != nil {
				return err
			}
			pivot := ""
			if len(args) == 1 {
				pivot = args[0]
			}
			limit := viper.GetInt("limit")
			n := 0
			for k := range m.KeysGreaterThan(pivot) {
				if limit > 0 && n >= limit {
					break
				}
				fmt.Fprintln(cmd.OutOrStdout(), k)
				n++
			}
			return nil
		},
	}
	statsCmd = &cobra.Command{
		Use:     "stats",
		Short:   "Prints statistics about the loaded map as JSON",
		Args:    cobra.NoArgs,
		PreRunE: util.SetupCommand,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMap(cmd)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(m.Info(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode stats: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
)

func init() {
	afterCmd.Flags().Int("limit", 0, util.WrapString("Maximum number of keys to print (0 for all)"))
}
