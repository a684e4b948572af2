package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/sortedkv/lib/logging"
	"github.com/ValentinKolb/sortedkv/lib/tree"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of all environment variables, e.g. SKV_IMPL
	EnvPrefix = "skv"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig loads .env files and makes viper read SKV_* environment variables
func InitConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("log-level", "info")
}

// BindCommandFlags binds a command's flags (including inherited persistent
// flags) to viper
func BindCommandFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}
	return viper.BindPFlags(cmd.Flags())
}

// SetupCommand binds the flags of cmd and initializes the loggers with the
// configured log level. Commands call it from PreRunE.
func SetupCommand(cmd *cobra.Command, _ []string) error {
	if err := BindCommandFlags(cmd); err != nil {
		return err
	}
	return logging.InitLoggers(viper.GetString("log-level"))
}

// GetImplementation returns the tree engine selected with --impl
func GetImplementation() (tree.Implementation, error) {
	return tree.ParseImplementation(viper.GetString("impl"))
}

// GetImplementations parses a comma separated engine list. "all" and the
// empty string select every engine.
func GetImplementations(list string) ([]tree.Implementation, error) {
	if list == "" || list == "all" {
		return tree.Implementations(), nil
	}

	var impls []tree.Implementation
	for _, s := range strings.Split(list, ",") {
		impl, err := tree.ParseImplementation(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("invalid engine list %q: %w", list, err)
		}
		impls = append(impls, impl)
	}
	return impls, nil
}
