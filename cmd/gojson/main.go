package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gojson-dev/gojson/pkg/gojson"
)

// CLI wraps a cobra root command the same way danielgtaylor/huma's own
// cli.CLI wraps a router: a thin viper-bound flag layer in front of
// a library the command itself never needs to know the internals of.
type CLI struct {
	root *cobra.Command
}

func newCLI() *CLI {
	viper.SetEnvPrefix("GOJSON")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	c := &CLI{
		root: &cobra.Command{
			Use:     filepath.Base(os.Args[0]),
			Short:   "gojson reflects Go values into JSON through a configurable serializer",
			Version: "0.1.0",
		},
	}

	c.root.AddCommand(c.serializeCommand())
	return c
}

func (c *CLI) flag(flags *pflag.FlagSet, name, short string, defaultValue interface{}, description string) {
	viper.SetDefault(name, defaultValue)
	switch v := defaultValue.(type) {
	case bool:
		flags.BoolP(name, short, viper.GetBool(name), description)
	case float64:
		flags.Float64P(name, short, viper.GetFloat64(name), description)
	default:
		flags.StringP(name, short, fmt.Sprintf("%v", v), description)
	}
	viper.BindPFlag(name, flags.Lookup(name))
}

// serializeCommand re-encodes a JSON document read from a file (or stdin,
// with "-") through a Serializer built from the bound flags: naming
// strategy, null inclusion, and a version ceiling for field exclusion. The
// document is decoded into untyped maps, slices and primitives, so of these
// only null inclusion changes the output; the naming strategy and version
// ceiling act on struct fields and leave map keys as they are.
func (c *CLI) serializeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serialize [FILE]",
		Short: "Re-encode a JSON document through gojson's configurable formatter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(os.Stdin)
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			opts := []gojson.Option{
				gojson.WithIncludeNullFields(viper.GetBool("include-null-fields")),
				gojson.WithWarningHandler(func(msg string) {
					fmt.Fprintln(os.Stderr, "gojson: warning:", msg)
				}),
			}
			if viper.GetString("naming") == "snake" {
				opts = append(opts, gojson.WithNamingStrategy(gojson.SnakeCaseNaming{}))
			}
			if ceiling := viper.GetFloat64("version"); ceiling > 0 {
				opts = append(opts, gojson.WithVersion(ceiling))
			}

			serializer := gojson.NewBuilder(opts...).Build()

			var document any
			document, err = serializer.FromJSON(string(data), nil)
			if err != nil {
				return err
			}

			out, err := serializer.ToJSON(document)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	flags := cmd.Flags()
	c.flag(flags, "include-null-fields", "", false, "emit object keys whose value is null instead of omitting them")
	c.flag(flags, "naming", "n", "default", "field naming strategy: default or snake")
	c.flag(flags, "version", "", float64(0), "drop fields whose version tag exceeds this ceiling (0 disables)")

	return cmd
}

func main() {
	if err := newCLI().root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
