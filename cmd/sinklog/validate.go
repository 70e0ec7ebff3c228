package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/philipp01105/sinklog/config"
)

func newValidateCmd() *cobra.Command {
	var printYAML bool
	cmd := &cobra.Command{
		Use:   "validate PATH",
		Short: "Check a configuration file",
		Long: `Load a YAML configuration file the way the manager does and report
the destination configurations it contains. With --print the effective
configuration, defaults included, is written as YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.File(args[0]).Load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if printYAML {
				data, err := config.Marshal(s)
				if err != nil {
					return fmt.Errorf("encoding configuration: %w", err)
				}
				_, err = out.Write(data)
				return err
			}

			names := make([]string, 0, len(s.Destinations))
			for name := range s.Destinations {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintf(out, "%s: %d destination configurations\n", args[0], len(names))
			for _, name := range names {
				c := s.Destinations[name]
				fmt.Fprintf(out, "  %s minLevel=%s muted=%t batch=%t dispatch=%t\n",
					name, c.MinLevel, c.Muted, c.Batch.Enabled, c.ThreadDispatch.Active())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printYAML, "print", false, "print the effective configuration as YAML")
	return cmd
}
