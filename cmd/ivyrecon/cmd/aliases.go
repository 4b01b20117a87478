package cmd

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ivyrecon/ivyrecon/pkg/aliases"
)

var (
	aliasFiles      []string
	aliasOutPath    string
	aliasNoDefaults bool
)

// aliasesCmd groups alias table subcommands.
var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "Inspect and merge plan alias tables",
	Long: `Plan aliases map carrier-specific plan names to canonical plan types
(e.g. "health" and "med" both resolve to "medical"). A built-in default
table covers common plan types; user YAML files merge over it.`,
}

// aliasesShowCmd prints the effective alias table.
var aliasesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective alias table",
	Long:  `Show the built-in alias table, optionally merged with user alias files.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		t, err := mergedAliases()
		if err != nil {
			return err
		}

		caser := cases.Title(language.English)
		out := tablewriter.NewTable(cmd.OutOrStdout())
		out.Header("Plan Type", "Synonyms")
		for _, canonical := range t.Canonicals() {
			if err := out.Append(caser.String(canonical), strings.Join(t.Synonyms(canonical), ", ")); err != nil {
				return err
			}
		}
		return out.Render()
	},
}

// aliasesMergeCmd merges alias files and writes the result.
var aliasesMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge alias files into one YAML table",
	Long: `Merge one or more user alias files over the built-in defaults and
write the combined table as YAML. Use --no-defaults to merge only the
user files.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if len(aliasFiles) == 0 {
			return fmt.Errorf("at least one --file is required")
		}
		t, err := mergedAliases()
		if err != nil {
			return err
		}

		if aliasOutPath != "" {
			if err := t.SaveFile(aliasOutPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d plan types to %s\n", t.Len(), aliasOutPath)
			return nil
		}

		data, err := t.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(aliasesCmd)
	aliasesCmd.AddCommand(aliasesShowCmd, aliasesMergeCmd)

	aliasesCmd.PersistentFlags().StringArrayVar(&aliasFiles, "file", nil, "user alias YAML file (repeatable, later files win)")
	aliasesCmd.PersistentFlags().BoolVar(&aliasNoDefaults, "no-defaults", false, "exclude the built-in default aliases")

	aliasesMergeCmd.Flags().StringVarP(&aliasOutPath, "out", "o", "", "write merged table to this path instead of stdout")
}

func mergedAliases() (*aliases.Table, error) {
	var t *aliases.Table
	if aliasNoDefaults {
		t = aliases.NewTable()
	} else {
		t = aliases.Defaults()
	}
	for _, path := range aliasFiles {
		user, err := aliases.LoadFile(path)
		if err != nil {
			return nil, err
		}
		t = t.Merge(user)
	}
	return t, nil
}
