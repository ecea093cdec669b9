package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/zeno/dashboard/internal/navigation"
)

type navOptions struct {
	authority []string
	path      string
	locale    string
}

func newNavCmd() *cobra.Command {
	opts := &navOptions{}
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Print the side navigation a user would see",
		Long: `nav filters the navigation tree for the given authority and prints the
resulting menu as JSON, with the entry for --path marked active.

Examples:
  dashboard nav --authority user --path /gold
  dashboard nav --authority admin,user --locale es`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			menuOpts := navigation.MenuOptions{
				CurrentPath: opts.path,
				Authority:   opts.authority,
			}
			if opts.locale != "" {
				menuOpts.Translate = navigation.Translator(navigation.NegotiateLocale(opts.locale, "en"))
			}
			menu := navigation.BuildMenu(navigation.DefaultTree(), menuOpts)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(menu)
		},
	}
	cmd.Flags().StringSliceVar(&opts.authority, "authority", nil, "authorities held by the user, comma separated")
	cmd.Flags().StringVar(&opts.path, "path", "/gold", "current request path")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "translate titles for this locale (en, es)")
	return cmd
}
