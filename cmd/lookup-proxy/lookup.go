package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/social-lookup/internal/config"
	"github.com/Sternrassler/social-lookup/pkg/lookup"
	"github.com/Sternrassler/social-lookup/pkg/users"
)

func lookupCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		followers string
		friends   string
		refresh   bool
	)

	cmd := &cobra.Command{
		Use:   "lookup [ids...]",
		Short: "Resolve user ids once and print the result as JSON",
		Example: `  lookup-proxy lookup 12,783214 6253282
  lookup-proxy lookup --followers jack`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if followers != "" && friends != "" {
				return fmt.Errorf("--followers and --friends are mutually exclusive")
			}

			var ids []users.ID
			if followers == "" && friends == "" {
				parsed, err := users.ParseIDList(strings.Join(args, ","))
				if err != nil {
					return err
				}
				if len(parsed) == 0 {
					return fmt.Errorf("no user ids given")
				}
				ids = parsed
			}

			cfg, err := load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			switch {
			case followers != "":
				ids, err = a.api.FetchIDs(ctx, followers, users.Followers)
			case friends != "":
				ids, err = a.api.FetchIDs(ctx, friends, users.Friends)
			}
			if err != nil {
				return err
			}

			var report *lookup.Report
			if refresh {
				report = a.engine.Refresh(ctx, ids)
			} else {
				report = a.engine.LookupReport(ctx, ids)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(newLookupResponse(report))
		},
	}

	cmd.Flags().StringVar(&followers, "followers", "", "Look up the followers of this screen name")
	cmd.Flags().StringVar(&friends, "friends", "", "Look up the accounts this screen name follows")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass cached records and re-fetch")
	return cmd
}
