// Handles the "baasctl buckets" commands

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/scttfrdmn/baasclient/pkg/types"
)

// listFlags are the pagination flags shared by list commands.
type listFlags struct {
	limit int
	page  int
	count bool
	sort  string
	desc  bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum number of results (server default when 0)")
	cmd.Flags().IntVar(&f.page, "page", 0, "1-based page number (server default when 0)")
	cmd.Flags().BoolVar(&f.count, "count", false, "include count information")
	cmd.Flags().StringVar(&f.sort, "sort", "", "field to sort by")
	cmd.Flags().BoolVar(&f.desc, "desc", false, "sort descending")
}

// options maps the flags onto list options. Flags left at zero are omitted;
// explicitly set ones are passed through for validation.
func (f *listFlags) options(cmd *cobra.Command) *types.ListOptions {
	opts := &types.ListOptions{ReturnCountInfo: f.count}
	if cmd.Flags().Changed("limit") {
		opts.Limit = types.Int(f.limit)
	}
	if cmd.Flags().Changed("page") {
		opts.Page = types.Int(f.page)
	}
	if f.sort != "" {
		opts.Sort = &types.SortEntry{Field: f.sort, Direction: types.SortAsc}
		if f.desc {
			opts.Sort.Direction = types.SortDesc
		}
	}
	return opts
}

func newBucketsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "Manage storage buckets",
	}

	var list listFlags
	var search string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List buckets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printResult(cmd, a.client.Storage.ListBuckets(cmd.Context(), search, list.options(cmd)))
		},
	}
	list.register(listCmd)
	listCmd.Flags().StringVar(&search, "search", "", "filter expression on bucket names")

	var public bool
	var tags []string
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResult(cmd, a.client.Storage.CreateBucket(cmd.Context(), args[0], public, tags...))
		},
	}
	createCmd.Flags().BoolVar(&public, "public", false, "make the bucket public")
	createCmd.Flags().StringSliceVar(&tags, "tag", nil, "tag to add (repeatable)")

	deleteCmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a bucket and all of its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResult(cmd, a.client.Storage.Bucket(args[0]).Delete(cmd.Context()))
		},
	}

	cmd.AddCommand(listCmd, createCmd, deleteCmd)
	return cmd
}
