// Handles the "baasctl files" commands

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scttfrdmn/baasclient/pkg/types"
)

func newFilesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage files of a bucket",
	}

	var list listFlags
	var filter string
	listCmd := &cobra.Command{
		Use:   "list BUCKET",
		Short: "List files of a bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResult(cmd, a.client.Storage.Bucket(args[0]).ListFiles(cmd.Context(), filter, list.options(cmd)))
		},
	}
	list.register(listCmd)
	listCmd.Flags().StringVar(&filter, "filter", "", "filter expression on file fields")

	var upload struct {
		name         string
		contentType  string
		public       bool
		createBucket bool
		tags         []string
	}
	uploadCmd := &cobra.Command{
		Use:   "upload BUCKET PATH",
		Short: "Upload a local file",
		Long:  `Upload reads the whole file into memory and sends it in a single request.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}
			name := upload.name
			if name == "" {
				name = filepath.Base(args[1])
			}
			opts := &types.UploadOptions{
				ContentType:  upload.contentType,
				CreateBucket: upload.createBucket,
				Tags:         upload.tags,
			}
			if cmd.Flags().Changed("public") {
				opts.IsPublic = types.Bool(upload.public)
			}
			return printResult(cmd, a.client.Storage.Bucket(args[0]).Upload(cmd.Context(), name, content, opts))
		},
	}
	uploadCmd.Flags().StringVar(&upload.name, "name", "", "file name in the bucket (default: base name of PATH)")
	uploadCmd.Flags().StringVar(&upload.contentType, "content-type", "", "content type (detected when empty)")
	uploadCmd.Flags().BoolVar(&upload.public, "public", false, "make the file public")
	uploadCmd.Flags().BoolVar(&upload.createBucket, "create-bucket", false, "create the bucket if it does not exist")
	uploadCmd.Flags().StringSliceVar(&upload.tags, "tag", nil, "tag to add (repeatable)")

	var output string
	downloadCmd := &cobra.Command{
		Use:   "download BUCKET FILE",
		Short: "Download a file",
		Long:  `Download writes the file content to --output, or to stdout when no output is given.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.client.Storage.Bucket(args[0]).File(args[1]).Download(cmd.Context())
			if res.Errors != nil {
				return printResult(cmd, res)
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(*res.Data)
				return err
			}
			if err := os.WriteFile(output, *res.Data, 0600); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			a.logger.WithField("bytes", len(*res.Data)).Infof("Downloaded %s/%s to %s", args[0], args[1], output)
			return nil
		},
	}
	downloadCmd.Flags().StringVarP(&output, "output", "f", "", "output file")

	deleteCmd := &cobra.Command{
		Use:   "delete BUCKET FILE",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResult(cmd, a.client.Storage.Bucket(args[0]).File(args[1]).Delete(cmd.Context()))
		},
	}

	cmd.AddCommand(listCmd, uploadCmd, downloadCmd, deleteCmd)
	return cmd
}
