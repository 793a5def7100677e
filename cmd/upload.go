package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	appdist "sf-content-upload/application/distribution"
	"sf-content-upload/domain/auth"
	"sf-content-upload/domain/content"
	"sf-content-upload/infrastructure/filesystem"
	"sf-content-upload/infrastructure/salesforce"

	"github.com/spf13/cobra"
)

var (
	uploadURL         string
	uploadPath        string
	uploadName        string
	uploadData        string
	uploadBase64      bool
	uploadDescription string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Create a ContentVersion record",
	Long: `Authenticate and create one ContentVersion record.

Each run creates a new record; running the same upload twice creates two
records. Use 'small' for inline data and 'large' to stream a local file.`,
}

var uploadSmallCmd = &cobra.Command{
	Use:   "small",
	Short: "Upload inline data as a JSON body",
	Long: `Send the given data as VersionData in a single JSON request.

The data is sent as-is. The platform expects base64 for VersionData, so pass
--base64 to encode plain text before sending.

Example:
  sf-content-upload upload small --path put_it_here.txt --name "Test File" --data "This is my data." --base64`,
	RunE: runUploadSmall,
}

var uploadLargeCmd = &cobra.Command{
	Use:   "large",
	Short: "Stream a local file as a multipart body",
	Long: `Stream the bytes of a local file in a single multipart request.

The title defaults to the file path without its extension.

Example:
  sf-content-upload upload large --path 200MB-TESTFILE.pdf --name "200MB TESTFILE" --description "This is a 200 MB test file."`,
	RunE: runUploadLarge,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.AddCommand(uploadSmallCmd)
	uploadCmd.AddCommand(uploadLargeCmd)

	uploadSmallCmd.Flags().StringVar(&uploadPath, "path", "", "PathOnClient recorded with the content version (required)")
	uploadSmallCmd.Flags().StringVar(&uploadName, "name", "", "Title of the content version (required)")
	uploadSmallCmd.Flags().StringVar(&uploadData, "data", "", "Inline data sent as VersionData")
	uploadSmallCmd.Flags().BoolVar(&uploadBase64, "base64", false, "Base64-encode --data before sending")
	uploadSmallCmd.Flags().StringVar(&uploadURL, "url", "", "ContentVersion endpoint (defaults to the configured instance)")
	uploadSmallCmd.MarkFlagRequired("path")
	uploadSmallCmd.MarkFlagRequired("name")

	uploadLargeCmd.Flags().StringVar(&uploadPath, "path", "", "Local file to stream (required)")
	uploadLargeCmd.Flags().StringVar(&uploadName, "name", "", "Title of the content version (default: path without extension)")
	uploadLargeCmd.Flags().StringVar(&uploadDescription, "description", "", "Description of the content version")
	uploadLargeCmd.Flags().StringVar(&uploadURL, "url", "", "ContentVersion endpoint (defaults to the configured instance)")
	uploadLargeCmd.MarkFlagRequired("path")
}

func newUploadService(output io.Writer) *appdist.UploadService {
	return appdist.NewUploadService(
		salesforce.NewAuthenticator(logger),
		salesforce.NewClient(logger),
		filesystem.NewChecker(),
		output,
	)
}

func runUploadSmall(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	warnMissing(cfg)

	url := uploadURL
	if url == "" {
		url = cfg.UploadURL()
	}

	req := content.SmallFileRequest{
		URL:      url,
		FilePath: uploadPath,
		FileName: uploadName,
		Data:     versionData(uploadData, uploadBase64),
	}

	return RunUploadSmallWithDependencies(cmd.Context(), newUploadService(os.Stdout), cfg.Credentials(), req)
}

func runUploadLarge(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	warnMissing(cfg)

	url := uploadURL
	if url == "" {
		url = cfg.UploadURL()
	}

	req := content.LargeFileRequest{
		URL:         url,
		FilePath:    uploadPath,
		FileName:    uploadName,
		Description: uploadDescription,
	}

	return RunUploadLargeWithDependencies(cmd.Context(), newUploadService(os.Stdout), cfg.Credentials(), req)
}

// versionData returns the inline payload, base64-encoded when requested
func versionData(data string, encode bool) string {
	if encode {
		return base64.StdEncoding.EncodeToString([]byte(data))
	}
	return data
}

// RunUploadSmallWithDependencies runs the small upload with injected dependencies (for testing)
func RunUploadSmallWithDependencies(ctx context.Context, service *appdist.UploadService, creds auth.Credentials, req content.SmallFileRequest) error {
	if _, err := service.UploadSmallFile(ctx, creds, req); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}

// RunUploadLargeWithDependencies runs the large upload with injected dependencies (for testing)
func RunUploadLargeWithDependencies(ctx context.Context, service *appdist.UploadService, creds auth.Credentials, req content.LargeFileRequest) error {
	if _, err := service.UploadLargeFile(ctx, creds, req); err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}
