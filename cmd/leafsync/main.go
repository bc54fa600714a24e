// Command leafsync works with an openleaf server from the terminal: allocate
// slugs, pull documents, and autosave a local JSON file as it changes.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/AashishRichhariya/openleaf/internal/app/system/autosave"
	"github.com/AashishRichhariya/openleaf/internal/client"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	serverURL string
	debounce  time.Duration
	verbose   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "leafsync",
		Short:        "Sync local files with an openleaf server",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", client.DefaultBaseURL, "openleaf server URL")
	rootCmd.PersistentFlags().DurationVar(&debounce, "debounce", autosave.DefaultWindow, "quiet period before an autosave")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newCmd())
	rootCmd.AddCommand(pullCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Allocate an unused slug",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slug, err := client.New(serverURL).NewSlug(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), slug)
			return nil
		},
	}
}

func pullCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull [slug]",
		Short: "Write a document's content as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := client.New(serverURL).Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("no document stored under %q", args[0])
			}
			data, err := prettyContent(doc.Content)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

// prettyContent indents content for a human-edited file. Null content
// becomes "null".
func prettyContent(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return []byte("null\n"), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("format content: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
