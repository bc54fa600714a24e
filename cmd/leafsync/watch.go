package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/AashishRichhariya/openleaf/internal/app/system/autosave"
	"github.com/AashishRichhariya/openleaf/internal/client"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [slug] [file]",
		Short: "Autosave file to slug whenever it changes",
		Long: "Watch file and save its JSON content to the document after each quiet period.\n" +
			"A missing file is created from the stored document. Ctrl-C stops watching;\n" +
			"a save that has not started yet is dropped.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watch(ctx, client.New(serverURL), args[0], args[1], logger)
		},
	}
}

// watch runs until ctx is done or the watcher fails.
func watch(ctx context.Context, c *client.Client, slug, path string, logger *zap.Logger) error {
	doc, err := c.Fetch(ctx, slug)
	if err != nil {
		return err
	}

	cfg := autosave.Config{
		Slug:   slug,
		IsNew:  doc == nil,
		Window: debounce,
	}
	if doc != nil {
		cfg.ReadOnly = doc.ReadOnly
		cfg.Initial = doc.Content
	}
	if cfg.ReadOnly {
		logger.Warn("document is read-only; changes will not be saved")
	}

	if err := seedFile(path, cfg.Initial); err != nil {
		return err
	}

	ctrl := autosave.New(c, cfg, logger)
	defer ctrl.Close()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace the file instead of writing it in place, so the
	// directory is watched and events are filtered by name.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	logger.Info("watching",
		zap.String("file", abs),
		zap.String("slug", slug),
		zap.Bool("new", cfg.IsNew),
		zap.Duration("debounce", debounce))

	snapshot := fileSnapshot(abs)
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopped watching", zap.String("state", ctrl.State().String()))
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("file changed", zap.String("op", ev.Op.String()))
			ctrl.OnChange(snapshot)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", err)
		}
	}
}

// fileSnapshot reads the file when the controller flushes, so a burst of
// writes is saved once with its final content.
func fileSnapshot(path string) autosave.Snapshot {
	return autosave.SnapshotFunc(func() (json.RawMessage, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("%s is not valid JSON", path)
		}
		return json.RawMessage(data), nil
	})
}

// seedFile writes content to path unless the file already exists.
func seedFile(path string, content json.RawMessage) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	data, err := prettyContent(content)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
