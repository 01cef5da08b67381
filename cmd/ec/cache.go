package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"ec/internal/cache"
)

var cacheRelease bool

func init() {
	cachePathCmd.Flags().BoolVarP(&cacheRelease, "release", "r", false, "show the release entry")
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the binary cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached binaries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCommandStore(cmd)
		if err != nil {
			return err
		}
		entries, err := store.List()
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", store.Root(), err)
		}
		return printCacheEntries(cmd.OutOrStdout(), entries)
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path [file]",
	Short: "Print the cache root, or where a file's binary is cached",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCommandStore(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintln(out, store.Root())
			return nil
		}
		mode := cache.ModeDebug
		if cacheRelease {
			mode = cache.ModeRelease
		}
		binary, _, _ := store.Paths(cache.Key{Source: args[0], Mode: mode})
		fmt.Fprintln(out, binary)
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached binary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCommandStore(cmd)
		if err != nil {
			return err
		}
		if err := store.Clean(); err != nil {
			return fmt.Errorf("failed to clean %s: %w", store.Root(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", store.Root())
		return nil
	},
}

func openCommandStore(cmd *cobra.Command) (*cache.Store, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	root, err := cfg.CacheRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	return cache.Open(root), nil
}

func printCacheEntries(out io.Writer, entries []cache.Meta) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "cache is empty")
		return err
	}
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers("MODE", "SIZE", "STORED", "DIGEST", "SOURCE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, e := range entries {
		tbl.Row(string(e.Mode), formatSize(e.Size), e.StoredAt.Local().Format(time.DateTime), e.Digest.Short(), displaySource(e.Source))
	}
	_, err := fmt.Fprintln(out, tbl.Render())
	return err
}

func displaySource(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path + " (missing)"
	}
	return path
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
