package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/gnana997/propdoc/pkg/catalog"
	"github.com/gnana997/propdoc/pkg/docgen"
	mcpserver "github.com/gnana997/propdoc/pkg/mcp"
	"github.com/gnana997/propdoc/pkg/workspace"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encode output")
}

func newDocCmd(a *app) *cobra.Command {
	var component string

	cmd := &cobra.Command{
		Use:   "doc <file>",
		Short: "Document the components declared in a file",
		Long: `Document the components declared in a file as react-docgen style JSON.

Props declared through imported types, spreads, intersections and utility
types (Partial, Required, Omit, Pick) are followed across files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer a.closeWorkspace(ws)

			if component != "" {
				doc, err := ws.Generator().DocumentComponent(args[0], component)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), doc)
			}
			documented, err := ws.Generator().DocumentFile(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), documented)
		},
	}
	cmd.Flags().StringVarP(&component, "component", "c", "", "document only the named component")
	return cmd
}

func newValueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "value <file> <name>",
		Short: "Resolve the value of an identifier visible in a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer a.closeWorkspace(ws)

			values, err := ws.Generator().ResolveValue(args[0], args[1])
			if err != nil {
				return err
			}
			out := make([]any, 0, len(values))
			for _, v := range values {
				out = append(out, docgen.Plain(v))
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

type scanFlags struct {
	out     string
	name    string
	version string
	workers int
}

func newScanCmd(a *app) *cobra.Command {
	var f scanFlags

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Scan component library and generate catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ws, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer a.closeWorkspace(ws)

			path, count, err := a.writeCatalog(ctx, ws, args[0], f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d components to %s\n", count, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "catalog output path (default: catalog_path or "+defaultCatalogPath+")")
	cmd.Flags().StringVar(&f.name, "name", "", "catalog name (default: directory name)")
	cmd.Flags().StringVar(&f.version, "catalog-version", "0.0.0", "catalog version")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "number of documenting goroutines (0 = auto)")
	return cmd
}

// writeCatalog scans dir and saves the catalog, returning its path and the
// number of components written. Per-file failures are logged and skipped.
func (a *app) writeCatalog(ctx context.Context, ws *workspace.Workspace, dir string, f scanFlags) (string, int, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", 0, errors.Wrapf(err, "resolve path %s", dir)
	}

	opts := a.config.scanOptions()
	opts.Workers = f.workers
	result, err := ws.Scan(ctx, root, opts, func(done, total int, file string) {
		a.logger.Debug("Documented file", "done", done, "total", total, "file", file)
	})
	if err != nil {
		return "", 0, err
	}
	if result.Stats.Cancelled {
		return "", 0, errors.New("scan cancelled")
	}
	for _, fe := range result.Stats.Errors {
		a.logger.Warn("Skipped file", "file", fe.FilePath, "error", fe.Error)
	}
	a.logger.Info("Scan complete",
		"files", result.Stats.FilesDiscovered,
		"components", result.Stats.ComponentsFound,
		"failed", result.Stats.FilesFailed,
		"duration_ms", result.Stats.TotalTimeMs,
	)

	name := f.name
	if name == "" {
		name = filepath.Base(root)
	}
	cat := catalog.FromDocs(name, f.version, root, result.Docs)
	if errs := cat.Validate(); len(errs) > 0 {
		return "", 0, errors.Wrap(errors.Join(errs...), "catalog validation failed")
	}

	path := a.config.resolveCatalogPath(f.out)
	if err := cat.SaveToFile(path); err != nil {
		return "", 0, err
	}
	return path, len(cat.Components), nil
}

func newInspectCmd(a *app) *cobra.Command {
	var (
		catalogPath string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <name>",
		Short: "Inspect a component's props from the catalog",
		Long: `Inspect a component's props from the catalog.

When several files declare the same name, the first in catalog order is
shown; use "path#Name" to pick one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qs, err := catalog.LoadAndQuery(a.config.resolveCatalogPath(catalogPath))
			if err != nil {
				return err
			}
			comp, ok := qs.GetComponent(args[0])
			if !ok {
				return errors.WithHint(
					errors.Newf("component not found: %s", args[0]),
					"run 'propdoc scan' again if the component was added recently",
				)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), comp)
			}
			printComponentHuman(cmd.OutOrStdout(), comp, sharedComposes(qs, comp))
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog entry as JSON")
	return cmd
}

// sharedComposes maps each type comp composes to the other components
// composing it.
func sharedComposes(qs *catalog.QueryService, comp *catalog.Component) map[string][]string {
	shared := make(map[string][]string, len(comp.Composes))
	for _, name := range comp.Composes {
		for _, other := range qs.ComposedBy(name) {
			if other.Name == comp.Name && other.FilePath == comp.FilePath {
				continue
			}
			shared[name] = append(shared[name], other.Name)
		}
	}
	return shared
}

func newWatchCmd(a *app) *cobra.Command {
	var f scanFlags

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch for file changes and keep the catalog current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ws, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer a.closeWorkspace(ws)

			path, count, err := a.writeCatalog(ctx, ws, args[0], f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d components to %s, watching for changes\n", count, path)

			rescan := func(events []workspace.WatchEvent) {
				a.logger.Info("Files changed", "count", len(events))
				path, count, err := a.writeCatalog(ctx, ws, args[0], f)
				if err != nil {
					a.logger.Error("Rescan failed", "error", err)
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d components to %s\n", count, path)
			}
			opts := workspace.DefaultWatchOptions()
			opts.IgnorePatterns = append(opts.IgnorePatterns, a.config.scanOptions().Exclude...)
			return ws.Watch(ctx, args[0], opts, rescan)
		},
	}
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "catalog output path")
	cmd.Flags().StringVar(&f.name, "name", "", "catalog name (default: directory name)")
	cmd.Flags().StringVar(&f.version, "catalog-version", "0.0.0", "catalog version")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "number of documenting goroutines (0 = auto)")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var (
		root        string
		catalogPath string
		callLogPath string
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start MCP server",
		Long: `Start the MCP server on stdin/stdout.

Live tools document files under --root on demand. Catalog tools answer from
the catalog written by 'propdoc scan'; without one they report an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ws, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer a.closeWorkspace(ws)

			path := a.config.resolveCatalogPath(catalogPath)
			qs, err := catalog.LoadAndQuery(path)
			switch {
			case errors.Is(err, os.ErrNotExist):
				a.logger.Info("No catalog found, catalog tools disabled", "path", path)
				qs = nil
			case err != nil:
				return err
			}

			callLog, err := mcpserver.OpenCallLog(callLogPath)
			if err != nil {
				return err
			}
			if callLog != nil {
				defer func() {
					a.logger.Info("Closing call log", "path", callLogPath, "entries", callLog.Entries())
					if err := callLog.Close(); err != nil {
						a.logger.Warn("Failed to close call log", "error", err)
					}
				}()
			}

			if watch {
				go func() {
					if err := ws.Watch(ctx, root, workspace.DefaultWatchOptions(), nil); err != nil && ctx.Err() == nil {
						a.logger.Error("Watcher stopped", "error", err)
					}
				}()
			}

			srv := mcpserver.NewServer(mcpserver.Config{
				Root:      root,
				Generator: ws.Generator(),
				Query:     qs,
				CallLog:   callLog,
				Logger:    a.logger,
			})
			return errors.Wrap(srv.ServeStdio(), "server error")
		},
	}
	cmd.Flags().StringVar(&root, "root", ".", "workspace root for live tools")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog path")
	cmd.Flags().StringVar(&callLogPath, "call-log", "", "append a JSONL record of every tool call to this file")
	cmd.Flags().BoolVar(&watch, "watch", false, "invalidate cached files under --root as they change")
	return cmd
}
