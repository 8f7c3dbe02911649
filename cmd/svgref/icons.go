package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacoelho/svgref/iconset"
)

type iconsFlags struct {
	out      string
	maxDepth int
	validate bool
	count    bool
}

func (a *app) iconsCmd() *cobra.Command {
	var f iconsFlags
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Resolve and edit icon-set aliases",
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.out, "out", "o", "", "write the exported icon set to file instead of stdout")
	flags.IntVar(&f.maxDepth, "max-depth", 0, "alias hop bound (overrides config)")
	flags.BoolVar(&f.validate, "validate", true, "drop entries that do not resolve on export (overrides config)")

	list := &cobra.Command{
		Use:   "list FILE",
		Short: "List visible icons",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadIconSet(cmd, f, args[0])
			if err != nil {
				return err
			}
			if f.count {
				return writeln(a.stdout, s.Count())
			}
			for _, name := range s.List() {
				if err := writeln(a.stdout, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	list.Flags().BoolVar(&f.count, "count", false, "print only the number of visible icons")

	resolve := &cobra.Command{
		Use:   "resolve FILE NAME...",
		Short: "Print the resolved icon data for names",
		Args:  minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadIconSet(cmd, f, args[0])
			if err != nil {
				return err
			}
			return a.resolveIcons(s, args[1:])
		},
	}

	remove := &cobra.Command{
		Use:   "remove FILE NAME...",
		Short: "Remove icons or aliases together with aliases that depend on them",
		Args:  minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadIconSet(cmd, f, args[0])
			if err != nil {
				return err
			}
			for _, name := range args[1:] {
				n := s.Remove(name)
				if n == 0 {
					a.logger.Warn("nothing to remove", slog.String("name", name))
					continue
				}
				a.logger.Info("removed", slog.String("name", name), slog.Int("entries", n))
			}
			return a.exportIconSet(cmd, f, s)
		},
	}

	rename := &cobra.Command{
		Use:   "rename FILE OLD NEW",
		Short: "Rename an icon or alias and repoint its references",
		Args:  exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadIconSet(cmd, f, args[0])
			if err != nil {
				return err
			}
			if !s.Rename(args[1], args[2]) {
				return fmt.Errorf("cannot rename %q to %q: unknown name or target taken", args[1], args[2])
			}
			return a.exportIconSet(cmd, f, s)
		},
	}

	export := &cobra.Command{
		Use:   "export FILE",
		Short: "Re-export an icon set, dropping entries that do not resolve",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadIconSet(cmd, f, args[0])
			if err != nil {
				return err
			}
			return a.exportIconSet(cmd, f, s)
		},
	}

	lint := &cobra.Command{
		Use:   "lint FILE",
		Short: "Report rule violations and entries an export would drop",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecordFile(args[0])
			if err != nil {
				return err
			}
			s, err := iconset.NewWithOptions(rec, a.iconOptions(cmd, f))
			if err != nil {
				return usageError(err)
			}
			problems := rec.Lint()
			for _, p := range problems {
				if err := writef(a.stdout, "%s: %s\n", args[0], p); err != nil {
					return err
				}
			}
			_, drops := s.ExportReport(true)
			for _, d := range drops {
				if err := writef(a.stdout, "%s: %s\n", args[0], formatDrop(d)); err != nil {
					return err
				}
			}
			if len(problems)+len(drops) > 0 {
				return errReported
			}
			return nil
		},
	}

	dupes := &cobra.Command{
		Use:   "dupes FILE",
		Short: "List groups of icons that render identically",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadIconSet(cmd, f, args[0])
			if err != nil {
				return err
			}
			for _, group := range s.Duplicates() {
				if err := writeln(a.stdout, strings.Join(group, " ")); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.AddCommand(list, resolve, remove, rename, export, lint, dupes)
	return cmd
}

func (a *app) iconOptions(cmd *cobra.Command, f iconsFlags) iconset.Options {
	depth := a.cfg.Icons.MaxDepth
	if cmd.Flags().Changed("max-depth") {
		depth = f.maxDepth
	}
	return iconset.NewOptions().WithMaxDepth(depth)
}

func (a *app) loadIconSet(cmd *cobra.Command, f iconsFlags, path string) (*iconset.IconSet, error) {
	rec, err := readRecordFile(path)
	if err != nil {
		return nil, err
	}
	s, err := iconset.NewWithOptions(rec, a.iconOptions(cmd, f))
	if err != nil {
		return nil, usageError(err)
	}
	a.logger.Debug("loaded icon set",
		slog.String("file", path),
		slog.String("prefix", s.Prefix()),
		slog.Int("icons", s.Count()),
		slog.Int("aliases", len(s.Aliases())))
	return s, nil
}

func readRecordFile(path string) (rec iconset.Record, err error) {
	f, err := os.Open(path)
	if err != nil {
		return iconset.Record{}, fmt.Errorf("open icon set %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close icon set %s: %w", path, closeErr)
		}
	}()
	rec, err = iconset.ReadRecord(f)
	if err != nil {
		return iconset.Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

func (a *app) resolveIcons(s *iconset.IconSet, names []string) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	failed := false
	for _, name := range names {
		icon := s.ResolveFull(name)
		if icon == nil {
			a.logger.Error("cannot resolve", slog.String("name", name), slog.Bool("exists", s.Exists(name)))
			failed = true
			continue
		}
		if err := enc.Encode(map[string]*iconset.Icon{name: icon}); err != nil {
			return err
		}
	}
	if failed {
		return errReported
	}
	return nil
}

func (a *app) exportIconSet(cmd *cobra.Command, f iconsFlags, s *iconset.IconSet) (err error) {
	validate := a.cfg.Icons.Validate
	if cmd.Flags().Changed("validate") {
		validate = f.validate
	}
	rec, drops := s.ExportReport(validate)
	for _, d := range drops {
		a.logger.Warn("dropped on export",
			slog.String("kind", string(d.Kind)),
			slog.String("name", d.Name),
			slog.String("target", d.Target),
			slog.String("reason", string(d.Reason)))
	}

	var w io.Writer = a.stdout
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return fmt.Errorf("create %s: %w", f.out, err)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", f.out, closeErr)
			}
		}()
		w = file
	}
	return rec.Encode(w)
}

func formatDrop(d iconset.Drop) string {
	if d.Target == "" {
		return fmt.Sprintf("%s %q dropped: %s", d.Kind, d.Name, d.Reason)
	}
	return fmt.Sprintf("%s %q -> %q dropped: %s", d.Kind, d.Name, d.Target, d.Reason)
}
