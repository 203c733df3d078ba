package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-msoffice-shared/internal/logging"
	"github.com/benjaminschreck/go-msoffice-shared/pkg/drawingml"
	"github.com/benjaminschreck/go-msoffice-shared/pkg/opc"
)

type rootOptions struct {
	logLevel string
	lenient  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "ooxml",
		Short:         "Inspect Office Open XML packages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logLevel == "" {
				return nil
			}
			if !logging.ValidLevel(opts.logLevel) {
				return fmt.Errorf("unknown log level %q", opts.logLevel)
			}
			logging.SetLevel(opts.logLevel)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, error or off (default from OOXML_LOG_LEVEL)")
	root.PersistentFlags().BoolVar(&opts.lenient, "lenient", false, "keep going after schema problems")

	root.AddCommand(
		newPartsCmd(opts),
		newRelsCmd(opts),
		newPropsCmd(opts),
		newThemeCmd(opts),
		newCheckCmd(opts),
		newExtractCmd(opts),
	)
	return root
}

func (o *rootOptions) open(path string) (*opc.Package, error) {
	var popts []opc.Option
	if o.lenient {
		popts = append(popts, opc.WithStrict(false))
	}
	return opc.OpenFile(path, popts...)
}

func newPartsCmd(opts *rootOptions) *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "parts <file>",
		Short: "List the parts of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(args[0])
			if err != nil {
				return err
			}
			parts := p.Parts()
			if pattern != "" {
				if parts, err = p.FindParts(pattern); err != nil {
					return err
				}
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d parts", len(parts))))
			for _, part := range parts {
				fmt.Fprintf(w, "%s  %s  %s\n", keyStyle.Render(part.Name()), part.ContentType(),
					mutedStyle.Render(humanize.IBytes(uint64(part.Size()))))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "match", "", "only list parts matching a glob such as /ppt/slides/*.xml")
	return cmd
}

func newRelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rels <file> [part]",
		Short: "List the relationships of a part, or of the package",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(args[0])
			if err != nil {
				return err
			}
			source := opc.PackageRoot
			if len(args) == 2 {
				source = args[1]
			}
			rels, ok := p.Relationships().Lookup(source)
			w := cmd.OutOrStdout()
			if !ok || rels.Len() == 0 {
				fmt.Fprintln(w, mutedStyle.Render("no relationships"))
				return nil
			}
			for _, r := range rels.All() {
				fmt.Fprintf(w, "%s  %s  %s", keyStyle.Render(r.ID), r.Target, mutedStyle.Render(r.Type))
				if r.TargetMode == opc.External {
					fmt.Fprint(w, "  (external)")
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
}

func newPropsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "props <file>",
		Short: "Show the core document properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(args[0])
			if err != nil {
				return err
			}
			cp, err := p.CoreProperties()
			if cp == nil {
				return err
			}
			w := cmd.OutOrStdout()
			field(w, "title", cp.Title)
			field(w, "subject", cp.Subject)
			field(w, "creator", cp.Creator)
			field(w, "lastModifiedBy", cp.LastModifiedBy)
			if cp.Revision != 0 {
				field(w, "revision", fmt.Sprint(cp.Revision))
			}
			if !cp.Created.IsZero() {
				field(w, "created", cp.Created.Format("2006-01-02 15:04:05Z07:00"))
			}
			if !cp.Modified.IsZero() {
				field(w, "modified", cp.Modified.Format("2006-01-02 15:04:05Z07:00"))
			}
			return err
		},
	}
}

func newThemeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "theme <file>",
		Short: "Summarise the document theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(args[0])
			if err != nil {
				return err
			}
			e, err := drawingml.PackageTheme(p)
			if e == nil {
				return err
			}
			info, ierr := drawingml.ThemeInfo(e)
			if ierr != nil {
				return ierr
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, titleStyle.Render(info.Name))
			field(w, "colors", info.ColorScheme)
			field(w, "fonts", info.FontScheme)
			field(w, "major", info.MajorLatin)
			field(w, "minor", info.MinorLatin)
			for _, name := range drawingml.SchemeColorNames {
				c, ok := info.Colors[name]
				if !ok {
					continue
				}
				if rgb, ok := info.Resolve(c); ok {
					field(w, name, fmt.Sprintf("#%06X", rgb))
				}
			}
			return err
		},
	}
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Check content types and relationship targets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if err := p.Validate(); err != nil {
				fmt.Fprintln(w, errStyle.Render("invalid package"))
				fmt.Fprintln(w, err)
				return err
			}
			fmt.Fprintln(w, okStyle.Render("ok"))
			return nil
		},
	}
}

func newExtractCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "extract <file> <part>",
		Short: "Write the bytes of one part",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.open(args[0])
			if err != nil {
				return err
			}
			part, ok := p.Part(args[1])
			if !ok {
				return fmt.Errorf("%s: %w", args[1], opc.ErrPartNotFound)
			}
			data, err := part.Bytes()
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, data, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func field(w io.Writer, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render(key), value)
}
