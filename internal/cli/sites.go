package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/genexpand"
)

// SitesOptions holds flags for the sites command.
type SitesOptions struct {
	*RootOptions
	Mode string // invocation style to scan for
}

// SiteReport is one discovered invocation site, shaped for output.
type SiteReport struct {
	File string `json:"file"`
	Pos  string `json:"pos"`
	Mode string `json:"mode"`
	Path string `json:"path"`
	Args string `json:"args,omitempty"`
	Item string `json:"item,omitempty"`
}

// NewSitesCommand creates the sites command.
func NewSitesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SitesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sites <file.cue> [file.cue...]",
		Short: "List generator invocation sites in CUE files",
		Long: `List the invocation sites the dispatcher would visit in the given CUE
files, without invoking any generator.

The --mode flag selects the invocation style: function-like call
expressions, @derive(...) attributes, or plain attributes.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSites(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", "function-like", "invocation style (function-like|derive|attribute)")

	return cmd
}

func runSites(opts *SitesOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	mode, err := parseMode(opts.Mode)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --mode", err)
	}

	var reports []SiteReport
	for _, path := range paths {
		formatter.VerboseLog("scanning %s", path)

		sites, err := scanFile(path, mode)
		if err != nil {
			var ee *genexpand.ExpansionError
			if errors.As(err, &ee) {
				formatter.Error(string(ee.Code), ee.Error(), nil)
				return WrapExitError(ExitFailure, fmt.Sprintf("scanning %s", path), err)
			}
			return WrapExitError(ExitCommandError, fmt.Sprintf("scanning %s", path), err)
		}
		reports = append(reports, reportSites(path, sites)...)
	}

	if opts.Format == "json" {
		return formatter.Success(reports)
	}
	return formatter.Success(renderSitesText(reports))
}

func scanFile(path string, mode genexpand.Mode) ([]genexpand.Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return genexpand.Sites(f, mode)
}

func reportSites(path string, sites []genexpand.Site) []SiteReport {
	reports := make([]SiteReport, len(sites))
	for i, site := range sites {
		pos := ""
		if site.Pos.IsValid() {
			pos = fmt.Sprintf("%s:%d:%d", site.Pos.Filename(), site.Pos.Line(), site.Pos.Column())
		}
		reports[i] = SiteReport{
			File: path,
			Pos:  pos,
			Mode: site.Mode.String(),
			Path: site.Path.String(),
			Args: site.Args.String(),
			Item: site.Item.String(),
		}
	}
	return reports
}

func renderSitesText(reports []SiteReport) string {
	var buf strings.Builder
	for _, report := range reports {
		fmt.Fprintf(&buf, "%s  %s", report.Pos, report.Path)
		if report.Args != "" {
			fmt.Fprintf(&buf, "(%s)", report.Args)
		}
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "✓ %d site(s) found", len(reports))
	return buf.String()
}

func parseMode(name string) (genexpand.Mode, error) {
	switch name {
	case "function-like":
		return genexpand.ModeFunctionLike, nil
	case "derive":
		return genexpand.ModeDerive, nil
	case "attribute":
		return genexpand.ModeAttribute, nil
	}
	return 0, fmt.Errorf("unknown mode %q: must be function-like, derive, or attribute", name)
}
