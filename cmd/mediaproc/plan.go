package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	mediaprocessor "github.com/aagalakova/Media-processor"
	"github.com/aagalakova/Media-processor/internal/discovery"
	"github.com/aagalakova/Media-processor/internal/logging"
)

type planArgs struct {
	jsonOut  bool
	settings settingsFlags
}

func newPlanCmd() *cobra.Command {
	pa := &planArgs{}

	cmd := &cobra.Command{
		Use:   "plan [flags] <path>...",
		Short: "Show the output names a run would produce",
		Long: `List the naming groups and the output names each input would receive,
without converting anything. Names assume every conversion succeeds.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args, pa)
		},
	}

	cmd.Flags().BoolVar(&pa.jsonOut, "json", false, "Print the plan as JSON")
	pa.settings.register(cmd.Flags())
	return cmd
}

// planOutput is the JSON form of a plan.
type planOutput struct {
	Groups []planGroup `json:"groups"`
	Files  []planFile  `json:"files"`
}

type planGroup struct {
	Type  string `json:"type"`
	Base  string `json:"base"`
	Ext   string `json:"ext"`
	Count int    `json:"count"`
}

type planFile struct {
	Source string   `json:"source"`
	Names  []string `json:"names"`
}

func runPlan(cmd *cobra.Command, args []string, pa *planArgs) error {
	settings, err := pa.settings.build(cmd)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	paths, err := discovery.ResolveInputs(args, pa.settings.includeOther, logging.Discard())
	if err != nil {
		return err
	}
	files, err := discovery.Load(paths)
	if err != nil {
		return err
	}

	out := planOutput{Groups: []planGroup{}, Files: []planFile{}}
	for _, e := range mediaprocessor.Plan(files, settings) {
		out.Groups = append(out.Groups, planGroup{
			Type:  e.Type.String(),
			Base:  e.Base,
			Ext:   e.Ext,
			Count: e.Count,
		})
	}
	for _, p := range mediaprocessor.PreviewNames(files, settings) {
		out.Files = append(out.Files, planFile{Source: p.Source, Names: p.Names})
	}

	if pa.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printPlan(cmd.OutOrStdout(), out)
	return nil
}

func printPlan(w io.Writer, out planOutput) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	if len(out.Groups) > 0 {
		bold.Fprintln(w, "NAMING GROUPS")
		for _, g := range out.Groups {
			ext := g.Ext
			if ext == "" {
				ext = "(source)"
			}
			fmt.Fprintf(w, "  %-6s %-20s %-9s %d\n", g.Type, g.Base, ext, g.Count)
		}
		fmt.Fprintln(w)
	}

	bold.Fprintln(w, "OUTPUTS")
	for _, f := range out.Files {
		cyan.Fprintf(w, "  %s\n", f.Source)
		fmt.Fprintf(w, "    %s\n", strings.Join(f.Names, ", "))
	}
}
