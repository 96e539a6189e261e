package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gazecenter/app"
	"gazecenter/domain/core"
	"gazecenter/internal"
	"gazecenter/internal/config"
	"gazecenter/internal/container"
	"gazecenter/internal/render"
	"gazecenter/internal/report"
	"gazecenter/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gazecenter-cli",
		Short: "Inspect eye-tracking recordings without the dashboard",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			godotenv.Load()
		},
	}

	rootCmd.AddCommand(
		newParticipantsCmd(),
		newSummarizeCmd(),
		newExportCmd(),
		newChartCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newService loads configuration and builds the analysis service
func newService(ctx context.Context) (*app.AnalysisService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.LogLevel))

	c, err := container.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Init(ctx, false); err != nil {
		return nil, nil, err
	}
	return c.Service, func() { c.Shutdown(context.Background()) }, nil
}

func newParticipantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "participants",
		Short: "List participant recordings in aggregate order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			ids, err := svc.Participants(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newSummarizeCmd() *cobra.Command {
	var radius float64
	var all bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summarize [participant-id]",
		Short: "Count samples inside and outside the center region",
		Long: `Summarize one participant, or every participant plus the aggregate with --all.

Example: gazecenter-cli summarize P01 --radius 7.5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return fmt.Errorf("pass a participant ID or --all")
			}
			svc, done, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			var analyses []*app.Analysis
			var failures map[core.ParticipantID]error
			if all {
				analyses, failures, err = svc.AnalyzeAll(cmd.Context(), radius)
			} else {
				var id core.ParticipantID
				if id, err = core.ParseParticipantID(args[0]); err != nil {
					return err
				}
				var a *app.Analysis
				a, err = svc.Analyze(cmd.Context(), app.AnalysisRequest{Scope: ports.ScopeIndividual, ParticipantID: id, RadiusDeg: radius})
				analyses = append(analyses, a)
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(analyses)
			}
			printSummaries(cmd, analyses)
			for _, id := range app.FailedIDs(failures) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", id, failures[id])
			}
			if len(failures) > 0 {
				return fmt.Errorf("%d participant(s) failed to load", len(failures))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&radius, "radius", 10, "Center radius in degrees")
	cmd.Flags().BoolVar(&all, "all", false, "Summarize every participant and the aggregate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print analyses as JSON")
	return cmd
}

func printSummaries(cmd *cobra.Command, analyses []*app.Analysis) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tRADIUS\tTOTAL\tINSIDE\tOUTSIDE\tINSIDE %\tMEAN DIST (deg)")
	for _, a := range analyses {
		fmt.Fprintf(tw, "%s\t%g°\t%d\t%d\t%d\t%.1f\t%.2f\n",
			a.Label, a.Region.RadiusDeg, a.Summary.Total, a.Summary.Inside, a.Summary.Outside,
			a.Summary.InsideRatio*100, a.Distances.Degrees.Mean)
	}
	tw.Flush()
}

func newExportCmd() *cobra.Command {
	var radius float64
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every summary to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := svc.Export(cmd.Context(), f, radius); err != nil {
				f.Close()
				os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().Float64Var(&radius, "radius", 10, "Center radius in degrees")
	cmd.Flags().StringVar(&out, "out", "gaze-summaries.xlsx", "Output workbook path")
	return cmd
}

func newChartCmd() *cobra.Command {
	var radius float64
	var participant string
	var out string
	var width, height int

	cmd := &cobra.Command{
		Use:   "chart <individual|aggregate> <scatter|histogram>",
		Short: "Render one dashboard chart to a PNG file",
		Long: `Render one dashboard chart to a PNG file.

Example: gazecenter-cli chart individual scatter --participant P01 --out p01.png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.AnalysisRequest{Scope: args[0], RadiusDeg: radius, Quiet: true}
			if participant != "" {
				id, err := core.ParseParticipantID(participant)
				if err != nil {
					return err
				}
				req.ParticipantID = id
			}

			svc, done, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			a, err := svc.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			png, err := render.Render(args[1], a, render.Options{Width: width, Height: height})
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("%s-%s.png", args[0], args[1])
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", out, a.Label)
			return nil
		},
	}

	cmd.Flags().Float64Var(&radius, "radius", 10, "Center radius in degrees")
	cmd.Flags().StringVar(&participant, "participant", "", "Participant ID for the individual scope")
	cmd.Flags().StringVar(&out, "out", "", "Output PNG path")
	cmd.Flags().IntVar(&width, "width", 640, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", 640, "Image height in pixels")
	return cmd
}

func newReportCmd() *cobra.Command {
	var radius float64
	var html bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the markdown report of every participant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := newService(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			analyses, failures, err := svc.AnalyzeAll(cmd.Context(), radius)
			if err != nil {
				return err
			}
			md := report.Build(report.Report{
				Source:      svc.Source(),
				RadiusDeg:   radius,
				GeneratedAt: time.Now(),
				Analyses:    analyses,
				Failures:    failures,
			})
			if html {
				_, err = cmd.OutOrStdout().Write(report.HTML(md))
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		},
	}

	cmd.Flags().Float64Var(&radius, "radius", 10, "Center radius in degrees")
	cmd.Flags().BoolVar(&html, "html", false, "Render HTML instead of markdown")
	return cmd
}
