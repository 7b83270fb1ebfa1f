package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redcliff-io/findings-ledger/internal/ledger"
	"github.com/redcliff-io/findings-ledger/internal/logging"
)

func newIngestCmd() *cobra.Command {
	var (
		pr            int
		task          string
		condition     string
		aiShare       float64
		pipeline      string
		runContext    string
		codeqlSARIF   string
		semgrepJSON   string
		semgrepSARIF  string
		gitleaksSARIF string
		depcheckJSON  string
		output        string
		runLogPath    string
		debug         bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Parse scanner reports and append normalized findings to the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			console, err := logging.NewConsole(debug)
			if err != nil {
				return err
			}
			defer func() { _ = console.Sync() }()

			meta := ledger.RunMeta{
				PRNumber:  pr,
				TaskID:    task,
				Condition: condition,
				AIShare:   aiShare,
				Pipeline:  pipeline,
			}
			if runContext != "" {
				loaded, err := ledger.LoadRunContext(runContext)
				if err != nil {
					return err
				}
				// Explicit flags override the context file field by field.
				if cmd.Flags().Changed("pr") {
					loaded.PRNumber = pr
				}
				if cmd.Flags().Changed("task") {
					loaded.TaskID = task
				}
				if cmd.Flags().Changed("condition") {
					loaded.Condition = condition
				}
				if cmd.Flags().Changed("ai-share") {
					loaded.AIShare = aiShare
				}
				if cmd.Flags().Changed("pipeline") {
					loaded.Pipeline = pipeline
				}
				meta = loaded
			}

			cfg := ledger.Config{
				Run:           meta,
				CodeQLSARIF:   codeqlSARIF,
				SemgrepJSON:   semgrepJSON,
				SemgrepSARIF:  semgrepSARIF,
				GitleaksSARIF: gitleaksSARIF,
				DepcheckJSON:  depcheckJSON,
				StorePath:     output,
			}
			if runLogPath != "" {
				runLog, err := logging.NewRunLog(runLogPath)
				if err != nil {
					return err
				}
				defer func() { _ = runLog.Sync() }()
				cfg.RunLog = runLog
			}
			console.Debugf("ingesting findings for PR %d (%s/%s)", meta.PRNumber, meta.TaskID, meta.Pipeline)

			summary, err := ledger.Run(cfg)
			if err != nil {
				return err
			}

			for _, tc := range summary.PerTool {
				fmt.Printf("  %-10s %d finding(s)%s\n", tc.Label, tc.Count, tc.Note)
			}
			if summary.TotalFindings == 0 {
				fmt.Println("  No findings from any tool.")
			}
			fmt.Printf("\n  Total findings:      %d\n", summary.TotalFindings)
			fmt.Printf("  Unique weaknesses:   %d\n", summary.UniqueWeaknesses)
			fmt.Printf("  Cross-tool overlaps: %d\n", summary.CrossToolDups)
			fmt.Printf("  Written to:          %s\n", summary.StorePath)
			return nil
		},
	}

	cmd.Flags().IntVar(&pr, "pr", 0, "Pull request number")
	cmd.Flags().StringVar(&task, "task", "", "Task ID (T1-T6)")
	cmd.Flags().StringVar(&condition, "condition", "", "Condition (human-only, low-ai, high-ai)")
	cmd.Flags().Float64Var(&aiShare, "ai-share", 0, "Measured AI share of the PR's added code")
	cmd.Flags().StringVar(&pipeline, "pipeline", "", "Pipeline (baseline, security-gated)")
	cmd.Flags().StringVar(&runContext, "run-context", "", "Path to run context YAML (flags override its fields)")
	cmd.Flags().StringVar(&codeqlSARIF, "codeql-sarif", "", "Path to CodeQL SARIF file")
	cmd.Flags().StringVar(&semgrepJSON, "semgrep-json", "", "Path to Semgrep JSON file")
	cmd.Flags().StringVar(&semgrepSARIF, "semgrep-sarif", "", "Path to Semgrep SARIF file (fallback)")
	cmd.Flags().StringVar(&gitleaksSARIF, "gitleaks-sarif", "", "Path to Gitleaks SARIF file")
	cmd.Flags().StringVar(&depcheckJSON, "depcheck-json", "", "Path to Dependency-Check JSON file")
	cmd.Flags().StringVar(&output, "output", ledger.DefaultStorePath, "Output findings CSV path")
	cmd.Flags().StringVar(&runLogPath, "run-log", "", "Append run events to this JSON log file")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug console logging")
	return cmd
}
