package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gradelens/adapters/excel"
	"gradelens/adapters/llm"
	"gradelens/adapters/report"
	"gradelens/ai"
	"gradelens/app"
	"gradelens/domain/analytics"
	"gradelens/domain/dataset"
	"gradelens/internal/analysis/narrative"
	"gradelens/internal/config"
	"gradelens/internal/errors"
	"gradelens/internal/normalize"
	"gradelens/internal/testkit"
)

// cliEnv carries configuration and shared helpers into every command.
type cliEnv struct {
	cfg  *config.Config
	opts *globalOptions
}

// loaded is one input file ready for analysis.
type loaded struct {
	raw    *dataset.RawTable
	table  *dataset.Table
	report *normalize.Report
}

func (e *cliEnv) service() *app.AnalyticsService {
	return app.NewAnalyticsService(narrative.Templates{}, nil)
}

func (e *cliEnv) summarizer() *ai.ParentSummarizer {
	a := e.cfg.AI
	return ai.NewOpenAIParentSummarizer(
		ai.Options{Enabled: a.Enabled, Provider: a.Provider, Model: a.Model, Timeout: a.Timeout, MaxTokens: a.MaxTokens},
		llm.Config{Model: a.Model, APIKey: a.APIKey, BaseURL: a.BaseURL, Temperature: a.Temperature, MaxTokens: a.MaxTokens, Timeout: a.Timeout, JSONMode: true},
	)
}

// load reads a CSV/XLSX file and, unless --raw is set, cleans it.
func (e *cliEnv) load(path string) (*loaded, error) {
	if e.opts.passMark < 0 || e.opts.passMark > 100 {
		return nil, errors.InvalidInput(fmt.Sprintf("--pass-mark must be between 0 and 100, got %g", e.opts.passMark))
	}
	raw, err := excel.NewDataReader(path).ReadData()
	if err != nil {
		return nil, err
	}
	out := &loaded{raw: raw}
	if !e.opts.raw {
		out.raw, out.report = normalize.Clean(raw, normalize.Options{
			PassMark:           e.opts.passMark,
			TreatMissingAsZero: e.opts.treatMissingAsZero,
		})
	}
	out.table = dataset.NewTable(out.raw)
	return out, nil
}

func newAnalyzeCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [data-file]",
		Short: "Run every engine and print the school overview",
		Long: `Run overview, subject statistics, risk, gaps, term comparison and insights
over a CSV or XLSX results file.

Example: gradelens analyze results.xlsx --pass-mark 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := env.load(args[0])
			if err != nil {
				return err
			}
			b, err := env.service().Run(cmd.Context(), in.table, env.opts.passMark)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if env.opts.jsonOut {
				return printJSON(w, b)
			}
			printOverview(w, *b.Overview)
			printSubjects(w, *b.Subjects)
			printRisk(w, *b.Risk, 10)
			printInsights(w, *b.Insights, 5)
			return nil
		},
	}
}

func newRiskCmd(env *cliEnv) *cobra.Command {
	var all bool
	var limit int

	cmd := &cobra.Command{
		Use:   "risk [data-file]",
		Short: "List students at risk of failing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := env.load(args[0])
			if err != nil {
				return err
			}
			rep, err := env.service().Risk(in.table, env.opts.passMark)
			if err != nil {
				return err
			}
			if all {
				rep.Students = rep.Scored
			}
			if env.opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), rep)
			}
			printRisk(cmd.OutOrStdout(), rep, limit)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include every assessed student, not only those below average and the pass mark")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to print (0 for all)")
	return cmd
}

func newGapsCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "gaps [data-file]",
		Short: "Show gender, class, regional and term gaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := env.load(args[0])
			if err != nil {
				return err
			}
			rep, err := env.service().Gaps(in.table, env.opts.passMark)
			if err != nil {
				return err
			}
			if env.opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), rep)
			}
			printGaps(cmd.OutOrStdout(), rep)
			return nil
		},
	}
}

func newInsightsCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "insights [data-file]",
		Short: "Generate rule-based insights with an executive summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := env.load(args[0])
			if err != nil {
				return err
			}
			rep, err := env.service().Insights(cmd.Context(), in.table, env.opts.passMark)
			if err != nil {
				return err
			}
			if env.opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), rep)
			}
			printInsights(cmd.OutOrStdout(), rep, 0)
			return nil
		},
	}
}

func newTermsCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "terms [data-file]",
		Short: "Compare performance across terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := env.load(args[0])
			if err != nil {
				return err
			}
			if err := in.table.Schema.Require(dataset.FieldTerm); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			tc, err := env.service().TermComparison(in.table, env.opts.passMark)
			if err != nil {
				return err
			}
			if env.opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), tc)
			}
			printTerms(cmd.OutOrStdout(), tc)
			return nil
		},
	}
}

func newStudentCmd(env *cliEnv) *cobra.Command {
	var withSummary bool

	cmd := &cobra.Command{
		Use:   "student [data-file] [student-id]",
		Short: "Show one student's profile",
		Long: `Show one student's profile: subject scores, term trend and ranks.

With --summary, also print the parent summary. The summary is rewritten by
OpenAI when AI_ENABLED=true and OPENAI_API_KEY is set; otherwise the
template summary is used.

Example: gradelens student results.csv STU001 --summary`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := env.load(args[0])
			if err != nil {
				return err
			}
			id := args[1]
			profile, err := env.service().Student(in.table, id, env.opts.passMark)
			if err != nil {
				return err
			}
			var summary *ai.ParentSummary
			if withSummary {
				if summary, err = env.summarizer().Summarize(cmd.Context(), in.table, id, env.opts.passMark); err != nil {
					return err
				}
			}
			w := cmd.OutOrStdout()
			if env.opts.jsonOut {
				return printJSON(w, struct {
					Profile *analytics.StudentProfile `json:"profile"`
					Summary *ai.ParentSummary         `json:"parent_summary,omitempty"`
				}{profile, summary})
			}
			printProfile(w, profile)
			if summary != nil {
				printSummary(w, summary)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withSummary, "summary", false, "Include the parent summary")
	return cmd
}

func newCleanCmd(env *cliEnv) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "clean [data-file]",
		Short: "Clean a results file and print the cleaning report",
		Long: `Clean a results file: standardize genders and subjects, coerce scores,
derive percentages, flag outliers, drop duplicates and add pass/fail.

Example: gradelens clean messy.csv -o cleaned.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := excel.NewDataReader(args[0]).ReadData()
			if err != nil {
				return err
			}
			cleaned, rep := normalize.Clean(raw, normalize.Options{
				PassMark:           env.opts.passMark,
				TreatMissingAsZero: env.opts.treatMissingAsZero,
			})
			w := cmd.OutOrStdout()
			if env.opts.jsonOut {
				if err := printJSON(w, rep); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(w, rep.Text())
			}
			if output == "" {
				return nil
			}
			if err := excel.SaveRawTable(output, cleaned); err != nil {
				return err
			}
			success(w, "Cleaned data saved to %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write cleaned rows to a .csv or .xlsx file")
	return cmd
}

func newExportCmd(env *cliEnv) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [data-file]",
		Short: "Export the full analysis as an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := env.load(args[0])
			if err != nil {
				return err
			}
			b, err := env.service().Run(cmd.Context(), in.table, env.opts.passMark)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + "_analysis.xlsx"
			}
			if err := excel.SaveWorkbook(output, b); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Workbook saved to %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Workbook path (default <input>_analysis.xlsx)")
	return cmd
}

func newReportCmd(env *cliEnv) *cobra.Command {
	var output, studentID string
	var markdown bool

	cmd := &cobra.Command{
		Use:   "report [data-file]",
		Short: "Render the school summary or a student report card",
		Long: `Render the school summary, or with --student a report card, as an HTML
page (or Markdown with --markdown).

Example: gradelens report results.csv --student STU001 -o card.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := env.load(args[0])
			if err != nil {
				return err
			}
			school := report.ResolveSchoolName(in.raw, env.cfg.Analysis.SchoolName)
			svc := env.service()

			var md, title string
			if studentID != "" {
				profile, err := svc.Student(in.table, studentID, env.opts.passMark)
				if err != nil {
					return err
				}
				card := report.StudentCard{School: school, PassMark: env.opts.passMark, Profile: profile}
				card.Risk, _ = svc.StudentRisk(in.table, studentID, env.opts.passMark)
				if card.Summary, err = env.summarizer().Summarize(cmd.Context(), in.table, studentID, env.opts.passMark); err != nil {
					return err
				}
				md, title = report.StudentCardMarkdown(card), "Report Card: "+profile.Name
			} else {
				b, err := svc.Run(cmd.Context(), in.table, env.opts.passMark)
				if err != nil {
					return err
				}
				md, title = report.SchoolSummaryMarkdown(school, b), "School Performance Summary"
			}

			content := []byte(md)
			if !markdown {
				content = report.ToHTML(md, title)
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}
			if err := writeFile(output, content); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Report saved to %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&studentID, "student", "", "Render this student's report card")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Emit Markdown instead of HTML")
	return cmd
}

func newDemoCmd(env *cliEnv) *cobra.Command {
	var output string
	var students int
	var seed int64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a synthetic school results file",
		Long: `Generate a synthetic school results file with known strugglers and
decliners, for trying the other commands.

Example: gradelens demo -o school.xlsx --students 200 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := testkit.DefaultSchoolConfig()
			gen.Students = students
			gen.Seed = seed
			ds, err := testkit.GenerateSchool(gen)
			if err != nil {
				return err
			}

			format, err := excel.FormatFor(output)
			if err != nil {
				return err
			}
			if format == excel.FormatXLSX {
				err = testkit.WriteXLSX(output, ds)
			} else {
				err = testkit.WriteCSV(output, ds)
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			success(w, "Wrote %d rows for %d students to %s", len(ds.Rows), students, output)
			fmt.Fprintf(w, "Planted strugglers: %d, decliners: %d\n", len(ds.Strugglers), len(ds.Decliners))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "school_demo.csv", "Output .csv or .xlsx file")
	cmd.Flags().IntVar(&students, "students", 120, "Number of students")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	return cmd
}
