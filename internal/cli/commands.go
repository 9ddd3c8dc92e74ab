package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"journalwatch/internal/domain"
	"journalwatch/internal/infrastructure/scheduler"
	"journalwatch/internal/infrastructure/storage"
	"journalwatch/internal/reports"
	"journalwatch/internal/usecase"
)

const dateLayout = "2006-01-02"

func newFetchCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch new publications from all configured sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := st.app.Pipeline().Fetch(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Fetch complete: %d items fetched, %d new, %d already known.\n",
				result.Fetched, result.Inserted, result.Duplicates)
			return nil
		},
	}
}

func newAnalyzeCommand(st *state) *cobra.Command {
	var (
		dateFlag  string
		reanalyze bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze unscored publications with the model backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store := st.app.Store()

			var (
				articles []domain.Article
				err      error
			)
			switch {
			case dateFlag != "":
				day, parseErr := time.Parse(dateLayout, dateFlag)
				if parseErr != nil {
					return fmt.Errorf("invalid date %q, want YYYY-MM-DD", dateFlag)
				}
				articles, err = store.ByDate(ctx, day, 0)
				if err == nil && !reanalyze {
					articles = unscoredOnly(articles)
				}
			case reanalyze:
				articles, err = store.All(ctx)
			default:
				articles, err = store.Unscored(ctx)
			}
			if err != nil {
				return err
			}

			if len(articles) == 0 {
				fmt.Println("No publications to analyze.")
				return nil
			}

			analyzed, err := st.app.Pipeline().AnalyzeArticles(ctx, articles)
			if err != nil {
				return err
			}
			fmt.Printf("Analysis complete: %d publications analyzed.\n", analyzed)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "analyze publications processed on a specific date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&reanalyze, "reanalyze", false, "reanalyze already scored publications")
	return cmd
}

func newReportCommand(st *state) *cobra.Command {
	var (
		dateFlag string
		generate bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate or display a daily report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			date := dateFlag
			if date == "" {
				date = time.Now().Format(dateLayout)
			}
			day, err := time.Parse(dateLayout, date)
			if err != nil {
				return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
			}

			if generate {
				if _, err := st.app.Pipeline().Report(ctx, day); err != nil {
					return err
				}
				fmt.Printf("Report generated for %s.\n", date)
			}

			report, err := st.app.Reports().Get(date)
			if err != nil {
				if errors.Is(err, reports.ErrNotFound) {
					fmt.Printf("No report found for %s. Run with --generate to create one.\n", date)
					return nil
				}
				return err
			}

			printReport(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "report date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().BoolVar(&generate, "generate", false, "generate a new report before displaying")
	return cmd
}

func newListCommand(st *state) *cobra.Command {
	var (
		listReports      bool
		listPublications bool
		days             int
		minRelevance     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports or recent publications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case listReports:
				dates, err := st.app.Reports().List()
				if err != nil {
					return err
				}
				if len(dates) == 0 {
					fmt.Println("No reports found.")
					return nil
				}
				for _, date := range dates {
					fmt.Println(date)
				}
				return nil

			case listPublications:
				articles, err := st.app.Store().Recent(cmd.Context(), days, minRelevance)
				if err != nil {
					return err
				}
				if len(articles) == 0 {
					fmt.Printf("No publications in the last %d days with relevance >= %d.\n", days, minRelevance)
					return nil
				}
				printArticleTable(articles)
				return nil

			default:
				return fmt.Errorf("specify --reports or --publications")
			}
		},
	}

	cmd.Flags().BoolVar(&listReports, "reports", false, "list available report dates")
	cmd.Flags().BoolVar(&listPublications, "publications", false, "list recent publications")
	cmd.Flags().IntVar(&days, "days", 7, "number of days to look back")
	cmd.Flags().IntVar(&minRelevance, "min-relevance", 0, "minimum relevance score (0-10)")
	return cmd
}

func newShowCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show details for one publication",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid publication id %q", args[0])
			}

			article, err := st.app.Store().Get(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					fmt.Printf("Publication %d not found.\n", id)
					return nil
				}
				return err
			}

			printArticle(article)
			return nil
		},
	}
}

func newRunCommand(st *state) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full workflow: fetch, analyze, report, render",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pipeline := st.app.Pipeline()

			if schedule == "" {
				return pipeline.Run(ctx)
			}

			driver := scheduler.NewCronScheduler(schedule)
			sched := usecase.NewScheduler(driver, pipeline, st.app.Logger())
			if err := sched.Start(ctx); err != nil {
				return err
			}
			fmt.Printf("Scheduled pipeline with %q; press Ctrl+C to stop.\n", schedule)
			<-ctx.Done()
			return sched.Stop(context.Background())
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "keep running and execute on this cron expression")
	return cmd
}

func newResetCommand(st *state) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all stored publications and reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				fmt.Print("WARNING: this deletes all publications and reports. Continue? [y/N]: ")
				reader := bufio.NewReader(os.Stdin)
				answer, _ := reader.ReadString('\n')
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Println("Reset cancelled.")
					return nil
				}
			}

			if err := st.app.Pipeline().Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Reset complete.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "reset without confirmation")
	return cmd
}

func newSiteCommand(st *state) *cobra.Command {
	var (
		serve bool
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "site",
		Short: "Generate the static website from persisted reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := st.app.Pipeline().RenderSite(ctx); err != nil {
				return err
			}
			sitePath := st.app.Config().SitePath()
			fmt.Printf("Static site generated at %s\n", sitePath)

			if !serve {
				return nil
			}

			server := &http.Server{
				Addr:    addr,
				Handler: http.FileServer(http.Dir(sitePath)),
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
			}()

			fmt.Printf("Serving at http://localhost%s, press Ctrl+C to stop.\n", addr)
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&serve, "serve", false, "serve the generated site over HTTP")
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address for --serve")
	return cmd
}

func unscoredOnly(articles []domain.Article) []domain.Article {
	filtered := articles[:0]
	for _, article := range articles {
		if !article.Scored() {
			filtered = append(filtered, article)
		}
	}
	return filtered
}

func printReport(report domain.Report) {
	fmt.Printf("Publication report for %s (generated %s)\n\n",
		report.Date, report.GeneratedAt.Format(time.RFC3339))
	fmt.Println(report.Summary)
}

func printArticleTable(articles []domain.Article) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tJOURNAL\tTITLE\tRELEVANCE")
	for _, article := range articles {
		score := "-"
		if article.Scored() {
			score = fmt.Sprintf("%d/10", article.Score())
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			article.ID,
			article.PublishedAt.Format(dateLayout),
			article.Journal,
			article.Title,
			score)
	}
	_ = w.Flush()
}

func printArticle(article domain.Article) {
	fmt.Printf("%s\n%s | Relevance: ", article.Title, article.Journal)
	if article.Scored() {
		fmt.Printf("%d/10", article.Score())
	} else {
		fmt.Print("not analyzed")
	}
	fmt.Printf(" | Date: %s\n\n", article.PublishedAt.Format(dateLayout))

	if article.Abstract != "" {
		fmt.Printf("Abstract:\n%s\n\n", article.Abstract)
	}
	if article.Summary != nil && *article.Summary != "" {
		fmt.Printf("Analysis:\n%s\n\n", *article.Summary)
	}
	if article.URL != "" {
		fmt.Printf("URL: %s\n", article.URL)
	}
	fmt.Printf("External ID: %s\n", article.ExternalID)
}
