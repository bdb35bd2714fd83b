package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/quizgpt/internal/cli"
	"github.com/at-ishikawa/quizgpt/internal/quiz"
	"github.com/at-ishikawa/quizgpt/internal/report"
	"github.com/at-ishikawa/quizgpt/internal/study"
	"github.com/at-ishikawa/quizgpt/internal/testsession"
)

func newTestCommand() *cobra.Command {
	questionTypes := QuestionTypesFlag(quiz.AllQuestionTypes)
	var questionCount, itemsPerPage int
	var starredOnly, writeReport, generatePDF bool
	command := &cobra.Command{
		Use:   "test <set-id>",
		Short: "Take an AI generated test over a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			client, err := newInferenceClient(a.cfg)
			if err != nil {
				return err
			}
			defer closeInferenceClient(client)

			set, cards, err := a.loadSet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if questionCount == 0 {
				questionCount = a.cfg.Test.QuestionCount
			}
			if itemsPerPage == 0 {
				itemsPerPage = a.cfg.Test.ItemsPerPage
			}

			session := testsession.New(client)
			request := testsession.Request{
				Cards:         cards,
				QuestionCount: questionCount,
				ItemsPerPage:  itemsPerPage,
				QuestionTypes: questionTypes,
				StarredOnly:   starredOnly,
			}
			recorder := study.NewRecorder(a.repository, a.ownerID(), set.ID)
			testCLI := cli.NewTestQuizCLI(cmd.InOrStdin(), cmd.OutOrStdout(), session, request, recorder)
			if err := testCLI.Generate(cmd.Context()); err != nil {
				return err
			}
			if err := testCLI.Run(cmd.Context(), testCLI); err != nil {
				return err
			}

			state := session.State()
			if !state.IsComplete() || !(writeReport || generatePDF) {
				return nil
			}
			testReport := report.NewTestReport(set.Title, a.cfg.User.Name, time.Now(), state.Questions)
			path, err := report.SaveTestReport(a.cfg.Outputs.ReportDirectory, a.cfg.Templates.TestReportTemplate, testReport)
			if err != nil {
				return fmt.Errorf("report.SaveTestReport() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", path)
			if !generatePDF {
				return nil
			}
			pdfPath, err := report.ConvertMarkdownToPDF(path)
			if err != nil {
				return fmt.Errorf("report.ConvertMarkdownToPDF() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "PDF: %s\n", pdfPath)
			return nil
		},
	}
	flags := command.Flags()
	flags.Var(&questionTypes, "types", "Comma separated question types: multiple-choice, true-false, short-answer")
	flags.IntVarP(&questionCount, "count", "n", 0, "Number of questions (defaults to test.question_count)")
	flags.IntVar(&itemsPerPage, "per-page", 0, "Questions per page (defaults to test.items_per_page)")
	flags.BoolVar(&starredOnly, "starred", false, "Only test starred cards")
	flags.BoolVar(&writeReport, "report", false, "Write a markdown report of the completed test")
	flags.BoolVar(&generatePDF, "pdf", false, "Also convert the report to PDF (implies --report)")
	return command
}
