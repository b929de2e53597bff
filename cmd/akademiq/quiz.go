package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
	"github.com/dharsanguruparan/AkademIQ/internal/repository"
	"github.com/dharsanguruparan/AkademIQ/internal/study"
)

func newQuizCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take a multiple-choice quiz on the current document",
	}
	var difficulty string
	take := &cobra.Command{
		Use:   "take",
		Short: "Generate a quiz and answer it interactively",
		Long: `Generate a quiz and answer it interactively. Type an option number to select it,
n and p to move between questions, s to submit on the last question, q to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a.printf("Generating %d %s questions...\n", study.QuestionCount(difficulty), difficulty)
			quiz, err := a.api.GenerateQuiz(ctx, a.session.DocumentID, difficulty)
			if err != nil {
				return a.fail(err)
			}
			sess := study.NewQuizSession()
			if err := sess.Start(*quiz); err != nil {
				return a.fail(err)
			}
			result, err := a.quizLoop(ctx, sess)
			if err != nil || result == nil {
				return err
			}
			a.printResult(result)
			a.withJournal(ctx, func(repo *repository.JournalRepository) error {
				return repo.RecordQuizAttempt(ctx, &repository.QuizAttempt{
					QuizID:     sess.QuizID(),
					DocumentID: a.session.DocumentID,
					Difficulty: difficulty,
					Score:      result.Score,
					Total:      result.TotalQuestions,
					Percentage: result.Percentage,
				})
			})
			return nil
		},
	}
	take.Flags().StringVarP(&difficulty, "difficulty", "d", model.DifficultyMedium, "easy, medium or hard")
	cmd.AddCommand(take)
	return cmd
}

// quizLoop pages through the quiz until the user submits or quits. A nil
// result means the user quit.
func (a *app) quizLoop(ctx context.Context, sess *study.QuizSession) (*model.QuizResult, error) {
	for {
		q, _ := sess.Current()
		a.printf("\nQuestion %d of %d\n%s\n", sess.Index()+1, sess.Total(), q.Question)
		for i, opt := range q.Options {
			mark := " "
			if sess.Selected() == i {
				mark = "x"
			}
			a.printf("  [%s] %d. %s\n", mark, i+1, opt)
		}
		hint := "option number, (n)ext, (p)rev, (q)uit"
		if sess.CanSubmit() {
			hint = "option number, (s)ubmit, (p)rev, (q)uit"
		}
		line, err := a.ask(ctx, hint, "")
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(line) {
		case "n":
			if !sess.Next() {
				if sess.IsLast() {
					a.printf("This is the last question.\n")
				} else {
					a.printf("Select an answer first.\n")
				}
			}
		case "p":
			sess.Prev()
		case "s":
			if !sess.CanSubmit() {
				a.printf("Answer every question and reach the last one before submitting.\n")
				continue
			}
			a.printf("Submitting...\n")
			res, err := a.api.SubmitQuiz(ctx, sess.QuizID(), sess.Answers())
			if err != nil {
				// The panel stays on the quiz so the user can retry.
				a.report(err)
				continue
			}
			if err := sess.Complete(res); err != nil {
				return nil, err
			}
			return res, nil
		case "q":
			sess.Reset()
			return nil, nil
		default:
			n, err := strconv.Atoi(line)
			if err != nil {
				a.printf("Unknown command %q\n", line)
				continue
			}
			if err := sess.Select(n - 1); err != nil {
				a.printf("%v\n", err)
			}
		}
	}
}

func (a *app) printResult(res *model.QuizResult) {
	a.printf("\nScore: %d/%d (%.0f%%) %s\n", res.Score, res.TotalQuestions, res.Percentage, study.ScoreBand(res.Percentage))
	for i, r := range res.Results {
		verdict := "correct"
		if !r.IsCorrect {
			verdict = "wrong, answer " + strconv.Itoa(r.CorrectAnswer+1)
		}
		a.printf("%2d. %s (%s)\n", i+1, r.Question, verdict)
		if r.Explanation != "" {
			a.printf("    %s\n", r.Explanation)
		}
	}
}
