package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"popquiz-service/internal/client"
	"popquiz-service/internal/session"
	"github.com/spf13/cobra"
)

// NewPlayCmd builds the terminal quiz client.
func NewPlayCmd() *cobra.Command {
	var (
		serverURL string
		name      string
		count     int
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz against a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, serverURL, name, count)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "quiz server base URL")
	cmd.Flags().StringVar(&name, "name", "", "player name for the leaderboard")
	cmd.Flags().IntVar(&count, "count", session.DefaultCount, "number of questions")
	return cmd
}

func runPlay(cmd *cobra.Command, serverURL, name string, count int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(os.Stdin)

	name = strings.TrimSpace(name)
	for name == "" {
		fmt.Fprint(out, "Your name: ")
		if !in.Scan() {
			return fmt.Errorf("no name entered")
		}
		name = strings.TrimSpace(in.Text())
	}

	api := client.New(serverURL)
	quiz, err := api.FetchQuiz(ctx, count)
	if err != nil {
		return fmt.Errorf("fetch quiz: %w", err)
	}

	s := session.New(quiz.Questions)
	if err := s.Start(len(quiz.Questions)); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d questions. Answer with the choice number, 'p' to go back, 'n' for next, 'q' to quit.\n", s.Len())

	for {
		q, err := s.Current()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n[%d/%d] %s  (%.0fs elapsed)\n", s.Pos()+1, s.Len(), q.Text, s.Elapsed().Seconds())
		selected, hasSelection := s.Selection(s.Pos())
		for i, choice := range q.Choices {
			marker := " "
			if hasSelection && selected == i {
				marker = ">"
			}
			fmt.Fprintf(out, "  %d)%s %s\n", i+1, marker, choice)
		}
		fmt.Fprint(out, "> ")

		if !in.Scan() {
			return nil
		}
		input := strings.TrimSpace(strings.ToLower(in.Text()))

		switch input {
		case "q":
			return nil
		case "p":
			if !s.Retreat() {
				fmt.Fprintln(out, "Already at the first question.")
			}
			continue
		case "n":
			switch s.Advance() {
			case session.AdvanceBlocked:
				fmt.Fprintln(out, "Answer this question before moving on.")
			case session.ReadyToSubmit:
				return submitAttempt(cmd, api, s, name)
			}
			continue
		}

		choice, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintln(out, "Enter a choice number, 'p', 'n', or 'q'.")
			continue
		}
		if err := s.Select(s.Pos(), choice-1); err != nil {
			fmt.Fprintf(out, "Invalid choice: %v\n", err)
			continue
		}
		if fb, ok := s.Feedback(s.Pos()); ok && quiz.RevealsAnswers {
			if fb.Correct {
				fmt.Fprintln(out, "Correct!")
			} else {
				fmt.Fprintf(out, "Incorrect. The answer was %d) %s\n", fb.AnswerIndex+1, q.Choices[fb.AnswerIndex])
			}
		}
		if s.Pos() == s.Len()-1 {
			fmt.Fprintln(out, "Type 'n' to submit your answers.")
		} else {
			fmt.Fprintln(out, "Type 'n' for the next question.")
		}
	}
}

func submitAttempt(cmd *cobra.Command, api *client.Client, s *session.Session, name string) error {
	out := cmd.OutOrStdout()

	answers, err := s.Payload()
	if err != nil {
		return fmt.Errorf("attempt incomplete: %w", err)
	}
	totalTime := s.Elapsed().Seconds()

	result, err := api.Submit(cmd.Context(), name, answers, &totalTime)
	if err != nil {
		// The session keeps its answers; rerunning play would need a new
		// fetch, so surface the failure and let the user retry.
		return fmt.Errorf("submit failed, your answers were not recorded: %w", err)
	}
	s.Complete()

	fmt.Fprintf(out, "\nYou scored %d/%d in %.1fs.\n", result.Score, result.Total, totalTime)
	fmt.Fprintln(out, "\nLeaderboard:")
	for i, entry := range result.Leaderboard {
		timeStr := "-"
		if entry.TotalTime != nil {
			timeStr = fmt.Sprintf("%.1fs", *entry.TotalTime)
		}
		fmt.Fprintf(out, "  %2d. %-32s %d/%d  %s\n", i+1, entry.Name, entry.Score, entry.TotalQuestions, timeStr)
	}
	return nil
}
