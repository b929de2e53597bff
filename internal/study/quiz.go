package study

import (
	"errors"
	"fmt"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

// Unanswered marks a question with no selected option.
const Unanswered = -1

// QuizState is the lifecycle of the quiz panel.
type QuizState string

const (
	QuizIdle      QuizState = "idle"
	QuizTaking    QuizState = "taking"
	QuizCompleted QuizState = "completed"
)

var (
	ErrNotTaking      = errors.New("no quiz in progress")
	ErrNotSubmittable = errors.New("answer every question and reach the last one before submitting")
)

// QuizSession tracks paging and the locally selected answers of one quiz.
type QuizSession struct {
	state   QuizState
	quiz    model.Quiz
	current int
	answers []int
	result  *model.QuizResult
}

// NewQuizSession returns an idle session.
func NewQuizSession() *QuizSession {
	return &QuizSession{state: QuizIdle}
}

// Start begins taking quiz with every answer unset.
func (s *QuizSession) Start(quiz model.Quiz) error {
	if len(quiz.Questions) == 0 {
		return errors.New("quiz has no questions")
	}
	s.quiz = quiz
	s.current = 0
	s.answers = make([]int, len(quiz.Questions))
	for i := range s.answers {
		s.answers[i] = Unanswered
	}
	s.result = nil
	s.state = QuizTaking
	return nil
}

func (s *QuizSession) State() QuizState { return s.state }
func (s *QuizSession) QuizID() string { return s.quiz.ID }
func (s *QuizSession) Index() int { return s.current }
func (s *QuizSession) Total() int { return len(s.quiz.Questions) }

// Current returns the question being shown.
func (s *QuizSession) Current() (model.QuizQuestion, error) {
	if s.state != QuizTaking {
		return model.QuizQuestion{}, ErrNotTaking
	}
	return s.quiz.Questions[s.current], nil
}

// Selected returns the answer chosen for the current question.
func (s *QuizSession) Selected() int {
	if s.state != QuizTaking {
		return Unanswered
	}
	return s.answers[s.current]
}

// Select records option for the current question only.
func (s *QuizSession) Select(option int) error {
	if s.state != QuizTaking {
		return ErrNotTaking
	}
	opts := len(s.quiz.Questions[s.current].Options)
	if option < 0 || (opts > 0 && option >= opts) {
		return fmt.Errorf("option %d out of range", option)
	}
	s.answers[s.current] = option
	return nil
}

// Next advances when the current question is answered and is not the last.
func (s *QuizSession) Next() bool {
	if s.state != QuizTaking || s.answers[s.current] == Unanswered || s.IsLast() {
		return false
	}
	s.current++
	return true
}

// Prev steps back unless on the first question.
func (s *QuizSession) Prev() bool {
	if s.state != QuizTaking || s.current == 0 {
		return false
	}
	s.current--
	return true
}

// IsLast reports whether the current question is the final one.
func (s *QuizSession) IsLast() bool {
	return s.current == len(s.quiz.Questions)-1
}

// AllAnswered reports whether every question has a selection.
func (s *QuizSession) AllAnswered() bool {
	if len(s.answers) == 0 {
		return false
	}
	for _, a := range s.answers {
		if a == Unanswered {
			return false
		}
	}
	return true
}

// CanSubmit is true only on the last question with everything answered.
func (s *QuizSession) CanSubmit() bool {
	return s.state == QuizTaking && s.IsLast() && s.AllAnswered()
}

// Answers returns a copy of the selected answers.
func (s *QuizSession) Answers() []int {
	cp := make([]int, len(s.answers))
	copy(cp, s.answers)
	return cp
}

// Complete stores the backend's verdict and moves to completed.
func (s *QuizSession) Complete(result *model.QuizResult) error {
	if !s.CanSubmit() {
		return ErrNotSubmittable
	}
	s.result = result
	s.state = QuizCompleted
	return nil
}

// Result is the verdict of a completed quiz.
func (s *QuizSession) Result() *model.QuizResult { return s.result }

// Reset discards the quiz and returns to idle.
func (s *QuizSession) Reset() {
	*s = QuizSession{state: QuizIdle}
}

// QuestionCount is how many questions the backend generates per difficulty.
func QuestionCount(difficulty string) int {
	switch difficulty {
	case model.DifficultyEasy:
		return 8
	case model.DifficultyHard:
		return 15
	default:
		return 12
	}
}

// ScoreBand labels a percentage score.
func ScoreBand(percentage float64) string {
	switch {
	case percentage >= 80:
		return "Excellent!"
	case percentage >= 60:
		return "Good job!"
	default:
		return "Keep studying!"
	}
}
