package model

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Quiz is returned by POST /documents/{id}/quiz/generate.
type Quiz struct {
	ID         string         `json:"quiz_id"`
	Difficulty string         `json:"difficulty,omitempty"`
	Questions  []QuizQuestion `json:"questions"`
}

// QuestionResult is the backend's verdict on one submitted answer.
type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    int    `json:"user_answer"`
	CorrectAnswer int    `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

// QuizResult is returned by POST /documents/quiz/{quizId}/submit.
type QuizResult struct {
	QuizID         string           `json:"quiz_id,omitempty"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	Percentage     float64          `json:"percentage"`
	Results        []QuestionResult `json:"results"`
}
