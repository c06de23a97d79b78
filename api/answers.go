package api

import (
	"net/http"
	"time"

	"github.com/pkg/errors"

	kichwabridge "github.com/opengovern/kichwa-bridge"
)

// ErrIndexOutOfRange is returned when an answer update names a question or
// option the sheet does not have.
var ErrIndexOutOfRange = errors.New("answer index out of range")

type AnswerOption struct {
	Text     string `json:"text"`
	IsChoose bool   `json:"isChoose"`
}

type Answer struct {
	QuestionID   int            `json:"questionId"`
	QuestionText string         `json:"questionText"`
	Type         QuestionType   `json:"type"`
	Options      []AnswerOption `json:"options"`
}

// Answered reports whether at least one option is chosen.
func (a *Answer) Answered() bool {
	for _, opt := range a.Options {
		if opt.IsChoose {
			return true
		}
	}
	return false
}

// AnswerSheet collects a student's answers while an evaluation is in progress.
// It is not safe for concurrent use.
type AnswerSheet struct {
	StartTime time.Time
	Answers   []Answer
}

// NewAnswerSheet prepares an empty answer for every question. Fill-in
// questions start with blank text so the correct answers are not exposed.
func NewAnswerSheet(ev *Evaluation, start time.Time) *AnswerSheet {
	sheet := &AnswerSheet{StartTime: start, Answers: make([]Answer, len(ev.Questions))}
	for i, q := range ev.Questions {
		opts := make([]AnswerOption, len(q.Options))
		for j, opt := range q.Options {
			if q.Type != QuestionComplete {
				opts[j].Text = opt.Text
			}
		}
		sheet.Answers[i] = Answer{QuestionID: q.ID, QuestionText: q.Title, Type: q.Type, Options: opts}
	}
	return sheet
}

// SetMultiple marks or unmarks one option of a multiple choice question.
func (s *AnswerSheet) SetMultiple(question, option int, chosen bool) error {
	opt, err := s.option(question, option)
	if err != nil {
		return err
	}
	opt.IsChoose = chosen
	return nil
}

// SetComplete stores the text typed into a blank. A non-empty text counts as
// chosen.
func (s *AnswerSheet) SetComplete(question, option int, text string) error {
	opt, err := s.option(question, option)
	if err != nil {
		return err
	}
	opt.Text = text
	opt.IsChoose = len(text) > 0
	return nil
}

// SetTrueFalse chooses one of the two options and clears the other.
func (s *AnswerSheet) SetTrueFalse(question, option int, chosen bool) error {
	opt, err := s.option(question, option)
	if err != nil {
		return err
	}
	other := 1 - option
	if other < 0 || other >= len(s.Answers[question].Options) {
		return errors.Wrapf(ErrIndexOutOfRange, "question %d has no option %d", question, other)
	}
	opt.IsChoose = chosen
	s.Answers[question].Options[other].IsChoose = !chosen
	return nil
}

// Complete returns a 400 APIError naming the first unanswered question.
func (s *AnswerSheet) Complete() error {
	if s == nil || len(s.Answers) == 0 {
		return &kichwabridge.APIError{StatusCode: http.StatusBadRequest, Message: kichwabridge.Message{"answer sheet is empty"}}
	}
	for i := range s.Answers {
		if !s.Answers[i].Answered() {
			return &kichwabridge.APIError{
				StatusCode: http.StatusBadRequest,
				Message:    kichwabridge.Message{"question " + s.Answers[i].QuestionText + " has no answer"},
			}
		}
	}
	return nil
}

func (s *AnswerSheet) option(question, option int) (*AnswerOption, error) {
	if question < 0 || question >= len(s.Answers) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "question %d", question)
	}
	opts := s.Answers[question].Options
	if option < 0 || option >= len(opts) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "question %d option %d", question, option)
	}
	return &opts[option], nil
}
