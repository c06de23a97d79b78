package api

import (
	"context"
	"fmt"
	"time"
)

type QuestionValues struct {
	ID      *int             `json:"id,omitempty"`
	Title   string           `json:"title" validate:"required"`
	Type    QuestionType     `json:"type" validate:"required,oneof=multiple_choice complete true_false"`
	Options []QuestionOption `json:"options" validate:"required,min=1"`
}

type EvaluationValues struct {
	Questions []QuestionValues `json:"questions" validate:"required,min=1,dive"`
}

type evaluationBody struct {
	EvaluationValues
	LessonID int `json:"lessonId" validate:"required,gt=0"`
}

type attemptBody struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	LessonID  int       `json:"lessonId"`
	Answers   []Answer  `json:"answers"`
}

// Evaluation loads an evaluation for the lesson. With shuffled the API
// randomizes question order.
func (c *Client) Evaluation(ctx context.Context, lessonID, evaluationID int, shuffled bool) (*Evaluation, error) {
	return get[*Evaluation](ctx, c,
		fmt.Sprintf("/evaluations/%d/from-lesson/%d?shuffled=%t", evaluationID, lessonID, shuffled))
}

func (c *Client) CreateEvaluation(ctx context.Context, lessonID int, values EvaluationValues) (*Evaluation, error) {
	body := evaluationBody{EvaluationValues: values, LessonID: lessonID}
	if err := c.check(body); err != nil {
		return nil, err
	}
	return post[*Evaluation](ctx, c, "/evaluations", body)
}

func (c *Client) UpdateEvaluation(ctx context.Context, lessonID, evaluationID int, values EvaluationValues) (*Evaluation, error) {
	body := evaluationBody{EvaluationValues: values, LessonID: lessonID}
	if err := c.check(body); err != nil {
		return nil, err
	}
	return put[*Evaluation](ctx, c, fmt.Sprintf("/evaluations/%d", evaluationID), body)
}

// SubmitAttempt sends a completed answer sheet. The sheet must have an answer
// for every question.
func (c *Client) SubmitAttempt(ctx context.Context, evaluationID, lessonID int, sheet *AnswerSheet, finishedAt time.Time) (*UserEvaluation, error) {
	if err := sheet.Complete(); err != nil {
		return nil, err
	}
	body := attemptBody{
		StartTime: sheet.StartTime,
		EndTime:   finishedAt,
		LessonID:  lessonID,
		Answers:   sheet.Answers,
	}
	return post[*UserEvaluation](ctx, c, fmt.Sprintf("/evaluations/%d/new-attempt", evaluationID), body)
}

// Feedback returns a graded attempt with per-question results.
func (c *Client) Feedback(ctx context.Context, evaluationID, userEvaluationID int) (*UserEvaluation, error) {
	return get[*UserEvaluation](ctx, c, fmt.Sprintf("/evaluations/%d/feedback/%d", evaluationID, userEvaluationID))
}

func (c *Client) StudentEvaluations(ctx context.Context, courseID, userID int) ([]StudentEvaluation, error) {
	return get[[]StudentEvaluation](ctx, c, fmt.Sprintf("/evaluations/by-course/%d/students/%d", courseID, userID))
}
