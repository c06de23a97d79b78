package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	kichwabridge "github.com/opengovern/kichwa-bridge"
)

type LessonValues struct {
	CourseID    int    `validate:"required,gt=0"`
	Title       string `validate:"required"`
	Description string `validate:"required"`
	Image       *Upload
}

// LessonOrder places one lesson at a 1-based position.
type LessonOrder struct {
	LessonID int `json:"lessonId" validate:"required,gt=0"`
	Order    int `json:"order" validate:"required,gt=0"`
}

type sortLessonsValues struct {
	CourseID int           `json:"courseId" validate:"required,gt=0"`
	Lessons  []LessonOrder `json:"lessons" validate:"required,min=1,dive"`
}

func (c *Client) Lesson(ctx context.Context, id int) (*Lesson, error) {
	return get[*Lesson](ctx, c, fmt.Sprintf("/lessons/%d", id))
}

func (c *Client) LessonsByCourse(ctx context.Context, courseID int) ([]Lesson, error) {
	return get[[]Lesson](ctx, c, fmt.Sprintf("/lessons/by-course/%d", courseID))
}

// CreateLesson adds a draft lesson at the end of the course.
func (c *Client) CreateLesson(ctx context.Context, values LessonValues) (*Lesson, error) {
	if err := c.check(values); err != nil {
		return nil, err
	}
	f := lessonForm(values).Set("order", "0")
	return form[*Lesson](ctx, c, "/lessons", f, http.MethodPost)
}

func (c *Client) UpdateLesson(ctx context.Context, id int, values LessonValues) (*Lesson, error) {
	if err := c.check(values); err != nil {
		return nil, err
	}
	return form[*Lesson](ctx, c, fmt.Sprintf("/lessons/%d", id), lessonForm(values), http.MethodPut)
}

func (c *Client) PublishLesson(ctx context.Context, id int) error {
	return c.gw.Put(ctx, fmt.Sprintf("/lessons/%d/publish", id), nil).Err()
}

func (c *Client) DeleteLesson(ctx context.Context, id int) error {
	return del(ctx, c, fmt.Sprintf("/lessons/%d", id))
}

// SortLessons stores a new lesson order for the course. lessonIDs are given
// in display order.
func (c *Client) SortLessons(ctx context.Context, courseID int, lessonIDs []int) error {
	values := sortLessonsValues{CourseID: courseID, Lessons: make([]LessonOrder, len(lessonIDs))}
	for i, id := range lessonIDs {
		values.Lessons[i] = LessonOrder{LessonID: id, Order: i + 1}
	}
	if err := c.check(values); err != nil {
		return err
	}
	return c.gw.Put(ctx, "/lessons/sort/by-course", values).Err()
}

func lessonForm(values LessonValues) *kichwabridge.FormData {
	f := kichwabridge.NewFormData().
		Set("title", values.Title).
		Set("description", values.Description).
		Set("courseId", strconv.Itoa(values.CourseID))
	values.Image.attach(f, "image")
	return f
}
