package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	kichwabridge "github.com/opengovern/kichwa-bridge"
)

type ProfileValues struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

type CourseValues struct {
	Name string `validate:"required"`
	// WithDefaultLessons asks the API to seed the course with its stock lessons.
	WithDefaultLessons bool
	Image              *Upload
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	return get[*Profile](ctx, c, "/profile")
}

func (c *Client) UpdateProfile(ctx context.Context, values ProfileValues) (*Profile, error) {
	if err := c.check(values); err != nil {
		return nil, err
	}
	return put[*Profile](ctx, c, "/profile", values)
}

func (c *Client) MyCourses(ctx context.Context) ([]Course, error) {
	return get[[]Course](ctx, c, "/courses/my-courses")
}

// JoinCourse enrolls the student with the code the teacher shared.
func (c *Client) JoinCourse(ctx context.Context, code string) error {
	values := struct {
		CodeCourse string `json:"codeCourse" validate:"required"`
	}{CodeCourse: code}
	if err := c.check(values); err != nil {
		return err
	}
	return c.gw.Post(ctx, "/courses/join-course", values).Err()
}

func (c *Client) CreateCourse(ctx context.Context, values CourseValues) (*Course, error) {
	if err := c.check(values); err != nil {
		return nil, err
	}
	return form[*Course](ctx, c, "/courses", courseForm(values, true), http.MethodPost)
}

func (c *Client) UpdateCourse(ctx context.Context, id int, values CourseValues) (*Course, error) {
	if err := c.check(values); err != nil {
		return nil, err
	}
	return form[*Course](ctx, c, fmt.Sprintf("/courses/%d", id), courseForm(values, false), http.MethodPut)
}

func (c *Client) CourseStudents(ctx context.Context, courseID int) (*CourseStudents, error) {
	return get[*CourseStudents](ctx, c, fmt.Sprintf("/courses/%d/students", courseID))
}

func courseForm(values CourseValues, create bool) *kichwabridge.FormData {
	f := kichwabridge.NewFormData().Set("name", values.Name)
	if create {
		f.Set("withDefaultLessons", strconv.FormatBool(values.WithDefaultLessons))
	}
	values.Image.attach(f, "image")
	return f
}
