package api

import (
	"context"
	"fmt"
	"net/http"

	kichwabridge "github.com/opengovern/kichwa-bridge"
)

type GlossaryValues struct {
	Title   string          `json:"title" validate:"required"`
	Content []GlossaryEntry `json:"content" validate:"required,min=1,dive"`
}

type ResourceValues struct {
	Name string `validate:"required"`
	File *Upload
}

func (c *Client) Glossary(ctx context.Context, lessonID, glossaryID int) (*Glossary, error) {
	return get[*Glossary](ctx, c, fmt.Sprintf("/lessons/%d/contents/%d", lessonID, glossaryID))
}

func (c *Client) CreateGlossary(ctx context.Context, lessonID int, values GlossaryValues) (*Glossary, error) {
	if err := c.check(values); err != nil {
		return nil, err
	}
	return post[*Glossary](ctx, c, fmt.Sprintf("/lessons/%d/contents", lessonID), values)
}

func (c *Client) UpdateGlossary(ctx context.Context, lessonID, glossaryID int, values GlossaryValues) (*Glossary, error) {
	if err := c.check(values); err != nil {
		return nil, err
	}
	return put[*Glossary](ctx, c, fmt.Sprintf("/lessons/%d/contents/%d", lessonID, glossaryID), values)
}

func (c *Client) DeleteGlossary(ctx context.Context, lessonID, glossaryID int) error {
	return del(ctx, c, fmt.Sprintf("/lessons/%d/contents/%d", lessonID, glossaryID))
}

// CreateResource uploads a PDF to the lesson.
func (c *Client) CreateResource(ctx context.Context, lessonID int, values ResourceValues) (*Resource, error) {
	if err := c.check(values); err != nil {
		return nil, err
	}
	if values.File == nil || len(values.File.Data) == 0 {
		return nil, &kichwabridge.APIError{StatusCode: http.StatusBadRequest, Message: kichwabridge.Message{"File is required"}}
	}
	f := kichwabridge.NewFormData().Set("name", values.Name)
	values.File.attach(f, "pdf")
	return form[*Resource](ctx, c, fmt.Sprintf("/lessons/%d/resources", lessonID), f, http.MethodPost)
}

// UpdateResource renames the resource and replaces its file when one is given.
func (c *Client) UpdateResource(ctx context.Context, lessonID, resourceID int, values ResourceValues) (*Resource, error) {
	if err := c.check(values); err != nil {
		return nil, err
	}
	f := kichwabridge.NewFormData().Set("name", values.Name)
	values.File.attach(f, "file")
	return form[*Resource](ctx, c, fmt.Sprintf("/lessons/%d/resources/%d", lessonID, resourceID), f, http.MethodPut)
}

func (c *Client) DeleteResource(ctx context.Context, lessonID, resourceID int) error {
	return del(ctx, c, fmt.Sprintf("/lessons/%d/resources/%d", lessonID, resourceID))
}
