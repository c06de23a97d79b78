package api

import (
	"context"
)

type LoginValues struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterValues struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	IsTeacher bool   `json:"isTeacher"`
}

type UpdatePasswordValues struct {
	Password        string `json:"password" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// Login opens a session. The credential pair arrives as cookies and is
// persisted by the gateway.
func (c *Client) Login(ctx context.Context, values LoginValues) error {
	if err := c.check(values); err != nil {
		return err
	}
	return c.gw.Post(ctx, c.gw.Config().LoginPath, values).Err()
}

func (c *Client) Register(ctx context.Context, values RegisterValues) error {
	if err := c.check(values); err != nil {
		return err
	}
	return c.gw.Post(ctx, "/auth/register", values).Err()
}

// Logout closes the session and clears the stored credentials.
func (c *Client) Logout(ctx context.Context) error {
	return c.gw.Logout(ctx).Err()
}

func (c *Client) UpdatePassword(ctx context.Context, values UpdatePasswordValues) error {
	if err := c.check(values); err != nil {
		return err
	}
	return c.gw.Post(ctx, "/auth/update-password", values).Err()
}
