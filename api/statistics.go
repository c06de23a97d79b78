package api

import (
	"context"
	"fmt"
	"time"
)

func (c *Client) UserProgress(ctx context.Context) (*StudentProgress, error) {
	return get[*StudentProgress](ctx, c, "/statistics/user-progress")
}

func (c *Client) WeeklyLogs(ctx context.Context) (*WeeklyLogs, error) {
	return get[*WeeklyLogs](ctx, c, "/statistics/user-weekly-logs")
}

func (c *Client) Badges(ctx context.Context) (*StudentBadges, error) {
	return get[*StudentBadges](ctx, c, "/statistics/user-badges")
}

func (c *Client) CourseStatisticsByLesson(ctx context.Context, lessonID int) (*CourseStatistics, error) {
	return get[*CourseStatistics](ctx, c, fmt.Sprintf("/statistics/by-lessons/%d", lessonID))
}

// RegisterInteraction records that the student opened a lesson, glossary or
// evaluation, or downloaded a resource. id is the id of that item.
func (c *Client) RegisterInteraction(ctx context.Context, id int, action ActionType) error {
	body := struct {
		ID   int        `json:"id"`
		Type ActionType `json:"type"`
	}{ID: id, Type: action}
	return c.gw.Post(ctx, "/interactions", body).Err()
}

// RegisterDailyLog marks the student as active on the day of at.
func (c *Client) RegisterDailyLog(ctx context.Context, at time.Time) error {
	body := struct {
		RegisterAt time.Time `json:"registerAt"`
	}{RegisterAt: at}
	return c.gw.Post(ctx, "/interactions/daily-log", body).Err()
}
