package api

import "time"

type Course struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Picture     string  `json:"picture"`
	TeacherName *string `json:"teacherName"`
	TeacherID   *int    `json:"teacherId"`
	CourseCode  string  `json:"courseCode"`
}

type Lesson struct {
	ID          int    `json:"id"`
	CourseID    int    `json:"courseId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Picture     string `json:"picture"`
	Order       int    `json:"order"`
	IsDraft     bool   `json:"isDraft"`
	IsUnlocked  bool   `json:"isUnlocked"`

	Evaluations      []Evaluation      `json:"evaluations"`
	Resources        []Resource        `json:"resources"`
	Glossaries       []Glossary        `json:"glossaries"`
	UserLessons      []UserLesson      `json:"userLessons"`
	UserInteractions []UserInteraction `json:"userInteractions"`
}

type UserLesson struct {
	ID          int        `json:"id"`
	IsUnlocked  bool       `json:"isUnlocked"`
	CompletedAt *time.Time `json:"completedAt"`
}

// GlossaryEntry pairs a Kichwa term with its Spanish translation.
type GlossaryEntry struct {
	Kichwa  string `json:"kichwa" validate:"required"`
	Spanish string `json:"spanish" validate:"required"`
}

type Glossary struct {
	ID        int             `json:"id"`
	LessonID  int             `json:"lessonId"`
	Title     string          `json:"title"`
	Content   []GlossaryEntry `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Resource struct {
	ID        int       `json:"id"`
	LessonID  int       `json:"lessonId"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionComplete       QuestionType = "complete"
	QuestionTrueFalse      QuestionType = "true_false"
)

type QuestionOption struct {
	Text    string `json:"text"`
	IsRight bool   `json:"isRight"`
}

type Question struct {
	ID           int              `json:"id"`
	EvaluationID int              `json:"evaluationId"`
	Title        string           `json:"title"`
	Type         QuestionType     `json:"type"`
	Options      []QuestionOption `json:"options"`
}

type Evaluation struct {
	ID              int              `json:"id"`
	LessonID        int              `json:"lessonId"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	Questions       []Question       `json:"questions"`
	Lesson          *Lesson          `json:"lesson,omitempty"`
	UserEvaluations []UserEvaluation `json:"userEvaluations"`
}

type UserEvaluation struct {
	ID             int             `json:"id"`
	EvaluationID   int             `json:"evaluationId"`
	StartTime      time.Time       `json:"startTime"`
	EndTime        time.Time       `json:"endTime"`
	Score          float64         `json:"score"`
	StudentAnswers []StudentAnswer `json:"studentAnswers"`
	Evaluation     *Evaluation     `json:"evaluation,omitempty"`
}

type AnsweredOption struct {
	Text     string `json:"text"`
	IsChoose bool   `json:"isChoose"`
	IsRight  bool   `json:"isRight"`
}

type StudentAnswer struct {
	ID                  int              `json:"id"`
	StudentEvaluationID int              `json:"studentEvaluationId"`
	QuestionID          int              `json:"questionId"`
	QuestionText        string           `json:"questionText"`
	IsCorrect           bool             `json:"isCorrect"`
	Type                QuestionType     `json:"type"`
	Options             []AnsweredOption `json:"options"`
}

// StudentEvaluation summarizes a student's attempts at one evaluation.
type StudentEvaluation struct {
	UserID        int     `json:"userId"`
	CourseID      int     `json:"courseId"`
	EvaluationID  int     `json:"evaluationId"`
	Title         string  `json:"title"`
	MaxScore      float64 `json:"maxScore"`
	Attempts      int     `json:"attempts"`
	LastAttemptID int     `json:"lastAttemptId"`
}

type Profile struct {
	UserID    int       `json:"userId"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
}

// IsTeacher reports whether the profile carries the teacher role.
func (p *Profile) IsTeacher() bool {
	for _, role := range p.Roles {
		if role == "teacher" {
			return true
		}
	}
	return false
}

type Account struct {
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
}

type User struct {
	UserID           int               `json:"userId"`
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	Username         string            `json:"username"`
	Avatar           string            `json:"avatar"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	Account          *Account          `json:"account,omitempty"`
	UserInteractions []UserInteraction `json:"userInteractions"`
	UserEvaluations  []UserEvaluation  `json:"userEvaluations"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type CourseStudents struct {
	TotalLessons int    `json:"totalLessons"`
	Students     []User `json:"students"`
}

type ActionType string

const (
	ActionViewLesson         ActionType = "view_lesson"
	ActionDownloadResource   ActionType = "download_resource"
	ActionViewGlossary       ActionType = "view_glossary"
	ActionCompleteEvaluation ActionType = "complete_evaluation"
)

type UserInteraction struct {
	ID              int        `json:"id"`
	LessonID        *int       `json:"lessonId"`
	ResourceID      *int       `json:"resourceId"`
	GlossaryID      *int       `json:"glossaryId"`
	EvaluationID    *int       `json:"evaluationId"`
	Type            ActionType `json:"type"`
	ActionTimestamp time.Time  `json:"actionTimestamp"`
}

type StudentProgress struct {
	UserID      int `json:"userId"`
	Resources   int `json:"resources"`
	Lessons     int `json:"lessons"`
	Glossaries  int `json:"glossaries"`
	Evaluations int `json:"evaluations"`
}

type StudentBadges struct {
	UserID                  int `json:"userId"`
	Lessons                 int `json:"lessons"`
	Evaluations             int `json:"evaluations"`
	EvaluationsInRange      int `json:"evaluationsInRange"`
	EvaluationsPerfectScore int `json:"evaluationsPerfectScore"`
}

type WeeklyLogs struct {
	MondayCount    int `json:"mondayCount"`
	TuesdayCount   int `json:"tuesdayCount"`
	WednesdayCount int `json:"wednesdayCount"`
	ThursdayCount  int `json:"thursdayCount"`
	FridayCount    int `json:"fridayCount"`
	SaturdayCount  int `json:"saturdayCount"`
	SundayCount    int `json:"sundayCount"`
}

type JoinedStudentNote struct {
	UserID       int     `json:"userId"`
	LessonID     int     `json:"lessonId"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	HighestScore float64 `json:"highestScore"`
}

// EvaluationScores buckets students by their best score in a lesson.
type EvaluationScores struct {
	LessonID     int `json:"lessonId"`
	ScoreGte14   int `json:"scoreGte14"`
	ScoreLt14    int `json:"scoreLt14"`
	NoEvaluation int `json:"noEvaluation"`
}

type AnswerHitsAndFailures struct {
	LessonID   int `json:"lessonId"`
	QuestionID int `json:"questionId"`
	Hits       int `json:"hits"`
	Failures   int `json:"failures"`
}

type CourseStatistics struct {
	JoinedStudents      []JoinedStudentNote     `json:"joinedStudents"`
	EvaluationScores    EvaluationScores        `json:"evaluationScores"`
	AnswersHitsFailures []AnswerHitsAndFailures `json:"answersHitsFailures"`
}
