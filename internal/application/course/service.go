package course

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, teacher *domain.User, req domain.CreateCourseRequest, video *Upload) (*domain.Course, error)
	List(ctx context.Context, grade string) ([]domain.Course, error)
	Get(ctx context.Context, courseID string) (*domain.Course, error)
	ListEnrolled(ctx context.Context, userID string) ([]domain.Course, error)
	Enroll(ctx context.Context, student *domain.User, courseID string) error
	Update(ctx context.Context, teacherID, courseID string, req domain.CreateCourseRequest, video *Upload) (*domain.Course, error)
	Delete(ctx context.Context, teacherID, courseID string) error
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename string
	Body     io.Reader
}

type courseStore interface {
	Put(ctx context.Context, c *domain.Course) error
	Get(ctx context.Context, courseID string) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	ListByGrade(ctx context.Context, grade string) ([]domain.Course, error)
	ListByStudent(ctx context.Context, userID string) ([]domain.Course, error)
	AddStudent(ctx context.Context, courseID, userID string) error
	Update(ctx context.Context, courseID string, updates map[string]interface{}) error
	Delete(ctx context.Context, courseID string) error
}

type materialStore interface {
	DeleteByCourse(ctx context.Context, courseID string) error
}

type sessionStore interface {
	DeleteByCourse(ctx context.Context, courseID, courseTitle string) error
}

type fileStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type notifier interface {
	NotifyUser(ctx context.Context, userID string, req domain.CreateNotificationRequest)
	NotifyStudentsInGrade(ctx context.Context, grade string, req domain.CreateNotificationRequest)
	NotifyUsers(ctx context.Context, userIDs []string, req domain.CreateNotificationRequest)
}

type contentTyper func(filename string) string

type service struct {
	repo        courseStore
	materials   materialStore
	sessions    sessionStore
	files       fileStore
	fanout      notifier
	contentType contentTyper
}

type ServiceDeps struct {
	Repo        courseStore
	Materials   materialStore
	Sessions    sessionStore
	Files       fileStore
	Fanout      notifier
	ContentType func(filename string) string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:        deps.Repo,
		materials:   deps.Materials,
		sessions:    deps.Sessions,
		files:       deps.Files,
		fanout:      deps.Fanout,
		contentType: deps.ContentType,
	}
}

// Create stores a new course and notifies the teacher plus every student in
// the target grade.
func (s *service) Create(ctx context.Context, teacher *domain.User, req domain.CreateCourseRequest, video *Upload) (*domain.Course, error) {
	if teacher.Role != domain.RoleTeacher {
		return nil, fmt.Errorf("only teachers can create courses: %w", domain.ErrBadRequest)
	}

	now := time.Now().UTC()
	c := &domain.Course{
		CourseID:    id.New(),
		Title:       req.Title,
		Description: req.Description,
		Grade:       req.Grade,
		Price:       req.Price,
		TeacherID:   teacher.UserID,
		TeacherName: teacher.Name,
		Students:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if video != nil {
		url, err := s.uploadVideo(ctx, c.CourseID, video)
		if err != nil {
			return nil, err
		}
		c.VideoURL = &url
	}

	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}

	teacherNote := domain.CreateNotificationRequest{
		Title:      "Course Created",
		Message:    fmt.Sprintf("Your course '%s' has been created successfully.", c.Title),
		ActionType: domain.ActionCourse,
		ActionID:   c.CourseID,
	}
	studentNote := domain.CreateNotificationRequest{
		Title:      "New Course Available",
		Message:    fmt.Sprintf("A new course '%s' for Grade %s is now available.", c.Title, c.Grade),
		ActionType: domain.ActionCourse,
		ActionID:   c.CourseID,
	}
	s.fanout.NotifyUser(ctx, teacher.UserID, teacherNote)
	s.fanout.NotifyStudentsInGrade(ctx, c.Grade, studentNote)

	return c, nil
}

func (s *service) List(ctx context.Context, grade string) ([]domain.Course, error) {
	if grade != "" {
		return s.repo.ListByGrade(ctx, grade)
	}
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, courseID string) (*domain.Course, error) {
	return s.repo.Get(ctx, courseID)
}

func (s *service) ListEnrolled(ctx context.Context, userID string) ([]domain.Course, error) {
	return s.repo.ListByStudent(ctx, userID)
}

// Enroll adds the student to the roster and notifies both sides.
func (s *service) Enroll(ctx context.Context, student *domain.User, courseID string) error {
	c, err := s.repo.Get(ctx, courseID)
	if err != nil {
		return err
	}
	if c.Enrolled(student.UserID) {
		return fmt.Errorf("already enrolled in this course: %w", domain.ErrConflict)
	}
	if err := s.repo.AddStudent(ctx, courseID, student.UserID); err != nil {
		return err
	}

	studentNote := domain.CreateNotificationRequest{
		Title:      "Course Enrollment Successful",
		Message:    fmt.Sprintf("You have successfully enrolled in '%s'.", c.Title),
		ActionType: domain.ActionCourse,
		ActionID:   c.CourseID,
	}
	teacherNote := domain.CreateNotificationRequest{
		Title:      "New Student Enrolled",
		Message:    fmt.Sprintf("%s has enrolled in your course '%s'.", student.Name, c.Title),
		ActionType: domain.ActionCourse,
		ActionID:   c.CourseID,
	}
	s.fanout.NotifyUser(ctx, student.UserID, studentNote)
	s.fanout.NotifyUser(ctx, c.TeacherID, teacherNote)

	return nil
}

// Update rewrites the course fields and notifies the teacher and roster.
// Only the owning teacher may update.
func (s *service) Update(ctx context.Context, teacherID, courseID string, req domain.CreateCourseRequest, video *Upload) (*domain.Course, error) {
	c, err := s.repo.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c.TeacherID != teacherID {
		return nil, fmt.Errorf("only the course teacher can update this course: %w", domain.ErrForbidden)
	}

	updates := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
		"grade":       req.Grade,
		"price":       req.Price,
		"updated_at":  time.Now().UTC(),
	}
	if video != nil {
		url, err := s.uploadVideo(ctx, courseID, video)
		if err != nil {
			return nil, err
		}
		updates["video_url"] = url
		c.VideoURL = &url
	}
	if err := s.repo.Update(ctx, courseID, updates); err != nil {
		return nil, err
	}

	c.Title = req.Title
	c.Description = req.Description
	c.Grade = req.Grade
	c.Price = req.Price

	teacherNote := domain.CreateNotificationRequest{
		Title:      "Course Updated",
		Message:    fmt.Sprintf("Your course '%s' has been updated successfully.", c.Title),
		ActionType: domain.ActionCourse,
		ActionID:   c.CourseID,
	}
	studentNote := domain.CreateNotificationRequest{
		Title:      "Course Updated",
		Message:    fmt.Sprintf("The course '%s' has been updated.", c.Title),
		ActionType: domain.ActionCourse,
		ActionID:   c.CourseID,
	}
	s.fanout.NotifyUser(ctx, teacherID, teacherNote)
	s.fanout.NotifyUsers(ctx, c.Students, studentNote)

	return c, nil
}

// Delete removes the course along with its materials and sessions, then
// notifies the teacher and every enrolled student.
func (s *service) Delete(ctx context.Context, teacherID, courseID string) error {
	c, err := s.repo.Get(ctx, courseID)
	if err != nil {
		return err
	}
	if c.TeacherID != teacherID {
		return fmt.Errorf("only the course teacher can delete this course: %w", domain.ErrForbidden)
	}

	if err := s.materials.DeleteByCourse(ctx, courseID); err != nil {
		return err
	}
	if err := s.sessions.DeleteByCourse(ctx, courseID, c.Title); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, courseID); err != nil {
		return err
	}

	teacherNote := domain.CreateNotificationRequest{
		Title:      "Course Deleted",
		Message:    fmt.Sprintf("Your course '%s' has been deleted successfully.", c.Title),
		ActionType: domain.ActionCourseDeleted,
	}
	studentNote := domain.CreateNotificationRequest{
		Title:      "Course Removed",
		Message:    fmt.Sprintf("The course '%s' has been removed.", c.Title),
		ActionType: domain.ActionCourseDeleted,
	}
	s.fanout.NotifyUser(ctx, teacherID, teacherNote)
	s.fanout.NotifyUsers(ctx, c.Students, studentNote)

	return nil
}

func (s *service) uploadVideo(ctx context.Context, courseID string, video *Upload) (string, error) {
	key := fmt.Sprintf("courses/%s/video%s", courseID, path.Ext(video.Filename))
	url, err := s.files.Upload(ctx, key, video.Body, s.contentType(video.Filename))
	if err != nil {
		return "", fmt.Errorf("upload course video: %w", err)
	}
	return url, nil
}
