package material

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, teacherID, courseID string, req domain.CreateMaterialRequest, file *Upload) (*domain.Material, error)
	ListByCourse(ctx context.Context, user *domain.User, courseID string) ([]domain.Material, error)
	Get(ctx context.Context, user *domain.User, courseID, materialID string) (*domain.Material, error)
	Delete(ctx context.Context, teacherID, courseID, materialID string) error
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type materialStore interface {
	Put(ctx context.Context, m *domain.Material) error
	Get(ctx context.Context, materialID string) (*domain.Material, error)
	ListByCourse(ctx context.Context, courseID string) ([]domain.Material, error)
	Delete(ctx context.Context, materialID string) error
}

type courseStore interface {
	Get(ctx context.Context, courseID string) (*domain.Course, error)
}

type fileStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type notifier interface {
	NotifyUser(ctx context.Context, userID string, req domain.CreateNotificationRequest)
	NotifyUsers(ctx context.Context, userIDs []string, req domain.CreateNotificationRequest)
}

type service struct {
	repo        materialStore
	courses     courseStore
	files       fileStore
	fanout      notifier
	contentType func(filename string) string
}

type ServiceDeps struct {
	Repo        materialStore
	Courses     courseStore
	Files       fileStore
	Fanout      notifier
	ContentType func(filename string) string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:        deps.Repo,
		courses:     deps.Courses,
		files:       deps.Files,
		fanout:      deps.Fanout,
		contentType: deps.ContentType,
	}
}

// Create adds a material to a course. Only the owning teacher may add, and
// the roster is notified once the material is stored.
func (s *service) Create(ctx context.Context, teacherID, courseID string, req domain.CreateMaterialRequest, file *Upload) (*domain.Material, error) {
	c, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c.TeacherID != teacherID {
		return nil, fmt.Errorf("only the course teacher can add materials: %w", domain.ErrForbidden)
	}

	m := &domain.Material{
		MaterialID:  id.New(),
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Content:     req.Content,
		ExternalURL: req.ExternalURL,
		CreatedBy:   teacherID,
		CreatedAt:   time.Now().UTC(),
	}

	if file != nil {
		key := fmt.Sprintf("materials/%s/%s%s", courseID, m.MaterialID, path.Ext(file.Filename))
		url, err := s.files.Upload(ctx, key, file.Body, s.contentType(file.Filename))
		if err != nil {
			return nil, fmt.Errorf("upload material file: %w", err)
		}
		m.FileURL = &url
		name := file.Filename
		m.FileName = &name
		size := file.Size
		m.FileSize = &size
		if m.Type == "" {
			m.Type = inferType(file.Filename)
		}
	}

	if err := s.repo.Put(ctx, m); err != nil {
		return nil, err
	}

	teacherNote := domain.CreateNotificationRequest{
		Title:      "Material Added",
		Message:    fmt.Sprintf("You've successfully added '%s' to '%s'.", m.Title, c.Title),
		ActionType: domain.ActionMaterial,
		ActionID:   m.MaterialID,
	}
	studentNote := domain.CreateNotificationRequest{
		Title:      "New Course Material",
		Message:    fmt.Sprintf("New material '%s' has been added to '%s'.", m.Title, c.Title),
		ActionType: domain.ActionMaterial,
		ActionID:   m.MaterialID,
	}
	s.fanout.NotifyUser(ctx, teacherID, teacherNote)
	s.fanout.NotifyUsers(ctx, c.Students, studentNote)

	return m, nil
}

func (s *service) ListByCourse(ctx context.Context, user *domain.User, courseID string) ([]domain.Material, error) {
	c, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(user, c); err != nil {
		return nil, err
	}
	return s.repo.ListByCourse(ctx, courseID)
}

func (s *service) Get(ctx context.Context, user *domain.User, courseID, materialID string) (*domain.Material, error) {
	c, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(user, c); err != nil {
		return nil, err
	}
	m, err := s.repo.Get(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m.CourseID != courseID {
		return nil, fmt.Errorf("material not found: %w", domain.ErrNotFound)
	}
	return m, nil
}

// Delete removes the material and its stored file, if any.
func (s *service) Delete(ctx context.Context, teacherID, courseID, materialID string) error {
	c, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return err
	}
	if c.TeacherID != teacherID {
		return fmt.Errorf("only the course teacher can delete materials: %w", domain.ErrForbidden)
	}
	m, err := s.repo.Get(ctx, materialID)
	if err != nil {
		return err
	}
	if m.CourseID != courseID {
		return fmt.Errorf("material not found: %w", domain.ErrNotFound)
	}
	if m.FileURL != nil {
		// Best effort: losing an orphan file is preferable to a stuck delete.
		key := objectKey(*m.FileURL)
		_ = s.files.Delete(ctx, key)
	}
	return s.repo.Delete(ctx, materialID)
}

// Materials are visible to any teacher, the course owner, and enrolled students.
func checkAccess(user *domain.User, c *domain.Course) error {
	if user.Role == domain.RoleTeacher || c.TeacherID == user.UserID || c.Enrolled(user.UserID) {
		return nil
	}
	return fmt.Errorf("you must be the teacher or enrolled in the course to view materials: %w", domain.ErrForbidden)
}

func inferType(filename string) string {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")) {
	case "pdf", "doc", "docx":
		return "document"
	case "jpg", "jpeg", "png", "gif":
		return "image"
	case "mp4", "mov", "avi":
		return "video"
	default:
		return "file"
	}
}

// objectKey strips the s3://bucket/ prefix from a stored object URL.
func objectKey(url string) string {
	trimmed := strings.TrimPrefix(url, "s3://")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
