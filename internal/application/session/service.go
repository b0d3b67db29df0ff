package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, teacher *domain.User, req domain.CreateSessionRequest) (*domain.Session, error)
	Get(ctx context.Context, user *domain.User, sessionID string) (*domain.Session, error)
	ListUpcoming(ctx context.Context, user *domain.User) ([]domain.Session, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]domain.Session, error)
}

type courseStore interface {
	Get(ctx context.Context, courseID string) (*domain.Course, error)
	GetByTitle(ctx context.Context, title string) (*domain.Course, error)
	ListByStudent(ctx context.Context, userID string) ([]domain.Course, error)
}

type notifier interface {
	NotifyUser(ctx context.Context, userID string, req domain.CreateNotificationRequest)
	NotifyUsers(ctx context.Context, userIDs []string, req domain.CreateNotificationRequest)
}

type service struct {
	repo    sessionStore
	courses courseStore
	fanout  notifier
}

type ServiceDeps struct {
	Repo    sessionStore
	Courses courseStore
	Fanout  notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:    deps.Repo,
		courses: deps.Courses,
		fanout:  deps.Fanout,
	}
}

// Create schedules a live session with a generated meeting link and notifies
// the teacher plus the roster of the referenced course.
func (s *service) Create(ctx context.Context, teacher *domain.User, req domain.CreateSessionRequest) (*domain.Session, error) {
	if teacher.Role != domain.RoleTeacher {
		return nil, fmt.Errorf("only teachers can create sessions: %w", domain.ErrBadRequest)
	}

	sess := &domain.Session{
		SessionID:   id.New(),
		Title:       req.Title,
		Description: req.Description,
		Course:      req.Course,
		Date:        req.Date,
		Time:        req.Time,
		Duration:    req.Duration,
		TeacherID:   teacher.UserID,
		TeacherName: teacher.Name,
		Attendees:   []string{},
		CreatedAt:   time.Now().UTC(),
	}
	sess.MeetingLink = fmt.Sprintf("https://meet.jit.si/learnlive-session-%s", sess.SessionID)

	if err := s.repo.Put(ctx, sess); err != nil {
		return nil, err
	}

	teacherNote := domain.CreateNotificationRequest{
		Title:      "Session Created",
		Message:    fmt.Sprintf("You've scheduled a new session '%s' on %s at %s.", sess.Title, sess.Date, sess.Time),
		ActionType: domain.ActionSession,
		ActionID:   sess.SessionID,
	}
	studentNote := domain.CreateNotificationRequest{
		Title:      "New Live Session Scheduled",
		Message:    fmt.Sprintf("A new session '%s' has been scheduled for %s at %s.", sess.Title, sess.Date, sess.Time),
		ActionType: domain.ActionSession,
		ActionID:   sess.SessionID,
	}
	s.fanout.NotifyUser(ctx, teacher.UserID, teacherNote)
	if req.Course != "" {
		// Sessions may reference courses that no longer exist.
		if c, err := s.resolveCourse(ctx, req.Course); err == nil {
			s.fanout.NotifyUsers(ctx, c.Students, studentNote)
		}
	}

	return sess, nil
}

// Get returns the session. Students must be enrolled in the session's course.
func (s *service) Get(ctx context.Context, user *domain.User, sessionID string) (*domain.Session, error) {
	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleStudent {
		refs, err := s.enrolledRefs(ctx, user.UserID)
		if err != nil {
			return nil, err
		}
		if !refs[sess.Course] {
			return nil, fmt.Errorf("you must be enrolled in the course to access this session: %w", domain.ErrForbidden)
		}
	}
	return sess, nil
}

// ListUpcoming returns today's and future sessions. Teachers see their own
// schedule; students see sessions for courses they are enrolled in.
func (s *service) ListUpcoming(ctx context.Context, user *domain.User) ([]domain.Session, error) {
	today := time.Now().UTC().Format("2006-01-02")

	var sessions []domain.Session
	if user.Role == domain.RoleTeacher {
		all, err := s.repo.ListByTeacher(ctx, user.UserID)
		if err != nil {
			return nil, err
		}
		for _, sess := range all {
			if sess.Date >= today {
				sessions = append(sessions, sess)
			}
		}
	} else {
		refs, err := s.enrolledRefs(ctx, user.UserID)
		if err != nil {
			return nil, err
		}
		all, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, sess := range all {
			if sess.Date >= today && refs[sess.Course] {
				sessions = append(sessions, sess)
			}
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date < sessions[j].Date
		}
		return sessions[i].Time < sessions[j].Time
	})
	return sessions, nil
}

// resolveCourse accepts either a course id or a course title.
func (s *service) resolveCourse(ctx context.Context, ref string) (*domain.Course, error) {
	c, err := s.courses.Get(ctx, ref)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.courses.GetByTitle(ctx, ref)
}

// enrolledRefs collects both ids and titles of the student's courses, since
// sessions reference courses either way.
func (s *service) enrolledRefs(ctx context.Context, userID string) (map[string]bool, error) {
	courses, err := s.courses.ListByStudent(ctx, userID)
	if err != nil {
		return nil, err
	}
	refs := make(map[string]bool, len(courses)*2)
	for _, c := range courses {
		refs[c.CourseID] = true
		refs[c.Title] = true
	}
	return refs, nil
}
