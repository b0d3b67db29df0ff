package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnlive/api/internal/domain"
)

type mockSessionStore struct {
	sessions map[string]*domain.Session
	putErr   error
}

func (m *mockSessionStore) Put(_ context.Context, s *domain.Session) error {
	if m.putErr != nil {
		return m.putErr
	}
	if m.sessions == nil {
		m.sessions = map[string]*domain.Session{}
	}
	m.sessions[s.SessionID] = s
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	return s, nil
}

func (m *mockSessionStore) List(_ context.Context) ([]domain.Session, error) {
	out := make([]domain.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSessionStore) ListByTeacher(_ context.Context, teacherID string) ([]domain.Session, error) {
	var out []domain.Session
	for _, s := range m.sessions {
		if s.TeacherID == teacherID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type mockCourseStore struct {
	byID       map[string]*domain.Course
	byTitle    map[string]*domain.Course
	enrolledIn []domain.Course
}

func (m *mockCourseStore) Get(_ context.Context, courseID string) (*domain.Course, error) {
	if c, ok := m.byID[courseID]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("course %s: %w", courseID, domain.ErrNotFound)
}

func (m *mockCourseStore) GetByTitle(_ context.Context, title string) (*domain.Course, error) {
	if c, ok := m.byTitle[title]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("course %q: %w", title, domain.ErrNotFound)
}

func (m *mockCourseStore) ListByStudent(_ context.Context, _ string) ([]domain.Course, error) {
	return m.enrolledIn, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []domain.CreateNotificationRequest
	users []string
}

func (n *recordingNotifier) NotifyUser(_ context.Context, userID string, req domain.CreateNotificationRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	req.UserID = userID
	n.sent = append(n.sent, req)
	n.users = append(n.users, userID)
}

func (n *recordingNotifier) NotifyUsers(_ context.Context, userIDs []string, req domain.CreateNotificationRequest) {
	for _, uid := range userIDs {
		n.NotifyUser(context.Background(), uid, req)
	}
}

func newTestService(store *mockSessionStore, courses *mockCourseStore, n *recordingNotifier) Service {
	return NewService(ServiceDeps{
		Repo:    store,
		Courses: courses,
		Fanout:  n,
	})
}

func teacher() *domain.User {
	return &domain.User{UserID: "t1", Name: "Ms. Bell", Role: domain.RoleTeacher}
}

func student() *domain.User {
	return &domain.User{UserID: "s1", Name: "Alice", Role: domain.RoleStudent, ClassLevel: "8"}
}

func TestCreate_StudentRejected(t *testing.T) {
	svc := newTestService(&mockSessionStore{}, &mockCourseStore{}, &recordingNotifier{})

	_, err := svc.Create(context.Background(), student(), domain.CreateSessionRequest{Title: "Algebra"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestCreate_GeneratesMeetingLinkAndNotifies(t *testing.T) {
	store := &mockSessionStore{}
	courses := &mockCourseStore{
		byID: map[string]*domain.Course{
			"c1": {CourseID: "c1", Title: "Algebra", Students: []string{"s1", "s2"}},
		},
	}
	n := &recordingNotifier{}
	svc := newTestService(store, courses, n)

	sess, err := svc.Create(context.Background(), teacher(), domain.CreateSessionRequest{
		Title:  "Week 3 Review",
		Course: "c1",
		Date:   "2026-09-01",
		Time:   "10:00",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sess.MeetingLink, "https://meet.jit.si/learnlive-session-"))
	assert.Equal(t, "t1", sess.TeacherID)

	// Teacher gets "Session Created", each enrolled student gets the announcement.
	require.Len(t, n.sent, 3)
	assert.Equal(t, []string{"t1", "s1", "s2"}, n.users)
	assert.Equal(t, "Session Created", n.sent[0].Title)
	assert.Equal(t, "New Live Session Scheduled", n.sent[1].Title)
	assert.Equal(t, sess.SessionID, n.sent[1].ActionID)
}

func TestCreate_CourseByTitleFallback(t *testing.T) {
	store := &mockSessionStore{}
	courses := &mockCourseStore{
		byTitle: map[string]*domain.Course{
			"Algebra": {CourseID: "c1", Title: "Algebra", Students: []string{"s1"}},
		},
	}
	n := &recordingNotifier{}
	svc := newTestService(store, courses, n)

	_, err := svc.Create(context.Background(), teacher(), domain.CreateSessionRequest{
		Title:  "Review",
		Course: "Algebra",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "s1"}, n.users)
}

func TestCreate_MissingCourseStillNotifiesTeacher(t *testing.T) {
	store := &mockSessionStore{}
	n := &recordingNotifier{}
	svc := newTestService(store, &mockCourseStore{}, n)

	_, err := svc.Create(context.Background(), teacher(), domain.CreateSessionRequest{
		Title:  "Orphan",
		Course: "gone",
	})
	require.NoError(t, err)
	require.Len(t, n.sent, 1)
	assert.Equal(t, "t1", n.users[0])
}

func TestCreate_StoreError(t *testing.T) {
	store := &mockSessionStore{putErr: errors.New("dynamo down")}
	n := &recordingNotifier{}
	svc := newTestService(store, &mockCourseStore{}, n)

	_, err := svc.Create(context.Background(), teacher(), domain.CreateSessionRequest{Title: "x"})
	require.Error(t, err)
	assert.Empty(t, n.sent)
}

func TestGet_StudentMustBeEnrolled(t *testing.T) {
	store := &mockSessionStore{sessions: map[string]*domain.Session{
		"sess1": {SessionID: "sess1", Course: "c1"},
	}}
	courses := &mockCourseStore{} // student enrolled in nothing
	svc := newTestService(store, courses, &recordingNotifier{})

	_, err := svc.Get(context.Background(), student(), "sess1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGet_EnrolledStudentByCourseTitle(t *testing.T) {
	store := &mockSessionStore{sessions: map[string]*domain.Session{
		"sess1": {SessionID: "sess1", Course: "Algebra"},
	}}
	courses := &mockCourseStore{
		enrolledIn: []domain.Course{{CourseID: "c1", Title: "Algebra"}},
	}
	svc := newTestService(store, courses, &recordingNotifier{})

	sess, err := svc.Get(context.Background(), student(), "sess1")
	require.NoError(t, err)
	assert.Equal(t, "sess1", sess.SessionID)
}

func TestGet_TeacherSkipsEnrollmentCheck(t *testing.T) {
	store := &mockSessionStore{sessions: map[string]*domain.Session{
		"sess1": {SessionID: "sess1", Course: "c1"},
	}}
	svc := newTestService(store, &mockCourseStore{}, &recordingNotifier{})

	sess, err := svc.Get(context.Background(), teacher(), "sess1")
	require.NoError(t, err)
	assert.Equal(t, "sess1", sess.SessionID)
}

func TestListUpcoming_TeacherFiltersPastAndSorts(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")
	future := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	store := &mockSessionStore{sessions: map[string]*domain.Session{
		"old":   {SessionID: "old", TeacherID: "t1", Date: "2020-01-01", Time: "09:00"},
		"later": {SessionID: "later", TeacherID: "t1", Date: future, Time: "09:00"},
		"soon1": {SessionID: "soon1", TeacherID: "t1", Date: today, Time: "14:00"},
		"soon2": {SessionID: "soon2", TeacherID: "t1", Date: today, Time: "09:00"},
		"other": {SessionID: "other", TeacherID: "t2", Date: future, Time: "09:00"},
	}}
	svc := newTestService(store, &mockCourseStore{}, &recordingNotifier{})

	sessions, err := svc.ListUpcoming(context.Background(), teacher())
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "soon2", sessions[0].SessionID)
	assert.Equal(t, "soon1", sessions[1].SessionID)
	assert.Equal(t, "later", sessions[2].SessionID)
}

func TestListUpcoming_StudentSeesOnlyEnrolledCourses(t *testing.T) {
	future := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	store := &mockSessionStore{sessions: map[string]*domain.Session{
		"mine":  {SessionID: "mine", Course: "c1", Date: future, Time: "10:00"},
		"other": {SessionID: "other", Course: "c9", Date: future, Time: "10:00"},
	}}
	courses := &mockCourseStore{
		enrolledIn: []domain.Course{{CourseID: "c1", Title: "Algebra"}},
	}
	svc := newTestService(store, courses, &recordingNotifier{})

	sessions, err := svc.ListUpcoming(context.Background(), student())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "mine", sessions[0].SessionID)
}
