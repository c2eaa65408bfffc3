package services

import (
	"context"
	"sync"
	"time"

	"github.com/tolgad/registra/internal/app/models"
	"github.com/tolgad/registra/internal/app/repositories"
	"github.com/tolgad/registra/internal/db"
	"github.com/tolgad/registra/internal/pkg/apperrors"
)

// fakeTransactor serializes "transactions" with a mutex, standing in for the
// course row lock the real engine takes. The Querier handed to the callback is
// nil; the fakes below ignore it.
type fakeTransactor struct {
	mu sync.Mutex
}

func (t *fakeTransactor) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx, nil)
}

// fakeCourseStore keeps courses and prerequisite edges in memory.
type fakeCourseStore struct {
	mu      sync.Mutex
	courses map[int64]*models.Course
	prereqs map[int64][]int64
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{
		courses: make(map[int64]*models.Course),
		prereqs: make(map[int64][]int64),
	}
}

func (s *fakeCourseStore) add(c *models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.ID] = c
}

func (s *fakeCourseStore) setPrereqs(courseID int64, ids ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prereqs[courseID] = ids
}

func (s *fakeCourseStore) GetForUpdate(ctx context.Context, q repositories.Querier, id int64) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCourseStore) MeetingsByCourse(ctx context.Context, q repositories.Querier, courseID int64) ([]models.CourseMeeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[courseID]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return append([]models.CourseMeeting(nil), c.Meetings...), nil
}

func (s *fakeCourseStore) DirectPrerequisiteIDs(ctx context.Context, q repositories.Querier, courseID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.prereqs[courseID]...), nil
}

// fakeEnrollmentStore keeps the enrollment ledger in memory. It needs the
// course store to hydrate meetings for the conflict check.
type fakeEnrollmentStore struct {
	mu      sync.Mutex
	rows    []*models.Enrollment
	regs    []*models.TermRegistration
	nextID  int64
	courses *fakeCourseStore
}

func newFakeEnrollmentStore(courses *fakeCourseStore) *fakeEnrollmentStore {
	return &fakeEnrollmentStore{nextID: 1, courses: courses}
}

// seed adds an enrollment row directly, bypassing the engine.
func (s *fakeEnrollmentStore) seed(studentID, courseID, termID int64, status models.EnrollmentStatus) *models.Enrollment {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &models.Enrollment{
		ID:         s.nextID,
		StudentID:  studentID,
		CourseID:   courseID,
		TermID:     termID,
		Status:     status,
		EnrolledAt: time.Now(),
	}
	s.nextID++
	s.rows = append(s.rows, e)
	return e
}

func (s *fakeEnrollmentStore) FindByStudentAndCourse(ctx context.Context, q repositories.Querier, studentID, courseID int64) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.rows {
		if e.StudentID == studentID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeEnrollmentStore) CountEnrolled(ctx context.Context, q repositories.Querier, courseID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, e := range s.rows {
		if e.CourseID == courseID && e.Status == models.StatusEnrolled {
			count++
		}
	}
	return count, nil
}

func (s *fakeEnrollmentStore) CompletedCourseIDs(ctx context.Context, q repositories.Querier, studentID int64, candidateIDs []int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidates := make(map[int64]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		candidates[id] = true
	}
	var out []int64
	for _, e := range s.rows {
		if e.StudentID == studentID && e.Status == models.StatusCompleted && candidates[e.CourseID] {
			out = append(out, e.CourseID)
		}
	}
	return out, nil
}

func (s *fakeEnrollmentStore) ActiveCoursesWithMeetings(ctx context.Context, q repositories.Querier, studentID, termID int64) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Course
	for _, e := range s.rows {
		if e.StudentID != studentID || e.TermID != termID || e.Status != models.StatusEnrolled {
			continue
		}
		s.courses.mu.Lock()
		if c, ok := s.courses.courses[e.CourseID]; ok {
			out = append(out, *c)
		}
		s.courses.mu.Unlock()
	}
	return out, nil
}

func (s *fakeEnrollmentStore) Insert(ctx context.Context, q repositories.Querier, e *models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows {
		if existing.StudentID == e.StudentID && existing.CourseID == e.CourseID && existing.TermID == e.TermID {
			return apperrors.ErrAlreadyEnrolled
		}
	}
	e.ID = s.nextID
	s.nextID++
	e.EnrolledAt = time.Now()
	cp := *e
	s.rows = append(s.rows, &cp)
	return nil
}

func (s *fakeEnrollmentStore) Reactivate(ctx context.Context, q repositories.Querier, e *models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows {
		if existing.ID == e.ID {
			existing.Status = models.StatusEnrolled
			existing.EnrolledAt = time.Now()
			e.Status = models.StatusEnrolled
			e.EnrolledAt = existing.EnrolledAt
			return nil
		}
	}
	return apperrors.ErrEnrollmentNotFound
}

func (s *fakeEnrollmentStore) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.rows {
		if e.ID == id {
			cp := *e
			s.courses.mu.Lock()
			if c, ok := s.courses.courses[e.CourseID]; ok {
				ccp := *c
				cp.Course = &ccp
			}
			s.courses.mu.Unlock()
			return &cp, nil
		}
	}
	return nil, apperrors.ErrEnrollmentNotFound
}

func (s *fakeEnrollmentStore) ListByStudent(ctx context.Context, studentID, termID int64) ([]*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Enrollment
	for _, e := range s.rows {
		if e.StudentID != studentID {
			continue
		}
		if termID > 0 && e.TermID != termID {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeEnrollmentStore) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.rows {
		if e.ID == id {
			e.Status = status
			return nil
		}
	}
	return apperrors.ErrEnrollmentNotFound
}

func (s *fakeEnrollmentStore) CreateTermRegistration(ctx context.Context, reg *models.TermRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.regs {
		if r.StudentID == reg.StudentID && r.TermID == reg.TermID {
			return apperrors.ErrAlreadyRegistered
		}
	}
	reg.ID = s.nextID
	s.nextID++
	reg.RegisteredAt = time.Now()
	cp := *reg
	s.regs = append(s.regs, &cp)
	return nil
}

func (s *fakeEnrollmentStore) ListTermRegistrations(ctx context.Context, studentID int64) ([]*models.TermRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.TermRegistration
	for _, r := range s.regs {
		if r.StudentID == studentID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeTermStore keeps terms in memory.
type fakeTermStore struct {
	terms map[int64]*models.Term
}

func newFakeTermStore() *fakeTermStore {
	return &fakeTermStore{terms: make(map[int64]*models.Term)}
}

func (s *fakeTermStore) add(t *models.Term) {
	s.terms[t.ID] = t
}

func (s *fakeTermStore) GetByID(ctx context.Context, id int64) (*models.Term, error) {
	t, ok := s.terms[id]
	if !ok {
		return nil, apperrors.ErrTermNotFound
	}
	cp := *t
	return &cp, nil
}
