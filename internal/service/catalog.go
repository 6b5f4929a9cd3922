package service

import (
	"context"

	"github.com/aptiprep/backend/internal/domain/catalog"
)

type CatalogStore interface {
	SaveCourse(ctx context.Context, c *catalog.Course) error
	GetCourse(ctx context.Context, id string) (*catalog.Course, error)
	ListCourses(ctx context.Context) ([]*catalog.Course, error)
	UpdateCourse(ctx context.Context, c *catalog.Course) error
	DeleteCourse(ctx context.Context, id string) error

	SaveSubject(ctx context.Context, s *catalog.Subject) error
	GetSubject(ctx context.Context, id string) (*catalog.Subject, error)
	ListSubjectsByCourse(ctx context.Context, courseID string) ([]*catalog.Subject, error)
	UpdateSubject(ctx context.Context, s *catalog.Subject) error
	DeleteSubject(ctx context.Context, id string) error

	SaveTopic(ctx context.Context, t *catalog.Topic) error
	GetTopic(ctx context.Context, id string) (*catalog.Topic, error)
	ListTopicsBySubject(ctx context.Context, subjectID string) ([]*catalog.Topic, error)
	UpdateTopic(ctx context.Context, t *catalog.Topic) error
	DeleteTopic(ctx context.Context, id string) error
}

// CatalogService maintains the Course -> Subject -> Topic hierarchy. Parents
// must exist before children are attached.
type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(s CatalogStore) *CatalogService {
	return &CatalogService{store: s}
}

// ============================================================================
// Courses
// ============================================================================

func (cs *CatalogService) CreateCourse(ctx context.Context, name, description string) (*catalog.Course, error) {
	c, err := catalog.NewCourse(name, description)
	if err != nil {
		return nil, invalid(err)
	}
	if err := cs.store.SaveCourse(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CourseDetail is a course with its subjects.
type CourseDetail struct {
	*catalog.Course
	Subjects []*catalog.Subject
}

func (cs *CatalogService) GetCourse(ctx context.Context, id string) (*CourseDetail, error) {
	c, err := cs.store.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	subjects, err := cs.store.ListSubjectsByCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CourseDetail{Course: c, Subjects: subjects}, nil
}

func (cs *CatalogService) ListCourses(ctx context.Context) ([]*catalog.Course, error) {
	return cs.store.ListCourses(ctx)
}

func (cs *CatalogService) UpdateCourse(ctx context.Context, id, name, description string) (*catalog.Course, error) {
	c, err := catalog.NewCourse(name, description)
	if err != nil {
		return nil, invalid(err)
	}
	c.ID = id
	if err := cs.store.UpdateCourse(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (cs *CatalogService) DeleteCourse(ctx context.Context, id string) error {
	return cs.store.DeleteCourse(ctx, id)
}

// ============================================================================
// Subjects
// ============================================================================

func (cs *CatalogService) CreateSubject(ctx context.Context, courseID, name string) (*catalog.Subject, error) {
	s, err := catalog.NewSubject(courseID, name)
	if err != nil {
		return nil, invalid(err)
	}
	if _, err := cs.store.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	if err := cs.store.SaveSubject(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SubjectDetail is a subject with its topics.
type SubjectDetail struct {
	*catalog.Subject
	Topics []*catalog.Topic
}

func (cs *CatalogService) GetSubject(ctx context.Context, id string) (*SubjectDetail, error) {
	s, err := cs.store.GetSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	topics, err := cs.store.ListTopicsBySubject(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SubjectDetail{Subject: s, Topics: topics}, nil
}

func (cs *CatalogService) RenameSubject(ctx context.Context, id, name string) (*catalog.Subject, error) {
	s, err := cs.store.GetSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	renamed, err := catalog.NewSubject(s.CourseID, name)
	if err != nil {
		return nil, invalid(err)
	}
	s.Name = renamed.Name
	if err := cs.store.UpdateSubject(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (cs *CatalogService) DeleteSubject(ctx context.Context, id string) error {
	return cs.store.DeleteSubject(ctx, id)
}

// ============================================================================
// Topics
// ============================================================================

func (cs *CatalogService) CreateTopic(ctx context.Context, subjectID, name string) (*catalog.Topic, error) {
	t, err := catalog.NewTopic(subjectID, name)
	if err != nil {
		return nil, invalid(err)
	}
	if _, err := cs.store.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	if err := cs.store.SaveTopic(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (cs *CatalogService) GetTopic(ctx context.Context, id string) (*catalog.Topic, error) {
	return cs.store.GetTopic(ctx, id)
}

func (cs *CatalogService) RenameTopic(ctx context.Context, id, name string) (*catalog.Topic, error) {
	t, err := cs.store.GetTopic(ctx, id)
	if err != nil {
		return nil, err
	}
	renamed, err := catalog.NewTopic(t.SubjectID, name)
	if err != nil {
		return nil, invalid(err)
	}
	t.Name = renamed.Name
	if err := cs.store.UpdateTopic(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (cs *CatalogService) DeleteTopic(ctx context.Context, id string) error {
	return cs.store.DeleteTopic(ctx, id)
}
