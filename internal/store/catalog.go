package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aptiprep/backend/internal/domain/catalog"
)

// ============================================================================
// Courses
// ============================================================================

func (s *SQLStore) SaveCourse(ctx context.Context, c *catalog.Course) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO courses (id, name, description) VALUES ($1, $2, $3)", c.ID, c.Name, c.Description)
	return err
}

func (s *SQLStore) GetCourse(ctx context.Context, id string) (*catalog.Course, error) {
	var c catalog.Course
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description FROM courses WHERE id = $1", id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLStore) ListCourses(ctx context.Context) ([]*catalog.Course, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, description FROM courses ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*catalog.Course
	for rows.Next() {
		var c catalog.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		courses = append(courses, &c)
	}
	return courses, rows.Err()
}

func (s *SQLStore) UpdateCourse(ctx context.Context, c *catalog.Course) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE courses SET name = $1, description = $2 WHERE id = $3", c.Name, c.Description, c.ID)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// DeleteCourse removes a course; subjects and topics go with it through
// ON DELETE CASCADE and questions lose their topic link.
func (s *SQLStore) DeleteCourse(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// ============================================================================
// Subjects
// ============================================================================

func (s *SQLStore) SaveSubject(ctx context.Context, sub *catalog.Subject) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO subjects (id, course_id, name) VALUES ($1, $2, $3)", sub.ID, sub.CourseID, sub.Name)
	return err
}

func (s *SQLStore) GetSubject(ctx context.Context, id string) (*catalog.Subject, error) {
	var sub catalog.Subject
	err := s.db.QueryRowContext(ctx,
		"SELECT id, course_id, name FROM subjects WHERE id = $1", id,
	).Scan(&sub.ID, &sub.CourseID, &sub.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SQLStore) ListSubjectsByCourse(ctx context.Context, courseID string) ([]*catalog.Subject, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, course_id, name FROM subjects WHERE course_id = $1 ORDER BY name, id", courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*catalog.Subject
	for rows.Next() {
		var sub catalog.Subject
		if err := rows.Scan(&sub.ID, &sub.CourseID, &sub.Name); err != nil {
			return nil, err
		}
		subjects = append(subjects, &sub)
	}
	return subjects, rows.Err()
}

func (s *SQLStore) UpdateSubject(ctx context.Context, sub *catalog.Subject) error {
	result, err := s.db.ExecContext(ctx, "UPDATE subjects SET name = $1 WHERE id = $2", sub.Name, sub.ID)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *SQLStore) DeleteSubject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM subjects WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// ============================================================================
// Topics
// ============================================================================

func (s *SQLStore) SaveTopic(ctx context.Context, t *catalog.Topic) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO topics (id, subject_id, name) VALUES ($1, $2, $3)", t.ID, t.SubjectID, t.Name)
	return err
}

func (s *SQLStore) GetTopic(ctx context.Context, id string) (*catalog.Topic, error) {
	var t catalog.Topic
	err := s.db.QueryRowContext(ctx,
		"SELECT id, subject_id, name FROM topics WHERE id = $1", id,
	).Scan(&t.ID, &t.SubjectID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLStore) ListTopicsBySubject(ctx context.Context, subjectID string) ([]*catalog.Topic, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, subject_id, name FROM topics WHERE subject_id = $1 ORDER BY name, id", subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []*catalog.Topic
	for rows.Next() {
		var t catalog.Topic
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Name); err != nil {
			return nil, err
		}
		topics = append(topics, &t)
	}
	return topics, rows.Err()
}

func (s *SQLStore) UpdateTopic(ctx context.Context, t *catalog.Topic) error {
	result, err := s.db.ExecContext(ctx, "UPDATE topics SET name = $1 WHERE id = $2", t.Name, t.ID)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *SQLStore) DeleteTopic(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM topics WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOne(result)
}
