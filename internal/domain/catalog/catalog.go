package catalog

import (
	"errors"
	"strings"

	"github.com/aptiprep/backend/internal/id"
)

var ErrNameRequired = errors.New("name is required")

// The catalog is a three-level hierarchy managed by admins:
// Course → Subjects → Topics. Questions may link to a topic.

type Course struct {
	ID          string
	Name        string
	Description string
}

type Subject struct {
	ID       string
	CourseID string
	Name     string
}

type Topic struct {
	ID        string
	SubjectID string
	Name      string
}

func NewCourse(name, description string) (*Course, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return &Course{ID: id.GenerateID(), Name: name, Description: description}, nil
}

func NewSubject(courseID, name string) (*Subject, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return &Subject{ID: id.GenerateID(), CourseID: courseID, Name: name}, nil
}

func NewTopic(subjectID, name string) (*Topic, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return &Topic{ID: id.GenerateID(), SubjectID: subjectID, Name: name}, nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}
