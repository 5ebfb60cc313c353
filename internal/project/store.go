package project

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no project has the requested id.
	ErrNotFound = errors.New("proyecto no encontrado")
	// ErrInvalid is returned when a required field is empty or a status is unknown.
	ErrInvalid = errors.New("datos de proyecto inválidos")
)

// Store is the in-memory project list plus the next-id counter.
// It is safe for concurrent use by the interactive loop and the autosaver.
type Store struct {
	mu       sync.RWMutex
	projects []Project
	nextID   int
}

// NewStore returns an empty store whose first id will be 1.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Add appends a new project and returns it with its assigned id.
func (s *Store) Add(title, investigator string, date Date, status Status) (Project, error) {
	title = strings.TrimSpace(title)
	investigator = strings.TrimSpace(investigator)
	if title == "" {
		return Project{}, fmt.Errorf("%w: el título no puede estar vacío", ErrInvalid)
	}
	if investigator == "" {
		return Project{}, fmt.Errorf("%w: el investigador principal no puede estar vacío", ErrInvalid)
	}
	if status == "" {
		status = StatusPlanning
	}
	if !status.Valid() {
		return Project{}, fmt.Errorf("%w: estado desconocido %q", ErrInvalid, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Project{
		ID:           s.nextID,
		Title:        title,
		Investigator: investigator,
		StartDate:    date,
		Status:       status,
	}
	s.projects = append(s.projects, p)
	s.nextID++
	return p, nil
}

// Find returns the project with the given id.
func (s *Store) Find(id int) (Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Project{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return s.projects[i], nil
}

// Update applies the non-empty fields of patch to the project with the given id.
func (s *Store) Update(id int, patch Patch) (Project, error) {
	if patch.Status != "" && !patch.Status.Valid() {
		return Project{}, fmt.Errorf("%w: estado desconocido %q", ErrInvalid, patch.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Project{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	p := &s.projects[i]
	if v := strings.TrimSpace(patch.Title); v != "" {
		p.Title = v
	}
	if v := strings.TrimSpace(patch.Investigator); v != "" {
		p.Investigator = v
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.Status != "" {
		p.Status = patch.Status
	}
	return *p, nil
}

// SetStatus changes only the status of a project.
func (s *Store) SetStatus(id int, status Status) (Project, error) {
	if !status.Valid() {
		return Project{}, fmt.Errorf("%w: estado desconocido %q", ErrInvalid, status)
	}
	return s.Update(id, Patch{Status: status})
}

// Remove deletes the project with the given id.
func (s *Store) Remove(id int) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Project{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	removed := s.projects[i]
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	return removed, nil
}

// List returns a copy of all projects in insertion order.
func (s *Store) List() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Len returns the number of projects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

// NextID returns the id the next Add will assign.
func (s *Store) NextID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID
}

// Snapshot returns the counter and a copy of the projects taken under one lock.
func (s *Store) Snapshot() (int, []Project) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Project, len(s.projects))
	copy(out, s.projects)
	return s.nextID, out
}

// Restore replaces the store contents. The counter is raised above the
// highest id present when needed, and never drops below 1.
func (s *Store) Restore(nextID int, projects []Project) {
	maxID := 0
	for _, p := range projects {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	if nextID <= maxID {
		nextID = maxID + 1
	}
	if nextID < 1 {
		nextID = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append([]Project(nil), projects...)
	s.nextID = nextID
}

// Seed adds the example projects shown on a first run.
func (s *Store) Seed() error {
	examples := []struct {
		title, investigator string
		date                time.Time
		status              Status
	}{
		{"Análisis de curvas de luz de supernovas", "Dr. Juan Pérez",
			time.Date(2025, time.January, 15, 0, 0, 0, 0, time.Local), StatusInProgress},
		{"Clasificación automática de galaxias con ML", "Dra. María González",
			time.Date(2025, time.March, 1, 0, 0, 0, 0, time.Local), StatusPlanning},
	}
	for _, e := range examples {
		if _, err := s.Add(e.title, e.investigator, NewDate(e.date), e.status); err != nil {
			return err
		}
	}
	return nil
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id int) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}
