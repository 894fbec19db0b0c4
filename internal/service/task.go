package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BuzzLyutic/task-store-api/internal/model"
	"github.com/BuzzLyutic/task-store-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

type Stats struct {
	TotalTasks int            `json:"total_tasks"`
	ByStatus   map[string]int `json:"by_status"`
}

type TaskService struct {
	repo repo.TaskRepository
}

func NewTaskService(repo repo.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, req model.TaskRequest) (model.Task, error) {
	if err := s.validate(req); err != nil { // Валидация модели на корректность введенных данных
		return model.Task{}, err
	}

	// id всегда назначает хранилище
	return s.repo.Create(ctx, model.TaskInput{
		Title:       req.Title.Value,
		Description: req.Description,
		Status:      req.Status,
	})
}

func (s *TaskService) Get(ctx context.Context, id int64) (model.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *TaskService) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Status == nil && filter.Title == nil {
		return tasks, nil
	}

	filtered := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, filter) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// Update - null в description/status означает "не менять"
func (s *TaskService) Update(ctx context.Context, id int64, req model.TaskRequest) (model.Task, error) {
	if err := s.validate(req); err != nil {
		return model.Task{}, err
	}

	patch := model.TaskPatch{Title: req.Title}
	if req.Description != nil {
		patch.Description = model.Some(*req.Description)
	}
	if req.Status != nil {
		patch.Status = model.Some(*req.Status)
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) GetStats(ctx context.Context) (Stats, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalTasks: len(tasks),
		ByStatus:   make(map[string]int),
	}
	for _, t := range tasks {
		if t.Status != nil {
			stats.ByStatus[*t.Status]++
		}
	}
	return stats, nil
}

// Пустой или состоящий из пробелов title допустим, важно только его наличие
func (s *TaskService) validate(req model.TaskRequest) error {
	if !req.Title.Set {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	return nil
}

func matches(t model.Task, filter model.TaskFilter) bool {
	if filter.Status != nil && (t.Status == nil || *t.Status != *filter.Status) {
		return false
	}
	if filter.Title != nil && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(*filter.Title)) {
		return false
	}
	return true
}
