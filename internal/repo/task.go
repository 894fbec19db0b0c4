package repo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-store-api/internal/model"
	"github.com/BuzzLyutic/task-store-api/internal/storage"
)

// CSVTaskRepo хранит задачи одним CSV-документом. Каждая операция читает документ целиком,
// каждая мутация перезаписывает его целиком
type CSVTaskRepo struct {
	mu      sync.Mutex // сериализует read-modify-write внутри процесса
	backend storage.Backend
	logger  *zap.Logger
}

var _ TaskRepository = (*CSVTaskRepo)(nil)

func NewCSVTaskRepo(backend storage.Backend, logger *zap.Logger) *CSVTaskRepo {
	return &CSVTaskRepo{
		backend: backend,
		logger:  logger,
	}
}

func (r *CSVTaskRepo) List(ctx context.Context) ([]model.Task, error) {
	tasks, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (r *CSVTaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	tasks, err := r.load(ctx)
	if err != nil {
		return model.Task{}, err
	}

	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, ErrorNotFound
}

func (r *CSVTaskRepo) Create(ctx context.Context, in model.TaskInput) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load(ctx)
	if err != nil {
		return model.Task{}, err
	}

	id, ok := in.ID.Get()
	if ok {
		if slices.ContainsFunc(tasks, func(t model.Task) bool { return t.ID == id }) {
			return model.Task{}, fmt.Errorf("task %d: %w", id, ErrorConflict)
		}
	} else {
		id = nextID(tasks)
	}

	task := model.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	}.Normalize()

	tasks = append(tasks, task)
	if err := r.save(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (r *CSVTaskRepo) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load(ctx)
	if err != nil {
		return model.Task{}, err
	}

	i := slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == id })
	if i < 0 {
		return model.Task{}, ErrorNotFound
	}

	tasks[i] = patch.Apply(tasks[i]).Normalize()
	if err := r.save(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	return tasks[i], nil
}

func (r *CSVTaskRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, err := r.load(ctx)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == id })
	if i < 0 {
		return ErrorNotFound
	}

	tasks = slices.Delete(tasks, i, i+1)
	return r.save(ctx, tasks)
}

func (r *CSVTaskRepo) load(ctx context.Context) ([]model.Task, error) {
	data, err := r.backend.Read(ctx)
	if errors.Is(err, storage.ErrNotExist) { // Нет файла - пустой список, а не ошибка
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeTasks(data)
}

func (r *CSVTaskRepo) save(ctx context.Context, tasks []model.Task) error {
	data, err := encodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := r.backend.Write(ctx, data); err != nil {
		return err
	}

	r.logger.Debug("tasks persisted", zap.Int("count", len(tasks)), zap.Int("bytes", len(data)))
	return nil
}

func nextID(tasks []model.Task) int64 {
	var maxID int64
	for _, t := range tasks {
		maxID = max(maxID, t.ID)
	}
	return maxID + 1
}
