package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-store-api/internal/model"
	"github.com/BuzzLyutic/task-store-api/migrations"
)

// сколько раз повторяем вставку, если параллельный запрос занял тот же id
const createRetries = 3

type PostgresTaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

var _ TaskRepository = (*PostgresTaskRepo)(nil)

func NewPostgresTaskRepo(pool *pgxpool.Pool) *PostgresTaskRepo { // Конструктор
	return &PostgresTaskRepo{
		pool: pool,
	}
}

// EnsureSchema создает таблицу tasks, если ее еще нет
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema, err := migrations.FS.ReadFile(migrations.TasksUp)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("apply %s: %w", migrations.TasksUp, err)
	}
	return nil
}

func (r *PostgresTaskRepo) Create(ctx context.Context, in model.TaskInput) (model.Task, error) {
	t := model.Task{Title: in.Title, Description: in.Description, Status: in.Status}.Normalize()

	if id, ok := in.ID.Get(); ok {
		err := r.pool.QueryRow(ctx, `
			INSERT INTO tasks (id, title, description, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id, title, description, status
		`, id, t.Title, t.Description, t.Status).Scan(
			&t.ID, &t.Title, &t.Description, &t.Status,
		)
		return t, r.mapError(err)
	}

	var err error
	for attempt := 0; attempt < createRetries; attempt++ {
		err = r.pool.QueryRow(ctx, `
			INSERT INTO tasks (id, title, description, status)
			SELECT COALESCE(MAX(id), 0) + 1, $1::text, $2::text, $3::text FROM tasks
			RETURNING id, title, description, status
		`, t.Title, t.Description, t.Status).Scan(
			&t.ID, &t.Title, &t.Description, &t.Status,
		)
		err = r.mapError(err)
		if !errors.Is(err, ErrorConflict) {
			break
		}
	}
	return t, err
}

func (r *PostgresTaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, description, status
		FROM tasks
		WHERE id = $1
	`, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *PostgresTaskRepo) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, status
		FROM tasks
		ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PostgresTaskRepo) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	title, setTitle := patch.Title.Get()
	description, setDescription := patch.Description.Get()
	status, setStatus := patch.Status.Get()
	title, description, status = model.NormalizeText(title), model.NormalizeText(description), model.NormalizeText(status)

	// пустая строка в description/status хранится как NULL, так же как в CSV
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title       = CASE WHEN $2::boolean THEN $3::text ELSE title END,
		    description = CASE WHEN $4::boolean THEN NULLIF($5::text, '') ELSE description END,
		    status      = CASE WHEN $6::boolean THEN NULLIF($7::text, '') ELSE status END
		WHERE id = $1
		RETURNING id, title, description, status
	`, id, setTitle, title, setDescription, description, setStatus, status).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *PostgresTaskRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *PostgresTaskRepo) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" { // unique_violation
			return ErrorConflict
		}
	}
	return err
}
