package repository

import (
	"database/sql"

	"tasktracker/internal/models"
)

// TaskRepo is the task store. Every query is scoped to an owner.
type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Create(ownerID int, title, description string, isCompleted bool) (*models.Task, error) {
	task := models.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		IsCompleted: isCompleted,
	}
	err := r.db.QueryRow(
		"INSERT INTO tasks (user_id, title, description, is_completed) VALUES ($1, $2, $3, $4) RETURNING id",
		ownerID, title, description, isCompleted,
	).Scan(&task.ID)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepo) ListByOwner(ownerID int) ([]models.Task, error) {
	rows, err := r.db.Query(
		"SELECT id, user_id, title, description, is_completed FROM tasks WHERE user_id = $1 ORDER BY id",
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.OwnerID, &task.Title, &task.Description, &task.IsCompleted); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// DeleteByIDAndOwner deletes in a single owner-scoped statement. A task
// owned by someone else is indistinguishable from a nonexistent one: both
// affect zero rows and return ErrNotFound.
func (r *TaskRepo) DeleteByIDAndOwner(taskID, ownerID int) error {
	res, err := r.db.Exec(
		"DELETE FROM tasks WHERE id = $1 AND user_id = $2",
		taskID, ownerID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
