package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/teelane/budget-manager/internal/models"
)

// ==========================
// ExpenseRepo
// ==========================
type ExpenseRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewExpenseRepo(db *sql.DB) *ExpenseRepo {
	return &ExpenseRepo{DB: db}
}

// ==========================
// Create Expense
// ==========================
func (r *ExpenseRepo) Create(ctx context.Context, e *models.Expense) (int, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO expenses (title, description, amount, date, category, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Title, e.Description, e.Amount, e.Date, e.Category, e.UserID,
	)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	return int(id), nil
}

// ==========================
// Get Expense By ID
// ==========================
func (r *ExpenseRepo) GetByID(ctx context.Context, id int) (*models.Expense, error) {
	e := &models.Expense{}
	var title sql.NullString

	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, description, amount, date, category, user_id
		 FROM expenses WHERE id = ?`,
		id,
	).Scan(&e.ID, &title, &e.Description, &e.Amount, &e.Date, &e.Category, &e.UserID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	e.Title = title.String
	return e, nil
}

// ==========================
// List Expenses
// ==========================

// List returns every expense. When userID is non-nil the query is scoped to
// that owner; the filter is applied in SQL, not post-hoc.
func (r *ExpenseRepo) List(ctx context.Context, userID *int) ([]models.Expense, error) {
	query := `SELECT id, title, description, amount, date, category, user_id
	          FROM expenses ORDER BY id`
	args := []interface{}{}

	if userID != nil {
		query = `SELECT id, title, description, amount, date, category, user_id
		         FROM expenses WHERE user_id = ? ORDER BY id`
		args = append(args, *userID)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var title sql.NullString
		if err := rows.Scan(&e.ID, &title, &e.Description, &e.Amount, &e.Date, &e.Category, &e.UserID); err != nil {
			return nil, err
		}
		e.Title = title.String
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// ==========================
// Update Expense
// ==========================

// Update overwrites title, description, amount, and category. date and
// user_id are immutable after creation.
func (r *ExpenseRepo) Update(ctx context.Context, id int, title, description string, amount int, category string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE expenses SET title = ?, description = ?, amount = ?, category = ? WHERE id = ?`,
		title, description, amount, category, id,
	)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ==========================
// Delete Expense
// ==========================
func (r *ExpenseRepo) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ==========================
// Delete Orphaned
// ==========================

// DeleteOrphaned removes expenses whose owner no longer exists. User deletion
// does not cascade, so the scheduler calls this periodically. Returns the
// number of rows removed.
func (r *ExpenseRepo) DeleteOrphaned(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM expenses WHERE user_id NOT IN (SELECT id FROM users)`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
