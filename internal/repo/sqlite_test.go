package repo

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/teelane/budget-manager/internal/db"
	"github.com/teelane/budget-manager/internal/models"
)

// SQLiteSuite exercises both repos against a real migrated SQLite file, so
// constraint behavior (unique usernames, the orphan sweep) is tested for real
// rather than through sqlmock.
type SQLiteSuite struct {
	suite.Suite
	db       *sql.DB
	users    *UserRepo
	expenses *ExpenseRepo
}

func (s *SQLiteSuite) SetupTest() {
	path := filepath.Join(s.T().TempDir(), "budget_test.db")

	conn, err := db.Connect(path, 5, 2)
	require.NoError(s.T(), err, "failed to open test database")
	require.NoError(s.T(), db.Run(path), "failed to run migrations")

	s.db = conn
	s.users = NewUserRepo(conn)
	s.expenses = NewExpenseRepo(conn)
}

func (s *SQLiteSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *SQLiteSuite) TestCreateUser_DuplicateUsername() {
	_, err := s.users.Create(context.Background(), "alice", "hash-1")
	require.NoError(s.T(), err)

	_, err = s.users.Create(context.Background(), "alice", "hash-2")
	assert.ErrorIs(s.T(), err, ErrUsernameTaken)

	// The losing insert leaves exactly one row behind.
	users, err := s.users.List(context.Background())
	require.NoError(s.T(), err)
	assert.Len(s.T(), users, 1)
}

func (s *SQLiteSuite) TestUpdateUser_DuplicateUsername() {
	_, err := s.users.Create(context.Background(), "alice", "hash-1")
	require.NoError(s.T(), err)
	bob, err := s.users.Create(context.Background(), "bob", "hash-2")
	require.NoError(s.T(), err)

	err = s.users.Update(context.Background(), bob.ID, "alice", "hash-3")
	assert.ErrorIs(s.T(), err, ErrUsernameTaken)
}

func (s *SQLiteSuite) TestExpenseList_FilterByUser() {
	alice, err := s.users.Create(context.Background(), "alice", "h")
	require.NoError(s.T(), err)
	bob, err := s.users.Create(context.Background(), "bob", "h")
	require.NoError(s.T(), err)

	for i, owner := range []int{alice.ID, alice.ID, bob.ID} {
		_, err := s.expenses.Create(context.Background(), &models.Expense{
			Description: "expense",
			Amount:      10 + i,
			Date:        "2026-08-30",
			Category:    "misc",
			UserID:      owner,
		})
		require.NoError(s.T(), err)
	}

	all, err := s.expenses.List(context.Background(), nil)
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 3)

	scoped, err := s.expenses.List(context.Background(), &alice.ID)
	require.NoError(s.T(), err)
	assert.Len(s.T(), scoped, 2)
	for _, e := range scoped {
		assert.Equal(s.T(), alice.ID, e.UserID)
	}
}

func (s *SQLiteSuite) TestExpense_NullTitleRoundTrip() {
	alice, err := s.users.Create(context.Background(), "alice", "h")
	require.NoError(s.T(), err)

	id, err := s.expenses.Create(context.Background(), &models.Expense{
		Description: "no title",
		Amount:      7,
		Date:        "2026-08-30",
		Category:    "misc",
		UserID:      alice.ID,
	})
	require.NoError(s.T(), err)

	got, err := s.expenses.GetByID(context.Background(), id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "", got.Title)
	assert.Equal(s.T(), 7, got.Amount)
}

func (s *SQLiteSuite) TestDeleteOrphaned() {
	alice, err := s.users.Create(context.Background(), "alice", "h")
	require.NoError(s.T(), err)
	bob, err := s.users.Create(context.Background(), "bob", "h")
	require.NoError(s.T(), err)

	for _, owner := range []int{alice.ID, alice.ID, bob.ID} {
		_, err := s.expenses.Create(context.Background(), &models.Expense{
			Description: "expense",
			Amount:      5,
			Date:        "2026-08-30",
			Category:    "misc",
			UserID:      owner,
		})
		require.NoError(s.T(), err)
	}

	// Deleting alice does not cascade.
	require.NoError(s.T(), s.users.Delete(context.Background(), alice.ID))
	all, err := s.expenses.List(context.Background(), nil)
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 3)

	// The sweep removes only alice's rows.
	n, err := s.expenses.DeleteOrphaned(context.Background())
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 2, n)

	remaining, err := s.expenses.List(context.Background(), nil)
	require.NoError(s.T(), err)
	require.Len(s.T(), remaining, 1)
	assert.Equal(s.T(), bob.ID, remaining[0].UserID)
}

func (s *SQLiteSuite) TestDeleteOrphaned_Idempotent() {
	n, err := s.expenses.DeleteOrphaned(context.Background())
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 0, n)
}

func TestSQLiteSuite(t *testing.T) {
	suite.Run(t, new(SQLiteSuite))
}
