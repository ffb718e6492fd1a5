package revocations

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerWithMock(t *testing.T) (*PostgresLedger, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresLedger(db), mock, db
}

const insertQuery = `(?s)^INSERT\s+INTO\s+token_blocklist\s*\(jti,\s*token_type,\s*revoked_at,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*ON\s+CONFLICT\s*\(jti\)\s*DO\s+NOTHING$`

func testEntry() models.RevocationEntry {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return models.RevocationEntry{
		JTI:       "jti-1",
		TokenType: models.TokenTypeRefresh,
		RevokedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestPostgresLedger_Revoke_Inserted(t *testing.T) {
	l, mock, db := newLedgerWithMock(t)
	defer db.Close()

	e := testEntry()
	mock.ExpectExec(insertQuery).
		WithArgs("jti-1", "refresh", e.RevokedAt, e.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	inserted, err := l.Revoke(context.Background(), e)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedger_Revoke_AlreadyPresent(t *testing.T) {
	l, mock, db := newLedgerWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQuery).WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := l.Revoke(context.Background(), testEntry())
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestPostgresLedger_Revoke_DBError(t *testing.T) {
	l, mock, db := newLedgerWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQuery).WillReturnError(errors.New("db down"))

	_, err := l.Revoke(context.Background(), testEntry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestPostgresLedger_IsRevoked(t *testing.T) {
	tests := []struct {
		name string
		rows *sqlmock.Rows
		want bool
	}{
		{"present", sqlmock.NewRows([]string{"exists"}).AddRow(true), true},
		{"absent", sqlmock.NewRows([]string{"exists"}).AddRow(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, mock, db := newLedgerWithMock(t)
			defer db.Close()

			mock.ExpectQuery(`(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+token_blocklist\s+WHERE\s+jti\s*=\s*\$1\)$`).
				WithArgs("jti-1").
				WillReturnRows(tt.rows)

			got, err := l.IsRevoked(context.Background(), "jti-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPostgresLedger_IsRevoked_DBError(t *testing.T) {
	l, mock, db := newLedgerWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`token_blocklist`).WillReturnError(errors.New("timeout"))

	_, err := l.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}

func TestPostgresLedger_Prune(t *testing.T) {
	l, mock, db := newLedgerWithMock(t)
	defer db.Close()

	cutoff := time.Now().UTC()
	mock.ExpectExec(`^DELETE\s+FROM\s+token_blocklist\s+WHERE\s+expires_at\s*<\s*\$1$`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := l.Prune(context.Background(), cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}
