package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTransaction(t *testing.T) {
	tests := []struct {
		name    string
		fnErr   error
		setup   func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "Confirma quando não há erro",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE reports").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:  "Desfaz quando a função falha",
			fnErr: errors.New("falhou"),
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE reports").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setup(mock)

			conn := NewConnectionFromDB(db)
			err = conn.RunInTransaction(context.Background(), func(tx *sql.Tx) error {
				if _, err := tx.ExecContext(context.Background(), "UPDATE reports SET artifact_url = $1", "x"); err != nil {
					return err
				}
				return tt.fnErr
			})

			if tt.wantErr {
				assert.ErrorIs(t, err, tt.fnErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_PanicDesfaz(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	conn := NewConnectionFromDB(db)
	assert.Panics(t, func() {
		_ = conn.RunInTransaction(context.Background(), func(tx *sql.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
