package main

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAccounts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "Vazio", raw: "", want: nil},
		{name: "Com e sem prefixo", raw: "act_1, 2 ,,3", want: []string{"act_1", "act_2", "act_3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitAccounts(tt.raw))
		})
	}
}

func TestApplySchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	for range schema {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, applySchema(context.Background(), tx))
	require.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedClient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO organization_clients").
		WithArgs(sqlmock.AnyArg(), "o1", "Ótica Central").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO client_ad_accounts").
		WithArgs(sqlmock.AnyArg(), "act_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO organization_tokens").
		WithArgs("o1", "tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, seedClient(context.Background(), tx, seed{
		organizationUUID: "o1",
		clientName:       "Ótica Central",
		accounts:         []string{"act_1"},
		token:            "tok",
	}))
	require.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}
