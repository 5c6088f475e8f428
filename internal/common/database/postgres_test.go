package database

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*PostgresClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresFromDB(db, "assistant_kv"), mock
}

func TestPostgresClient_EnsureSchema(t *testing.T) {
	client, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "assistant_kv"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, client.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_Load(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    []byte
		wantErr bool
	}{
		{
			name: "row exists",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM "assistant_kv" WHERE key = $1`)).
					WithArgs("assistant:vip-visits").
					WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[]`))
			},
			want: []byte(`[]`),
		},
		{
			name: "no row",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM "assistant_kv"`)).
					WithArgs("assistant:vip-visits").
					WillReturnError(sql.ErrNoRows)
			},
			want: nil,
		},
		{
			name: "query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM "assistant_kv"`)).
					WithArgs("assistant:vip-visits").
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := newMockPostgres(t)
			tt.setup(mock)

			got, err := client.Load(context.Background(), "assistant:vip-visits")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresClient_Save(t *testing.T) {
	client, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "assistant_kv" (key, value, updated_at) VALUES ($1, $2, NOW())`)).
		WithArgs("assistant:vip-visits", `[{"id":"1"}]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, client.Save(context.Background(), "assistant:vip-visits", []byte(`[{"id":"1"}]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_SaveFailure(t *testing.T) {
	client, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "assistant_kv"`)).
		WillReturnError(errors.New("disk full"))

	err := client.Save(context.Background(), "k", []byte("v"))
	assert.ErrorContains(t, err, "disk full")
}

func TestNewPostgresFromDB_QuotesTable(t *testing.T) {
	client := NewPostgresFromDB(nil, `kv"; DROP TABLE x; --`)
	assert.Equal(t, `"kv""; DROP TABLE x; --"`, client.table)
}
