package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accessdesk/user-portal/internal/core/domain"
)

// These tests pin the error-translation contract: a backing-store failure
// must surface as an error, never silently degrade into "does not exist".

func TestDirectory_ExistsByEmail_StoreFailureSurfaces(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	storeErr := errors.New("connection refused")
	mock.ExpectQuery("SELECT EXISTS").WillReturnError(storeErr)

	dir := NewDirectory(db)
	exists, err := dir.ExistsByEmail(context.Background(), "admin@admin.com")

	assert.False(t, exists)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectory_FindByEmail_StoreFailureIsNotNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	storeErr := errors.New("read timeout")
	mock.ExpectQuery("SELECT id, first_name").WillReturnError(storeErr)

	dir := NewDirectory(db)
	account, err := dir.FindByEmail(context.Background(), "admin@admin.com")

	assert.Nil(t, account)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}

func TestDirectory_Save_RollsBackOnLinkFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	linkErr := errors.New("constraint failure")
	mock.ExpectExec("INSERT INTO users_roles").WillReturnError(linkErr)
	mock.ExpectRollback()

	dir := NewDirectory(db)
	_, err = dir.Save(context.Background(), &domain.Account{
		Email:        "x@y.com",
		PasswordHash: "h",
		Roles:        []domain.Role{{ID: 1, Name: domain.RoleUser}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, linkErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectory_Update_MissingRowMapsToNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	dir := NewDirectory(db)
	_, err = dir.Update(context.Background(), &domain.Account{ID: 42, Email: "x@y.com", PasswordHash: "h"})

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
