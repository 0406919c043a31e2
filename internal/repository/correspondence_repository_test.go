package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utiligas/casedesk/internal/models"
)

func TestCorrespondenceRepositoryCreateAllocatesSequencesInTransaction(t *testing.T) {
	db, mock, cleanup := newCaseMock(t)
	defer cleanup()
	repo := NewCorrespondenceRepository(db)

	year := time.Now().Year()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(case_sequence_number\), 0\) \+ 1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(4))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(CAST\(SUBSTR\(yearly_sequence_number`).
		WithArgs(fmt.Sprintf("%%-%d", year)).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(12))
	mock.ExpectExec("INSERT INTO correspondences").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	sender := "Customer"
	co := &models.Correspondence{CaseID: 3, Sender: &sender}
	id, err := repo.Create(context.Background(), co)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.Equal(t, int64(4), co.CaseSequenceNumber)
	assert.Equal(t, fmt.Sprintf("12-%d", year), co.YearlySequenceNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCorrespondenceRepositoryCreateRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newCaseMock(t)
	defer cleanup()
	repo := NewCorrespondenceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(case_sequence_number\), 0\) \+ 1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(1))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(CAST\(SUBSTR\(yearly_sequence_number`).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(1))
	mock.ExpectExec("INSERT INTO correspondences").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &models.Correspondence{CaseID: 3})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCorrespondenceRepositoryNextSequenceNumbers(t *testing.T) {
	db, mock, cleanup := newCaseMock(t)
	defer cleanup()
	repo := NewCorrespondenceRepository(db)

	// The case counter is per case, the yearly counter spans all cases.
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(case_sequence_number\), 0\) \+ 1`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(1))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(CAST\(SUBSTR\(yearly_sequence_number`).
		WithArgs("%-2026").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(57))

	seq, err := repo.NextSequenceNumbers(context.Background(), 8, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq.CaseSequence)
	assert.Equal(t, "57-2026", seq.YearlySequence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCorrespondenceRepositoryUpdateContentStampsModifiedDate(t *testing.T) {
	db, mock, cleanup := newCaseMock(t)
	defer cleanup()
	repo := NewCorrespondenceRepository(db)

	mock.ExpectExec("UPDATE correspondences SET message_content").
		WithArgs("revised text", sqlmock.AnyArg(), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateContent(context.Background(), 4, "revised text"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCorrespondenceRepositoryDeleteLeavesOtherRowsAlone(t *testing.T) {
	db, mock, cleanup := newCaseMock(t)
	defer cleanup()
	repo := NewCorrespondenceRepository(db)

	mock.ExpectExec("DELETE FROM correspondences WHERE id").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}
