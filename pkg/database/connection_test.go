package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anushahashmi071/CareGroup-sub003/pkg/logger"
)

type recordedQuery struct {
	queryType string
	duration  time.Duration
}

type fakeRecorder struct {
	observed []recordedQuery
}

func (f *fakeRecorder) RecordDBQuery(queryType string, duration time.Duration) {
	f.observed = append(f.observed, recordedQuery{queryType, duration})
}

func TestDB_QueriesAreObserved(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := Wrap(sqlDB, logger.New("debug"))
	recorder := &fakeRecorder{}
	db.SetMetrics(recorder)

	mock.ExpectExec("UPDATE widgets").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT name FROM widgets").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	_, err = db.Exec("UPDATE widgets SET name = $1", "a")
	require.NoError(t, err)
	rows, err := db.Query("SELECT name FROM widgets")
	require.NoError(t, err)
	rows.Close()

	require.Len(t, recorder.observed, 2)
	assert.Equal(t, "exec", recorder.observed[0].queryType)
	assert.Equal(t, "query", recorder.observed[1].queryType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_NoRecorderIsFine(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := Wrap(sqlDB, logger.New("debug"))

	mock.ExpectExec("UPDATE widgets").WillReturnResult(sqlmock.NewResult(0, 1))

	_, err = db.Exec("UPDATE widgets SET name = $1", "a")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
