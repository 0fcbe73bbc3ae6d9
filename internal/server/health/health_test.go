package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name  string
	err   error
	calls int
}

func (s *stubChecker) Name() string { return s.name }
func (s *stubChecker) Check(context.Context) error {
	s.calls++
	return s.err
}

func TestService_AllPass(t *testing.T) {
	a, b := &stubChecker{name: "a"}, &stubChecker{name: "b"}
	require.NoError(t, NewService(a, b).Ready(context.Background()))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestService_StopsAtFirstFailure(t *testing.T) {
	a := &stubChecker{name: "a", err: errors.New("down")}
	b := &stubChecker{name: "b"}

	err := NewService(a, b).Ready(context.Background())
	require.Error(t, err)
	assert.Equal(t, "a: down", err.Error())
	assert.Equal(t, 0, b.calls)
}

func TestPostgresChecker(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	c := NewPostgresChecker(db)
	assert.Equal(t, "postgres", c.Name())

	mock.ExpectPing()
	assert.NoError(t, c.Check(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("refused"))
	assert.Error(t, c.Check(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}
