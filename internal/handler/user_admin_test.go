package handler

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/farhandp/coworking-book/internal/config"
	"github.com/farhandp/coworking-book/internal/repository"
)

func newAdminUserHandler(t *testing.T) (*AdminUserHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewAdminUserHandler(config.Config{BcryptCost: 4},
		repository.NewUserRepo(db),
		repository.NewTokenRepo(db),
	), mock
}

func userColumnsRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "nama", "email", "password", "no_telp", "role",
		"tanggal_daftar", "created_at", "updated_at",
	})
}

func TestAdminGetUnknownUserReturns404(t *testing.T) {
	h, mock := newAdminUserHandler(t)
	e := echo.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_id=?")).
		WithArgs(uint64(404)).
		WillReturnRows(userColumnsRows())

	c, rec := newContext(e, http.MethodGet, "/admin/users/404", "")
	c.SetParamNames("user_id")
	c.SetParamValues("404")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminGetKnownUserReturns200(t *testing.T) {
	h, mock := newAdminUserHandler(t)
	e := echo.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_id=?")).
		WithArgs(uint64(5)).
		WillReturnRows(userColumnsRows().
			AddRow(5, "Budi", "budi@example.com", "hash", nil, "USER", now, now, now))

	c, rec := newContext(e, http.MethodGet, "/admin/users/5", "")
	c.SetParamNames("user_id")
	c.SetParamValues("5")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminDeleteRevokesSessionsFirst(t *testing.T) {
	h, mock := newAdminUserHandler(t)
	e := echo.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE user_id=?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := newContext(e, http.MethodDelete, "/admin/users/5", "")
	c.SetParamNames("user_id")
	c.SetParamValues("5")
	c.Set("user_id", uint64(1))
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAdminDeleteOwnAccountReturns409(t *testing.T) {
	h, _ := newAdminUserHandler(t)
	e := echo.New()

	c, rec := newContext(e, http.MethodDelete, "/admin/users/1", "")
	c.SetParamNames("user_id")
	c.SetParamValues("1")
	c.Set("user_id", uint64(1))
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("got %d, want 409", rec.Code)
	}
}
