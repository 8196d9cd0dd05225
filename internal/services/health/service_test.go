package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestReadyWithoutDatabase(t *testing.T) {
	out, ok := NewService(nil).Ready(context.Background())
	if !ok || out["runLog"] != "memory" {
		t.Fatalf("unexpected readiness: %v %v", ok, out)
	}
}

func TestReadyPingsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing()
	if out, ok := NewService(db).Ready(context.Background()); !ok || out["runLog"] != "postgres" {
		t.Fatalf("expected ready, got %v %v", ok, out)
	}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	if out, ok := NewService(db).Ready(context.Background()); ok || out["ok"] != false {
		t.Fatalf("expected not ready, got %v %v", ok, out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
