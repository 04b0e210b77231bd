package usage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreIncrement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("INSERT INTO usage_counters").
		WithArgs("10.0.0.1", "2026-03-03", 5).
		WillReturnRows(sqlmock.NewRows([]string{"used"}).AddRow(3))

	used, err := NewPGStore(db).Increment(context.Background(), "10.0.0.1", "2026-03-03", 5)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if used != 3 {
		t.Fatalf("expected used=3, got %d", used)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreIncrementAtLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("INSERT INTO usage_counters").
		WithArgs("c", "2026-03-03", 1).
		WillReturnRows(sqlmock.NewRows([]string{"used"}))

	_, err = NewPGStore(db).Increment(context.Background(), "c", "2026-03-03", 1)
	if !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT used FROM usage_counters").
		WithArgs("c", "2026-03-03").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT used FROM usage_counters").
		WithArgs("d", "2026-03-03").
		WillReturnRows(sqlmock.NewRows([]string{"used"}).AddRow(4))

	store := NewPGStore(db)
	if used, err := store.Get(context.Background(), "c", "2026-03-03"); err != nil || used != 0 {
		t.Fatalf("expected 0 for missing row, got %d, %v", used, err)
	}
	if used, err := store.Get(context.Background(), "d", "2026-03-03"); err != nil || used != 4 {
		t.Fatalf("expected 4, got %d, %v", used, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
