package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"sdtr/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBSettingsFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, name := range []string{"DB_HOST", "DB_PORT", "DB_USERNAME", "DB_PASSWORD", "DB_DATABASE"} {
			t.Setenv(name, "")
		}
		s := DBSettingsFromEnv()
		assert.Equal(t, DBSettings{Host: "127.0.0.1", Port: "3306", User: "root", Database: "sdtr_history"}, s)
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_PORT", "3307")
		t.Setenv("DB_USERNAME", "qa")
		t.Setenv("DB_PASSWORD", "s3cret")
		t.Setenv("DB_DATABASE", "e2e_history")
		s := DBSettingsFromEnv()
		assert.Equal(t, DBSettings{Host: "db.internal", Port: "3307", User: "qa", Password: "s3cret", Database: "e2e_history"}, s)
	})
}

func TestDBSettings_DSN(t *testing.T) {
	s := DBSettings{Host: "db.internal", Port: "3307", User: "qa", Password: "s3cret", Database: "e2e_history"}

	withDB := s.DSN(true)
	assert.True(t, strings.HasPrefix(withDB, "qa:s3cret@tcp(db.internal:3307)/e2e_history"), withDB)
	assert.Contains(t, withDB, "parseTime=true")

	server := s.DSN(false)
	assert.True(t, strings.HasPrefix(server, "qa:s3cret@tcp(db.internal:3307)/?"), server)
}

func TestHistoryRows(t *testing.T) {
	rows := historyRows(sampleRun())
	require.Len(t, rows, 2)

	assert.Equal(t, "cart", rows[0].target)
	assert.Equal(t, "nightly", rows[0].phrase)
	assert.Equal(t, 1, rows[0].passed)
	assert.Equal(t, 2, rows[0].failed)
	assert.Equal(t, 33.3, rows[0].percent)
	assert.False(t, rows[0].reportError.Valid)

	assert.True(t, rows[1].reportError.Valid)
	assert.Contains(t, rows[1].reportError.String, "checkout")
}

func TestIsValidDatabaseName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"sdtr_history", true},
		{"e2e-history", true},
		{"", false},
		{strings.Repeat("a", 65), false},
		{"history`; DROP", false},
		{"x' OR '1", false},
	}
	for _, tt := range tests {
		if got := isValidDatabaseName(tt.name); got != tt.valid {
			t.Errorf("isValidDatabaseName(%q) = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestHistoryStore_ConnectionErrors(t *testing.T) {
	boom := errors.New("driver unavailable")
	store := NewHistoryStore(DBSettings{Database: "sdtr_history"}, nil)
	store.open = func(string) (*sql.DB, error) { return nil, boom }

	err := store.Write(context.Background(), sampleRun())
	assert.ErrorIs(t, err, boom)

	_, err = store.Init(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestHistoryStore_InitRejectsBadName(t *testing.T) {
	store := NewHistoryStore(DBSettings{Database: "x; DROP TABLE"}, nil)
	store.open = func(string) (*sql.DB, error) {
		t.Fatal("must not connect with an invalid database name")
		return nil, nil
	}
	_, err := store.Init(context.Background())
	assert.ErrorContains(t, err, "invalid database name")
}

func TestHistoryStore_EmptyRunSkipsDatabase(t *testing.T) {
	store := NewHistoryStore(DBSettings{Database: "sdtr_history"}, nil)
	store.open = func(string) (*sql.DB, error) {
		t.Fatal("must not connect for an empty run")
		return nil, nil
	}
	assert.NoError(t, store.Write(context.Background(), &domain.RunResult{ID: "empty", Phrase: "all"}))
}
