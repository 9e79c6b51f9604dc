package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hugohenrick/chat-mobile/internal/domain/conversation"
	"github.com/hugohenrick/chat-mobile/internal/infrastructure/database"
	"github.com/stretchr/testify/require"
)

// TestPostgresConversationRepository roda contra um banco real somente quando
// TEST_DATABASE_URL estiver definida.
func TestPostgresConversationRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL não definida")
	}

	require.NoError(t, database.RunMigrations(filepath.Join("..", "..", "..", "migrations"), dsn))

	db, err := database.NewPostgresDB(&database.PostgresConfig{URL: dsn})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	conformance(t, func(t *testing.T) conversation.Repository {
		_, err := db.Pool().Exec(context.Background(), "TRUNCATE conversations CASCADE")
		require.NoError(t, err)
		return NewPostgresConversationRepository(db.Pool())
	})
}
