package implementation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"reflective-notes-be/internal/model"
	"reflective-notes-be/internal/repository/specification"
)

// dryRunDB builds statements without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=dry dbname=dry sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestUserRepository_FindByIDScopesToUser(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var m model.User
		return specification.ByUserID{ID: "u1"}.Apply(tx).First(&m)
	})
	assert.Contains(t, sql, `FROM "users"`)
	assert.Contains(t, sql, "users.id = 'u1'")

	user, err := NewUserRepository(db).FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, user)
}
