package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/tourism/internal/database/dbtest"
	"github.com/mrlokans/tourism/internal/entities"
)

func TestRepository_ListNewest(t *testing.T) {
	conn, _ := dbtest.NewConn(t)
	repo := NewRepository(conn.Gorm())

	base := time.Now()
	require.NoError(t, repo.Create(&entities.Feedback{Message: "first", CreatedAt: base.Add(-time.Hour)}))
	require.NoError(t, repo.Create(&entities.Feedback{Name: "Bo", Email: "bo@example.com", Subject: "Hi", Message: "second", CreatedAt: base}))

	items, err := repo.ListNewest()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Message)
	assert.Equal(t, "first", items[1].Message)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
