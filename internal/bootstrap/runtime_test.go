package bootstrap

import (
	"testing"

	"yatube/internal/models"
	"yatube/internal/seed"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIfEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	opts := seed.Options{Users: 3, Groups: 1, PostsPerUser: 1, RandSeed: 5}

	require.NoError(t, seedIfEmpty(db, opts))
	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 3, users)

	// A populated database is left alone.
	opts.Users = 10
	require.NoError(t, seedIfEmpty(db, opts))
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 3, users)
}
