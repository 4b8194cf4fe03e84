package service

import (
	"context"
	"testing"

	"stocksense/internal/apperror"
	"stocksense/internal/repository"
	"stocksense/internal/session"
	"stocksense/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserDataService(t *testing.T) (UserDataService, *gorm.DB, uint) {
	t.Helper()
	db := newTestDB(t)

	user, err := repository.NewUserRepository(db).GetOrCreate(context.Background(), "alice")
	require.NoError(t, err)

	svc := NewUserDataService(
		testConfig(),
		logger.NewNop(),
		repository.NewSearchHistoryRepository(db),
		repository.NewFavoriteStockRepository(db),
		repository.NewUnitOfWork(db),
	)
	return svc, db, user.ID
}

func TestUserDataService_ToggleFavorite(t *testing.T) {
	svc, _, userID := newUserDataService(t)
	ctx := context.Background()
	sess := loggedIn(userID, "alice")

	isFavorite, err := svc.ToggleFavoriteCurrentStock(ctx, sess, "AAPL")
	require.NoError(t, err)
	assert.True(t, isFavorite)

	favorites, err := svc.Favorites(ctx, sess)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "AAPL", favorites[0].Ticker)

	isFavorite, err = svc.ToggleFavoriteCurrentStock(ctx, sess, "AAPL")
	require.NoError(t, err)
	assert.False(t, isFavorite)

	favorites, err = svc.Favorites(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestUserDataService_RecordSearch(t *testing.T) {
	tests := []struct {
		name              string
		preventDuplicates bool
		want              int
	}{
		{name: "duplicates prevented", preventDuplicates: true, want: 1},
		{name: "duplicates allowed", preventDuplicates: false, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, userID := newUserDataService(t)
			ctx := context.Background()
			sess := loggedIn(userID, "alice")

			require.NoError(t, svc.RecordSearch(ctx, sess, "MSFT", tt.preventDuplicates))
			require.NoError(t, svc.RecordSearch(ctx, sess, "MSFT", tt.preventDuplicates))

			searches, err := svc.RecentSearches(ctx, sess)
			require.NoError(t, err)
			assert.Len(t, searches, tt.want)
		})
	}
}

func TestUserDataService_RecordSearch_DedupeIsCaseSensitive(t *testing.T) {
	svc, _, userID := newUserDataService(t)
	ctx := context.Background()
	sess := loggedIn(userID, "alice")

	require.NoError(t, svc.RecordSearch(ctx, sess, "msft", true))
	require.NoError(t, svc.RecordSearch(ctx, sess, "MSFT", true))

	searches, err := svc.RecentSearches(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, searches, 2)
}

func TestUserDataService_RecordSearch_DedupeWindow(t *testing.T) {
	svc, _, userID := newUserDataService(t)
	ctx := context.Background()
	sess := loggedIn(userID, "alice")

	require.NoError(t, svc.RecordSearch(ctx, sess, "AAPL", true))
	for _, ticker := range []string{"A", "B", "C", "D", "E"} {
		require.NoError(t, svc.RecordSearch(ctx, sess, ticker, true))
	}

	// AAPL has fallen out of the recent window, so it is recorded again.
	require.NoError(t, svc.RecordSearch(ctx, sess, "AAPL", true))
	searches, err := svc.RecentSearches(ctx, sess)
	require.NoError(t, err)
	require.Len(t, searches, testConfig().UserData.RecentSearchesLimit)
	assert.Equal(t, "AAPL", searches[0].Ticker)
	assert.Equal(t, "E", searches[1].Ticker)

	require.NoError(t, svc.RecordSearch(ctx, sess, "AAPL", true))
	searches, err = svc.RecentSearches(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", searches[0].Ticker)
	assert.Equal(t, "E", searches[1].Ticker)
}

func TestUserDataService_ToggleKeepsSessionFlagInSync(t *testing.T) {
	svc, db, userID := newUserDataService(t)
	ctx := context.Background()
	sess := loggedIn(userID, "alice")
	sess.CurrentTicker = "AAPL"

	isFavorite, err := svc.ToggleFavoriteCurrentStock(ctx, sess, "AAPL")
	require.NoError(t, err)
	assert.True(t, isFavorite)
	assert.True(t, sess.IsFavorite)

	_, err = svc.ToggleFavoriteCurrentStock(ctx, sess, "MSFT")
	require.NoError(t, err)
	assert.True(t, sess.IsFavorite)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	isFavorite, err = svc.ToggleFavoriteCurrentStock(ctx, sess, "AAPL")
	assert.NoError(t, err)
	assert.False(t, isFavorite)
	assert.True(t, sess.IsFavorite)
}

func TestUserDataService_AddRemoveFavorite(t *testing.T) {
	svc, _, userID := newUserDataService(t)
	ctx := context.Background()
	sess := loggedIn(userID, "alice")
	notes := "long term"

	added, err := svc.AddFavorite(ctx, sess, "TSLA", &notes)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.AddFavorite(ctx, sess, "TSLA", nil)
	require.NoError(t, err)
	assert.False(t, added)

	isFavorite, err := svc.IsFavorite(ctx, sess, "TSLA")
	require.NoError(t, err)
	assert.True(t, isFavorite)

	removed, err := svc.RemoveFavorite(ctx, sess, "TSLA")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveFavorite(ctx, sess, "TSLA")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestUserDataService_AnonymousRequiresLogin(t *testing.T) {
	svc, _, _ := newUserDataService(t)
	ctx := context.Background()
	sess := session.New()

	err := svc.RecordSearch(ctx, sess, "AAPL", false)
	assert.ErrorIs(t, err, apperror.ErrLoginRequired)

	_, err = svc.ToggleFavoriteCurrentStock(ctx, sess, "AAPL")
	assert.ErrorIs(t, err, apperror.ErrLoginRequired)

	_, err = svc.Favorites(ctx, sess)
	assert.ErrorIs(t, err, apperror.ErrLoginRequired)

	_, err = svc.RecentSearches(ctx, sess)
	assert.ErrorIs(t, err, apperror.ErrLoginRequired)
}

func TestUserDataService_StorageFailureIsSwallowed(t *testing.T) {
	svc, db, userID := newUserDataService(t)
	ctx := context.Background()
	sess := loggedIn(userID, "alice")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	added, err := svc.AddFavorite(ctx, sess, "AAPL", nil)
	assert.NoError(t, err)
	assert.False(t, added)

	toggled, err := svc.ToggleFavoriteCurrentStock(ctx, sess, "AAPL")
	assert.NoError(t, err)
	assert.False(t, toggled)

	favorites, err := svc.Favorites(ctx, sess)
	assert.NoError(t, err)
	assert.Empty(t, favorites)

	assert.NoError(t, svc.RecordSearch(ctx, sess, "AAPL", true))
}
