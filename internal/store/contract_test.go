package store_test

import (
	"context"
	"testing"

	"github.com/serroba/shortlink/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract exercises the behaviour every durable store must share.
// Codes are prefixed so runs against shared databases do not collide.
func runRepositoryContract(t *testing.T, repo shortener.Repository, prefix string) {
	t.Helper()

	ctx := context.Background()
	code := func(s string) shortener.Code { return shortener.Code(prefix + s) }

	t.Run("insert and find", func(t *testing.T) {
		err := repo.Insert(ctx, &shortener.ShortLink{Code: code("a1"), OriginalURL: "https://example.com"})
		require.NoError(t, err)

		url, found, err := repo.Find(ctx, code("a1"))

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "https://example.com", url)

		_ = repo.DeleteMany(ctx, []shortener.Code{code("a1")})
	})

	t.Run("find missing code is not an error", func(t *testing.T) {
		url, found, err := repo.Find(ctx, code("missing"))

		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, url)
	})

	t.Run("stores url unmodified", func(t *testing.T) {
		raw := "HTTP://Example.COM:80/Path/?q=1#frag "
		err := repo.Insert(ctx, &shortener.ShortLink{Code: code("raw"), OriginalURL: raw})
		require.NoError(t, err)

		url, found, err := repo.Find(ctx, code("raw"))

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, raw, url)

		_ = repo.DeleteMany(ctx, []shortener.Code{code("raw")})
	})

	t.Run("insert of bound code reports ErrCodeTaken and keeps first url", func(t *testing.T) {
		err := repo.Insert(ctx, &shortener.ShortLink{Code: code("dup"), OriginalURL: "https://old.com"})
		require.NoError(t, err)

		err = repo.Insert(ctx, &shortener.ShortLink{Code: code("dup"), OriginalURL: "https://new.com"})
		require.ErrorIs(t, err, shortener.ErrCodeTaken)

		url, _, _ := repo.Find(ctx, code("dup"))
		assert.Equal(t, "https://old.com", url)

		_ = repo.DeleteMany(ctx, []shortener.Code{code("dup")})
	})

	t.Run("delete many removes every code and ignores missing ones", func(t *testing.T) {
		for _, c := range []string{"d1", "d2", "keep"} {
			require.NoError(t, repo.Insert(ctx, &shortener.ShortLink{Code: code(c), OriginalURL: "https://example.com/" + c}))
		}

		err := repo.DeleteMany(ctx, []shortener.Code{code("d1"), code("d2"), code("never")})
		require.NoError(t, err)

		_, found1, _ := repo.Find(ctx, code("d1"))
		_, found2, _ := repo.Find(ctx, code("d2"))
		_, foundKeep, _ := repo.Find(ctx, code("keep"))

		assert.False(t, found1)
		assert.False(t, found2)
		assert.True(t, foundKeep)

		_ = repo.DeleteMany(ctx, []shortener.Code{code("keep")})
	})

	t.Run("delete of empty set is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.DeleteMany(ctx, nil))
	})
}
