package lookup_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/lenna/internal/clients/wiki"
	wikimock "github.com/KirkDiggler/lenna/internal/clients/wiki/mock"
	"github.com/KirkDiggler/lenna/internal/orchestrators/lookup"
	"github.com/KirkDiggler/lenna/internal/orchestrators/reconciler"
	"github.com/KirkDiggler/lenna/internal/pkg/clock"
	"github.com/KirkDiggler/lenna/internal/repositories/pagecache"
	"github.com/KirkDiggler/lenna/internal/testutils"
)

// A base page that changed on the wiki and no longer extracts is served from
// the cache, and every page of the character is pinned.
func TestGetCharacter_DegradedFromCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	client, cleanup := testutils.CreateTestRedisClient(t)
	defer cleanup()

	cache, err := pagecache.NewRedis(&pagecache.RedisConfig{Client: client})
	require.NoError(t, err)

	seed := func(id, title, wikitext string, fetchedAt time.Time) {
		_, err := cache.Put(ctx, pagecache.PutInput{Entry: &pagecache.Entry{
			PageID:     id,
			Payload:    testutils.ParsePayload(title, wikitext),
			FetchedAt:  fetchedAt,
			Updateable: true,
		}})
		require.NoError(t, err)
	}

	seed("suomi", "Suomi_(GFL2)", testutils.DollWikitext("Suomi"), now.Add(-48*time.Hour))
	for i := 1; i <= 5; i++ {
		suffix := ""
		if i > 1 {
			suffix = fmt.Sprint(i)
		}
		seed("suomi_skill"+suffix, "Suomi_(GFL2)/skill"+suffix+"data",
			testutils.SkillWikitext(fmt.Sprintf("Skill %d", i)), now.Add(-3*time.Hour))
	}

	ctrl := gomock.NewController(t)
	mockWiki := wikimock.NewMockClient(ctrl)
	mockWiki.EXPECT().
		FetchLastModified(gomock.Any(), "Suomi_(GFL2)").
		Return(now.Add(-time.Hour), nil)
	mockWiki.EXPECT().
		FetchPage(gomock.Any(), "Suomi_(GFL2)").
		Return(&wiki.Page{
			Title:   "Suomi_(GFL2)",
			Payload: testutils.ParsePayload("Suomi_(GFL2)", "{{GFL2Doll\n|fullname=Suomi\n}}"),
		}, nil)

	rec, err := reconciler.NewOrchestrator(&reconciler.Config{
		Cache: cache,
		Wiki:  mockWiki,
		Clock: clock.Fixed(now),
	})
	require.NoError(t, err)

	svc, err := lookup.NewOrchestrator(&lookup.Config{Reconciler: rec})
	require.NoError(t, err)

	out, err := svc.GetCharacter(ctx, &lookup.GetCharacterInput{Name: "Suomi"})
	require.NoError(t, err)
	assert.True(t, out.Degraded)
	assert.Equal(t, "Support", out.Character.Role)
	assert.Len(t, out.Character.Skills, 5)

	for _, id := range []string{"suomi", "suomi_skill", "suomi_skill2", "suomi_skill5"} {
		got, err := cache.Get(ctx, pagecache.GetInput{PageID: id})
		require.NoError(t, err, id)
		assert.False(t, got.Entry.Updateable, id)
		assert.True(t, got.Entry.FetchedAt.Equal(now), id)
	}

	// Pinned pages are served without touching the wiki.
	again, err := svc.GetCharacter(ctx, &lookup.GetCharacterInput{Name: "Suomi"})
	require.NoError(t, err)
	assert.True(t, again.Degraded)
}
