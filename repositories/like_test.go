package repositories

import (
	"context"
	"pawmatch/domain"
	"pawmatch/errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	rex  = domain.Pet{ID: "dog-1", OwnerID: "user-1", Name: "Rex", Species: "dog"}
	luna = domain.Pet{ID: "dog-2", OwnerID: "user-2", Name: "Luna", Species: "dog"}
)

func candidate(id domain.MatchID) domain.Match {
	return domain.NewMatch(id, rex, luna, time.Now().UTC())
}

func Test_One_Sided_Like_Does_Not_Match(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewLikeRepository(openDB(t))

	outcome, err := repository.RecordLike(ctx, domain.Like{FromPetID: rex.ID, ToPetID: luna.ID, CreatedAt: time.Now().UTC()}, candidate("m-1"))
	req.NoError(err)
	req.Nil(outcome.Match)
	req.True(outcome.Inserted)
	req.False(outcome.Created)

	_, err = repository.GetMatchByPair(ctx, rex.ID, luna.ID)
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_Reciprocal_Like_Creates_Match_Once(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewLikeRepository(openDB(t))
	now := time.Now().UTC()

	// Given dog-1 liked dog-2
	_, err := repository.RecordLike(ctx, domain.Like{FromPetID: rex.ID, ToPetID: luna.ID, CreatedAt: now}, candidate("m-1"))
	req.NoError(err)

	// When dog-2 likes back twice
	first, err := repository.RecordLike(ctx, domain.Like{FromPetID: luna.ID, ToPetID: rex.ID, CreatedAt: now}, candidate("m-2"))
	req.NoError(err)
	second, err := repository.RecordLike(ctx, domain.Like{FromPetID: luna.ID, ToPetID: rex.ID, CreatedAt: now}, candidate("m-3"))
	req.NoError(err)

	// Then the first call created the match and the second one only observed it
	req.True(first.Created)
	req.True(first.Inserted)
	req.False(second.Created)
	req.False(second.Inserted)
	req.Equal(domain.MatchID("m-2"), first.Match.ID)
	req.Equal(first.Match.ID, second.Match.ID)

	for _, user := range []domain.UserID{rex.OwnerID, luna.OwnerID} {
		matches, err := repository.ListMatchesByUser(ctx, user)
		req.NoError(err)
		req.Len(matches, 1)
		req.Equal(first.Match.ID, matches[0].ID)
	}
}

func Test_Concurrent_Reciprocal_Likes_Create_Exactly_One_Match(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewLikeRepository(openDB(t))
	now := time.Now().UTC()

	type result struct {
		outcome LikeOutcome
		err     error
	}
	results := make([]result, 2)
	likes := []domain.Like{
		{FromPetID: rex.ID, ToPetID: luna.ID, CreatedAt: now},
		{FromPetID: luna.ID, ToPetID: rex.ID, CreatedAt: now},
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range likes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			outcome, err := repository.RecordLike(ctx, likes[i], candidate(domain.MatchID([]string{"m-a", "m-b"}[i])))
			results[i] = result{outcome, err}
		}(i)
	}
	close(start)
	wg.Wait()

	// A loser either saw no reciprocal like or was aborted by badger; replaying it settles the pair
	for i, r := range results {
		if r.err != nil {
			req.ErrorIs(r.err, errors.ErrConflict)
			outcome, err := repository.RecordLike(ctx, likes[i], candidate("m-retry"))
			req.NoError(err)
			results[i] = result{outcome, nil}
		}
	}

	stored, err := repository.GetMatchByPair(ctx, luna.ID, rex.ID)
	req.NoError(err)
	created := 0
	for _, r := range results {
		if r.outcome.Created {
			created++
		}
		if r.outcome.Match != nil {
			req.Equal(stored.ID, r.outcome.Match.ID)
		}
	}
	req.Equal(1, created)

	matches, err := repository.ListMatchesByUser(ctx, rex.OwnerID)
	req.NoError(err)
	req.Len(matches, 1)
}

func Test_Record_Like_Rejects_Foreign_Candidate(t *testing.T) {
	req := require.New(t)
	repository := NewLikeRepository(openDB(t))
	other := domain.NewMatch("m-1", rex, domain.Pet{ID: "cat-1", OwnerID: "user-3"}, time.Now().UTC())

	_, err := repository.RecordLike(context.Background(), domain.Like{FromPetID: rex.ID, ToPetID: luna.ID}, other)
	req.ErrorIs(err, errors.ErrInvalidArgument)
}

func Test_Swiped_Pets_Include_Likes_And_Passes(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewLikeRepository(openDB(t))

	_, err := repository.RecordLike(ctx, domain.Like{FromPetID: rex.ID, ToPetID: luna.ID}, candidate("m-1"))
	req.NoError(err)
	req.NoError(repository.RecordPass(ctx, domain.Pass{FromPetID: rex.ID, ToPetID: "cat-1"}))

	swiped, err := repository.SwipedPets(ctx, rex.ID)
	req.NoError(err)
	req.Len(swiped, 2)
	req.Contains(swiped, luna.ID)
	req.Contains(swiped, domain.PetID("cat-1"))

	_, err = repository.GetLike(ctx, rex.ID, "cat-1")
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_List_Matches_Newest_First(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewLikeRepository(openDB(t))
	milo := domain.Pet{ID: "dog-3", OwnerID: "user-3"}
	old := time.Now().UTC().Add(-time.Hour)
	recent := time.Now().UTC()

	_, err := repository.RecordLike(ctx, domain.Like{FromPetID: luna.ID, ToPetID: rex.ID}, domain.NewMatch("m-old", rex, luna, old))
	req.NoError(err)
	_, err = repository.RecordLike(ctx, domain.Like{FromPetID: rex.ID, ToPetID: luna.ID}, domain.NewMatch("m-old", rex, luna, old))
	req.NoError(err)
	_, err = repository.RecordLike(ctx, domain.Like{FromPetID: milo.ID, ToPetID: rex.ID}, domain.NewMatch("m-new", rex, milo, recent))
	req.NoError(err)
	_, err = repository.RecordLike(ctx, domain.Like{FromPetID: rex.ID, ToPetID: milo.ID}, domain.NewMatch("m-new", rex, milo, recent))
	req.NoError(err)

	matches, err := repository.ListMatchesByUser(ctx, rex.OwnerID)
	req.NoError(err)
	req.Len(matches, 2)
	req.Equal(domain.MatchID("m-new"), matches[0].ID)
	req.Equal(domain.MatchID("m-old"), matches[1].ID)
}
