package e2e

import (
	"context"
	"pawmatch/client"
	"pawmatch/domain"
	"pawmatch/projection"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testMatchChatSuite struct {
	BaseSuite
}

func TestMatchChatSuite(t *testing.T) {
	suite.Run(t, &testMatchChatSuite{})
}

func (s *testMatchChatSuite) TestMatchThenChat() {
	var (
		alice, bob    *client.Client
		dog1, dog2    domain.Pet
		matchID       domain.MatchID
		aliceTimeline *projection.Timeline
		bobTimeline   *projection.Timeline
	)

	s.Run("Step 1: Two owners with one dog each", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		alice, dog1 = s.Owner(ctx, "dog-1")
		bob, dog2 = s.Owner(ctx, "dog-2")
	})

	s.Run("Step 2: Reciprocal likes create one match", func() {
		s.Step("Likes", func(ctx context.Context) {
			first, err := alice.Like(ctx, dog1.ID, dog2.ID)
			s.Require().NoError(err)
			s.Require().False(first.IsMatch)

			second, err := bob.Like(ctx, dog2.ID, dog1.ID)
			s.Require().NoError(err)
			s.Require().True(second.IsMatch)
			matchID = second.Match.ID

			again, err := alice.Like(ctx, dog1.ID, dog2.ID)
			s.Require().NoError(err)
			s.Require().Equal(matchID, again.Match.ID)
		})
	})

	s.Run("Step 3: Messages reach both sides once", func() {
		s.Step("Chat", func(ctx context.Context) {
			s.Require().NoError(alice.Connect(ctx))
			s.Require().NoError(bob.Connect(ctx))
			var err error
			aliceTimeline, err = alice.Join(ctx, matchID)
			s.Require().NoError(err)
			bobTimeline, err = bob.Join(ctx, matchID)
			s.Require().NoError(err)

			_, err = alice.Send(matchID, "Hello from dog-1")
			s.Require().NoError(err)
			s.Require().Eventually(func() bool {
				return len(bobTimeline.Messages()) == 1 && len(aliceTimeline.Messages()) == 1 &&
					aliceTimeline.Entries()[0].Status == projection.Confirmed
			}, 10*time.Second, 20*time.Millisecond)
		})
	})

	s.Run("Step 4: Reconnect fetches what was missed", func() {
		s.Step("Reconnect", func(ctx context.Context) {
			bob.Close()
			<-bob.Done()
			_, err := alice.SendREST(ctx, matchID, "Walk at 6?")
			s.Require().NoError(err)

			s.Require().NoError(bob.Reconnect(ctx))
			s.Require().Len(bobTimeline.Messages(), 2)
			s.Require().Equal("Walk at 6?", bobTimeline.Messages()[1].Content)
		})
	})
}
