package e2e

import (
	"context"
	"fmt"
	"pawmatch/client"
	"pawmatch/domain"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

const password = "ComplexPass123!"

type BaseSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration and skips when no server is configured
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerURL == "" {
		s.T().Skip("PAWMATCH_URL not set")
	}
}

func (s *BaseSuite) header(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Owner registers a fresh account with one dog. Emails are unique per run
// so the suite can target a long lived server.
func (s *BaseSuite) Owner(ctx context.Context, name string) (*client.Client, domain.Pet) {
	s.header("Owner " + name)
	c := client.New(logs.GetLoggerFromString(s.Config.LogLevel), s.Config.ServerURL)
	email := fmt.Sprintf("%s-%s@e2e.pawmatch.dev", name, uuid.NewString()[:8])
	s.Require().NoError(c.Register(ctx, email, password))
	pet, err := c.CreatePet(ctx, name, "dog")
	s.Require().NoError(err)
	s.T().Cleanup(c.Close)
	return c, pet
}

// Step runs fn with a bounded context under a colored header.
func (s *BaseSuite) Step(name string, fn func(ctx context.Context)) {
	s.header(name)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	start := time.Now()
	fn(ctx)
	s.T().Logf("%s done in %v", name, time.Since(start))
}
