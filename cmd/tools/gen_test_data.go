package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"pawmatch/auth"
	"pawmatch/domain"
	"pawmatch/repositories"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

var species = []string{"dog", "cat", "rabbit", "ferret"}

// Seeds a badger store with owners, pets, likes and a few conversations so the
// CLI client and the inspect tool have something to show.
// Owners log in as owner{n}@pawmatch.dev with the -password value.
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	owners := flag.Int("owners", 10, "Number of owners, each with one pet")
	password := flag.String("password", "pawmatch-dev", "Password of every seeded owner")
	messages := flag.Int("messages", 5, "Messages posted in each match")
	flag.Parse()

	log := logs.GetLoggerFromString("INFO")
	db, err := badger.Open(badger.DefaultOptions(*dbPath).WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Error("Error while opening Badger", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := seed(context.Background(), log, db, *owners, *password, *messages); err != nil {
		log.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, log *slog.Logger, db *badger.DB, owners int, password string, perMatch int) error {
	users := repositories.NewUserRepository(db)
	pets := repositories.NewPetRepository(db)
	likes := repositories.NewLikeRepository(db)
	history := repositories.NewMessageRepository(db, log)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	seeded := make([]domain.Pet, 0, owners)
	for i := 0; i < owners; i++ {
		user, err := users.CreateUser(ctx, fmt.Sprintf("owner%d@pawmatch.dev", i), hash, domain.PlanFree)
		if err != nil {
			return fmt.Errorf("owner %d: %w", i, err)
		}
		pet := domain.Pet{
			ID:        domain.PetID(uuid.NewString()),
			OwnerID:   user.ID,
			Name:      fmt.Sprintf("Pet %d", i),
			Species:   species[i%len(species)],
			City:      "Lyon",
			CreatedAt: now,
		}
		if err := pets.CreatePet(ctx, pet); err != nil {
			return fmt.Errorf("pet %d: %w", i, err)
		}
		seeded = append(seeded, pet)
	}

	// Every pet likes the next one; pairs (0,1), (2,3)... like back and match.
	matches := 0
	for i := range seeded {
		from, to := seeded[i], seeded[(i+1)%len(seeded)]
		if from.ID == to.ID {
			continue
		}
		if _, err := like(ctx, likes, from, to, now); err != nil {
			return err
		}
		if i%2 != 0 {
			continue
		}
		outcome, err := like(ctx, likes, to, from, now)
		if err != nil {
			return err
		}
		if outcome.Match == nil {
			continue
		}
		matches++
		match := *outcome.Match
		for n := 0; n < perMatch; n++ {
			sender := match.UserAID
			if n%2 == 1 {
				sender = match.UserBID
			}
			err := history.StoreMessage(ctx, domain.Message{
				ID:        domain.MessageID(uuid.NewString()),
				MatchID:   match.ID,
				SenderID:  sender,
				Content:   fmt.Sprintf("seeded message %d", n+1),
				CreatedAt: now.Add(time.Duration(n) * time.Second),
			})
			if err != nil {
				return fmt.Errorf("message in %s: %w", match.ID, err)
			}
		}
	}

	color.FgGreen.Printf("Seeded %d owners, %d pets, %d matches\n", owners, len(seeded), matches)
	color.FgGray.Printf("Log in as owner0@pawmatch.dev with password %q\n", password)
	return nil
}

func like(ctx context.Context, likes repositories.LikeRepository, from, to domain.Pet, at time.Time) (repositories.LikeOutcome, error) {
	l := domain.Like{FromPetID: from.ID, ToPetID: to.ID, CreatedAt: at}
	outcome, err := likes.RecordLike(ctx, l, domain.NewMatch(domain.MatchID(uuid.NewString()), from, to, at))
	if err != nil {
		return outcome, fmt.Errorf("like %s -> %s: %w", from.ID, to.ID, err)
	}
	return outcome, nil
}
