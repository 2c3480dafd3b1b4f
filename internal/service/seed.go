package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/oggyb/filmorate/internal/model"
)

// SeedDemoData populates the services with demo users, films, likes and
// friendships.
//
// Behavior:
//  1. Creates 20 users and 12 films (genres and ratings cycle through the catalogs).
//  2. Each user likes ~70% of a random sample of films.
//  3. Every third user befriends the next two users.
//
// Everything goes through the services, so the demo data obeys the same rules
// as API traffic. r may be nil for a time-seeded source.
func SeedDemoData(ctx context.Context, svcs *Services, r *rand.Rand) error {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	log := svcs.Films.appCtx.Logger

	genres, err := svcs.Catalog.Genres(ctx)
	if err != nil {
		return fmt.Errorf("failed to read genres: %w", err)
	}
	ratings, err := svcs.Catalog.MpaRatings(ctx)
	if err != nil {
		return fmt.Errorf("failed to read mpa ratings: %w", err)
	}

	// --- Seed Users ---
	users := make([]model.User, 0, 20)
	for i := 1; i <= 20; i++ {
		u, err := svcs.Users.Add(ctx, model.User{
			Email:    fmt.Sprintf("user%d@example.com", i),
			Login:    fmt.Sprintf("user%d", i),
			Birthday: model.NewDate(1970+r.Intn(35), time.Month(1+r.Intn(12)), 1+r.Intn(28)),
		})
		if err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, u)
	}
	log.Info("Seeded users", "count", len(users))

	// --- Seed Films ---
	films := make([]model.Film, 0, 12)
	for i := 1; i <= 12; i++ {
		f := model.Film{
			Name:        fmt.Sprintf("Film %d", i),
			Description: fmt.Sprintf("Demo film number %d", i),
			ReleaseDate: model.NewDate(1920+r.Intn(100), time.Month(1+r.Intn(12)), 1+r.Intn(28)),
			Duration:    80 + r.Intn(90),
		}
		if len(ratings) > 0 {
			m := ratings[i%len(ratings)]
			f.Mpa = &model.Mpa{ID: m.ID}
		}
		if len(genres) > 0 {
			f.Genres = []model.Genre{{ID: genres[i%len(genres)].ID}, {ID: genres[(i*7)%len(genres)].ID}}
		}
		created, err := svcs.Films.Add(ctx, f)
		if err != nil {
			return fmt.Errorf("failed to seed film: %w", err)
		}
		films = append(films, created)
	}
	log.Info("Seeded films", "count", len(films))

	// --- Seed Likes ---
	likes := 0
	for _, u := range users {
		for j := 0; j < 6; j++ {
			f := films[r.Intn(len(films))]
			if r.Intn(100) >= 70 {
				continue
			}
			if err := svcs.Films.Like(ctx, f.ID, u.ID); err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}
			likes++
		}
	}

	// --- Seed Friendships ---
	friendships := 0
	for i := 0; i < len(users); i += 3 {
		for k := 1; k <= 2 && i+k < len(users); k++ {
			if err := svcs.Users.AddFriend(ctx, users[i].ID, users[i+k].ID); err != nil {
				return fmt.Errorf("failed to seed friendship: %w", err)
			}
			friendships++
		}
	}
	log.Info("Seeded edges", "like_attempts", likes, "friendships", friendships)
	return nil
}
