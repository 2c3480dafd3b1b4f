package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/filmorate/internal/model"
	"github.com/oggyb/filmorate/internal/ranking"
	"github.com/oggyb/filmorate/internal/storage"
)

// likeScript adds the like edge and bumps popularity in one step, so a repeated
// like never double counts. KEYS: film, film likes, popularity, user liked.
var likeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
if redis.call('SADD', KEYS[2], ARGV[1]) == 1 then
	redis.call('ZINCRBY', KEYS[3], 1, ARGV[2])
	redis.call('SADD', KEYS[4], ARGV[2])
	return 1
end
return 0
`)

// unlikeScript mirrors likeScript. KEYS: film likes, popularity, user liked.
var unlikeScript = redis.NewScript(`
if redis.call('SREM', KEYS[1], ARGV[1]) == 1 then
	redis.call('ZINCRBY', KEYS[2], -1, ARGV[2])
	redis.call('SREM', KEYS[3], ARGV[2])
	return 1
end
return 0
`)

// filmDoc is the JSON stored under film:{id}. Catalog names are resolved on read.
type filmDoc struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ReleaseDate string  `json:"releaseDate"`
	Duration    int     `json:"duration"`
	MpaID       *int64  `json:"mpaId,omitempty"`
	GenreIDs    []int64 `json:"genreIds"`
}

func toFilmDoc(f model.Film) filmDoc {
	return filmDoc{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		ReleaseDate: f.ReleaseDate.String(),
		Duration:    f.Duration,
		MpaID:       f.MpaID(),
		GenreIDs:    f.GenreIDs(),
	}
}

type filmStore Store

func (fs *filmStore) Add(ctx context.Context, film model.Film) (model.Film, error) {
	film.ApplyDefaults()
	id, err := fs.client.Incr(ctx, keyFilmSeq).Result()
	if err != nil {
		return model.Film{}, fmt.Errorf("add film: %w", err)
	}
	film.ID = id

	payload, err := json.Marshal(toFilmDoc(film))
	if err != nil {
		return model.Film{}, fmt.Errorf("add film: %w", err)
	}
	_, err = fs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, keyFilm(id), payload, 0)
		pipe.ZAdd(ctx, keyFilmIDs, redis.Z{Score: float64(id), Member: id})
		pipe.ZAdd(ctx, keyFilmPopularity, redis.Z{Score: 0, Member: id})
		return nil
	})
	if err != nil {
		return model.Film{}, fmt.Errorf("add film: %w", err)
	}
	return fs.mustGet(ctx, id)
}

// Update overwrites the stored document only if it exists (SET XX).
func (fs *filmStore) Update(ctx context.Context, film model.Film) (model.Film, error) {
	film.ApplyDefaults()
	payload, err := json.Marshal(toFilmDoc(film))
	if err != nil {
		return model.Film{}, fmt.Errorf("update film %d: %w", film.ID, err)
	}
	ok, err := fs.client.SetXX(ctx, keyFilm(film.ID), payload, 0).Result()
	if err != nil {
		return model.Film{}, fmt.Errorf("update film %d: %w", film.ID, err)
	}
	if !ok {
		return model.Film{}, storage.ErrNotFound
	}
	return fs.mustGet(ctx, film.ID)
}

func (fs *filmStore) FindAll(ctx context.Context) ([]model.Film, error) {
	members, err := fs.client.ZRange(ctx, keyFilmIDs, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("find films: %w", err)
	}
	ids, err := parseIDs(members)
	if err != nil {
		return nil, fmt.Errorf("find films: %w", err)
	}
	films, err := fs.load(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find films: %w", err)
	}
	return films, nil
}

func (fs *filmStore) GetByID(ctx context.Context, id int64) (model.Film, bool, error) {
	films, err := fs.load(ctx, []int64{id})
	if err != nil {
		return model.Film{}, false, fmt.Errorf("get film %d: %w", id, err)
	}
	if len(films) == 0 {
		return model.Film{}, false, nil
	}
	return films[0], true, nil
}

// Delete removes the film document, its likes and its popularity entry, and
// drops the film from every liker's liked set.
func (fs *filmStore) Delete(ctx context.Context, id int64) error {
	members, err := fs.client.SMembers(ctx, keyFilmLikes(id)).Result()
	if err != nil {
		return fmt.Errorf("delete film %d: %w", id, err)
	}
	likers, err := parseIDs(members)
	if err != nil {
		return fmt.Errorf("delete film %d: %w", id, err)
	}
	_, err = fs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, userID := range likers {
			pipe.SRem(ctx, keyUserLiked(userID), id)
		}
		pipe.Del(ctx, keyFilm(id), keyFilmLikes(id))
		pipe.ZRem(ctx, keyFilmIDs, id)
		pipe.ZRem(ctx, keyFilmPopularity, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete film %d: %w", id, err)
	}
	return nil
}

func (fs *filmStore) Like(ctx context.Context, filmID, userID int64) error {
	keys := []string{keyFilm(filmID), keyFilmLikes(filmID), keyFilmPopularity, keyUserLiked(userID)}
	if err := likeScript.Run(ctx, fs.client, keys, userID, filmID).Err(); err != nil {
		return fmt.Errorf("like film %d by user %d: %w", filmID, userID, err)
	}
	return nil
}

func (fs *filmStore) Unlike(ctx context.Context, filmID, userID int64) error {
	keys := []string{keyFilmLikes(filmID), keyFilmPopularity, keyUserLiked(userID)}
	if err := unlikeScript.Run(ctx, fs.client, keys, userID, filmID).Err(); err != nil {
		return fmt.Errorf("unlike film %d by user %d: %w", filmID, userID, err)
	}
	return nil
}

// MostPopular reads the n-th best score as a threshold, loads every film at or
// above it and ranks them in process, so ties at the cut break by id.
func (fs *filmStore) MostPopular(ctx context.Context, n int) ([]model.Film, error) {
	if n <= 0 {
		return []model.Film{}, nil
	}
	top, err := fs.client.ZRevRangeWithScores(ctx, keyFilmPopularity, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("most popular films: %w", err)
	}
	if len(top) == 0 {
		return []model.Film{}, nil
	}
	threshold := top[len(top)-1].Score

	members, err := fs.client.ZRangeByScore(ctx, keyFilmPopularity, &redis.ZRangeBy{
		Min: strconv.FormatFloat(threshold, 'f', -1, 64),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("most popular films: %w", err)
	}
	ids, err := parseIDs(members)
	if err != nil {
		return nil, fmt.Errorf("most popular films: %w", err)
	}
	films, err := fs.load(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("most popular films: %w", err)
	}
	return ranking.MostPopular(films, n), nil
}

func (fs *filmStore) mustGet(ctx context.Context, id int64) (model.Film, error) {
	film, ok, err := fs.GetByID(ctx, id)
	if err != nil {
		return model.Film{}, err
	}
	if !ok {
		return model.Film{}, fmt.Errorf("film %d vanished after write", id)
	}
	return film, nil
}

// load resolves ids in order, skipping ids without a document. Likes and the
// catalogs are fetched in one pipeline.
func (fs *filmStore) load(ctx context.Context, ids []int64) ([]model.Film, error) {
	films := make([]model.Film, 0, len(ids))
	if len(ids) == 0 {
		return films, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, keyFilm(id))
	}
	docs, err := fs.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	likeCmds := make([]*redis.StringSliceCmd, len(ids))
	var genresCmd, mpaCmd *redis.MapStringStringCmd
	_, err = fs.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			likeCmds[i] = pipe.SMembers(ctx, keyFilmLikes(id))
		}
		genresCmd = pipe.HGetAll(ctx, keyGenres)
		mpaCmd = pipe.HGetAll(ctx, keyMpa)
		return nil
	})
	if err != nil {
		return nil, err
	}
	genreNames, err := catalogNames(genresCmd.Val())
	if err != nil {
		return nil, err
	}
	mpaNames, err := catalogNames(mpaCmd.Val())
	if err != nil {
		return nil, err
	}

	for i, raw := range docs {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		var doc filmDoc
		if err := json.Unmarshal([]byte(s), &doc); err != nil {
			return nil, fmt.Errorf("decode film %d: %w", ids[i], err)
		}
		likes, err := parseIDs(likeCmds[i].Val())
		if err != nil {
			return nil, err
		}
		film, err := doc.toFilm(genreNames, mpaNames)
		if err != nil {
			return nil, err
		}
		film.Likes = likes
		film.ApplyDefaults()
		films = append(films, film)
	}
	return films, nil
}

func (d filmDoc) toFilm(genreNames, mpaNames map[int64]string) (model.Film, error) {
	var released model.Date
	if d.ReleaseDate != "" {
		var err error
		if released, err = model.ParseDate(d.ReleaseDate); err != nil {
			return model.Film{}, fmt.Errorf("decode film %d: %w", d.ID, err)
		}
	}
	f := model.Film{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ReleaseDate: released,
		Duration:    d.Duration,
	}
	if d.MpaID != nil {
		f.Mpa = &model.Mpa{ID: *d.MpaID, Name: mpaNames[*d.MpaID]}
	}
	for _, id := range d.GenreIDs {
		f.Genres = append(f.Genres, model.Genre{ID: id, Name: genreNames[id]})
	}
	return f, nil
}
