package repo

import (
	"context"
	"database/sql"

	"github.com/abdusco/shortlinks/internal"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/rs/zerolog/log"
)

type HitsRepo struct {
	db *sql.DB
}

func NewHitsRepo(db *sql.DB) *HitsRepo {
	return &HitsRepo{db: db}
}

// Record bumps the hit counter in a single statement. It returns
// internal.ErrLinkNotFound if the link was removed after it was resolved.
func (r *HitsRepo) Record(ctx context.Context, shortlink string) error {
	executor := goqu.New("sqlite3", r.db)

	res, err := executor.Update(linksTable).
		Set(goqu.Record{"hits": goqu.L("hits + 1")}).
		Where(goqu.Ex{"shortlink": shortlink}).
		Executor().ExecContext(ctx)
	if err != nil {
		log.Error().Err(err).Str("shortlink", shortlink).Msg("failed to record hit")
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return internal.ErrLinkNotFound
	}

	log.Debug().Str("shortlink", shortlink).Msg("hit recorded")
	return nil
}

func (r *HitsRepo) Count(ctx context.Context, shortlink string) (int64, error) {
	var hits int64
	found, err := goqu.New("sqlite3", r.db).
		From(linksTable).
		Select("hits").
		Where(goqu.Ex{"shortlink": shortlink}).
		ScanValContext(ctx, &hits)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, internal.ErrLinkNotFound
	}

	return hits, nil
}
