package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/abdusco/shortlinks/internal"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const linksTable = "links"

type linkRow struct {
	ID        int64  `db:"id"`
	Shortlink string `db:"shortlink"`
	Longlink  string `db:"longlink"`
	Hits      int64  `db:"hits"`
	CreatedAt Date   `db:"created_at"`
}

type LinksRepo struct {
	db *sql.DB
}

func NewLinksRepo(db *sql.DB) *LinksRepo {
	return &LinksRepo{db: db}
}

func (r *LinksRepo) executor() *goqu.Database {
	return goqu.New("sqlite3", r.db)
}

// Insert stores a new link. It returns internal.ErrShortlinkExists when the
// shortlink is already taken.
func (r *LinksRepo) Insert(ctx context.Context, shortlink, longlink string) (*internal.Link, error) {
	log.Debug().Str("shortlink", shortlink).Str("longlink", longlink).Msg("inserting link")

	row := linkRow{
		Shortlink: shortlink,
		Longlink:  longlink,
		CreatedAt: Date(time.Now().UTC()),
	}
	query := r.executor().Insert(linksTable).
		Cols("shortlink", "longlink", "created_at").
		Vals([]any{row.Shortlink, row.Longlink, row.CreatedAt})

	res, err := query.Executor().ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug().Str("shortlink", shortlink).Msg("shortlink already taken")
			return nil, fmt.Errorf("%w: %s", internal.ErrShortlinkExists, shortlink)
		}
		log.Error().Err(err).Str("shortlink", shortlink).Msg("failed to insert link")
		return nil, err
	}

	row.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}

	link := row.toDomain()
	log.Info().Int64("id", link.ID).Str("shortlink", link.Shortlink).Msg("link created")

	return link, nil
}

func (r *LinksRepo) Find(ctx context.Context, shortlink string) (*internal.Link, error) {
	query := r.executor().From(linksTable).
		Select("id", "shortlink", "longlink", "hits", "created_at").
		Where(goqu.Ex{"shortlink": shortlink})

	var row linkRow
	found, err := query.ScanStructContext(ctx, &row)
	if err != nil {
		log.Error().Err(err).Str("shortlink", shortlink).Msg("failed to fetch link")
		return nil, err
	}

	if !found {
		return nil, internal.ErrLinkNotFound
	}

	return row.toDomain(), nil
}

// ListAll returns every link in creation order.
func (r *LinksRepo) ListAll(ctx context.Context) ([]*internal.Link, error) {
	query := r.executor().From(linksTable).
		Select("id", "shortlink", "longlink", "hits", "created_at").
		Order(goqu.C("id").Asc())

	var rows []linkRow
	if err := query.ScanStructsContext(ctx, &rows); err != nil {
		log.Error().Err(err).Msg("failed to list links")
		return nil, err
	}

	links := make([]*internal.Link, len(rows))
	for i, row := range rows {
		links[i] = row.toDomain()
	}

	return links, nil
}

// Delete reports whether a row was actually removed.
func (r *LinksRepo) Delete(ctx context.Context, shortlink string) (bool, error) {
	res, err := r.executor().Delete(linksTable).
		Where(goqu.Ex{"shortlink": shortlink}).
		Executor().ExecContext(ctx)
	if err != nil {
		log.Error().Err(err).Str("shortlink", shortlink).Msg("failed to delete link")
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	log.Debug().Str("shortlink", shortlink).Int64("rows", n).Msg("link delete")
	return n > 0, nil
}

// Update renames and retargets the link identified by oldShortlink. Hits are left untouched.
func (r *LinksRepo) Update(ctx context.Context, oldShortlink, newShortlink, longlink string) (bool, error) {
	res, err := r.executor().Update(linksTable).
		Set(goqu.Record{"shortlink": newShortlink, "longlink": longlink}).
		Where(goqu.Ex{"shortlink": oldShortlink}).
		Executor().ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("%w: %s", internal.ErrShortlinkExists, newShortlink)
		}
		log.Error().Err(err).Str("shortlink", oldShortlink).Msg("failed to update link")
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if n > 0 {
		log.Info().Str("from", oldShortlink).Str("to", newShortlink).Msg("link updated")
	}
	return n > 0, nil
}

func (r *linkRow) toDomain() *internal.Link {
	return &internal.Link{
		ID:        r.ID,
		Shortlink: r.Shortlink,
		Longlink:  r.Longlink,
		Hits:      r.Hits,
		CreatedAt: r.CreatedAt.Time(),
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
