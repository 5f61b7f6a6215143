package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"logograb/internal/assign"
	"logograb/internal/services"
)

var _ assign.Host = (*Store)(nil)

const channelSelect = `
SELECT c.id, c.name, c.tvg_id, c.logo_id, COALESCE(l.url, '')
FROM channels c
LEFT JOIN logos l ON l.id = c.logo_id`

func scanChannel(scanner interface{ Scan(...any) error }) (assign.ChannelRecord, error) {
	var (
		rec    assign.ChannelRecord
		logoID sql.NullInt64
	)
	if err := scanner.Scan(&rec.ID, &rec.Name, &rec.TVGID, &logoID, &rec.CurrentLogoURL); err != nil {
		return assign.ChannelRecord{}, err
	}
	if logoID.Valid {
		id := logoID.Int64
		rec.CurrentLogoRef = &id
	}
	rec.IsPlaceholderLogo = IsPlaceholder(rec.CurrentLogoURL)
	return rec, nil
}

// ListChannels returns every channel ordered by id.
func (s *Store) ListChannels(ctx context.Context) ([]assign.ChannelRecord, error) {
	rows, err := s.db.QueryContext(ctx, channelSelect+" ORDER BY c.id")
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var out []assign.ChannelRecord
	for rows.Next() {
		rec, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListChannelsMissingLogo returns channels without a logo or with a
// placeholder logo.
func (s *Store) ListChannelsMissingLogo(ctx context.Context) ([]assign.ChannelRecord, error) {
	all, err := s.ListChannels(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, rec := range all {
		if !rec.Healthy() {
			out = append(out, rec)
		}
	}
	return out, nil
}

// GetChannel returns the channel with id, or nil when it does not exist.
func (s *Store) GetChannel(ctx context.Context, id int64) (*assign.ChannelRecord, error) {
	rec, err := scanChannel(s.db.QueryRowContext(ctx, channelSelect+" WHERE c.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return &rec, nil
}

// AddChannel inserts a channel. A non-empty logoURL is linked through a logo
// named after the URL, which is how pre-existing host logos are seeded.
func (s *Store) AddChannel(ctx context.Context, name, tvgID, logoURL string) (*assign.ChannelRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "add channel", "name required", nil)
	}
	var logoID sql.NullInt64
	if logoURL = strings.TrimSpace(logoURL); logoURL != "" {
		logo, err := s.CreateLogo(ctx, logoURL, logoURL)
		if err != nil {
			return nil, err
		}
		logoID = sql.NullInt64{Int64: logo.ID, Valid: true}
	}

	var id int64
	err := retryOnBusy(ctx, func() error {
		now := nowText()
		res, err := s.db.ExecContext(ctx,
			"INSERT INTO channels (name, tvg_id, logo_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			name, strings.TrimSpace(tvgID), logoID, now, now)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("insert channel: %w", err)
	}
	return s.GetChannel(ctx, id)
}

// FindLogoByKey returns the logo named key, or nil when none exists.
func (s *Store) FindLogoByKey(ctx context.Context, key string) (*assign.LogoRecord, error) {
	var logo assign.LogoRecord
	err := s.db.QueryRowContext(ctx, "SELECT id, name, url FROM logos WHERE name = ?", key).
		Scan(&logo.ID, &logo.Key, &logo.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find logo: %w", err)
	}
	return &logo, nil
}

// CreateLogo inserts a logo named key. When key is already taken the
// existing row is returned unchanged.
func (s *Store) CreateLogo(ctx context.Context, key, url string) (*assign.LogoRecord, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create logo", "key required", nil)
	}
	var logo assign.LogoRecord
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO logos (name, url, created_at) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING",
			key, url, nowText()); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, "SELECT id, name, url FROM logos WHERE name = ?", key).
			Scan(&logo.ID, &logo.Key, &logo.URL)
	})
	if err != nil {
		return nil, fmt.Errorf("create logo: %w", err)
	}
	return &logo, nil
}

// SetChannelLogo links logoID to the channel. The channel must still exist
// and must not have gained a real logo since it was read.
func (s *Store) SetChannelLogo(ctx context.Context, channelID, logoID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		rec, err := scanChannel(tx.QueryRowContext(ctx, channelSelect+" WHERE c.id = ?", channelID))
		if errors.Is(err, sql.ErrNoRows) {
			return services.Wrap(services.ErrWriteConflict, "store", "link logo", fmt.Sprintf("channel %d no longer exists", channelID), nil)
		}
		if err != nil {
			return fmt.Errorf("read channel: %w", err)
		}
		if rec.CurrentLogoRef != nil && *rec.CurrentLogoRef == logoID {
			return nil
		}
		if rec.Healthy() {
			return services.Wrap(services.ErrWriteConflict, "store", "link logo", fmt.Sprintf("channel %d already has logo %d", channelID, *rec.CurrentLogoRef), nil)
		}

		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM logos WHERE id = ?", logoID).Scan(&exists); err != nil {
			return fmt.Errorf("check logo: %w", err)
		}
		if exists == 0 {
			return services.Wrap(services.ErrWriteConflict, "store", "link logo", fmt.Sprintf("logo %d no longer exists", logoID), nil)
		}

		if _, err := tx.ExecContext(ctx, "UPDATE channels SET logo_id = ?, updated_at = ? WHERE id = ?", logoID, nowText(), channelID); err != nil {
			return fmt.Errorf("update channel: %w", err)
		}
		return nil
	})
}

// ListLogos returns every logo ordered by id.
func (s *Store) ListLogos(ctx context.Context) ([]assign.LogoRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, url FROM logos ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list logos: %w", err)
	}
	defer rows.Close()

	var out []assign.LogoRecord
	for rows.Next() {
		var logo assign.LogoRecord
		if err := rows.Scan(&logo.ID, &logo.Key, &logo.URL); err != nil {
			return nil, fmt.Errorf("scan logo: %w", err)
		}
		out = append(out, logo)
	}
	return out, rows.Err()
}
