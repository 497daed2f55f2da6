package clip

import (
	"context"
	"database/sql"
	"fmt"
)

// Settings reads the single settings record.
func (s *Store) Settings(ctx context.Context) (Settings, error) {
	var settings Settings
	err := s.db.QueryRowContext(ctx,
		"SELECT lang, appearance FROM settings WHERE id = 0",
	).Scan(&settings.Lang, &settings.Appearance)
	if err != nil {
		if err == sql.ErrNoRows {
			// A pre-seeded record is created with the schema; an empty table
			// means an out-of-band deletion. Fall back to defaults.
			return Settings{Lang: defaultLocale(), Appearance: AppearanceLight}, nil
		}
		return Settings{}, fmt.Errorf("%w: read settings: %w", ErrTransaction, err)
	}
	return settings, nil
}

// SaveSettings merges the patch into the stored record inside a single
// transaction. Fields left nil keep their stored value, so a theme-only update
// never resets the language and vice versa.
func (s *Store) SaveSettings(ctx context.Context, patch SettingsPatch) (Settings, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: begin settings tx: %w", ErrTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	current := Settings{Lang: defaultLocale(), Appearance: AppearanceLight}
	err = tx.QueryRowContext(ctx,
		"SELECT lang, appearance FROM settings WHERE id = 0",
	).Scan(&current.Lang, &current.Appearance)
	if err != nil && err != sql.ErrNoRows {
		return Settings{}, fmt.Errorf("%w: read settings: %w", ErrTransaction, err)
	}

	if patch.Lang != nil {
		current.Lang = *patch.Lang
	}
	if patch.Appearance != nil {
		current.Appearance = *patch.Appearance
	}
	if _, ok := ParseAppearance(string(current.Appearance)); !ok {
		return Settings{}, fmt.Errorf("%w: invalid appearance %q", ErrTransaction, current.Appearance)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO settings (id, lang, appearance) VALUES (0, ?, ?)
         ON CONFLICT (id) DO UPDATE SET lang = excluded.lang, appearance = excluded.appearance`,
		current.Lang, current.Appearance,
	); err != nil {
		return Settings{}, fmt.Errorf("%w: write settings: %w", ErrTransaction, err)
	}

	if err := tx.Commit(); err != nil {
		return Settings{}, fmt.Errorf("%w: commit settings: %w", ErrTransaction, err)
	}
	return current, nil
}
