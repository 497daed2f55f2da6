package clip

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const itemColumns = "id, kind, text, image_url, video_url, video_id, url, page_title, timestamp"

// Add persists a new saved item, assigning its identifier. The item's
// timestamp is stamped at insertion time when unset. The stored item is
// returned with its id populated.
func (s *Store) Add(ctx context.Context, item *Item) (*Item, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: nil item", ErrTransaction)
	}
	if item.ID != 0 {
		return nil, fmt.Errorf("%w: item already has id %d", ErrTransaction, item.ID)
	}
	if err := item.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransaction, err)
	}

	stored := *item
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO saved_items (
            kind, text, image_url, video_url, video_id, url, page_title, timestamp
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.Kind,
		nullableString(stored.Text),
		nullableString(stored.ImageURL),
		nullableString(stored.VideoURL),
		nullableString(stored.VideoID),
		stored.URL,
		stored.PageTitle,
		stored.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert item: %w", ErrTransaction, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: last insert id: %w", ErrTransaction, err)
	}
	stored.ID = id
	return &stored, nil
}

// List returns every saved item in storage order. Ordering for presentation is
// the query engine's responsibility.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM saved_items")
	if err != nil {
		return nil, fmt.Errorf("%w: list items: %w", ErrTransaction, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate items: %w", ErrTransaction, err)
	}
	return items, nil
}

// GetByID fetches a single item, returning nil when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM saved_items WHERE id = ?", id)
	item, err := scanItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Delete removes the item with the given id. Deleting an absent id is a
// no-op, not an error: the end state matches intent.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM saved_items WHERE id = ?", id); err != nil {
		return fmt.Errorf("%w: delete item %d: %w", ErrTransaction, id, err)
	}
	return nil
}

// Clear removes every saved item. Settings are untouched.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM saved_items")
	if err != nil {
		return 0, fmt.Errorf("%w: clear items: %w", ErrTransaction, err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected: %w", ErrTransaction, err)
	}
	return removed, nil
}

// Count reports the number of saved items.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM saved_items").Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count items: %w", ErrTransaction, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var (
		item      Item
		kind      string
		text      sql.NullString
		imageURL  sql.NullString
		videoURL  sql.NullString
		videoID   sql.NullString
		timestamp string
	)
	err := row.Scan(&item.ID, &kind, &text, &imageURL, &videoURL, &videoID,
		&item.URL, &item.PageTitle, &timestamp)
	if err != nil {
		if err == sql.ErrNoRows {
			return Item{}, err
		}
		return Item{}, fmt.Errorf("%w: scan item: %w", ErrTransaction, err)
	}

	item.Kind = Kind(kind)
	item.Text = text.String
	item.ImageURL = imageURL.String
	item.VideoURL = videoURL.String
	item.VideoID = videoID.String

	parsed, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return Item{}, fmt.Errorf("%w: parse timestamp %q: %w", ErrTransaction, timestamp, err)
	}
	item.Timestamp = parsed
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
