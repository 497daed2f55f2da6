// Package clip owns durable storage for captured items and user settings.
//
// The store is a single SQLite database holding every saved item (text
// selections, images, video thumbnails) plus one fixed-key settings record.
// Items receive auto-incrementing identifiers on insert and keep their capture
// timestamp for the lifetime of the row. Ordering and filtering of listings is
// deliberately not the store's job; see the query package.
package clip
