// Package notifications delivers capture events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set. The
// transient on-page notification shown to the capturing surface is separate:
// it is part of the capture response and is always produced, whether or not a
// push transport is configured.
//
// Extend this package if you need alternative transports; capture code
// depends only on the simple Service interface.
package notifications
