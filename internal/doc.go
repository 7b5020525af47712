// Package internal contains the implementation packages for rippledocs.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - navigation: Builds the sidebar tree from the docs content directory
//   - breadcrumbs: Resolves a request path against the navigation tree
//   - content: Resolves and renders MDX pages with goldmark
//   - stats: GitHub, Bundlephobia and version fetchers plus their JSON API
//   - statcache: In-memory and SQLite stores behind the stats cache
//   - features: Landing page feature cards and byte formatting
//   - views: templ components for the layout, sidebar and pages
//   - watcher: Debounced file system monitoring of the content tree
//   - websocket: Live reload hub for connected browsers
//   - middleware: Request logging, security headers and rate limiting
//   - server: HTTP routes and lifecycle
//   - config, logging, errors, validation, version: Ambient support
//
// # Request Flow
//
// A docs request rebuilds the navigation from disk, resolves the page and
// its breadcrumb trail, then renders the article inside the shared layout.
// Content edits are picked up by the watcher, which asks the websocket hub
// to tell each browser to reload.
package internal
