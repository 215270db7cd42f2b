// Package chatbot exposes the banking chat over HTTP and websockets.
//
// A conversation starts with POST /api/session carrying an API key (or
// POST /api/guest with the configured guest key) and is addressed by the
// returned token in the X-Session-Token header. Each message or login form
// is one turn; turns of a session are serialized and rate limited, and a
// turn's state changes are persisted only when it succeeds.
package chatbot
