// Package cli implements the curator command-line client. Commands talk
// to a running curator server over its HTTP API; the session token from
// login is persisted under the user config directory and can be
// overridden with CURATOR_TOKEN. The server URL defaults to
// http://localhost:8080 and can be set per command with -server or
// globally with CURATOR_SERVER.
package cli
