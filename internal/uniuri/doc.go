// Package uniuri generates cryptographically secure random strings without
// modulo bias, used for opaque tokens such as the display refresh token.
package uniuri
