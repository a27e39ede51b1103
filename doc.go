// Package main provides the entry point for the lobby display backend.
// It initializes and runs a web server using the Fiber framework that serves
// a rotating banner carousel, sidebar widgets and building-wide settings to
// display clients, and exposes an admin REST API to manage all of the above.
// The application uses gorm for data persistence and relays external iCal,
// RSS and emergency-alert feeds on behalf of the displays.
package main
