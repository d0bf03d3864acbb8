// Package server holds the HTTP server configuration and the shared error handler.
//
// While the cmd package handles the server startup, this package defines the
// configuration structure and how errors become HTTP responses.
//
// # Error responses
//
// ErrorHandler renders every failure as {"statusCode": N, "message": "..."}.
// Not-found errors map to 404, fiber errors keep their code, and everything
// else becomes 500 "Internal Server Error" so backend details never reach clients.
package server
