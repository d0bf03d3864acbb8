// Package results turns appointment result events into stored PDF reports.
//
// # Pipeline
//
// Each event moves through render, key derivation and upload:
//
//   - Render: render.Renderer produces the report. A failure stops here and
//     nothing is uploaded.
//   - Key: the object key is "<resultId>.pdf".
//   - Upload: the report is written with content type application/pdf.
//     Store failures are returned so the broker can redeliver.
//
// The pipeline holds no state between events. HandleMessage adapts it to
// broker.Handler; payloads that cannot be decoded return a *DecodeError,
// which transports drop instead of redelivering.
//
// # HTTP Endpoints
//
//   - POST /results : Processes an event body synchronously (replay).
package results
