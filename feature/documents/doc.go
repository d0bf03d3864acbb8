// Package documents provides read, write and delete access to stored documents.
//
// The Service wraps a storage.ClientFactory and is the single point where raw
// object store errors are translated. Callers only ever observe two failure
// kinds from it: NotFound when the key is absent and StoreUnavailable for
// everything else, cancellation included.
//
// # HTTP Endpoints
//
// Each route is mounted under /api/documents and at the root:
//
//   - GET /document/:key : Streams the document with its stored content type.
//   - POST /document : Uploads the multipart "file" field under its file name.
//   - DELETE /document/:key : Deletes the document.
//
// Failures are rendered by server.ErrorHandler as {"statusCode", "message"}.
package documents
