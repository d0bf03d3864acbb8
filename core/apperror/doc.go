// Package apperror defines the error taxonomy shared by every caller of the
// document access layer.
//
// # Kinds
//
//   - NotFound: the requested key is absent from the container.
//   - StoreUnavailable: any transport or service failure against the object store,
//     including cancellation of the originating request.
//   - Configuration: missing or malformed settings/credentials. Only raised at startup.
//
// Callers match kinds with errors.Is against the sentinel values:
//
//	if errors.Is(err, apperror.ErrNotFound) {
//	    return c.SendStatus(fiber.StatusNotFound)
//	}
package apperror
