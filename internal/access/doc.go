// Package access is the authorization core shared by every resource
// operation in AquaMon.
//
// It provides three things:
//
//   - Principal: the authenticated caller, passed explicitly into every
//     operation (never ambient state).
//   - Guard: a pure capability check (authenticated / admin) that must run
//     before any resource operation executes.
//   - Ownership resolution: a single composable check that resolves a
//     resource to its owning principal and compares it to the caller,
//     reporting NotFound before Forbidden so that non-existent resources
//     never leak existence information.
//
// All caller-visible failures are values of *Error, a closed tagged
// taxonomy with a fixed display message per kind. Storage failures are
// wrapped as KindInternal and never expose driver detail to callers.
package access
