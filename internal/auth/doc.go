// Package auth owns accounts, credentials, and sessions for AquaMon Core.
//
// It provides:
//   - User accounts persisted in SQLite (email-keyed, case-normalised)
//   - Password hashing and verification (bcrypt, fixed cost)
//   - JWT access tokens and hashed, revocable refresh tokens
//   - The credential lifecycle: register, login, change password,
//     update profile, delete account
//
// The lifecycle operations return errors from the access taxonomy so the
// HTTP layer can map them without inspecting storage errors. Login reports
// a single generic invalid-credentials failure for both unknown email and
// wrong password — user enumeration via error shape is not possible.
package auth
