// Package backend talks to the announcement backend that hosts the
// translation, speech synthesis, and sign-language video collaborators.
//
// Every call carries a bearer credential obtained from a Credentials
// source; a missing credential or a 401/403 answer is reported as an auth
// error. Failures are tagged with the services error taxonomy so callers can
// tell a synthesis failure from a transport failure. Deleting an asset that
// is already gone is not an error.
package backend
