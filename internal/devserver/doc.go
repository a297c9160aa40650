// Package devserver is a self-contained stub backend for local development
// and end-to-end testing of the client. It implements the same REST surface
// as the production API on top of an in-memory store, with deterministic
// decision rules in place of the real underwriting pipeline.
package devserver
