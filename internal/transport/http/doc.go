// Package http contains the chi HTTP handlers for the analysis API.
// Handlers depend on the service layer through small interfaces and
// answer errors as RFC 7807 problem documents.
package http
