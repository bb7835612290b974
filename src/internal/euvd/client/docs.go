// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package client implements the managed HTTP access layer for the [EUVD] API.
//
// It is organized as three cooperating pieces behind the Manager facade:
// a session manager owning the HTTP client and the retry/backoff policy, a
// parameter builder that validates and shapes query parameters before any
// network call, and a response mapper that normalizes the upstream JSON into
// the typed models. Failures carry a Kind from the package taxonomy so
// callers can surface them without inspecting messages.
//
// [EUVD]: https://euvd.enisa.europa.eu
package client
