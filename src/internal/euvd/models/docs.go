// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package models defines the typed entities returned by the [EUVD] API:
// vulnerabilities, advisories, and their list/search wrappers.
//
// All types are transient value objects constructed per call from upstream
// JSON; they hold no shared state and are owned by the caller that receives
// them.
//
// [EUVD]: https://euvd.enisa.europa.eu
package models
