// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package jsonrpc provides JSON-RPC 2.0 normalization helpers for the
// in-memory transport bridge between the MCP server and SDK clients.
package jsonrpc
