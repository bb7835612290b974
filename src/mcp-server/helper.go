// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import "fmt"

// getParams extracts parameters from a normalized JSON-RPC request.
func getParams(req map[string]any, method string) (map[string]any, error) {
	p, ok := req["params"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid %s params", method)
	}
	return p, nil
}

// getStringParam extracts a required string parameter from JSON-RPC params.
func getStringParam(params map[string]any, method, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing params %q for %s", key, method)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("invalid params %q for %s: expected string, got %T", key, method, v)
	}
	return s, nil
}

// getOptionalStringParam extracts an optional string parameter from JSON-RPC params.
// A missing key yields an empty string without error.
func getOptionalStringParam(params map[string]any, method, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("invalid params %q for %s: expected string, got %T", key, method, v)
	}
	return s, nil
}

// getMapParam extracts an optional object parameter from JSON-RPC params.
// A missing key yields an empty map without error.
func getMapParam(params map[string]any, method, key string) (map[string]any, error) {
	v, ok := params[key]
	if !ok {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid params %q for %s: expected object, got %T", key, method, v)
	}
	return m, nil
}
