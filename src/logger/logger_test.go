// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/H0llyW00dzZ/euvd-mcp/src/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLILogger(t *testing.T) {
	t.Run("Printf writes formatted line", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewCLILogger()
		log.SetOutput(&buf)

		log.Printf("fetched %d vulnerabilities in %s", 8, "412ms")

		assert.Equal(t, "fetched 8 vulnerabilities in 412ms\n", buf.String())
	})

	t.Run("Println writes plain line", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewCLILogger()
		log.SetOutput(&buf)

		log.Println("EUVD lookup completed.")

		assert.Equal(t, "EUVD lookup completed.\n", buf.String())
	})

	t.Run("no timestamps or prefix", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewCLILogger()
		log.SetOutput(&buf)

		log.Println("bare message")

		// CLI output stays clean for piping into other tools.
		assert.Equal(t, "bare message\n", buf.String())
	})

	t.Run("SetOutput redirects subsequent writes", func(t *testing.T) {
		var first, second bytes.Buffer
		log := logger.NewCLILogger()

		log.SetOutput(&first)
		log.Println("goes to first")
		log.SetOutput(&second)
		log.Println("goes to second")

		assert.Contains(t, first.String(), "goes to first")
		assert.NotContains(t, first.String(), "goes to second")
		assert.Contains(t, second.String(), "goes to second")
	})

	t.Run("concurrent writers produce whole lines", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewCLILogger()
		log.SetOutput(&buf)

		const goroutines = 100
		const messages = 10

		var wg sync.WaitGroup
		wg.Add(goroutines)
		for i := range goroutines {
			go func(id int) {
				defer wg.Done()
				for range messages {
					log.Printf("worker %d checked a record", id)
				}
			}(i)
		}
		wg.Wait()

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		assert.Len(t, lines, goroutines*messages)
	})
}

func TestMCPLogger(t *testing.T) {
	t.Run("silent mode suppresses output", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewMCPLogger(&buf, true)

		log.Printf("retrying request (attempt %d)", 2)
		log.Println("should not appear")

		assert.Zero(t, buf.Len(), "silent logger must not write")
	})

	t.Run("Printf emits structured JSON", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewMCPLogger(&buf, false)

		log.Printf("upstream answered %d", 200)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output should be one JSON object: %q", buf.String())
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "upstream answered 200", entry["message"])
		assert.Contains(t, entry, "time")
	})

	t.Run("Println emits structured JSON", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewMCPLogger(&buf, false)

		log.Println("server", "started")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "server started", entry["message"])
	})

	t.Run("nil writer falls back to discard", func(t *testing.T) {
		log := logger.NewMCPLogger(nil, false)

		// Must not panic.
		log.Printf("written nowhere")
		log.Println("also nowhere")
	})

	t.Run("SetOutput nil falls back to discard", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewMCPLogger(&buf, false)

		log.SetOutput(nil)
		log.Println("dropped")

		assert.Zero(t, buf.Len())
	})

	t.Run("SetOutput redirects subsequent writes", func(t *testing.T) {
		var first, second bytes.Buffer
		log := logger.NewMCPLogger(&first, false)

		log.Println("first destination")
		log.SetOutput(&second)
		log.Println("second destination")

		assert.Contains(t, first.String(), "first destination")
		assert.Contains(t, second.String(), "second destination")
		assert.NotContains(t, first.String(), "second destination")
	})

	t.Run("special characters survive JSON encoding", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewMCPLogger(&buf, false)

		msg := `lookup failed: "EUVD-2024-1"` + "\n\twith tab and backslash \\"
		log.Printf("%s", msg)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "escaping must keep the entry parseable: %q", buf.String())
		assert.Equal(t, msg, entry["message"])
	})
}

func TestMCPLoggerConcurrent(t *testing.T) {
	t.Run("parallel Printf produces parseable lines", func(t *testing.T) {
		var buf bytes.Buffer
		var mu sync.Mutex
		log := logger.NewMCPLogger(writerFunc(func(p []byte) (int, error) {
			mu.Lock()
			defer mu.Unlock()
			return buf.Write(p)
		}), false)

		const goroutines = 50
		const messages = 20

		var wg sync.WaitGroup
		wg.Add(goroutines)
		for i := range goroutines {
			go func(id int) {
				defer wg.Done()
				for j := range messages {
					log.Printf("goroutine %d message %d", id, j)
				}
			}(i)
		}
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		assert.Len(t, lines, goroutines*messages)
		for _, line := range lines {
			var entry map[string]any
			assert.NoError(t, json.Unmarshal([]byte(line), &entry), "each line must be valid JSON: %q", line)
		}
	})

	t.Run("silent mode under concurrency stays silent", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewMCPLogger(&buf, true)

		var wg sync.WaitGroup
		wg.Add(20)
		for i := range 20 {
			go func(id int) {
				defer wg.Done()
				log.Printf("noise %d", id)
			}(i)
		}
		wg.Wait()

		assert.Zero(t, buf.Len())
	})
}

// writerFunc adapts a function to io.Writer for serializing test output.
type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

// Interface compliance checks.
var (
	_ logger.Logger = (*logger.CLILogger)(nil)
	_ logger.Logger = (*logger.MCPLogger)(nil)
)

// Example of the structured shape MCP mode emits.
func ExampleNewMCPLogger() {
	log := logger.NewMCPLogger(nil, true)
	log.Println("suppressed in stdio mode")
	fmt.Println("no output on stdout")
	// Output: no output on stdout
}
