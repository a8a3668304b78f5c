// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

// Command gen-emoji-data generates the bundled emoji-mart dataset from the
// Unicode emoji-test.txt file and the curated shortcode overlay.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/pflag"

	"github.com/halo-sigs/plugin-editor-emoji/internal/emoji"
	"github.com/halo-sigs/plugin-editor-emoji/internal/emoji/uts51"
)

// DefaultSource is the pinned emoji-test.txt release.
const DefaultSource = "https://unicode.org/Public/emoji/15.1/emoji-test.txt"

func main() {
	src := pflag.String("src", DefaultSource, "emoji-test.txt path or URL")
	curatedPath := pflag.String("curated", filepath.Join("data", "curated.json"), "curated emoji-mart overlay")
	outPath := pflag.String("out", filepath.Join("data", "emoji.json"), "output dataset")
	pflag.Parse()

	if err := run(context.Background(), *src, *curatedPath, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating emoji data: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s\n", *outPath)
}

func run(ctx context.Context, src, curatedPath, outPath string) error {
	raw, err := readSource(ctx, src)
	if err != nil {
		return err
	}
	entries, err := uts51.Parse(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	curated, err := emoji.LoadDataset(curatedPath)
	if err != nil {
		return err
	}
	ds, err := uts51.Build(entries, curated)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ds); err != nil {
		return oops.Wrapf(err, "encode dataset")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return oops.With("path", outPath).Wrapf(err, "create directory")
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o600); err != nil {
		return oops.With("path", outPath).Wrapf(err, "write dataset")
	}
	return nil
}

func readSource(ctx context.Context, src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		data, err := os.ReadFile(filepath.Clean(src))
		if err != nil {
			return nil, oops.With("path", src).Wrapf(err, "read source")
		}
		return data, nil
	}

	var data []byte
	backoff := retry.WithMaxRetries(3, retry.NewExponential(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("fetch %s: %s", src, resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fetch %s: %s", src, resp.Status)
		}
		data, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, oops.With("url", src).Wrapf(err, "download source")
	}
	return data, nil
}
