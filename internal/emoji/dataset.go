// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package emoji

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/oops"
)

//go:generate go run ../../cmd/gen-emoji-data -src https://unicode.org/Public/emoji/15.1/emoji-test.txt -curated data/curated.json -out data/emoji.json

//go:embed data/emoji.json data/i18n/*.json
var bundled embed.FS

// Dataset is the emoji-mart data format.
type Dataset struct {
	Categories []DatasetCategory       `json:"categories"`
	Emojis     map[string]DatasetEmoji `json:"emojis"`
	Aliases    map[string]string       `json:"aliases"`
}

// DatasetCategory lists emoji ids in display order.
type DatasetCategory struct {
	ID     string   `json:"id"`
	Emojis []string `json:"emojis"`
}

// DatasetEmoji is a single emoji-mart entry.
type DatasetEmoji struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Keywords  []string `json:"keywords"`
	Skins     []Skin   `json:"skins"`
	Version   float64  `json:"version"`
	Emoticons []string `json:"emoticons,omitempty"`
}

// Skin is one skin-tone variant of an emoji.
type Skin struct {
	Unified string `json:"unified"`
	Native  string `json:"native"`
}

// ParseDataset decodes emoji-mart JSON.
func ParseDataset(data []byte) (*Dataset, error) {
	if len(data) == 0 {
		return nil, oops.Code(CodeInvalidDataset).Errorf("dataset is empty")
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, oops.Code(CodeInvalidDataset).Wrapf(err, "decode dataset")
	}
	if len(ds.Emojis) == 0 {
		return nil, oops.Code(CodeInvalidDataset).Errorf("dataset has no emojis")
	}
	return &ds, nil
}

// LoadDataset reads an emoji-mart JSON file from disk.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, oops.Code(CodeInvalidDataset).With("path", path).Wrapf(err, "read dataset")
	}
	ds, err := ParseDataset(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return ds, nil
}

var bundledDataset = sync.OnceValues(func() (*Dataset, error) {
	data, err := bundled.ReadFile("data/emoji.json")
	if err != nil {
		return nil, oops.Code(CodeInvalidDataset).Wrapf(err, "read bundled dataset")
	}
	return ParseDataset(data)
})

// BundledDataset returns the dataset compiled into the binary.
// It is parsed once and shared; callers must not modify it.
func BundledDataset() (*Dataset, error) {
	return bundledDataset()
}
