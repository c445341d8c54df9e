package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
	defaultErr    error
)

// Default returns the bundle built from the embedded locale files. It panics
// if the embedded files are malformed, which is a build defect.
func Default() *Bundle {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embeddedLocales, "locales")
		if err != nil {
			defaultErr = err
			return
		}
		defaultBundle, defaultErr = LoadFS(sub)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultBundle
}

// LoadFS walks fsys and loads every JSON/YAML file as a flat key/message map.
// The file name without extension is the locale.
func LoadFS(fsys fs.FS) (*Bundle, error) {
	bundle := NewBundle()
	if fsys == nil {
		return bundle, nil
	}
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isLocaleFile(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", p, err)
		}
		file, err := goi18n.ParseMessageFileBytes(data, messageFileName(p), unmarshalers)
		if err != nil {
			return fmt.Errorf("i18n: parse %s: %w", p, err)
		}
		for _, m := range file.Messages {
			if m.ID == "" {
				return fmt.Errorf("i18n: parse %s: expected a key/message map", p)
			}
		}
		return bundle.addMessages(file.Tag, file.Messages)
	})
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

var unmarshalers = map[string]goi18n.UnmarshalFunc{
	"yaml": yaml.Unmarshal,
	"yml":  yaml.Unmarshal,
}

// messageFileName lower-cases the extension so it selects an unmarshaler.
func messageFileName(p string) string {
	base := path.Base(p)
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext) + strings.ToLower(ext)
}

func isLocaleFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
