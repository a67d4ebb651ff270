package main

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/propdoc/pkg/resolver"
	"github.com/gnana997/propdoc/pkg/util"
	"github.com/gnana997/propdoc/pkg/workspace"
)

const (
	defaultConfigPath  = ".propdoc/config.yaml"
	defaultCatalogPath = ".propdoc/catalog.json"
)

// ProjectConfig holds the contents of .propdoc/config.yaml. Zero values
// leave the built-in defaults in place.
type ProjectConfig struct {
	Extensions   []string `yaml:"extensions"`
	MaxDepth     int      `yaml:"max_depth"`
	StrictParse  bool     `yaml:"strict_parse"`
	ExportPolicy string   `yaml:"export_policy"`
	MergePolicy  string   `yaml:"merge_policy"`
	TypedJS      *bool    `yaml:"typed_js"`

	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	CatalogPath string `yaml:"catalog_path"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// CacheSize bounds the parse cache, in files
	CacheSize int `yaml:"cache_size"`
}

// loadProjectConfig reads the config file at path. A missing file yields
// an empty config. Unknown keys are rejected.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ProjectConfig{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	var cfg ProjectConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to parse config %s", path),
			"valid keys: extensions, max_depth, strict_parse, export_policy, merge_policy, typed_js, include, exclude, catalog_path, log_level, log_format, cache_size",
		)
	}
	return &cfg, nil
}

// resolverOptions converts the resolution settings.
func (c *ProjectConfig) resolverOptions() (resolver.Options, error) {
	opts := resolver.DefaultOptions()
	if len(c.Extensions) > 0 {
		exts := make([]string, 0, len(c.Extensions))
		for _, ext := range c.Extensions {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			exts = append(exts, ext)
		}
		opts.Extensions = exts
	}
	if c.MaxDepth < 0 {
		return opts, errors.Newf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.MaxDepth > 0 {
		opts.MaxDepth = c.MaxDepth
	}
	opts.StrictParse = c.StrictParse

	var err error
	if opts.ExportPolicy, err = resolver.ParseExportPolicy(c.ExportPolicy); err != nil {
		return opts, err
	}
	if opts.MergePolicy, err = resolver.ParseMergePolicy(c.MergePolicy); err != nil {
		return opts, err
	}
	return opts, nil
}

// workspaceConfig builds the workspace configuration.
func (c *ProjectConfig) workspaceConfig() (workspace.Config, error) {
	cfg := workspace.DefaultConfig()
	opts, err := c.resolverOptions()
	if err != nil {
		return cfg, err
	}
	cfg.Resolver = opts
	if c.TypedJS != nil {
		cfg.TypedJS = *c.TypedJS
	}
	if c.CacheSize > 0 {
		cfg.ParseCache.MaxFiles = c.CacheSize
	}
	return cfg, nil
}

// scanOptions returns the discovery patterns, replacing the defaults per
// list when the config sets one.
func (c *ProjectConfig) scanOptions() workspace.ScanOptions {
	opts := workspace.DefaultScanOptions()
	if len(c.Include) > 0 {
		opts.Include = c.Include
	}
	if len(c.Exclude) > 0 {
		opts.Exclude = c.Exclude
	}
	return opts
}

func (c *ProjectConfig) loggerConfig() util.LoggerConfig {
	cfg := util.DefaultLoggerConfig()
	if c.LogLevel != "" {
		cfg.Level = util.LogLevel(c.LogLevel)
	}
	if c.LogFormat != "" {
		cfg.Format = util.LogFormat(c.LogFormat)
	}
	return cfg
}

// resolveCatalogPath returns the catalog path to use, applying the fallback chain:
//  1. Explicit --catalog flag value (non-empty override)
//  2. catalog_path from .propdoc/config.yaml
//  3. Default: .propdoc/catalog.json
func (c *ProjectConfig) resolveCatalogPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if c.CatalogPath != "" {
		return c.CatalogPath
	}
	return defaultCatalogPath
}
