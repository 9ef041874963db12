// Package config defines the configuration file format: the asset roots
// globs match against, cache sizing, the serving surface, and the
// document rewrite policy. Configuration is YAML, validated against the
// generated JSON schema before decoding.
package config

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gobwas/glob"
	"github.com/goccy/go-yaml"
)

// Root is the top-level configuration structure.
type Root struct {
	Assets  Assets  `json:"assets,omitzero"`
	Cache   Cache   `json:"cache,omitzero"`
	Server  Server  `json:"server,omitzero"`
	Rewrite Rewrite `json:"rewrite,omitzero"`

	_ struct{} `additionalProperties:"false"`
}

// Assets configures the merged asset tree glob patterns resolve against.
type Assets struct {
	Roots []*AssetRoot `json:"roots,omitempty"`

	// BasePath is the URL prefix joined onto every resolved asset URL.
	BasePath string `json:"base_path,omitempty" pattern:"^/"`

	// Watch enables the filesystem watcher that purges cached glob
	// resolutions when files under the roots change.
	Watch bool `json:"watch,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

// AssetRoot is one asset directory: either a bare path string or a
// mapping with a path and an optional URL mount prefix.
type AssetRoot struct {
	Path  string `json:"path"`
	Mount string `json:"mount,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

func (a *AssetRoot) UnmarshalYAML(bs []byte) error {
	var path string
	if err := yaml.Unmarshal(bs, &path); err == nil {
		*a = AssetRoot{Path: path}
		return a.validate()
	}

	var m map[string]any
	if err := yaml.Unmarshal(bs, &m); err != nil {
		return fmt.Errorf("failed to decode asset root: %w", err)
	}
	if err := decode(m, a); err != nil {
		return fmt.Errorf("failed to decode asset root: %w", err)
	}
	return a.validate()
}

func (a *AssetRoot) UnmarshalJSON(bs []byte) error {
	var path string
	if err := json.Unmarshal(bs, &path); err == nil {
		*a = AssetRoot{Path: path}
		return a.validate()
	}

	type rawAssetRoot AssetRoot // avoid recursive calls to UnmarshalJSON by type aliasing
	var raw rawAssetRoot
	if err := json.Unmarshal(bs, &raw); err != nil {
		return fmt.Errorf("failed to decode asset root: %w", err)
	}
	*a = AssetRoot(raw)
	return a.validate()
}

func (a *AssetRoot) validate() error {
	if a.Path == "" {
		return errors.New("asset root requires a path")
	}
	return nil
}

// Cache configures the glob resolution cache.
type Cache struct {
	Size int `json:"size,omitempty" minimum:"1"`

	_ struct{} `additionalProperties:"false"`
}

// Server configures the HTTP serving surface of the 'run' command.
type Server struct {
	Addr string `json:"addr,omitempty"`

	// Metrics exposes Prometheus metrics under /metrics.
	Metrics bool `json:"metrics,omitempty"`

	ShutdownTimeout Duration `json:"shutdown_timeout,omitzero"`

	_ struct{} `additionalProperties:"false"`
}

// Rewrite configures which documents the rewrite pass applies to.
type Rewrite struct {
	// Extensions lists the file extensions treated as HTML documents.
	Extensions []string `json:"extensions,omitempty"`

	// ExcludedDocuments lists glob patterns of document paths served
	// without rewriting.
	ExcludedDocuments []string `json:"excluded_documents,omitempty"`

	_ struct{} `additionalProperties:"false"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for the Root
// struct so decoding validates the pieces schema validation cannot see,
// like glob pattern syntax.
func (r *Root) UnmarshalYAML(bs []byte) error {
	type rawRoot Root // avoid recursive calls to UnmarshalYAML by type aliasing
	var raw rawRoot

	if err := yaml.Unmarshal(bs, &raw); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}

	*r = Root(raw)
	return r.validate()
}

func (r *Root) UnmarshalJSON(bs []byte) error {
	type rawRoot Root // avoid recursive calls to UnmarshalJSON by type aliasing
	var raw rawRoot

	if err := json.Unmarshal(bs, &raw); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}

	*r = Root(raw)
	return r.validate()
}

func (r *Root) validate() error {
	for _, pattern := range r.Rewrite.ExcludedDocuments {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("failed to compile excluded document pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Validate checks a raw configuration document against the schema.
func Validate(data []byte) error {
	var config any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return err
	}

	return rootSchema.Validate(config)
}

// Parse validates and decodes one configuration document.
func Parse(bs []byte) (*Root, error) {
	if err := Validate(bs); err != nil {
		return nil, err
	}

	var root Root
	if err := yaml.Unmarshal(bs, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// ListenAddr returns the configured listen address, or the default
// localhost:8080.
func (r *Root) ListenAddr() string {
	return cmp.Or(r.Server.Addr, "localhost:8080")
}

// ShutdownGrace returns how long a stopping server waits for in-flight
// requests.
func (r *Root) ShutdownGrace() time.Duration {
	if r.Server.ShutdownTimeout > 0 {
		return time.Duration(r.Server.ShutdownTimeout)
	}
	return 10 * time.Second
}

// DocumentExtensions returns the file extensions treated as HTML
// documents, defaulting to .html and .htm.
func (r *Root) DocumentExtensions() []string {
	if len(r.Rewrite.Extensions) > 0 {
		return r.Rewrite.Extensions
	}
	return []string{".html", ".htm"}
}

// ExcludedDocumentGlobs compiles the rewrite exclusion patterns. The
// patterns were checked during decoding, so errors surface only for
// Roots built in code.
func (r *Root) ExcludedDocumentGlobs() ([]glob.Glob, error) {
	globs := make([]glob.Glob, len(r.Rewrite.ExcludedDocuments))
	for i, pattern := range r.Rewrite.ExcludedDocuments {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("failed to compile excluded document pattern %q: %w", pattern, err)
		}
		globs[i] = g
	}
	return globs, nil
}

// Duration marshals and unmarshals as a string like "5m" or "0.5s"
// instead of an int64.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d Duration) MarshalYAML() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	val, err := time.ParseDuration(str)
	*d = Duration(val)
	return err
}

func (d *Duration) UnmarshalYAML(bs []byte) error {
	var s string
	if err := yaml.Unmarshal(bs, &s); err != nil {
		return err
	}
	val, err := time.ParseDuration(s)
	*d = Duration(val)
	return err
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// decode maps loosely typed configuration values onto a struct reusing
// the json tags, so structs do not need a second tag set.
func decode(input any, output any) error {
	config := &mapstructure.DecoderConfig{
		TagName:  "json",
		Metadata: nil,
		Result:   output,
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}
