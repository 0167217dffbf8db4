// Package content holds the portfolio documents the workspace can open by path.
package content

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogFile []byte

// Document is a single portfolio file.
type Document struct {
	Path     string `yaml:"path"`
	Title    string `yaml:"title"`
	Language string `yaml:"language"`
	Content  string `yaml:"content"`
}

// Catalog is an ordered, path-indexed set of documents.
type Catalog struct {
	docs  []Document
	index map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog. The YAML is parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogFile)
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for callers that treat a broken embed as fatal.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from YAML. Paths must be unique and non-empty.
func Parse(data []byte) (*Catalog, error) {
	var file struct {
		Documents []Document `yaml:"documents"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	c := &Catalog{index: make(map[string]int, len(file.Documents))}
	for _, doc := range file.Documents {
		if doc.Path == "" {
			return nil, fmt.Errorf("catalog document %d has no path", len(c.docs))
		}
		if _, dup := c.index[doc.Path]; dup {
			return nil, fmt.Errorf("duplicate catalog path: %s", doc.Path)
		}
		if doc.Language == "" {
			doc.Language = "markdown"
		}
		c.index[doc.Path] = len(c.docs)
		c.docs = append(c.docs, doc)
	}
	return c, nil
}

// Lookup returns the document stored at path.
func (c *Catalog) Lookup(path string) (Document, bool) {
	i, ok := c.index[path]
	if !ok {
		return Document{}, false
	}
	return c.docs[i], true
}

// Paths lists document paths in catalog order.
func (c *Catalog) Paths() []string {
	paths := make([]string, len(c.docs))
	for i, d := range c.docs {
		paths[i] = d.Path
	}
	return paths
}
