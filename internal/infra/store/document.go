// Package store reads relay pools from disk and writes selected outputs.
// It owns the document contract: a relay configuration file is an opaque
// keyed TOML document of which relaypick only ever touches three keys.
package store

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// InterfaceSection is the one section whose keys relaypick may override.
const InterfaceSection = "interface"

// Well-known keys under InterfaceSection.
const (
	KeyAddress    = "address"
	KeyDNS        = "dns"
	KeyPrivateKey = "private_key"
)

// Document is a mutable keyed relay configuration. Sections and keys that
// relaypick does not understand pass through untouched.
type Document struct {
	data map[string]any
}

// ReadDocument loads a relay configuration file.
func ReadDocument(path string) (*Document, error) {
	data := make(map[string]any)
	if _, err := toml.DecodeFile(path, &data); err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}
	return &Document{data: data}, nil
}

// Set assigns a key under a section, creating the section if needed.
func (d *Document) Set(section, key string, value any) {
	sec, ok := d.data[section].(map[string]any)
	if !ok {
		sec = make(map[string]any)
		d.data[section] = sec
	}
	sec[key] = value
}

// Get returns a key under a section, or nil when absent.
func (d *Document) Get(section, key string) any {
	sec, ok := d.data[section].(map[string]any)
	if !ok {
		return nil
	}
	return sec[key]
}

// WriteTo encodes the document as TOML. The encoder sorts map keys, so
// output bytes are deterministic for a given document.
func (d *Document) WriteTo(w io.Writer) error {
	return toml.NewEncoder(w).Encode(d.data)
}

// WriteFile writes the document to path, creating or truncating it.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := d.WriteTo(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
