package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidCatalog = errors.New("invalid content catalog")

type Service struct {
	Slug    string   `yaml:"slug" json:"slug"`
	Title   string   `yaml:"title" json:"title"`
	Summary string   `yaml:"summary" json:"summary"`
	Body    string   `yaml:"body" json:"body"`
	Tags    []string `yaml:"tags" json:"tags,omitempty"`
}

type Location struct {
	Slug    string `yaml:"slug" json:"slug"`
	Title   string `yaml:"title" json:"title"`
	City    string `yaml:"city" json:"city"`
	Region  string `yaml:"region" json:"region"`
	Summary string `yaml:"summary" json:"summary"`
	Body    string `yaml:"body" json:"body"`
}

// Catalog is the read-only set of services and locations shown on the site.
type Catalog struct {
	Services  []Service  `yaml:"services"`
	Locations []Location `yaml:"locations"`

	servicesBySlug  map[string]*Service
	locationsBySlug map[string]*Location
}

func EmptyCatalog() *Catalog {
	c := &Catalog{}
	_ = c.index()
	return c
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a YAML catalog. Unknown fields are rejected.
func Parse(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	c := &Catalog{}
	if len(bytes.TrimSpace(data)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
		}
	}

	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index() error {
	c.servicesBySlug = make(map[string]*Service, len(c.Services))
	c.locationsBySlug = make(map[string]*Location, len(c.Locations))
	if c.Services == nil {
		c.Services = []Service{}
	}
	if c.Locations == nil {
		c.Locations = []Location{}
	}

	for i := range c.Services {
		s := &c.Services[i]
		if err := checkEntry("service", i, s.Slug, s.Title); err != nil {
			return err
		}
		if _, ok := c.servicesBySlug[s.Slug]; ok {
			return fmt.Errorf("%w: duplicate service slug [%s]", ErrInvalidCatalog, s.Slug)
		}
		c.servicesBySlug[s.Slug] = s
	}

	for i := range c.Locations {
		l := &c.Locations[i]
		if err := checkEntry("location", i, l.Slug, l.Title); err != nil {
			return err
		}
		if _, ok := c.locationsBySlug[l.Slug]; ok {
			return fmt.Errorf("%w: duplicate location slug [%s]", ErrInvalidCatalog, l.Slug)
		}
		c.locationsBySlug[l.Slug] = l
	}

	return nil
}

func checkEntry(kind string, i int, slug, title string) error {
	if slug == "" || strings.TrimSpace(slug) != slug || strings.ContainsAny(slug, "/ ") {
		return fmt.Errorf("%w: %s #%d has an invalid slug [%s]", ErrInvalidCatalog, kind, i+1, slug)
	}
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: %s [%s] has no title", ErrInvalidCatalog, kind, slug)
	}
	return nil
}

func (c *Catalog) Service(slug string) (*Service, bool) {
	s, ok := c.servicesBySlug[slug]
	return s, ok
}

func (c *Catalog) Location(slug string) (*Location, bool) {
	l, ok := c.locationsBySlug[slug]
	return l, ok
}
