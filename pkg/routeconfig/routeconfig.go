// Package routeconfig loads declarative route tables from YAML or JSON
// files. Loaded definitions carry names, paths, titles, default parameters
// and forwards; guards and hooks are attached in code after loading.
package routeconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/riogod/router-sub000/internal/errors"
	"github.com/riogod/router-sub000/pkg/routetree"
)

// Route is one declarative route entry.
type Route struct {
	// Name is the route's segment name.
	Name string `yaml:"name" json:"name"`

	// Path is the route's URL pattern.
	Path string `yaml:"path" json:"path"`

	// ForwardTo statically rewrites this route name to another.
	ForwardTo string `yaml:"forwardTo,omitempty" json:"forwardTo,omitempty"`

	// RedirectToFirstAllowed descends into the first child whose
	// activation guard allows entry.
	RedirectToFirstAllowed bool `yaml:"redirectToFirstAllowed,omitempty" json:"redirectToFirstAllowed,omitempty"`

	// Title is the browser title for this segment.
	Title string `yaml:"title,omitempty" json:"title,omitempty"`

	// DefaultParams are merged into build parameters for this segment.
	DefaultParams map[string]string `yaml:"defaultParams,omitempty" json:"defaultParams,omitempty"`

	// Extra carries custom properties.
	Extra map[string]any `yaml:"extra,omitempty" json:"extra,omitempty"`

	Children []Route `yaml:"children,omitempty" json:"children,omitempty"`
}

// File is the top-level route table document.
type File struct {
	Routes []Route `yaml:"routes" json:"routes"`
}

// Load reads a route table from a file. The format is chosen by extension:
// .json is decoded as JSON, everything else as YAML.
func Load(path string) ([]routetree.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf(errors.CategoryConfig, "read route table %s: %v", path, err).Wrap(err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a YAML route table.
func ParseYAML(data []byte) ([]routetree.Definition, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Newf(errors.CategoryConfig, "decode route table: %v", err).Wrap(err)
	}
	return convert(file.Routes, "")
}

// ParseJSON decodes a JSON route table.
func ParseJSON(data []byte) ([]routetree.Definition, error) {
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Newf(errors.CategoryConfig, "decode route table: %v", err).Wrap(err)
	}
	return convert(file.Routes, "")
}

func convert(routes []Route, parent string) ([]routetree.Definition, error) {
	defs := make([]routetree.Definition, 0, len(routes))
	for _, route := range routes {
		full := route.Name
		if parent != "" {
			full = parent + "." + route.Name
		}
		if route.Name == "" {
			return nil, errors.Newf(errors.CategoryConfig,
				"route with path %q under %q has no name", route.Path, parent)
		}
		if route.Path == "" {
			return nil, errors.Newf(errors.CategoryConfig,
				"route %q has no path", full)
		}

		def := routetree.Definition{
			Name:                   route.Name,
			Path:                   route.Path,
			ForwardTo:              route.ForwardTo,
			RedirectToFirstAllowed: route.RedirectToFirstAllowed,
			Title:                  route.Title,
			Extra:                  route.Extra,
		}
		if len(route.DefaultParams) > 0 {
			def.DefaultParams = routetree.Params(route.DefaultParams)
		}

		children, err := convert(route.Children, full)
		if err != nil {
			return nil, err
		}
		def.Children = children
		defs = append(defs, def)
	}
	return defs, nil
}
