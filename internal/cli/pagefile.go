package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/pagekit/pkg/locate"
	"github.com/entrhq/pagekit/pkg/web"
)

// PageFile is a page description read from YAML:
//
//	name: Login
//	uri: /login
//	baseUrl: http://localhost:8080
//	elements:
//	  - name: user
//	    find: id=user
//	  - name: banner
//	    findAny: css=.banner;id=banner
//	    optional: true
//	  - name: rows
//	    findChain: id=results;class=row
//	    list: true
type PageFile struct {
	Name     string        `yaml:"name"`
	URI      string        `yaml:"uri"`
	BaseURL  string        `yaml:"baseUrl"`
	Regex    string        `yaml:"regex"`
	Verify   *bool         `yaml:"verify"`
	Elements []ElementSpec `yaml:"elements"`
}

// ElementSpec declares one element with exactly one locator key.
type ElementSpec struct {
	Name      string `yaml:"name"`
	Find      string `yaml:"find"`
	FindAny   string `yaml:"findAny"`
	FindChain string `yaml:"findChain"`
	Optional  bool   `yaml:"optional"`
	List      bool   `yaml:"list"`
}

// LoadPageFile reads and validates a page description.
func LoadPageFile(path string) (*PageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page file: %w", err)
	}
	pf, err := ParsePageFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pf, nil
}

// ParsePageFile decodes a page description. Unknown keys are rejected.
func ParsePageFile(data []byte) (*PageFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var pf PageFile
	if err := dec.Decode(&pf); err != nil {
		return nil, fmt.Errorf("failed to parse page file: %w", err)
	}
	if pf.Name == "" {
		pf.Name = "page"
	}
	seen := make(map[string]bool, len(pf.Elements))
	for i, el := range pf.Elements {
		if el.Name == "" {
			return nil, fmt.Errorf("element %d has no name", i+1)
		}
		if seen[el.Name] {
			return nil, fmt.Errorf("element %q declared twice", el.Name)
		}
		seen[el.Name] = true
		if _, err := el.Locator(); err != nil {
			return nil, fmt.Errorf("element %q: %w", el.Name, err)
		}
	}
	return &pf, nil
}

var errLocatorCount = errors.New("exactly one of find, findAny and findChain is required")

// Locator builds the element locator.
func (s ElementSpec) Locator() (locate.Locator, error) {
	set := 0
	for _, v := range []string{s.Find, s.FindAny, s.FindChain} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set != 1 {
		return nil, errLocatorCount
	}

	switch {
	case s.Find != "":
		return locate.Parse(s.Find)
	case s.FindAny != "":
		locs, err := locate.ParseList(s.FindAny)
		if err != nil {
			return nil, err
		}
		return locate.AnyOf(locs...), nil
	default:
		locs, err := locate.ParseList(s.FindChain)
		if err != nil {
			return nil, err
		}
		return locate.Chained(locs...), nil
	}
}

// Options returns the page options the description sets.
func (p *PageFile) Options() []web.PageOption {
	var opts []web.PageOption
	if p.URI != "" {
		opts = append(opts, web.WithURI(p.URI))
	}
	if p.BaseURL != "" {
		opts = append(opts, web.WithBaseURL(p.BaseURL))
	}
	if p.Regex != "" {
		opts = append(opts, web.WithRegex(p.Regex))
	}
	if p.Verify != nil {
		opts = append(opts, web.WithVerify(*p.Verify))
	}
	return opts
}
