package main

import (
	"io/ioutil"
	"strconv"

	"github.com/bodgit/furcmap/header"
	"gopkg.in/yaml.v3"
)

type config struct {
	Database string   `yaml:"database"`
	Defaults defaults `yaml:"defaults"`
}

// Header values applied to every map created with the new command
type defaults struct {
	Name         string          `yaml:"name"`
	Rating       string          `yaml:"rating"`
	Patch        string          `yaml:"patch"`
	PatchArchive string          `yaml:"patch_archive"`
	Flags        map[string]bool `yaml:"flags"`
}

func loadConfig(path string) (*config, error) {
	cfg := new(config)
	if path == "" {
		return cfg, nil
	}

	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Expressed as header key/value pairs so the usual header rules apply
func (d defaults) values() (map[string]string, error) {
	values := make(map[string]string)
	for k, v := range d.Flags {
		if v {
			values[k] = "1"
		} else {
			values[k] = "0"
		}
	}

	for k, v := range map[string]string{
		"name":   d.Name,
		"rating": d.Rating,
		"patchs": d.PatchArchive,
	} {
		if v != "" {
			values[k] = v
		}
	}

	if d.Patch != "" {
		p, err := header.ParsePatchSetting(d.Patch)
		if err != nil {
			return nil, err
		}
		values["patcht"] = strconv.Itoa(int(p))
	}

	return values, nil
}

func (d defaults) apply(h *header.Header) error {
	values, err := d.values()
	if err != nil {
		return err
	}
	return h.Apply(values)
}
