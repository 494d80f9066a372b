// Package dataset describes named, typed lists of values whose minimum is
// computed with a container.
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	yaml "gopkg.in/yaml.v3"

	"github.com/715d/mincontainer/pkg/container"
)

// Kind selects how dataset values are parsed and ordered.
type Kind string

const (
	// KindFloat orders values as float64. NaN sorts after every other
	// value, and -0 sorts before +0.
	KindFloat Kind = "float"

	// KindInt orders values as int64. Values use Go integer literal syntax,
	// so 0x, 0o and 0b prefixes and underscores are accepted and a leading
	// 0 means octal.
	KindInt Kind = "int"

	// KindString orders values lexicographically.
	KindString Kind = "string"
)

// Dataset is a named list of values of a single kind.
type Dataset struct {
	// Name identifies the dataset and must be unique within a file.
	Name string `yaml:"name"`

	// Label prefixes the printed minimum. Defaults to "Minimum <Name>".
	Label string `yaml:"label,omitempty"`

	// Kind is one of float, int or string.
	Kind Kind `yaml:"kind"`

	// Values are kept as raw text and parsed according to Kind.
	Values []string `yaml:"values"`
}

// file is the top-level document of a dataset file. Values are kept as
// nodes so null items are reported instead of being skipped by the decoder.
type file struct {
	Datasets []rawDataset `yaml:"datasets"`
}

type rawDataset struct {
	Name   string      `yaml:"name"`
	Label  string      `yaml:"label,omitempty"`
	Kind   Kind        `yaml:"kind"`
	Values []yaml.Node `yaml:"values"`
}

// Builtin returns the demonstration datasets.
func Builtin() []Dataset {
	return []Dataset{
		{
			Name:   "doubles",
			Label:  "Minimum Double",
			Kind:   KindFloat,
			Values: []string{"0.01", "-1.2", "3.14"},
		},
		{
			Name:   "strings",
			Label:  "Minimum String",
			Kind:   KindString,
			Values: []string{"anna", "apple", "carey"},
		},
	}
}

// Load reads and validates a dataset file.
func Load(path string) ([]Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML dataset document. Unknown fields are
// rejected.
func Parse(data []byte) ([]Dataset, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode datasets: %w", err)
	}

	datasets := make([]Dataset, 0, len(f.Datasets))
	seen := make(map[string]struct{}, len(f.Datasets))
	for i, raw := range f.Datasets {
		if raw.Name == "" {
			return nil, fmt.Errorf("dataset %d: missing name", i)
		}
		if _, dup := seen[raw.Name]; dup {
			return nil, fmt.Errorf("dataset %q: duplicate name", raw.Name)
		}
		seen[raw.Name] = struct{}{}

		if err := raw.Kind.validate(); err != nil {
			return nil, fmt.Errorf("dataset %q: %w", raw.Name, err)
		}
		values, err := scalarValues(raw.Values)
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", raw.Name, err)
		}

		ds := Dataset{
			Name:   raw.Name,
			Label:  raw.Label,
			Kind:   raw.Kind,
			Values: values,
		}
		if ds.Label == "" {
			ds.Label = "Minimum " + ds.Name
		}
		datasets = append(datasets, ds)
	}
	return datasets, nil
}

func scalarValues(nodes []yaml.Node) ([]string, error) {
	values := make([]string, 0, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		if n.Kind == yaml.AliasNode && n.Alias != nil {
			n = n.Alias
		}
		switch {
		case n.Kind != yaml.ScalarNode:
			return nil, fmt.Errorf("value %d: not a scalar", i)
		case n.ShortTag() == "!!null":
			return nil, fmt.Errorf("value %d: null", i)
		}
		values = append(values, n.Value)
	}
	return values, nil
}

func (k Kind) validate() error {
	switch k {
	case KindFloat, KindInt, KindString:
		return nil
	case "":
		return errors.New("missing kind")
	default:
		return fmt.Errorf("unknown kind %q", string(k))
	}
}

// Min parses the values, adds them to a container in order, and returns
// the formatted minimum. An empty dataset yields container.ErrEmpty.
func (d Dataset) Min() (string, error) {
	var (
		s   string
		err error
	)
	switch d.Kind {
	case KindFloat:
		s, err = minOf(d, container.NewFunc(compareFloat), func(v string) (float64, error) {
			return strconv.ParseFloat(v, 64)
		}, func(m float64) string {
			return strconv.FormatFloat(m, 'g', -1, 64)
		})
	case KindInt:
		s, err = minOf(d, container.NewOrdered[int64](), func(v string) (int64, error) {
			return strconv.ParseInt(v, 0, 64)
		}, func(m int64) string {
			return strconv.FormatInt(m, 10)
		})
	case KindString:
		s, err = minOf(d, container.NewOrdered[string](), func(v string) (string, error) {
			return v, nil
		}, func(m string) string {
			return m
		})
	default:
		err = d.Kind.validate()
	}
	if err != nil {
		return "", fmt.Errorf("dataset %q: %w", d.Name, err)
	}
	return s, nil
}

// compareFloat is a total order on float64: NaN is greater than every
// other value including +Inf, all NaNs are equal, and -0 is less than +0.
func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}

	// Numerically equal; only signed zeros still differ.
	aNeg, bNeg := math.Signbit(a), math.Signbit(b)
	switch {
	case aNeg == bNeg:
		return 0
	case aNeg:
		return -1
	default:
		return 1
	}
}

func minOf[T any](d Dataset, c *container.Container[T], parse func(string) (T, error), format func(T) string) (string, error) {
	for i, raw := range d.Values {
		v, err := parse(raw)
		if err != nil {
			return "", fmt.Errorf("value %d (%q): %w", i, raw, err)
		}
		c.Add(v)
	}

	m, err := c.FindMin()
	if err != nil {
		return "", err
	}
	return format(m), nil
}
