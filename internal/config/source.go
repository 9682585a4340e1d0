package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Source contributes key/value pairs to the configuration fold. A source
// with nothing to offer (for example a missing file) returns an empty map.
type Source interface {
	Name() string
	Values() (map[string]string, error)
}

// DotenvFile reads KEY=VALUE pairs from a dotenv-formatted file. The file is
// optional: when it does not exist the source contributes nothing.
func DotenvFile(path string) Source { return dotenvFile{path: path} }

type dotenvFile struct{ path string }

func (f dotenvFile) Name() string { return f.path }

func (f dotenvFile) Values() (map[string]string, error) {
	vals, err := godotenv.Read(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return vals, nil
}

// ProcessEnv exposes the process environment. Empty values are treated as
// unset so that `PORT=` does not shadow a value from a file.
func ProcessEnv() Source { return processEnv{} }

type processEnv struct{}

func (processEnv) Name() string { return "environment" }

func (processEnv) Values() (map[string]string, error) {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || v == "" {
			continue
		}
		out[k] = v
	}
	return out, nil
}

// Static is a fixed set of values, handy for tests and for embedding
// deployment defaults that differ from the struct tag defaults.
func Static(name string, values map[string]string) Source {
	return static{name: name, values: values}
}

type static struct {
	name   string
	values map[string]string
}

func (s static) Name() string                       { return s.name }
func (s static) Values() (map[string]string, error) { return s.values, nil }

// DefaultSources returns the standard precedence, lowest first:
// .env, then app.env, then the process environment.
func DefaultSources() []Source {
	return []Source{DotenvFile(".env"), DotenvFile("app.env"), ProcessEnv()}
}

// Merge folds the sources left to right; a key set by a later source
// replaces the value from an earlier one.
func Merge(sources ...Source) (env.Map, error) {
	merged := env.Map{}
	for _, src := range sources {
		vals, err := src.Values()
		if err != nil {
			return nil, fmt.Errorf("config source %s: %w", src.Name(), err)
		}
		for k, v := range vals {
			merged[k] = v
		}
	}
	return merged, nil
}
