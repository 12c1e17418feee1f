package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Source looks a key up in one place. ok is false when the key is absent.
type Source func(key string) (value string, ok bool)

// Resolver tries its sources in order and returns the first non-empty value.
type Resolver struct {
	sources []Source
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// Lookup returns the first non-blank value for key, or def.
func (r *Resolver) Lookup(key, def string) string {
	for _, src := range r.sources {
		if src == nil {
			continue
		}
		if v, ok := src(key); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return def
}

// BuildValues is set at link time, e.g.
// -ldflags "-X github.com/xavierca1/garage-leads/internal/config.BuildValues=BOOKING_BASE_URL=https://...;LOG_LEVEL=info".
var BuildValues string

// BuildSource parses "KEY=VALUE;KEY2=VALUE2".
func BuildSource(raw string) Source {
	values := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		k, v, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		values[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return MapSource(values)
}

func EnvSource() Source {
	return os.LookupEnv
}

// DotEnvSource reads a .env file once. A missing file yields an empty source.
func DotEnvSource(path string) Source {
	values, err := godotenv.Read(path)
	if err != nil {
		values = map[string]string{}
	}
	return MapSource(values)
}

func MapSource(values map[string]string) Source {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// DefaultResolver checks build-time values, then the process environment,
// then the .env file in the working directory.
func DefaultResolver() *Resolver {
	return NewResolver(BuildSource(BuildValues), EnvSource(), DotEnvSource(".env"))
}
