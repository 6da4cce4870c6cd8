package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/rxpool/pkg/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RXPOOL"

// Load reads the YAML file at path, if path is not empty, applies
// environment overrides on top of it and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read config file").
				WithDetail("path", path)
		}
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(substituteEnvVars(data))); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML").
				WithDetail("path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write config file").
			WithDetail("path", path)
	}
	return nil
}

// setDefaults registers every key so that AutomaticEnv can override keys
// the file does not mention.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.encoding", d.Log.Encoding)
	v.SetDefault("log.output_paths", d.Log.OutputPaths)

	v.SetDefault("pool.retries", d.Pool.Retries)

	v.SetDefault("regex.caseless", d.Regex.Caseless)
	v.SetDefault("regex.dotall", d.Regex.DotAll)
	v.SetDefault("regex.extended", d.Regex.Extended)
	v.SetDefault("regex.multi_line", d.Regex.MultiLine)
	v.SetDefault("regex.ungreedy", d.Regex.Ungreedy)
	v.SetDefault("regex.longest", d.Regex.Longest)

	v.SetDefault("scan.workers", d.Scan.Workers)
	v.SetDefault("scan.max_line_bytes", d.Scan.MaxLineBytes)
	v.SetDefault("scan.compression", d.Scan.Compression)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.addr", d.Metrics.Addr)

	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("tracing.service_version", d.Tracing.ServiceVersion)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.sampling_rate", d.Tracing.SamplingRate)
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content []byte) []byte {
	var out bytes.Buffer
	rest := content
	for {
		start := bytes.Index(rest, []byte("${"))
		if start == -1 {
			break
		}
		end := bytes.IndexByte(rest[start:], '}')
		if end == -1 {
			break
		}
		end += start

		out.Write(rest[:start])
		out.WriteString(os.Getenv(string(rest[start+2 : end])))
		rest = rest[end+1:]
	}
	out.Write(rest)
	return out.Bytes()
}
