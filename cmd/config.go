package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/NHSDigital/im1-pfs-auth/lib/otel"
	"github.com/NHSDigital/im1-pfs-auth/sandbox"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

type Config struct {
	// Public holds the configuration for the public interface.
	Public InterfaceConfig `koanf:"public"`
	// Suppliers holds the destination registration for the supplier clients.
	Suppliers SuppliersConfig `koanf:"suppliers"`
	// Sandbox holds the configuration for the local supplier stub.
	Sandbox  sandbox.Config `koanf:"sandbox"`
	LogLevel zerolog.Level  `koanf:"loglevel"`
	// OpenTelemetry holds the configuration for observability.
	OpenTelemetry otel.Config `koanf:"opentelemetry"`
}

func (c Config) Validate() error {
	if c.Public.Address == "" {
		return errors.New("public address is not configured")
	}
	if err := c.Suppliers.Validate(); err != nil {
		return err
	}
	if err := c.OpenTelemetry.Validate(); err != nil {
		return fmt.Errorf("invalid OpenTelemetry configuration: %w", err)
	}
	return nil
}

// InterfaceConfig holds the configuration for an HTTP interface.
type InterfaceConfig struct {
	// Address holds the address to listen on.
	Address string `koanf:"address"`
}

// SuppliersConfig registers each supplier client under the destination URL
// inbound requests select it by. The set of suppliers is closed; only the
// destinations are configurable.
type SuppliersConfig struct {
	EMIS DestinationConfig `koanf:"emis"`
	TPP  DestinationConfig `koanf:"tpp"`
}

func (c SuppliersConfig) Validate() error {
	for name, destination := range map[string]DestinationConfig{"emis": c.EMIS, "tpp": c.TPP} {
		if err := destination.Validate(); err != nil {
			return fmt.Errorf("invalid %s supplier configuration: %w", name, err)
		}
	}
	if c.EMIS.URL == c.TPP.URL {
		return errors.New("supplier destination URLs must be distinct")
	}
	return nil
}

type DestinationConfig struct {
	// URL is the exact destination the supplier is registered under; inbound
	// X-Forward-To values are matched against it verbatim.
	URL string `koanf:"url"`
}

func (c DestinationConfig) Validate() error {
	if c.URL == "" {
		return errors.New("destination URL is not configured")
	}
	parsed, err := url.Parse(c.URL)
	if err != nil || parsed.Scheme != "https" {
		return fmt.Errorf("destination URL must be https: %s", c.URL)
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Public:   InterfaceConfig{Address: ":8080"},
		LogLevel: zerolog.InfoLevel,
		Suppliers: SuppliersConfig{
			EMIS: DestinationConfig{URL: "https://emis.com"},
			TPP:  DestinationConfig{URL: "https://tpp.com"},
		},
		OpenTelemetry: otel.DefaultConfig(),
	}
}

// LoadConfig loads the configuration from the environment.
func LoadConfig() (*Config, error) {
	result := DefaultConfig()
	if err := loadConfigInto(&result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func loadConfigInto(target any) error {
	k := koanf.New(".")
	err := k.Load(env.ProviderWithValue("PFSAUTH_", ".", func(key string, value string) (string, interface{}) {
		key = strings.Replace(strings.ToLower(strings.TrimPrefix(key, "PFSAUTH_")), "_", ".", -1)
		if len(value) == 0 {
			return key, nil
		}
		sliceValues := splitWithEscaping(value, ",", "\\")
		for i, s := range sliceValues {
			sliceValues[i] = strings.TrimSpace(s)
		}
		var parsedValue any = sliceValues
		if len(sliceValues) == 1 {
			parsedValue = sliceValues[0]
		}
		return key, parsedValue
	}), nil)
	if err != nil {
		return err
	}
	return k.Unmarshal("", target)
}

func splitWithEscaping(s, separator, escape string) []string {
	s = strings.ReplaceAll(s, escape+separator, "\x00")
	tokens := strings.Split(s, separator)
	for i, token := range tokens {
		tokens[i] = strings.ReplaceAll(token, "\x00", separator)
	}
	return tokens
}
