package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	DefaultDirName = ".aibarnes"
	DefaultEnvVar  = "CLAUDE_API_KEY"
	FileName       = "config.json"

	// SecretKey is the only field of the credential file this tool reads or writes.
	SecretKey = "claude_api_key"
)

type Config struct {
	Dir    string `json:"dir" yaml:"dir"`       // directory holding config.json
	EnvVar string `json:"envVar" yaml:"envVar"` // environment variable consulted when the file has no secret
}

// DefaultConfig points at $HOME/.aibarnes and CLAUDE_API_KEY.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to detect home directory")
	}
	return Config{
		Dir:    filepath.Join(home, DefaultDirName),
		EnvVar: DefaultEnvVar,
	}, nil
}

type Store struct {
	cfg Config
}

func NewStore(cfg Config) *Store {
	cfg.EnvVar = lo.Ternary(cfg.EnvVar == "", DefaultEnvVar, cfg.EnvVar)
	return &Store{cfg: cfg}
}

func (s *Store) Dir() string {
	return s.cfg.Dir
}

func (s *Store) Path() string {
	return filepath.Join(s.cfg.Dir, FileName)
}

// Save replaces the whole credential file with the given secret.
func (s *Store) Save(secret string) error {
	if err := os.MkdirAll(s.cfg.Dir, 0o700); err != nil {
		return errors.Wrapf(err, "failed to create config dir %q", s.cfg.Dir)
	}
	data, err := json.MarshalIndent(map[string]string{SecretKey: secret}, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to marshal config")
	}
	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write config to %s", s.Path())
	}
	return nil
}

// Load returns an empty map when the file does not exist.
func (s *Store) Load() (map[string]any, error) {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", s.Path())
	}
	res := map[string]any{}
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config %s", s.Path())
	}
	return res, nil
}

// Secret resolves the credential: file first, then the environment.
// A missing credential is reported with ok=false, not as an error.
func (s *Store) Secret() (string, bool, error) {
	cfg, err := s.Load()
	if err != nil {
		return "", false, err
	}
	fromFile, _ := cfg[SecretKey].(string)
	secret := lo.CoalesceOrEmpty(fromFile, os.Getenv(s.cfg.EnvVar))
	return secret, secret != "", nil
}

// Mask keeps the first 8 and last 4 characters of long secrets.
func Mask(secret string) string {
	chars := []rune(secret)
	if len(chars) <= 12 {
		return "***"
	}
	return string(chars[:8]) + "..." + string(chars[len(chars)-4:])
}
