package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/hbjs97/nix-shell-wrapper/internal/nixexpr"
	"github.com/hbjs97/nix-shell-wrapper/internal/pathutil"
)

// EnvSystemFlake는 기본 패키지 scope를 제공하는 시스템 flake 경로 환경변수다.
const EnvSystemFlake = "NIX_SHELL_WRAPPER_FLAKE"

// BuildSystem은 빌드 시 -ldflags "-X .../internal/config.BuildSystem=x86_64-linux"로 주입되는 target triple이다.
var BuildSystem string

// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
var ErrConfig = errors.New("config error")

// Config는 nix-shell-wrapper 설정 파일의 최상위 구조체다.
type Config struct {
	Version     int               `toml:"version"`
	System      string            `toml:"system,omitempty"`
	SystemFlake string            `toml:"system_flake,omitempty"`
	Flakes      map[string]string `toml:"flakes,omitempty"`
}

// Default는 설정 파일이 없을 때 사용하는 기본 설정을 반환한다.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// DefaultPath는 기본 설정 파일 경로를 반환한다.
// $XDG_CONFIG_HOME이 있으면 우선하고, 없으면 ~/.config를 사용한다.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "nix-shell-wrapper", "config.toml")
}

// Load는 config.toml을 파싱하여 Config를 반환한다. 파일이 없으면 기본 설정을 반환한다.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config.Load: %w: %w", ErrConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save는 Config를 TOML 파일로 저장한다 (0600 권한).
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	return nil
}

// ResolveSystem은 생성되는 식에 들어갈 target triple을 반환한다.
// 설정 파일의 system, 빌드 시 주입된 값, 현재 플랫폼 순으로 결정한다.
func (c *Config) ResolveSystem() string {
	if c.System != "" {
		return c.System
	}
	if BuildSystem != "" {
		return BuildSystem
	}
	return HostSystem()
}

// ResolveSystemFlake는 시스템 flake 경로를 반환한다. 환경변수가 설정 파일보다 우선한다.
// 빈 값으로 설정된 환경변수는 설정되지 않은 것으로 본다 (builtins.getFlake ""는 평가되지 않는다).
// 결과가 빈 문자열이면 nixpkgs registry를 사용한다.
func (c *Config) ResolveSystemFlake(lookupEnv func(string) (string, bool)) string {
	if v, ok := lookupEnv(EnvSystemFlake); ok && v != "" {
		return v
	}
	return pathutil.ExpandHome(c.SystemFlake)
}

// NamedFlakes는 [flakes] 테이블을 이름순으로 정렬된 NamedFlake 목록으로 변환한다.
// 경로는 이 시점에 canonicalize된다.
func (c *Config) NamedFlakes() ([]nixexpr.NamedFlake, error) {
	names := make([]string, 0, len(c.Flakes))
	for name := range c.Flakes {
		names = append(names, name)
	}
	sort.Strings(names)

	flakes := make([]nixexpr.NamedFlake, 0, len(names))
	for _, name := range names {
		f, err := nixexpr.NewNamedFlake(name, c.Flakes[name])
		if err != nil {
			return nil, fmt.Errorf("config.NamedFlakes: flakes.%s: %w: %w", name, ErrConfig, err)
		}
		flakes = append(flakes, f)
	}
	return flakes, nil
}

// HostSystem은 현재 바이너리의 GOOS/GOARCH를 Nix system 문자열로 변환한다.
func HostSystem() string {
	arch := runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	case "386":
		arch = "i686"
	case "arm":
		arch = "armv7l"
	}
	return arch + "-" + runtime.GOOS
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
}

func (c *Config) validate() error {
	if c.Version != 1 {
		return fmt.Errorf("config.Load: %w: 지원하지 않는 version %d", ErrConfig, c.Version)
	}
	for name := range c.Flakes {
		if err := nixexpr.ValidateName(name); err != nil {
			return fmt.Errorf("config.Load: %w: flakes.%s: %w", ErrConfig, name, err)
		}
		if c.Flakes[name] == "" {
			return fmt.Errorf("config.Load: %w: flakes.%s 경로 필수", ErrConfig, name)
		}
	}
	return nil
}
