// Package config provides Viper-based configuration loading for the mech bot.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// TelnetConfig holds Telnet chat transport settings.
type TelnetConfig struct {
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener. 0 disables the transport.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// MaxSessions caps concurrent Telnet participants. 0 means no cap.
	MaxSessions int `mapstructure:"max_sessions"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// Enabled reports whether the Telnet transport should be started.
func (t TelnetConfig) Enabled() bool {
	return t.Port != 0
}

// WebSocketConfig holds WebSocket chat transport settings.
type WebSocketConfig struct {
	Host string `mapstructure:"host"`
	// Port is the HTTP port serving the upgrade endpoint. 0 disables the transport.
	Port int    `mapstructure:"port"`
	Path string `mapstructure:"path"`
}

// Addr returns the "host:port" listen address.
func (w WebSocketConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// Enabled reports whether the WebSocket transport should be started.
func (w WebSocketConfig) Enabled() bool {
	return w.Port != 0
}

// BroadcastConfig selects how outbound lines reach chat participants.
type BroadcastConfig struct {
	// Mode is "local" (in-process hub) or "nats" (embedded NATS server).
	Mode     string `mapstructure:"mode"`
	NatsHost string `mapstructure:"nats_host"`
	// NatsPort is the embedded NATS server port; -1 picks a random free port.
	NatsPort int `mapstructure:"nats_port"`
	// Subject is the NATS subject the shared room publishes on.
	Subject string `mapstructure:"subject"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds simulation and content settings.
type GameConfig struct {
	// TickInterval is the wall-clock period between world ticks.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// TicksPerSecond converts cooldowns expressed in seconds into ticks. It
	// must equal one second divided by TickInterval.
	TicksPerSecond int `mapstructure:"ticks_per_second"`
	// ContentFile is the YAML file holding rooms, connections, and enemies.
	ContentFile string `mapstructure:"content_file"`
	// ScriptDir holds Lua scripts for scripted enemies. Empty disables scripting.
	ScriptDir string `mapstructure:"script_dir"`
	// RobotName overrides the mech's display name from the content file.
	RobotName string `mapstructure:"robot_name"`
	// ImageBaseURL prefixes enemy arrival images. Empty disables them.
	ImageBaseURL string `mapstructure:"image_base_url"`
	// ReplyUnknown makes unrecognized commands answer instead of staying silent.
	ReplyUnknown bool `mapstructure:"reply_unknown"`
	// RepairPerLevel is the mech health restored per level of the repairing pilot.
	RepairPerLevel int `mapstructure:"repair_per_level"`
	// RepairSeconds is how long a repair takes to complete.
	RepairSeconds int `mapstructure:"repair_seconds"`
	// WrapWidth is the column width outbound Telnet lines are wrapped to.
	WrapWidth int `mapstructure:"wrap_width"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telnet    TelnetConfig    `mapstructure:"telnet"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	Game      GameConfig      `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTelnet(c.Telnet); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateWebSocket(c.WebSocket); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBroadcast(c.Broadcast); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	var errs []string
	if t.Port < 0 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 0-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if t.MaxSessions < 0 {
		errs = append(errs, fmt.Sprintf("telnet.max_sessions must be >= 0, got %d", t.MaxSessions))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWebSocket(w WebSocketConfig) error {
	var errs []string
	if w.Port < 0 || w.Port > 65535 {
		errs = append(errs, fmt.Sprintf("websocket.port must be 0-65535, got %d", w.Port))
	}
	if w.Enabled() && !strings.HasPrefix(w.Path, "/") {
		errs = append(errs, fmt.Sprintf("websocket.path must start with '/', got %q", w.Path))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBroadcast(b BroadcastConfig) error {
	switch b.Mode {
	case "local":
		return nil
	case "nats":
		var errs []string
		if b.NatsHost == "" {
			errs = append(errs, "broadcast.nats_host must not be empty")
		}
		if b.NatsPort < -1 || b.NatsPort > 65535 {
			errs = append(errs, fmt.Sprintf("broadcast.nats_port must be -1-65535, got %d", b.NatsPort))
		}
		if b.Subject == "" {
			errs = append(errs, "broadcast.subject must not be empty")
		}
		if len(errs) > 0 {
			return fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		return nil
	default:
		return fmt.Errorf("broadcast.mode must be one of [local, nats], got %q", b.Mode)
	}
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("game.tick_interval must be > 0, got %s", g.TickInterval))
	}
	if g.TicksPerSecond < 1 {
		errs = append(errs, fmt.Sprintf("game.ticks_per_second must be >= 1, got %d", g.TicksPerSecond))
	}
	if g.TickInterval > 0 && g.TicksPerSecond >= 1 && time.Duration(g.TicksPerSecond)*g.TickInterval != time.Second {
		errs = append(errs, fmt.Sprintf("game.ticks_per_second must equal 1s / game.tick_interval, got %d ticks of %s",
			g.TicksPerSecond, g.TickInterval))
	}
	if g.ContentFile == "" {
		errs = append(errs, "game.content_file must not be empty")
	}
	if g.RepairPerLevel < 1 {
		errs = append(errs, fmt.Sprintf("game.repair_per_level must be >= 1, got %d", g.RepairPerLevel))
	}
	if g.RepairSeconds < 0 {
		errs = append(errs, fmt.Sprintf("game.repair_seconds must be >= 0, got %d", g.RepairSeconds))
	}
	if g.WrapWidth < 0 {
		errs = append(errs, fmt.Sprintf("game.wrap_width must be >= 0, got %d", g.WrapWidth))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with MECH_ prefix
	v.SetEnvPrefix("MECH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the built-in defaults.
//
// Postcondition: LoadFromViper(Defaults()) succeeds.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "30m")
	v.SetDefault("telnet.write_timeout", "30s")
	v.SetDefault("telnet.max_sessions", 32)

	v.SetDefault("websocket.host", "0.0.0.0")
	v.SetDefault("websocket.port", 0)
	v.SetDefault("websocket.path", "/chat")

	v.SetDefault("broadcast.mode", "local")
	v.SetDefault("broadcast.nats_host", "127.0.0.1")
	v.SetDefault("broadcast.nats_port", -1)
	v.SetDefault("broadcast.subject", "mech.room")

	v.SetDefault("game.tick_interval", "100ms")
	v.SetDefault("game.ticks_per_second", 10)
	v.SetDefault("game.content_file", "content/world.yaml")
	v.SetDefault("game.script_dir", "content/scripts")
	v.SetDefault("game.robot_name", "")
	v.SetDefault("game.image_base_url", "")
	v.SetDefault("game.reply_unknown", false)
	v.SetDefault("game.repair_per_level", 10)
	v.SetDefault("game.repair_seconds", 5)
	v.SetDefault("game.wrap_width", 80)
}
