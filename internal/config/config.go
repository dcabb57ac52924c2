// Package config loads and validates server settings from a JSON file
// overlaid with PMMS_<SECTION>_<KEY> environment variables (env always
// wins for any individually-set key), per the configuration surface
// described for this server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Common holds the top-level connection and capacity settings.
type Common struct {
	TimeOutSeconds         int    `json:"time_out_seconds"`
	IPVersion              string `json:"ip_version"`
	Port                   int    `json:"port"`
	MaxConnectionPerThread int    `json:"max_connection_per_thread"`
	Thread                 int    `json:"thread"`
	MaxRoomCount           int    `json:"max_room_count"`
	MaxPlayerPerRoom       int    `json:"max_player_per_room"`
}

// Authentication holds the game-identity check settings.
type Authentication struct {
	GameID                 string `json:"game_id"`
	EnableGameVersionCheck bool   `json:"enable_game_version_check"`
	GameVersion            string `json:"game_version"`
}

// Log holds the logging sink settings.
type Log struct {
	EnableConsoleLog bool   `json:"enable_console_log"`
	ConsoleLogLevel  string `json:"console_log_level"`
	EnableFileLog    bool   `json:"enable_file_log"`
	FileLogLevel     string `json:"file_log_level"`
	FileLogPath      string `json:"file_log_path"`
}

// ConnectionTest holds the host-connectivity probe settings.
type ConnectionTest struct {
	ConnectionCheckTCPTimeOutSeconds int `json:"connection_check_tcp_time_out_seconds"`
	ConnectionCheckUDPTimeOutSeconds int `json:"connection_check_udp_time_out_seconds"`
	ConnectionCheckUDPTryCount       int `json:"connection_check_udp_try_count"`
}

// AdminHTTP holds the read-only operator HTTP surface settings. This
// listener is separate from Common.Port: it never touches the wire
// protocol, only in-memory snapshots for humans.
type AdminHTTP struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// Config is the full settings tree.
type Config struct {
	Common         Common         `json:"common"`
	Authentication Authentication `json:"authentication"`
	Log            Log            `json:"log"`
	ConnectionTest ConnectionTest `json:"connection_test"`
	AdminHTTP      AdminHTTP      `json:"admin_http"`
}

// Default returns the config with every documented default applied.
func Default() Config {
	return Config{
		Common: Common{
			TimeOutSeconds:         300,
			IPVersion:              "v4",
			Port:                   57000,
			MaxConnectionPerThread: 1000,
			Thread:                 1,
			MaxRoomCount:           1000,
			MaxPlayerPerRoom:       16,
		},
		Log: Log{
			ConsoleLogLevel: "info",
			FileLogLevel:    "info",
		},
		ConnectionTest: ConnectionTest{
			ConnectionCheckTCPTimeOutSeconds: 5,
			ConnectionCheckUDPTimeOutSeconds: 3,
			ConnectionCheckUDPTryCount:       3,
		},
		AdminHTTP: AdminHTTP{
			Enabled: true,
			Addr:    "127.0.0.1:57001",
		},
	}
}

// Load reads path (if non-empty) as a JSON overlay onto Default(), then
// applies the PMMS_<SECTION>_<KEY> environment overlay, then validates the
// result. An empty path skips the file step entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	if err := applyEnvOverlay(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
