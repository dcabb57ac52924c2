package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv overlays a .env file (if present) onto the process
// environment. It is a convenience over exporting shell variables, never a
// silent config source of its own — missing .env is not an error.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// envKey builds the PMMS_<SECTION>_<KEY> name for one setting.
func envKey(section, key string) string {
	return "PMMS_" + section + "_" + key
}

func applyEnvOverlay(cfg *Config) error {
	type intField struct {
		section, key string
		dst          *int
	}
	type boolField struct {
		section, key string
		dst          *bool
	}
	type stringField struct {
		section, key string
		dst          *string
	}

	ints := []intField{
		{"COMMON", "TIME_OUT_SECONDS", &cfg.Common.TimeOutSeconds},
		{"COMMON", "PORT", &cfg.Common.Port},
		{"COMMON", "MAX_CONNECTION_PER_THREAD", &cfg.Common.MaxConnectionPerThread},
		{"COMMON", "THREAD", &cfg.Common.Thread},
		{"COMMON", "MAX_ROOM_COUNT", &cfg.Common.MaxRoomCount},
		{"COMMON", "MAX_PLAYER_PER_ROOM", &cfg.Common.MaxPlayerPerRoom},
		{"CONNECTION_TEST", "CONNECTION_CHECK_TCP_TIME_OUT_SECONDS", &cfg.ConnectionTest.ConnectionCheckTCPTimeOutSeconds},
		{"CONNECTION_TEST", "CONNECTION_CHECK_UDP_TIME_OUT_SECONDS", &cfg.ConnectionTest.ConnectionCheckUDPTimeOutSeconds},
		{"CONNECTION_TEST", "CONNECTION_CHECK_UDP_TRY_COUNT", &cfg.ConnectionTest.ConnectionCheckUDPTryCount},
	}
	bools := []boolField{
		{"AUTHENTICATION", "ENABLE_GAME_VERSION_CHECK", &cfg.Authentication.EnableGameVersionCheck},
		{"LOG", "ENABLE_CONSOLE_LOG", &cfg.Log.EnableConsoleLog},
		{"LOG", "ENABLE_FILE_LOG", &cfg.Log.EnableFileLog},
		{"ADMIN_HTTP", "ENABLED", &cfg.AdminHTTP.Enabled},
	}
	strs := []stringField{
		{"COMMON", "IP_VERSION", &cfg.Common.IPVersion},
		{"AUTHENTICATION", "GAME_ID", &cfg.Authentication.GameID},
		{"AUTHENTICATION", "GAME_VERSION", &cfg.Authentication.GameVersion},
		{"LOG", "CONSOLE_LOG_LEVEL", &cfg.Log.ConsoleLogLevel},
		{"LOG", "FILE_LOG_LEVEL", &cfg.Log.FileLogLevel},
		{"LOG", "FILE_LOG_PATH", &cfg.Log.FileLogPath},
		{"ADMIN_HTTP", "ADDR", &cfg.AdminHTTP.Addr},
	}

	for _, f := range ints {
		raw, ok := os.LookupEnv(envKey(f.section, f.key))
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: %s: invalid integer %q: %w", envKey(f.section, f.key), raw, err)
		}
		*f.dst = v
	}
	for _, f := range bools {
		raw, ok := os.LookupEnv(envKey(f.section, f.key))
		if !ok {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("config: %s: invalid boolean %q: %w", envKey(f.section, f.key), raw, err)
		}
		*f.dst = v
	}
	for _, f := range strs {
		raw, ok := os.LookupEnv(envKey(f.section, f.key))
		if !ok {
			continue
		}
		*f.dst = raw
	}
	return nil
}
