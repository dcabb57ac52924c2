package config

import "fmt"

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warning": true, "error": true, "fatal": true,
}

// Validate checks every field's declared range and cross-field
// requirement, returning the first violation found. Any out-of-range or
// unparseable value is a startup fault.
func (c Config) Validate() error {
	if c.Common.TimeOutSeconds < 1 || c.Common.TimeOutSeconds > 3600 {
		return fmt.Errorf("config: common.time_out_seconds %d out of range [1,3600]", c.Common.TimeOutSeconds)
	}
	if c.Common.IPVersion != "v4" && c.Common.IPVersion != "v6" {
		return fmt.Errorf("config: common.ip_version %q must be v4 or v6", c.Common.IPVersion)
	}
	if c.Common.Port < 0 || c.Common.Port > 65535 {
		return fmt.Errorf("config: common.port %d out of range [0,65535]", c.Common.Port)
	}
	if c.Common.MaxConnectionPerThread < 1 || c.Common.MaxConnectionPerThread > 65535 {
		return fmt.Errorf("config: common.max_connection_per_thread %d out of range [1,65535]", c.Common.MaxConnectionPerThread)
	}
	if c.Common.Thread < 1 || c.Common.Thread > 65535 {
		return fmt.Errorf("config: common.thread %d out of range [1,65535]", c.Common.Thread)
	}
	if c.Common.MaxRoomCount < 1 || c.Common.MaxRoomCount > 65535 {
		return fmt.Errorf("config: common.max_room_count %d out of range [1,65535]", c.Common.MaxRoomCount)
	}
	if c.Common.MaxPlayerPerRoom < 1 || c.Common.MaxPlayerPerRoom > 255 {
		return fmt.Errorf("config: common.max_player_per_room %d out of range [1,255]", c.Common.MaxPlayerPerRoom)
	}

	if len(c.Authentication.GameID) < 1 || len(c.Authentication.GameID) > 24 {
		return fmt.Errorf("config: authentication.game_id must be 1..24 bytes, got %d", len(c.Authentication.GameID))
	}
	if len(c.Authentication.GameVersion) > 24 {
		return fmt.Errorf("config: authentication.game_version must be at most 24 bytes, got %d", len(c.Authentication.GameVersion))
	}
	if c.Authentication.EnableGameVersionCheck && c.Authentication.GameVersion == "" {
		return fmt.Errorf("config: authentication.game_version is required when enable_game_version_check is true")
	}

	if c.Log.EnableConsoleLog && !validLogLevels[c.Log.ConsoleLogLevel] {
		return fmt.Errorf("config: log.console_log_level %q is not a recognized level", c.Log.ConsoleLogLevel)
	}
	if c.Log.EnableFileLog {
		if !validLogLevels[c.Log.FileLogLevel] {
			return fmt.Errorf("config: log.file_log_level %q is not a recognized level", c.Log.FileLogLevel)
		}
		if c.Log.FileLogPath == "" {
			return fmt.Errorf("config: log.file_log_path is required when enable_file_log is true")
		}
	}

	if c.ConnectionTest.ConnectionCheckTCPTimeOutSeconds < 1 || c.ConnectionTest.ConnectionCheckTCPTimeOutSeconds > 3600 {
		return fmt.Errorf("config: connection_test.connection_check_tcp_time_out_seconds %d out of range [1,3600]", c.ConnectionTest.ConnectionCheckTCPTimeOutSeconds)
	}
	if c.ConnectionTest.ConnectionCheckUDPTimeOutSeconds < 1 || c.ConnectionTest.ConnectionCheckUDPTimeOutSeconds > 3600 {
		return fmt.Errorf("config: connection_test.connection_check_udp_time_out_seconds %d out of range [1,3600]", c.ConnectionTest.ConnectionCheckUDPTimeOutSeconds)
	}
	if c.ConnectionTest.ConnectionCheckUDPTryCount < 1 || c.ConnectionTest.ConnectionCheckUDPTryCount > 100 {
		return fmt.Errorf("config: connection_test.connection_check_udp_try_count %d out of range [1,100]", c.ConnectionTest.ConnectionCheckUDPTryCount)
	}

	if c.AdminHTTP.Enabled && c.AdminHTTP.Addr == "" {
		return fmt.Errorf("config: admin_http.addr is required when admin_http.enabled is true")
	}

	return nil
}
