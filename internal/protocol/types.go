// Package protocol implements the fixed-size, big-endian wire catalog: one
// byte message_type header, a statically-sized body per type, and for
// replies a 2-byte {reply_message_type, message_error_code} header in front
// of the body. Every record here is a trivially encodable fixed layout —
// no dynamic lengths, no optional fields.
package protocol

// APIVersion is the wire protocol version this server implements. A
// client whose authentication_request carries a different value fails
// authentication with api_version_mismatch regardless of game identity.
const APIVersion uint16 = 1

// Field widths shared across several message bodies.
const (
	PlayerNameSize  = 24
	GameIDSize      = 24
	GameVersionSize = 24
	RoomNameSize    = 24
	RoomPasswordSize = 16
	SearchNameSize  = 26
	EndpointSize    = 18 // 16-byte address + 2-byte port, see internal/netaddr.Endpoint

	// MaxRoomInfoPerReply is the fixed number of room_info slots carried by
	// every list_room_reply, regardless of how many a client asked for.
	MaxRoomInfoPerReply = 10
)

// MessageType identifies the fixed-size body that follows the 1-byte
// header on the wire.
type MessageType uint8

const (
	MessageTypeAuthenticationRequest MessageType = iota
	MessageTypeAuthenticationReply
	MessageTypeCreateRoomRequest
	MessageTypeCreateRoomReply
	MessageTypeListRoomRequest
	MessageTypeListRoomReply
	MessageTypeJoinRoomRequest
	MessageTypeJoinRoomReply
	MessageTypeUpdateRoomStatusNotice
	MessageTypeConnectionTestRequest
	MessageTypeConnectionTestReply
	MessageTypeKeepAliveNotice
)

func (t MessageType) Valid() bool {
	return t <= MessageTypeKeepAliveNotice
}

func (t MessageType) String() string {
	switch t {
	case MessageTypeAuthenticationRequest:
		return "authentication_request"
	case MessageTypeAuthenticationReply:
		return "authentication_reply"
	case MessageTypeCreateRoomRequest:
		return "create_room_request"
	case MessageTypeCreateRoomReply:
		return "create_room_reply"
	case MessageTypeListRoomRequest:
		return "list_room_request"
	case MessageTypeListRoomReply:
		return "list_room_reply"
	case MessageTypeJoinRoomRequest:
		return "join_room_request"
	case MessageTypeJoinRoomReply:
		return "join_room_reply"
	case MessageTypeUpdateRoomStatusNotice:
		return "update_room_status_notice"
	case MessageTypeConnectionTestRequest:
		return "connection_test_request"
	case MessageTypeConnectionTestReply:
		return "connection_test_reply"
	case MessageTypeKeepAliveNotice:
		return "keep_alive_notice"
	default:
		return "unknown_message_type"
	}
}

// AuthenticationResult is authentication_reply's own result field. It is
// distinct from the reply header's message_error_code: an authentication
// failure is reported in-body so the client also learns the server's
// api_version/game_version.
type AuthenticationResult uint8

const (
	AuthenticationResultSuccess AuthenticationResult = iota
	AuthenticationResultAPIVersionMismatch
	AuthenticationResultGameIDMismatch
	AuthenticationResultGameVersionMismatch
)

func (r AuthenticationResult) Valid() bool {
	return r <= AuthenticationResultGameVersionMismatch
}

// ConnectionEstablishMode selects how the server should validate a room's
// advertised port: builtin connectivity probing, or a custom scheme the
// game defines for itself that the server does not verify.
type ConnectionEstablishMode uint8

const (
	ConnectionEstablishModeBuiltin ConnectionEstablishMode = iota
	ConnectionEstablishModeCustom
)

func (m ConnectionEstablishMode) Valid() bool {
	return m <= ConnectionEstablishModeCustom
}

// RoomSettingFlag bits compose a room's setting_flags, carried on the wire
// in room_info's flags field.
type RoomSettingFlag uint8

const (
	RoomSettingPublic RoomSettingFlag = 1 << 0
	RoomSettingOpen   RoomSettingFlag = 1 << 1
)

// RoomTargetFlag bits compose list_room_request's target_flags, selecting
// which combinations of public/private and open/closed rooms to return.
type RoomTargetFlag uint8

const (
	RoomTargetPublic RoomTargetFlag = 1 << 0
	RoomTargetPrivate RoomTargetFlag = 1 << 1
	RoomTargetOpen    RoomTargetFlag = 1 << 2
	RoomTargetClosed  RoomTargetFlag = 1 << 3
)

// SortKind orders list_room_request's results.
type SortKind uint8

const (
	SortKindNameAscending SortKind = iota
	SortKindNameDescending
	SortKindCreateDatetimeAscending
	SortKindCreateDatetimeDescending
)

func (s SortKind) Valid() bool {
	return s <= SortKindCreateDatetimeDescending
}

// RoomStatus is update_room_status_notice's requested transition.
type RoomStatus uint8

const (
	RoomStatusOpen RoomStatus = iota
	RoomStatusClose
	RoomStatusRemove
)

func (s RoomStatus) Valid() bool {
	return s <= RoomStatusRemove
}

// ConnectionTestProtocol selects which transport connection_test_request
// probes.
type ConnectionTestProtocol uint8

const (
	ConnectionTestProtocolTCP ConnectionTestProtocol = iota
	ConnectionTestProtocolUDP
)

func (p ConnectionTestProtocol) Valid() bool {
	return p <= ConnectionTestProtocolUDP
}
