package protocol

import (
	"bytes"
	"net"
	"testing"

	"github.com/cdecpgl/pmms-go/internal/netaddr"
)

func TestReplyHeaderRoundTrip(t *testing.T) {
	h := ReplyHeader{MessageType: MessageTypeCreateRoomReply, ErrorCode: MessageErrorCodeRoomCountReachesLimit}
	got, err := UnmarshalReplyHeader(h.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalReplyHeader: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, h)
	}
}

func TestReplyHeaderRejectsInvalidErrorCode(t *testing.T) {
	buf := []byte{byte(MessageTypeAuthenticationReply), 0xff}
	if _, err := UnmarshalReplyHeader(buf); err == nil {
		t.Fatal("expected error for out-of-range message_error_code")
	}
}

func TestAuthenticationRequestRoundTrip(t *testing.T) {
	m := AuthenticationRequest{
		APIVersion:  3,
		GameID:      "match-three",
		GameVersion: "1.0.0",
		PlayerName:  "alice",
	}
	buf := m.Marshal()
	if len(buf) != authenticationRequestSize {
		t.Fatalf("body size = %d, want %d", len(buf), authenticationRequestSize)
	}
	got, err := UnmarshalAuthenticationRequest(buf)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, m)
	}
}

func TestAuthenticationRequestBigEndian(t *testing.T) {
	m := AuthenticationRequest{APIVersion: 0x0102}
	buf := m.Marshal()
	if buf[0] != 0x01 || buf[1] != 0x02 {
		t.Fatalf("api_version not big-endian: %v", buf[:2])
	}
}

func TestCreateRoomRequestRoundTrip(t *testing.T) {
	m := CreateRoomRequest{
		MaxPlayerCount:          4,
		ConnectionEstablishMode: ConnectionEstablishModeBuiltin,
		PortNumber:              57001,
		Password:                []byte("secret"),
	}
	got, err := UnmarshalCreateRoomRequest(m.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	wantPassword := make([]byte, RoomPasswordSize)
	copy(wantPassword, m.Password)
	if !bytes.Equal(got.Password, wantPassword) {
		t.Fatalf("password mismatch: got %v want %v", got.Password, wantPassword)
	}
	if got.MaxPlayerCount != m.MaxPlayerCount || got.ConnectionEstablishMode != m.ConnectionEstablishMode || got.PortNumber != m.PortNumber {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, m)
	}
}

func TestCreateRoomRequestRejectsInvalidMode(t *testing.T) {
	m := CreateRoomRequest{ConnectionEstablishMode: ConnectionEstablishModeCustom, Password: make([]byte, RoomPasswordSize)}
	buf := m.Marshal()
	buf[1] = 0xff
	if _, err := UnmarshalCreateRoomRequest(buf); err == nil {
		t.Fatal("expected error for invalid connection_establish_mode")
	}
}

func TestListRoomReplyRoundTrip(t *testing.T) {
	var m ListRoomReply
	m.Total = 12
	m.Matched = 3
	m.Returned = 2
	m.RoomInfoList[0] = RoomInfo{
		RoomID: 42, Name: "alice", Tag: 7, Flags: RoomSettingOpen | RoomSettingPublic,
		MaxPlayerCount: 4, CurrentPlayerCount: 1, CreateDatetime: 1700000000,
	}
	buf := m.Marshal()
	if len(buf) != listRoomReplySize {
		t.Fatalf("body size = %d, want %d", len(buf), listRoomReplySize)
	}
	got, err := UnmarshalListRoomReply(buf)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Total != m.Total || got.Matched != m.Matched || got.Returned != m.Returned {
		t.Fatalf("header fields mismatch: got %+v want %+v", got, m)
	}
	if got.RoomInfoList[0] != m.RoomInfoList[0] {
		t.Fatalf("room_info[0] mismatch: got %+v want %+v", got.RoomInfoList[0], m.RoomInfoList[0])
	}
	for i := 1; i < MaxRoomInfoPerReply; i++ {
		if got.RoomInfoList[i] != (RoomInfo{}) {
			t.Fatalf("unused slot %d not zero: %+v", i, got.RoomInfoList[i])
		}
	}
}

func TestJoinRoomReplyRoundTrip(t *testing.T) {
	ep, err := netaddr.FromIPPort(net.ParseIP("203.0.113.5"), 12345)
	if err != nil {
		t.Fatalf("FromIPPort: %v", err)
	}
	m := JoinRoomReply{GameHostEndpoint: ep}
	buf := m.Marshal()
	if len(buf) != EndpointSize {
		t.Fatalf("body size = %d, want %d", len(buf), EndpointSize)
	}
	got, err := UnmarshalJoinRoomReply(buf)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !got.GameHostEndpoint.Equal(ep) {
		t.Fatalf("endpoint mismatch: got %v want %v", got.GameHostEndpoint, ep)
	}
}

func TestUpdateRoomStatusNoticeRoundTrip(t *testing.T) {
	m := UpdateRoomStatusNotice{
		RoomID:                      7,
		Status:                      RoomStatusClose,
		IsCurrentPlayerCountChanged: true,
		CurrentPlayerCount:          3,
	}
	got, err := UnmarshalUpdateRoomStatusNotice(m.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, m)
	}
}

func TestUpdateRoomStatusNoticeRejectsInvalidBool(t *testing.T) {
	m := UpdateRoomStatusNotice{Status: RoomStatusOpen}
	buf := m.Marshal()
	buf[5] = 0x02
	if _, err := UnmarshalUpdateRoomStatusNotice(buf); err == nil {
		t.Fatal("expected error for invalid bool encoding")
	}
}

func TestKeepAliveNoticeRoundTrip(t *testing.T) {
	m := KeepAliveNotice{}
	if len(m.Marshal()) != 0 {
		t.Fatal("keep_alive_notice body must be empty")
	}
	if _, err := UnmarshalKeepAliveNotice([]byte{1}); err == nil {
		t.Fatal("expected error for non-empty keep_alive_notice body")
	}
}

func TestBodySizeKnownTypes(t *testing.T) {
	size, ok := BodySize(MessageTypeJoinRoomRequest)
	if !ok || size != joinRoomRequestSize {
		t.Fatalf("BodySize(join_room_request) = %d, %v", size, ok)
	}
	if _, ok := BodySize(MessageType(0xff)); ok {
		t.Fatal("expected BodySize to reject unknown message type")
	}
}

func TestClientErrorCodeWireNarrowing(t *testing.T) {
	cases := map[ClientErrorCode]MessageErrorCode{
		ClientErrorRoomNotFound:                        MessageErrorCodeRoomNotExist,
		ClientErrorRoomPasswordWrong:                    MessageErrorCodePermissionDenied,
		ClientErrorRoomPermissionDenied:                 MessageErrorCodePermissionDenied,
		ClientErrorRoomFull:                             MessageErrorCodePlayerCountReachesLimit,
		ClientErrorRoomCountExceedsLimit:                MessageErrorCodeRoomCountReachesLimit,
		ClientErrorOperationInvalid:                     MessageErrorCodeUnknown,
		ClientErrorRequestParameterWrong:                MessageErrorCodeUnknown,
		ClientErrorRoomConnectionEstablishModeMismatch:  MessageErrorCodeUnknown,
		ClientErrorClientAlreadyHostingRoom:             MessageErrorCodeUnknown,
	}
	for code, want := range cases {
		if got := code.WireCode(); got != want {
			t.Errorf("%v.WireCode() = %v, want %v", code, got, want)
		}
	}
}
