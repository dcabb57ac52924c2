package protocol

import "github.com/cdecpgl/pmms-go/internal/netaddr"

// ReplyHeader is the 2-byte header prepended to every server reply:
// {reply_message_type, message_error_code}.
type ReplyHeader struct {
	MessageType MessageType
	ErrorCode   MessageErrorCode
}

const ReplyHeaderSize = 2

func (h ReplyHeader) Marshal() []byte {
	e := newEncoder(ReplyHeaderSize)
	e.putUint8(uint8(h.MessageType))
	e.putUint8(uint8(h.ErrorCode))
	return e.bytes()
}

func UnmarshalReplyHeader(buf []byte) (ReplyHeader, error) {
	d := newDecoder(buf)
	mt, err := d.getUint8()
	if err != nil {
		return ReplyHeader{}, err
	}
	ec, err := d.getUint8()
	if err != nil {
		return ReplyHeader{}, err
	}
	if !MessageType(mt).Valid() {
		return ReplyHeader{}, protoErrorf("protocol: invalid reply message_type %d", mt)
	}
	if !MessageErrorCode(ec).Valid() {
		return ReplyHeader{}, protoErrorf("protocol: invalid message_error_code %d", ec)
	}
	return ReplyHeader{MessageType: MessageType(mt), ErrorCode: MessageErrorCode(ec)}, nil
}

// AuthenticationRequest is authentication_request's body: 74 bytes.
type AuthenticationRequest struct {
	APIVersion  uint16
	GameID      string
	GameVersion string
	PlayerName  string
}

const authenticationRequestSize = 2 + GameIDSize + GameVersionSize + PlayerNameSize

func (m AuthenticationRequest) BodySize() int { return authenticationRequestSize }

func (m AuthenticationRequest) Marshal() []byte {
	e := newEncoder(authenticationRequestSize)
	e.putUint16(m.APIVersion)
	e.putFixedString(m.GameID, GameIDSize)
	e.putFixedString(m.GameVersion, GameVersionSize)
	e.putFixedString(m.PlayerName, PlayerNameSize)
	return e.bytes()
}

func UnmarshalAuthenticationRequest(buf []byte) (AuthenticationRequest, error) {
	d := newDecoder(buf)
	var m AuthenticationRequest
	var err error
	if m.APIVersion, err = d.getUint16(); err != nil {
		return m, err
	}
	if m.GameID, err = d.getFixedString(GameIDSize); err != nil {
		return m, err
	}
	if m.GameVersion, err = d.getFixedString(GameVersionSize); err != nil {
		return m, err
	}
	if m.PlayerName, err = d.getFixedString(PlayerNameSize); err != nil {
		return m, err
	}
	return m, nil
}

// AuthenticationReply is authentication_reply's body: 29 bytes.
type AuthenticationReply struct {
	Result      AuthenticationResult
	APIVersion  uint16
	GameVersion string
	PlayerTag   uint16
}

const authenticationReplySize = 1 + 2 + GameVersionSize + 2

func (m AuthenticationReply) BodySize() int { return authenticationReplySize }

func (m AuthenticationReply) Marshal() []byte {
	e := newEncoder(authenticationReplySize)
	e.putUint8(uint8(m.Result))
	e.putUint16(m.APIVersion)
	e.putFixedString(m.GameVersion, GameVersionSize)
	e.putUint16(m.PlayerTag)
	return e.bytes()
}

func UnmarshalAuthenticationReply(buf []byte) (AuthenticationReply, error) {
	d := newDecoder(buf)
	var m AuthenticationReply
	var err error
	var result uint8
	if result, err = d.getUint8(); err != nil {
		return m, err
	}
	if !AuthenticationResult(result).Valid() {
		return m, protoErrorf("protocol: invalid authentication result %d", result)
	}
	m.Result = AuthenticationResult(result)
	if m.APIVersion, err = d.getUint16(); err != nil {
		return m, err
	}
	if m.GameVersion, err = d.getFixedString(GameVersionSize); err != nil {
		return m, err
	}
	if m.PlayerTag, err = d.getUint16(); err != nil {
		return m, err
	}
	return m, nil
}

// CreateRoomRequest is create_room_request's body: 20 bytes.
type CreateRoomRequest struct {
	MaxPlayerCount          uint8
	ConnectionEstablishMode ConnectionEstablishMode
	PortNumber              uint16
	Password                []byte
}

const createRoomRequestSize = 1 + 1 + 2 + RoomPasswordSize

func (m CreateRoomRequest) BodySize() int { return createRoomRequestSize }

func (m CreateRoomRequest) Marshal() []byte {
	e := newEncoder(createRoomRequestSize)
	e.putUint8(m.MaxPlayerCount)
	e.putUint8(uint8(m.ConnectionEstablishMode))
	e.putUint16(m.PortNumber)
	e.putFixedBytes(m.Password, RoomPasswordSize)
	return e.bytes()
}

func UnmarshalCreateRoomRequest(buf []byte) (CreateRoomRequest, error) {
	d := newDecoder(buf)
	var m CreateRoomRequest
	var err error
	if m.MaxPlayerCount, err = d.getUint8(); err != nil {
		return m, err
	}
	var mode uint8
	if mode, err = d.getUint8(); err != nil {
		return m, err
	}
	if !ConnectionEstablishMode(mode).Valid() {
		return m, protoErrorf("protocol: invalid connection_establish_mode %d", mode)
	}
	m.ConnectionEstablishMode = ConnectionEstablishMode(mode)
	if m.PortNumber, err = d.getUint16(); err != nil {
		return m, err
	}
	if m.Password, err = d.getFixedBytes(RoomPasswordSize); err != nil {
		return m, err
	}
	return m, nil
}

// CreateRoomReply is create_room_reply's body: 4 bytes.
type CreateRoomReply struct {
	RoomID uint32
}

const createRoomReplySize = 4

func (m CreateRoomReply) BodySize() int { return createRoomReplySize }

func (m CreateRoomReply) Marshal() []byte {
	e := newEncoder(createRoomReplySize)
	e.putUint32(m.RoomID)
	return e.bytes()
}

func UnmarshalCreateRoomReply(buf []byte) (CreateRoomReply, error) {
	d := newDecoder(buf)
	var m CreateRoomReply
	var err error
	if m.RoomID, err = d.getUint32(); err != nil {
		return m, err
	}
	return m, nil
}

// ListRoomRequest is list_room_request's body: 30 bytes.
type ListRoomRequest struct {
	StartIndex  uint8
	Count       uint8
	SortKind    SortKind
	TargetFlags RoomTargetFlag
	SearchName  string
}

const listRoomRequestSize = 1 + 1 + 1 + 1 + SearchNameSize

func (m ListRoomRequest) BodySize() int { return listRoomRequestSize }

func (m ListRoomRequest) Marshal() []byte {
	e := newEncoder(listRoomRequestSize)
	e.putUint8(m.StartIndex)
	e.putUint8(m.Count)
	e.putUint8(uint8(m.SortKind))
	e.putUint8(uint8(m.TargetFlags))
	e.putFixedString(m.SearchName, SearchNameSize)
	return e.bytes()
}

func UnmarshalListRoomRequest(buf []byte) (ListRoomRequest, error) {
	d := newDecoder(buf)
	var m ListRoomRequest
	var err error
	if m.StartIndex, err = d.getUint8(); err != nil {
		return m, err
	}
	if m.Count, err = d.getUint8(); err != nil {
		return m, err
	}
	var sk uint8
	if sk, err = d.getUint8(); err != nil {
		return m, err
	}
	if !SortKind(sk).Valid() {
		return m, protoErrorf("protocol: invalid sort_kind %d", sk)
	}
	m.SortKind = SortKind(sk)
	var tf uint8
	if tf, err = d.getUint8(); err != nil {
		return m, err
	}
	m.TargetFlags = RoomTargetFlag(tf)
	if m.SearchName, err = d.getFixedString(SearchNameSize); err != nil {
		return m, err
	}
	return m, nil
}

// RoomInfo is one room_info slot of list_room_reply: 41 bytes.
type RoomInfo struct {
	RoomID             uint32
	Name               string
	Tag                uint16
	Flags              RoomSettingFlag
	MaxPlayerCount     uint8
	CurrentPlayerCount uint8
	CreateDatetime     uint64 // unix seconds, UTC
}

const roomInfoSize = 4 + RoomNameSize + 2 + 1 + 1 + 1 + 8

func (ri RoomInfo) marshalInto(e *encoder) {
	e.putUint32(ri.RoomID)
	e.putFixedString(ri.Name, RoomNameSize)
	e.putUint16(ri.Tag)
	e.putUint8(uint8(ri.Flags))
	e.putUint8(ri.MaxPlayerCount)
	e.putUint8(ri.CurrentPlayerCount)
	e.putUint64(ri.CreateDatetime)
}

func unmarshalRoomInfo(d *decoder) (RoomInfo, error) {
	var ri RoomInfo
	var err error
	if ri.RoomID, err = d.getUint32(); err != nil {
		return ri, err
	}
	if ri.Name, err = d.getFixedString(RoomNameSize); err != nil {
		return ri, err
	}
	if ri.Tag, err = d.getUint16(); err != nil {
		return ri, err
	}
	var flags uint8
	if flags, err = d.getUint8(); err != nil {
		return ri, err
	}
	ri.Flags = RoomSettingFlag(flags)
	if ri.MaxPlayerCount, err = d.getUint8(); err != nil {
		return ri, err
	}
	if ri.CurrentPlayerCount, err = d.getUint8(); err != nil {
		return ri, err
	}
	if ri.CreateDatetime, err = d.getUint64(); err != nil {
		return ri, err
	}
	return ri, nil
}

// ListRoomReply is list_room_reply's body. The room_info_list is always
// MaxRoomInfoPerReply slots wide on the wire; unused trailing slots are
// zero-filled and Returned says how many are meaningful.
type ListRoomReply struct {
	Total        uint8
	Matched      uint8
	Returned     uint8
	RoomInfoList [MaxRoomInfoPerReply]RoomInfo
}

const listRoomReplySize = 1 + 1 + 1 + MaxRoomInfoPerReply*roomInfoSize

func (m ListRoomReply) BodySize() int { return listRoomReplySize }

func (m ListRoomReply) Marshal() []byte {
	e := newEncoder(listRoomReplySize)
	e.putUint8(m.Total)
	e.putUint8(m.Matched)
	e.putUint8(m.Returned)
	for i := range m.RoomInfoList {
		m.RoomInfoList[i].marshalInto(e)
	}
	return e.bytes()
}

func UnmarshalListRoomReply(buf []byte) (ListRoomReply, error) {
	d := newDecoder(buf)
	var m ListRoomReply
	var err error
	if m.Total, err = d.getUint8(); err != nil {
		return m, err
	}
	if m.Matched, err = d.getUint8(); err != nil {
		return m, err
	}
	if m.Returned, err = d.getUint8(); err != nil {
		return m, err
	}
	for i := range m.RoomInfoList {
		if m.RoomInfoList[i], err = unmarshalRoomInfo(d); err != nil {
			return m, err
		}
	}
	return m, nil
}

// JoinRoomRequest is join_room_request's body: 20 bytes.
type JoinRoomRequest struct {
	RoomID   uint32
	Password []byte
}

const joinRoomRequestSize = 4 + RoomPasswordSize

func (m JoinRoomRequest) BodySize() int { return joinRoomRequestSize }

func (m JoinRoomRequest) Marshal() []byte {
	e := newEncoder(joinRoomRequestSize)
	e.putUint32(m.RoomID)
	e.putFixedBytes(m.Password, RoomPasswordSize)
	return e.bytes()
}

func UnmarshalJoinRoomRequest(buf []byte) (JoinRoomRequest, error) {
	d := newDecoder(buf)
	var m JoinRoomRequest
	var err error
	if m.RoomID, err = d.getUint32(); err != nil {
		return m, err
	}
	if m.Password, err = d.getFixedBytes(RoomPasswordSize); err != nil {
		return m, err
	}
	return m, nil
}

// JoinRoomReply is join_room_reply's body: 18 bytes.
type JoinRoomReply struct {
	GameHostEndpoint netaddr.Endpoint
}

const joinRoomReplySize = EndpointSize

func (m JoinRoomReply) BodySize() int { return joinRoomReplySize }

func (m JoinRoomReply) Marshal() []byte {
	e := newEncoder(joinRoomReplySize)
	e.putEndpoint(m.GameHostEndpoint)
	return e.bytes()
}

func UnmarshalJoinRoomReply(buf []byte) (JoinRoomReply, error) {
	d := newDecoder(buf)
	var m JoinRoomReply
	var err error
	if m.GameHostEndpoint, err = d.getEndpoint(); err != nil {
		return m, err
	}
	return m, nil
}

// UpdateRoomStatusNotice is update_room_status_notice's body: 7 bytes.
type UpdateRoomStatusNotice struct {
	RoomID                       uint32
	Status                       RoomStatus
	IsCurrentPlayerCountChanged  bool
	CurrentPlayerCount           uint8
}

const updateRoomStatusNoticeSize = 4 + 1 + 1 + 1

func (m UpdateRoomStatusNotice) BodySize() int { return updateRoomStatusNoticeSize }

func (m UpdateRoomStatusNotice) Marshal() []byte {
	e := newEncoder(updateRoomStatusNoticeSize)
	e.putUint32(m.RoomID)
	e.putUint8(uint8(m.Status))
	e.putBool(m.IsCurrentPlayerCountChanged)
	e.putUint8(m.CurrentPlayerCount)
	return e.bytes()
}

func UnmarshalUpdateRoomStatusNotice(buf []byte) (UpdateRoomStatusNotice, error) {
	d := newDecoder(buf)
	var m UpdateRoomStatusNotice
	var err error
	if m.RoomID, err = d.getUint32(); err != nil {
		return m, err
	}
	var status uint8
	if status, err = d.getUint8(); err != nil {
		return m, err
	}
	if !RoomStatus(status).Valid() {
		return m, protoErrorf("protocol: invalid room status %d", status)
	}
	m.Status = RoomStatus(status)
	if m.IsCurrentPlayerCountChanged, err = d.getBool(); err != nil {
		return m, err
	}
	if m.CurrentPlayerCount, err = d.getUint8(); err != nil {
		return m, err
	}
	return m, nil
}

// ConnectionTestRequest is connection_test_request's body: 3 bytes.
type ConnectionTestRequest struct {
	Protocol   ConnectionTestProtocol
	PortNumber uint16
}

const connectionTestRequestSize = 1 + 2

func (m ConnectionTestRequest) BodySize() int { return connectionTestRequestSize }

func (m ConnectionTestRequest) Marshal() []byte {
	e := newEncoder(connectionTestRequestSize)
	e.putUint8(uint8(m.Protocol))
	e.putUint16(m.PortNumber)
	return e.bytes()
}

func UnmarshalConnectionTestRequest(buf []byte) (ConnectionTestRequest, error) {
	d := newDecoder(buf)
	var m ConnectionTestRequest
	var err error
	var proto uint8
	if proto, err = d.getUint8(); err != nil {
		return m, err
	}
	if !ConnectionTestProtocol(proto).Valid() {
		return m, protoErrorf("protocol: invalid connection test protocol %d", proto)
	}
	m.Protocol = ConnectionTestProtocol(proto)
	if m.PortNumber, err = d.getUint16(); err != nil {
		return m, err
	}
	return m, nil
}

// ConnectionTestReply is connection_test_reply's body: 1 byte.
type ConnectionTestReply struct {
	Succeed bool
}

const connectionTestReplySize = 1

func (m ConnectionTestReply) BodySize() int { return connectionTestReplySize }

func (m ConnectionTestReply) Marshal() []byte {
	e := newEncoder(connectionTestReplySize)
	e.putBool(m.Succeed)
	return e.bytes()
}

func UnmarshalConnectionTestReply(buf []byte) (ConnectionTestReply, error) {
	d := newDecoder(buf)
	var m ConnectionTestReply
	var err error
	if m.Succeed, err = d.getBool(); err != nil {
		return m, err
	}
	return m, nil
}

// KeepAliveNotice carries no fields; it exists only to reset idle
// detection.
type KeepAliveNotice struct{}

func (m KeepAliveNotice) BodySize() int   { return 0 }
func (m KeepAliveNotice) Marshal() []byte { return []byte{} }

func UnmarshalKeepAliveNotice(buf []byte) (KeepAliveNotice, error) {
	if len(buf) != 0 {
		return KeepAliveNotice{}, protoErrorf("protocol: keep_alive_notice body must be empty, got %d bytes", len(buf))
	}
	return KeepAliveNotice{}, nil
}

// BodySize returns the statically known body size for a request message
// type, used by the dispatcher to size its read buffer before decoding.
// Reply-only types are included for symmetry with the writer side.
func BodySize(t MessageType) (int, bool) {
	switch t {
	case MessageTypeAuthenticationRequest:
		return authenticationRequestSize, true
	case MessageTypeAuthenticationReply:
		return authenticationReplySize, true
	case MessageTypeCreateRoomRequest:
		return createRoomRequestSize, true
	case MessageTypeCreateRoomReply:
		return createRoomReplySize, true
	case MessageTypeListRoomRequest:
		return listRoomRequestSize, true
	case MessageTypeListRoomReply:
		return listRoomReplySize, true
	case MessageTypeJoinRoomRequest:
		return joinRoomRequestSize, true
	case MessageTypeJoinRoomReply:
		return joinRoomReplySize, true
	case MessageTypeUpdateRoomStatusNotice:
		return updateRoomStatusNoticeSize, true
	case MessageTypeConnectionTestRequest:
		return connectionTestRequestSize, true
	case MessageTypeConnectionTestReply:
		return connectionTestReplySize, true
	case MessageTypeKeepAliveNotice:
		return 0, true
	default:
		return 0, false
	}
}
