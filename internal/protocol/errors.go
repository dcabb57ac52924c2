package protocol

// MessageErrorCode is the wire-level error reported in every reply header's
// second byte. It is deliberately coarser than ClientErrorCode: several
// distinct client faults narrow to the same wire code.
type MessageErrorCode uint8

const (
	MessageErrorCodeOK MessageErrorCode = iota
	MessageErrorCodeUnknown
	MessageErrorCodeVersionMismatch
	MessageErrorCodeAuthenticationError
	MessageErrorCodeDenied
	MessageErrorCodeRoomNameDuplicated
	MessageErrorCodeRoomCountReachesLimit
	MessageErrorCodeRoomNotExist
	MessageErrorCodePermissionDenied
	MessageErrorCodeJoinRejected
	MessageErrorCodePlayerCountReachesLimit
)

func (c MessageErrorCode) Valid() bool {
	return c <= MessageErrorCodePlayerCountReachesLimit
}

// ClientErrorCode is the internal (not wire-visible) taxonomy a handler
// raises; the dispatcher narrows it to a MessageErrorCode before replying.
type ClientErrorCode uint8

const (
	ClientErrorOperationInvalid ClientErrorCode = iota
	ClientErrorRequestParameterWrong
	ClientErrorRoomNotFound
	ClientErrorRoomPasswordWrong
	ClientErrorRoomFull
	ClientErrorRoomPermissionDenied
	ClientErrorRoomCountExceedsLimit
	ClientErrorRoomConnectionEstablishModeMismatch
	ClientErrorClientAlreadyHostingRoom
)

// ClientError is a handler-raised fault describing exactly what was wrong
// with a request. The dispatcher turns it into a reply carrying
// WireCode() in the header, and disconnects the session iff Disconnect.
type ClientError struct {
	Code       ClientErrorCode
	Disconnect bool
}

func (e *ClientError) Error() string {
	return "protocol: client error: " + e.Code.String()
}

func NewClientError(code ClientErrorCode, disconnect bool) *ClientError {
	return &ClientError{Code: code, Disconnect: disconnect}
}

func (c ClientErrorCode) String() string {
	switch c {
	case ClientErrorOperationInvalid:
		return "operation_invalid"
	case ClientErrorRequestParameterWrong:
		return "request_parameter_wrong"
	case ClientErrorRoomNotFound:
		return "room_not_found"
	case ClientErrorRoomPasswordWrong:
		return "room_password_wrong"
	case ClientErrorRoomFull:
		return "room_full"
	case ClientErrorRoomPermissionDenied:
		return "room_permission_denied"
	case ClientErrorRoomCountExceedsLimit:
		return "room_count_exceeds_limit"
	case ClientErrorRoomConnectionEstablishModeMismatch:
		return "room_connection_establish_mode_mismatch"
	case ClientErrorClientAlreadyHostingRoom:
		return "client_already_hosting_room"
	default:
		return "unknown_client_error"
	}
}

// WireCode narrows a ClientErrorCode down to the MessageErrorCode carried in
// the reply header. This table is the resolution of the open question in
// spec.md §9 about the relationship between the richer client_error_code
// taxonomy and the wire's smaller message_error_code enum.
func (c ClientErrorCode) WireCode() MessageErrorCode {
	switch c {
	case ClientErrorRoomNotFound:
		return MessageErrorCodeRoomNotExist
	case ClientErrorRoomPasswordWrong, ClientErrorRoomPermissionDenied:
		return MessageErrorCodePermissionDenied
	case ClientErrorRoomFull:
		return MessageErrorCodePlayerCountReachesLimit
	case ClientErrorRoomCountExceedsLimit:
		return MessageErrorCodeRoomCountReachesLimit
	case ClientErrorOperationInvalid,
		ClientErrorRequestParameterWrong,
		ClientErrorRoomConnectionEstablishModeMismatch,
		ClientErrorClientAlreadyHostingRoom:
		return MessageErrorCodeUnknown
	default:
		return MessageErrorCodeUnknown
	}
}

// SessionErrorKind classifies a session-level fault: an I/O failure or a
// framing violation, as opposed to a well-formed-but-rejected request
// (ClientError) or an internal invariant break (ServerError).
type SessionErrorKind uint8

const (
	SessionErrorExpectedDisconnection SessionErrorKind = iota
	SessionErrorUnexpectedDisconnection
	SessionErrorContinuable
	SessionErrorNotContinuable
)

func (k SessionErrorKind) String() string {
	switch k {
	case SessionErrorExpectedDisconnection:
		return "expected_disconnection"
	case SessionErrorUnexpectedDisconnection:
		return "unexpected_disconnection"
	case SessionErrorContinuable:
		return "continuable_error"
	case SessionErrorNotContinuable:
		return "not_continuable_error"
	default:
		return "unknown_session_error"
	}
}

// SessionError wraps an underlying I/O or framing failure with its
// disposition: whether the session loop can keep going, or must tear down
// and let the acceptor slot restart.
type SessionError struct {
	Kind SessionErrorKind
	Err  error
}

func (e *SessionError) Error() string {
	if e.Err != nil {
		return "protocol: session error (" + e.Kind.String() + "): " + e.Err.Error()
	}
	return "protocol: session error (" + e.Kind.String() + ")"
}

func (e *SessionError) Unwrap() error { return e.Err }

func NewSessionError(kind SessionErrorKind, err error) *SessionError {
	return &SessionError{Kind: kind, Err: err}
}

// ServerError marks an internal invariant violation — something the
// protocol design asserts can never happen (e.g. a uniqueness collision
// that passed every precondition check). Always logged at error level with
// full context; the session is torn down with a generic MessageErrorCodeUnknown
// reply if one can still be sent.
type ServerError struct {
	Err error
}

func (e *ServerError) Error() string { return "protocol: server error: " + e.Err.Error() }

func (e *ServerError) Unwrap() error { return e.Err }

func NewServerError(err error) *ServerError {
	return &ServerError{Err: err}
}
