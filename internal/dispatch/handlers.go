package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/cdecpgl/pmms-go/internal/netaddr"
	"github.com/cdecpgl/pmms-go/internal/probe"
	"github.com/cdecpgl/pmms-go/internal/protocol"
	"github.com/cdecpgl/pmms-go/internal/roomstore"
)

func handleAuthenticationRequest(_ context.Context, hc *handlerContext, body []byte) ([]byte, bool, error) {
	req, err := protocol.UnmarshalAuthenticationRequest(body)
	if err != nil {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRequestParameterWrong, true)
	}

	if hc.session.Authenticated() {
		return nil, false, protocol.NewClientError(protocol.ClientErrorOperationInvalid, true)
	}
	if req.PlayerName == "" {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRequestParameterWrong, true)
	}

	cfg := hc.server.Config.Authentication

	if req.APIVersion != protocol.APIVersion {
		hc.logger.Info("authentication failed: api_version mismatch",
			"server_api_version", protocol.APIVersion, "client_api_version", req.APIVersion)
		reply := protocol.AuthenticationReply{
			Result:      protocol.AuthenticationResultAPIVersionMismatch,
			APIVersion:  protocol.APIVersion,
			GameVersion: cfg.GameVersion,
		}
		return reply.Marshal(), true, nil
	}
	if req.GameID != cfg.GameID {
		hc.logger.Info("authentication failed: game_id mismatch",
			"server_game_id", cfg.GameID, "client_game_id", req.GameID)
		reply := protocol.AuthenticationReply{
			Result:      protocol.AuthenticationResultGameIDMismatch,
			APIVersion:  protocol.APIVersion,
			GameVersion: cfg.GameVersion,
		}
		return reply.Marshal(), true, nil
	}
	if cfg.EnableGameVersionCheck && req.GameVersion != cfg.GameVersion {
		hc.logger.Info("authentication failed: game_version mismatch",
			"server_game_version", cfg.GameVersion, "client_game_version", req.GameVersion)
		reply := protocol.AuthenticationReply{
			Result:      protocol.AuthenticationResultGameVersionMismatch,
			APIVersion:  protocol.APIVersion,
			GameVersion: cfg.GameVersion,
		}
		return reply.Marshal(), true, nil
	}

	full, err := hc.server.Names.Assign(req.PlayerName)
	if err != nil {
		return nil, false, protocol.NewServerError(err)
	}
	hc.session.SetAuthenticated(full)
	hc.logger.Info("authentication succeeded", "player", full.String())

	reply := protocol.AuthenticationReply{
		Result:      protocol.AuthenticationResultSuccess,
		APIVersion:  protocol.APIVersion,
		GameVersion: cfg.GameVersion,
		PlayerTag:   full.Tag,
	}
	return reply.Marshal(), false, nil
}

func handleCreateRoomRequest(_ context.Context, hc *handlerContext, body []byte) ([]byte, bool, error) {
	req, err := protocol.UnmarshalCreateRoomRequest(body)
	if err != nil {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRequestParameterWrong, false)
	}

	if hc.session.IsHostingRoom() {
		return nil, false, protocol.NewClientError(protocol.ClientErrorClientAlreadyHostingRoom, false)
	}

	if req.ConnectionEstablishMode == protocol.ConnectionEstablishModeBuiltin && req.PortNumber == 0 {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRequestParameterWrong, false)
	}

	common := hc.server.Config.Common
	if req.MaxPlayerCount == 0 || int(req.MaxPlayerCount) > common.MaxPlayerPerRoom {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRequestParameterWrong, false)
	}

	if hc.server.Rooms.Size() >= common.MaxRoomCount {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRoomCountExceedsLimit, false)
	}

	var password [protocol.RoomPasswordSize]byte
	copy(password[:], req.Password)
	isPublic := len(trimTrailingZero(req.Password)) == 0

	flags := protocol.RoomSettingOpen
	if isPublic {
		flags |= protocol.RoomSettingPublic
	}

	room := roomstore.Room{
		HostPlayerFullName: hc.session.PlayerFullName(),
		SettingFlags:       flags,
		Password:           password,
		MaxPlayerCount:     req.MaxPlayerCount,
		CurrentPlayerCount: 1,
		CreateDatetime:     time.Now().UTC(),
		HostEndpoint:       hc.session.RemoteEndpoint,
		GameHostEndpoint:   hc.session.RemoteEndpoint.WithPort(req.PortNumber),
	}

	id, err := hc.server.Rooms.AssignIDAndAdd(room)
	if err != nil {
		return nil, false, protocol.NewServerError(err)
	}
	if err := hc.session.SetHostingRoomID(id); err != nil {
		return nil, false, protocol.NewServerError(err)
	}

	hc.logger.Info("room created", "room_id", id, "public", isPublic, "max_player_count", req.MaxPlayerCount)

	reply := protocol.CreateRoomReply{RoomID: id}
	return reply.Marshal(), false, nil
}

func trimTrailingZero(b []byte) []byte {
	i := len(b)
	for i > 0 && b[i-1] == 0 {
		i--
	}
	return b[:i]
}

func handleListRoomRequest(_ context.Context, hc *handlerContext, body []byte) ([]byte, bool, error) {
	req, err := protocol.UnmarshalListRoomRequest(body)
	if err != nil {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRequestParameterWrong, false)
	}

	pred := roomstore.BuildPredicate(req.TargetFlags, req.SearchName)
	less := roomstore.BuildComparator(req.SortKind, req.SearchName)

	matchedAll := hc.server.Rooms.Search(less, pred)
	total := hc.server.Rooms.Size()

	start := int(req.StartIndex)
	count := int(req.Count)
	if count > protocol.MaxRoomInfoPerReply {
		count = protocol.MaxRoomInfoPerReply
	}

	var window []roomstore.Room
	if start < len(matchedAll) {
		end := start + count
		if end > len(matchedAll) {
			end = len(matchedAll)
		}
		window = matchedAll[start:end]
	}

	reply := protocol.ListRoomReply{
		Total:    uint8(total),
		Matched:  uint8(len(matchedAll)),
		Returned: uint8(len(window)),
	}
	for i, room := range window {
		reply.RoomInfoList[i] = room.ToRoomInfo()
	}

	return reply.Marshal(), false, nil
}

func handleJoinRoomRequest(_ context.Context, hc *handlerContext, body []byte) ([]byte, bool, error) {
	req, err := protocol.UnmarshalJoinRoomRequest(body)
	if err != nil {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRequestParameterWrong, false)
	}

	room, err := hc.server.Rooms.Get(req.RoomID)
	if err != nil {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRoomNotFound, false)
	}
	if !room.IsOpen() {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRoomNotFound, false)
	}
	if !room.IsPublic() && !room.PasswordMatches(req.Password) {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRoomPasswordWrong, false)
	}
	if room.CurrentPlayerCount >= room.MaxPlayerCount {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRoomFull, false)
	}

	hc.logger.Info("room joined", "room_id", room.RoomID, "player", hc.session.PlayerFullName().String())

	reply := protocol.JoinRoomReply{GameHostEndpoint: room.GameHostEndpoint}
	return reply.Marshal(), false, nil
}

func handleUpdateRoomStatusNotice(_ context.Context, hc *handlerContext, body []byte) ([]byte, bool, error) {
	req, err := protocol.UnmarshalUpdateRoomStatusNotice(body)
	if err != nil {
		return nil, false, protocol.NewSessionError(protocol.SessionErrorContinuable, err)
	}

	room, err := hc.server.Rooms.Get(req.RoomID)
	if err != nil {
		return nil, false, protocol.NewSessionError(protocol.SessionErrorContinuable, err)
	}
	if !room.HostEndpoint.Equal(hc.session.RemoteEndpoint) {
		return nil, false, protocol.NewSessionError(protocol.SessionErrorContinuable,
			errors.New("dispatch: session is not host of requested room"))
	}

	if req.IsCurrentPlayerCountChanged {
		if req.CurrentPlayerCount > room.MaxPlayerCount {
			return nil, false, protocol.NewSessionError(protocol.SessionErrorContinuable,
				errors.New("dispatch: new current_player_count exceeds max_player_count"))
		}
		room.CurrentPlayerCount = req.CurrentPlayerCount
	}

	switch req.Status {
	case protocol.RoomStatusOpen:
		room.SettingFlags |= protocol.RoomSettingOpen
		if err := hc.server.Rooms.AddOrUpdate(room); err != nil {
			return nil, false, protocol.NewServerError(err)
		}
		hc.logger.Info("room opened", "room_id", room.RoomID)
	case protocol.RoomStatusClose:
		room.SettingFlags &^= protocol.RoomSettingOpen
		if err := hc.server.Rooms.AddOrUpdate(room); err != nil {
			return nil, false, protocol.NewServerError(err)
		}
		hc.logger.Info("room closed", "room_id", room.RoomID)
	case protocol.RoomStatusRemove:
		hc.server.Rooms.TryRemove(room.RoomID)
		if err := hc.session.ClearHostingRoomID(room.RoomID); err != nil {
			return nil, false, protocol.NewServerError(err)
		}
		hc.logger.Info("room removed", "room_id", room.RoomID)
	}

	return nil, false, nil
}

func handleConnectionTestRequest(ctx context.Context, hc *handlerContext, body []byte) ([]byte, bool, error) {
	req, err := protocol.UnmarshalConnectionTestRequest(body)
	if err != nil {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRequestParameterWrong, false)
	}
	if req.PortNumber == 0 {
		return nil, false, protocol.NewClientError(protocol.ClientErrorRequestParameterWrong, false)
	}

	target := hc.session.RemoteEndpoint.WithPort(req.PortNumber).String()
	cfg := hc.server.Config.ConnectionTest

	var succeed bool
	switch req.Protocol {
	case protocol.ConnectionTestProtocolTCP:
		succeed = probe.TestTCP(ctx, target, probe.TCPConfig{
			Timeout: time.Duration(cfg.ConnectionCheckTCPTimeOutSeconds) * time.Second,
		})
	case protocol.ConnectionTestProtocolUDP:
		network := probe.UDPNetworkFor(hc.session.RemoteEndpoint.IPVersion() == netaddr.IPVersionV6)
		succeed = probe.TestUDP(ctx, network, target, probe.UDPConfig{
			Timeout:  time.Duration(cfg.ConnectionCheckUDPTimeOutSeconds) * time.Second,
			TryCount: cfg.ConnectionCheckUDPTryCount,
		})
	}

	hc.logger.Debug("connection test", "protocol", req.Protocol, "port", req.PortNumber, "succeed", succeed)

	reply := protocol.ConnectionTestReply{Succeed: succeed}
	return reply.Marshal(), false, nil
}

func handleKeepAliveNotice(_ context.Context, hc *handlerContext, body []byte) ([]byte, bool, error) {
	if _, err := protocol.UnmarshalKeepAliveNotice(body); err != nil {
		return nil, false, protocol.NewSessionError(protocol.SessionErrorContinuable, err)
	}
	hc.logger.Debug("keep alive")
	return nil, false, nil
}
