package probe

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestTestTCPSuccess(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, len(Payload))
		if _, err := readFull(conn, buf); err != nil {
			return
		}
		conn.Write(buf)
	}()

	ok := TestTCP(context.Background(), ln.Addr().String(), TCPConfig{Timeout: 2 * time.Second})
	if !ok {
		t.Fatal("expected TestTCP to succeed against an echoing listener")
	}
}

func TestTestTCPNothingListening(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ok := TestTCP(context.Background(), addr, TCPConfig{Timeout: 500 * time.Millisecond})
	if ok {
		t.Fatal("expected TestTCP to fail when nothing listens on the target port")
	}
}

func TestTestTCPWrongReply(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, len(Payload))
		readFull(conn, buf)
		conn.Write([]byte(make([]byte, len(Payload))))
	}()

	ok := TestTCP(context.Background(), ln.Addr().String(), TCPConfig{Timeout: 2 * time.Second})
	if ok {
		t.Fatal("expected TestTCP to fail on a mismatched reply")
	}
}

func TestTestUDPSuccess(t *testing.T) {
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	defer conn.Close()

	go func() {
		buf := make([]byte, len(Payload)+2)
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			return
		}
		conn.WriteTo(buf[:n], addr)
	}()

	ok := TestUDP(context.Background(), "udp4", conn.LocalAddr().String(), UDPConfig{Timeout: 2 * time.Second, TryCount: 3})
	if !ok {
		t.Fatal("expected TestUDP to succeed against an echoing socket")
	}
}

func TestTestUDPRetriesThenFails(t *testing.T) {
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket: %v", err)
	}
	addr := conn.LocalAddr().String()
	conn.Close()

	ok := TestUDP(context.Background(), "udp4", addr, UDPConfig{Timeout: 100 * time.Millisecond, TryCount: 2})
	if ok {
		t.Fatal("expected TestUDP to fail when nothing replies")
	}
}

func TestUDPNetworkFor(t *testing.T) {
	if UDPNetworkFor(false) != "udp4" {
		t.Fatal("expected udp4 for v4")
	}
	if UDPNetworkFor(true) != "udp6" {
		t.Fatal("expected udp6 for v6")
	}
}
