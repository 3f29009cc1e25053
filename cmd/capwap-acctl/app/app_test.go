package app

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	soapserver "github.com/smartcapwap/capwap-ac/internal/acbackend/server/soap"
	"github.com/smartcapwap/capwap-ac/pkg/options"
)

type runningBackend struct{}

func (runningBackend) IsConnected() bool { return true }

func (runningBackend) Status() model.BackendStatus {
	return model.BackendStatus{
		Phase:      model.PhaseRunning,
		Connected:  true,
		Generation: 2,
		Address:    "127.0.0.1:8443",
		Transport:  "soap",
		Delivered:  5,
	}
}

func startManagementServer(t *testing.T) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := soapserver.NewServer(lis, options.NewSoapOptions(), runningBackend{})
	go func() { _ = srv.Serve() }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return "http://" + lis.Addr().String()
}

func execute(args ...string) (string, error) {
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStatus(t *testing.T) {
	endpoint := startManagementServer(t)

	out, err := execute("status", "--endpoint", endpoint)
	if err != nil {
		t.Fatalf("status error = %v\n%s", err, out)
	}
	for _, want := range []string{"ENDPOINT", endpoint, "Running", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestStatusUnreachable(t *testing.T) {
	endpoint := startManagementServer(t)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	dead := "http://" + lis.Addr().String()
	lis.Close()

	out, err := execute("status", "-e", endpoint, "-e", dead, "--timeout", "2s")
	if err == nil {
		t.Fatal("expected an error for the unreachable endpoint")
	}
	if !strings.Contains(out, "Running") || !strings.Contains(out, "Unknown") {
		t.Errorf("output should list both endpoints:\n%s", out)
	}
}

func TestPing(t *testing.T) {
	endpoint := startManagementServer(t)

	out, err := execute("ping", "--endpoint", endpoint)
	if err != nil {
		t.Fatalf("ping error = %v", err)
	}
	if !strings.Contains(out, "connected=true") {
		t.Errorf("unexpected output: %s", out)
	}
}
