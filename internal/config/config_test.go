package config_test

import (
	"testing"

	"aerox/internal/config"
)

func validConfig() config.ServerConfig {
	return config.ServerConfig{
		BindAddress:       "0.0.0.0",
		Port:              7777,
		ReactorBufferSize: 1024,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config to pass, got %v", err)
	}
}

func TestValidateRejectsEmptyBindAddress(t *testing.T) {
	cfg := validConfig()
	cfg.BindAddress = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected empty bind_address to be rejected")
	}
}

func TestValidateRejectsOutOfRangePort(t *testing.T) {
	for _, port := range []int{0, -1, 65536, 100000} {
		cfg := validConfig()
		cfg.Port = port
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected port %d to be rejected", port)
		}
	}
}

func TestValidateRejectsNegativeWorkerThreads(t *testing.T) {
	cfg := validConfig()
	cfg.WorkerThreads = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected negative worker_threads to be rejected")
	}
}

func TestValidateAcceptsZeroWorkerThreadsAsAuto(t *testing.T) {
	cfg := validConfig()
	cfg.WorkerThreads = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected zero worker_threads (auto) to be valid, got %v", err)
	}
}

func TestValidateRejectsNegativeMaxConnections(t *testing.T) {
	cfg := validConfig()
	cfg.MaxConnections = -5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected negative max_connections to be rejected")
	}
}

func TestValidateRejectsNonPositiveReactorBufferSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		cfg := validConfig()
		cfg.ReactorBufferSize = size
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected reactor_buffer_size %d to be rejected", size)
		}
	}
}

func TestAddrFormatsBindAddressAndPort(t *testing.T) {
	cfg := validConfig()
	cfg.BindAddress = "127.0.0.1"
	cfg.Port = 9999
	if got, want := cfg.Addr(), "127.0.0.1:9999"; got != want {
		t.Fatalf("Addr() = %q, want %q", got, want)
	}
}
