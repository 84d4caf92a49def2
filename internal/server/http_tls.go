package server

import (
	"crypto/tls"
	"fmt"
	"net/http"
)

// configureTLS applies the TLS configuration to the HTTP server. Certificates
// are loaded from disk by ListenAndServeTLS at startup.
func (s *Server) configureTLS(httpServer *http.Server) error {
	switch s.TLSConfig.Mode {
	case "", "disabled":
		return nil
	case "server":
		minVersion, err := parseTLSMinVersion(s.TLSConfig.MinVersion)
		if err != nil {
			return err
		}
		httpServer.TLSConfig = &tls.Config{
			MinVersion: minVersion,
		}
		s.Logger.Info("TLS enabled",
			"cert_file", s.TLSConfig.CertFile,
			"min_version", s.TLSConfig.MinVersion)
		return nil
	default:
		return fmt.Errorf("unsupported TLS mode: %s", s.TLSConfig.Mode)
	}
}

// parseTLSMinVersion maps the configured version string to a tls constant.
func parseTLSMinVersion(version string) (uint16, error) {
	switch version {
	case "", "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS minimum version: %s", version)
	}
}
