package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"

	"github.com/antonio-alexander/go-employee-manager/internal"
)

func (c *client) executeRequest(ctx context.Context, uri, method string, item any) ([]byte, int, error) {
	var body io.Reader

	if payload, ok := item.([]byte); ok {
		body = bytes.NewBuffer(payload)
	}
	request, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, 0, err
	}
	correlationId := internal.CorrelationIdFromCtx(ctx)
	if correlationId == "" {
		correlationId = internal.GenerateId()
	}
	request.Header.Set("Correlation-Id", correlationId)
	request.Header.Set("Content-Type", "application/json; charset=utf-8")
	if accessToken := c.accessToken(); accessToken != "" {
		request.Header.Set("Authorization", "Bearer "+accessToken)
	}
	response, err := c.Client.Do(request)
	if err != nil {
		return nil, 0, err
	}
	defer response.Body.Close()
	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, 0, err
	}
	return responseBytes, response.StatusCode, nil
}

func getTransport(sslCaFile, sslCrtFile, sslKeyFile string) (*http.Transport, error) {
	switch {
	default:
		return &http.Transport{}, nil
	case sslCrtFile != "" && sslKeyFile != "":
		tlsConfig, err := internal.GetTlsConfig(sslCrtFile, sslKeyFile, sslCaFile)
		if err != nil {
			return nil, err
		}
		return &http.Transport{TLSClientConfig: tlsConfig}, nil
	case sslCaFile != "":
		caCertPool, err := internal.GetCaCert(sslCaFile)
		if err != nil {
			return nil, err
		}
		return &http.Transport{TLSClientConfig: &tls.Config{
			// TLS versions below 1.2 are considered insecure
			// see https://www.rfc-editor.org/rfc/rfc7525.txt for details
			MinVersion: tls.VersionTLS12,
			RootCAs:    caCertPool,
		}}, nil
	}
}
