package renderer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/internal/domain"
	"github.com/vfg2006/traffic-report-api/pkg/httpretry"
)

func TestClient_Render(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		handler  http.HandlerFunc
		wantPDF  []byte
		wantErr  string
		wantAuth string
	}{
		{
			name:   "PDF gerado",
			apiKey: "segredo",
			handler: func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				var req renderRequest
				require.NoError(t, json.Unmarshal(body, &req))
				assert.Equal(t, "r1", req.ReportUUID)
				assert.Equal(t, "pdf", req.Format)
				assert.Equal(t, "c1", req.Report.ClientUUID)
				w.Header().Set("Content-Type", "application/pdf")
				_, _ = w.Write([]byte("%PDF-1.4"))
			},
			wantPDF:  []byte("%PDF-1.4"),
			wantAuth: "Bearer segredo",
		},
		{
			name: "Erro do renderizador",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{"error":"template ausente"}`))
			},
			wantErr: `renderizador respondeu 422: {"error":"template ausente"}`,
		},
		{
			name: "PDF vazio",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantErr: "renderizador devolveu PDF vazio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth, gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotPath = r.URL.Path
				tt.handler(w, r)
			}))
			defer server.Close()

			client := NewClient(config.Renderer{URL: server.URL + "/", APIKey: tt.apiKey}, server.Client())
			pdf, err := client.Render(context.Background(), &domain.Report{UUID: "r1", ClientUUID: "c1"})

			assert.Equal(t, "/render/report", gotPath)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPDF, pdf)
			assert.Equal(t, tt.wantAuth, gotAuth)
		})
	}
}

func TestClient_RenderComRetentativa(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("%PDF"))
	}))
	defer server.Close()

	doer := httpretry.NewRetryClient(server.Client(), 2, httpretry.WithDelays(time.Millisecond, 5*time.Millisecond))
	client := NewClient(config.Renderer{URL: server.URL}, doer)

	pdf, err := client.Render(context.Background(), &domain.Report{UUID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), pdf)
	assert.Equal(t, 2, attempts)
}
