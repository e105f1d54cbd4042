package explorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newExplorer starts a stub getsourcecode endpoint returning the given
// SourceCode payload.
func newExplorer(t *testing.T, sourceCode string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "contract", r.URL.Query().Get("module"))
		assert.Equal(t, "getsourcecode", r.URL.Query().Get("action"))
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "1",
			"message": "OK",
			"result": []map[string]string{{
				"SourceCode":      sourceCode,
				"ContractName":    "Token",
				"CompilerVersion": "v0.8.20",
			}},
		})
	}))
}

// ---------------------------------------------------------------------------
// TestGetSource
// ---------------------------------------------------------------------------

func TestGetSource_PlainSingleFile(t *testing.T) {
	srv := newExplorer(t, "pragma solidity ^0.8.0; contract Token {}")
	defer srv.Close()

	c := NewClient(srv.URL)
	src, err := c.GetSource(context.Background(), "0xabc")
	require.NoError(t, err)

	assert.Equal(t, "Token", src.ContractName)
	assert.Equal(t, "v0.8.20", src.CompilerVersion)
	require.Len(t, src.Files, 1)
	assert.Contains(t, src.Files, "Token.sol")
}

func TestGetSource_MultiFileObject(t *testing.T) {
	srv := newExplorer(t, `{"contracts/Token.sol": {"content": "contract Token {}"}, "contracts/IERC20.sol": {"content": "interface IERC20 {}"}}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	src, err := c.GetSource(context.Background(), "0xabc")
	require.NoError(t, err)

	require.Len(t, src.Files, 2)
	assert.Equal(t, "contract Token {}", src.Files["contracts/Token.sol"])
	assert.Equal(t, "interface IERC20 {}", src.Files["contracts/IERC20.sol"])
}

func TestGetSource_DoubleBraceStandardJSON(t *testing.T) {
	srv := newExplorer(t, `{{"language": "Solidity", "sources": {"contracts/Token.sol": {"content": "contract Token {}"}}}}`)
	defer srv.Close()

	c := NewClient(srv.URL)
	src, err := c.GetSource(context.Background(), "0xabc")
	require.NoError(t, err)

	require.Len(t, src.Files, 1)
	assert.Equal(t, "contract Token {}", src.Files["contracts/Token.sol"])
}

func TestGetSource_NotVerified(t *testing.T) {
	srv := newExplorer(t, "")
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetSource(context.Background(), "0xabc")
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestGetSource_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "0",
			"message": "NOTOK",
			"result":  []map[string]string{},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetSource(context.Background(), "0xabc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTOK")
}

func TestGetSource_SendsAPIKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("apikey")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "1",
			"result": []map[string]string{{
				"SourceCode":   "contract A {}",
				"ContractName": "A",
			}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithAPIKey("secret"))
	_, err := c.GetSource(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
}
