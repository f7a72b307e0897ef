package randomorg

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpcServer fakes the JSON-RPC endpoint with a per-method handler.
func rpcServer(t *testing.T, handle func(method string, params json.RawMessage) (string, *rpcError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			JSONRPC string          `json:"jsonrpc"`
			Method  string          `json:"method"`
			Params  json.RawMessage `json:"params"`
			ID      int             `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)

		result, rpcErr := handle(req.Method, req.Params)
		if rpcErr != nil {
			fmt.Fprintf(w, `{"error":{"code":%d,"message":%q},"id":%d}`, rpcErr.Code, rpcErr.Message, req.ID)
			return
		}
		fmt.Fprintf(w, `{"result":%s,"id":%d}`, result, req.ID)
	}))
}

func TestClientIntegers(t *testing.T) {
	srv := rpcServer(t, func(method string, params json.RawMessage) (string, *rpcError) {
		require.Equal(t, "generateIntegers", method)

		var p integerParams
		require.NoError(t, json.Unmarshal(params, &p))
		assert.Equal(t, "key-123", p.APIKey)
		assert.Equal(t, 3, p.N)
		assert.Equal(t, 1, p.Min)
		assert.Equal(t, 6, p.Max)
		assert.False(t, p.Replacement, "unique draws must disable replacement")

		return `{"random":{"data":[4,1,6]}}`, nil
	})
	defer srv.Close()

	c := NewClient("key-123", time.Second)
	c.APIURL = srv.URL

	values, err := c.Integers(context.Background(), 3, 1, 6, true)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 1, 6}, values)
}

func TestClientIntegersRequiresKey(t *testing.T) {
	c := NewClient("", time.Second)
	_, err := c.Integers(context.Background(), 1, 0, 9, false)
	assert.Error(t, err)
}

func TestClientIntegersServiceError(t *testing.T) {
	srv := rpcServer(t, func(method string, params json.RawMessage) (string, *rpcError) {
		return "", &rpcError{Code: 402, Message: "not enough bits"}
	})
	defer srv.Close()

	c := NewClient("key-123", time.Second)
	c.APIURL = srv.URL

	_, err := c.Integers(context.Background(), 1, 0, 9, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enough bits")
}

func TestClientQuotaWithKey(t *testing.T) {
	srv := rpcServer(t, func(method string, params json.RawMessage) (string, *rpcError) {
		require.Equal(t, "getUsage", method)
		return `{"bitsLeft":8000}`, nil
	})
	defer srv.Close()

	c := NewClient("key-123", time.Second)
	c.APIURL = srv.URL

	remaining, err := c.Quota(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1000, remaining)
}

func TestClientQuotaWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, " 16000 ")
	}))
	defer srv.Close()

	c := NewClient("", time.Second)
	c.QuotaURL = srv.URL

	remaining, err := c.Quota(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2000, remaining)
}

func TestClientCheckQuota(t *testing.T) {
	srv := rpcServer(t, func(method string, params json.RawMessage) (string, *rpcError) {
		return `{"bitsLeft":80}`, nil
	})
	defer srv.Close()

	c := NewClient("key-123", time.Second)
	c.APIURL = srv.URL

	assert.NoError(t, c.CheckQuota(context.Background(), 10))

	err := c.CheckQuota(context.Background(), 11)
	require.Error(t, err)
	var qe *QuotaError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 11, qe.RequestedBytes)
	assert.Equal(t, 10, qe.RemainingBytes)
}

func TestClientBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "4", r.URL.Query().Get("nbytes"))
		assert.Equal(t, "h", r.URL.Query().Get("format"))
		fmt.Fprintln(w, "de ad\nbe ef")
	}))
	defer srv.Close()

	c := NewClient("", time.Second)
	c.BytesURL = srv.URL

	data, err := c.Bytes(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, data)
}

func TestClientBytesShortResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "dead")
	}))
	defer srv.Close()

	c := NewClient("", time.Second)
	c.BytesURL = srv.URL

	_, err := c.Bytes(context.Background(), 4)
	assert.Error(t, err)
}
