package restyutil

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatHeadersRedactsSecrets(t *testing.T) {
	headers := http.Header{}
	headers.Set("Cookie", "JSESSIONID=secret")
	headers.Set("Referer", "https://example.edu/page")

	out := formatHeaders(headers)
	require.NotContains(t, out, "secret")
	require.Contains(t, out, "Cookie: <REDACTED>")
	require.Contains(t, out, "Referer: https://example.edu/page")
}

func TestFormatHeadersEmpty(t *testing.T) {
	require.Equal(t, "", formatHeaders(http.Header{}))
}

func TestFormatRequestBodyWithoutBody(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://example.edu", nil)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "<NO BODY AVAILABLE>", formatRequestBody(req))
	require.Equal(t, "<NO BODY AVAILABLE>", formatRequestBody(nil))
}

func TestFormatRequestBodyNilReader(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://example.edu", nil)
	require.NoError(t, err)
	req.GetBody = func() (io.ReadCloser, error) { return nil, nil }
	require.Equal(t, noBody, formatRequestBody(req))
}

func TestFormatRequestBodyReplaysForm(t *testing.T) {
	req, err := http.NewRequest(
		http.MethodPost,
		"https://example.edu/servlet/materials",
		strings.NewReader("b=num&var=10651101&flag=done"),
	)
	require.NoError(t, err)
	require.Equal(t, "b=num&var=10651101&flag=done", formatRequestBody(req))
	require.Equal(t, "b=num&var=10651101&flag=done", formatRequestBody(req))
}
