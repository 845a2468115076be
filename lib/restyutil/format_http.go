package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/go-resty/resty/v2"
)

// session secrets never reach a dump
var redactedHeaders = []string{"Authorization", "Cookie", "Set-Cookie"}

// formatHeaders renders headers as sorted "Key: Value" lines.
func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var lines []string
	for _, k := range keys {
		redact := slices.Contains(redactedHeaders, http.CanonicalHeaderKey(k))
		for _, v := range headers[k] {
			if redact {
				v = "<REDACTED>"
			}
			lines = append(lines, k+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

const noBody = "<NO BODY AVAILABLE>"

// formatRequestBody replays the request body through GetBody, which resty
// sets for form and byte bodies.
func formatRequestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return noBody
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("<failed to get request body: %s>", err)
	}
	if body == nil {
		return noBody
	}
	defer body.Close()
	contents, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("<failed to read request body: %s>", err)
	}
	return string(contents)
}

// formatHttpMessage renders a full exchange as a plain text document with a
// REQUEST section followed by a RESPONSE section.
func formatHttpMessage(res *resty.Response) string {
	var out strings.Builder
	section := func(title string) {
		fmt.Fprintf(&out, "---- %s ----\n\n", title)
	}

	section("REQUEST")
	fmt.Fprintf(&out, "%s %s\n\n", res.Request.Method, res.Request.URL)
	if res.Request.RawRequest != nil {
		fmt.Fprintf(&out, "%s\n\n", formatHeaders(res.Request.RawRequest.Header))
	}
	fmt.Fprintf(&out, "%s\n\n", formatRequestBody(res.Request.RawRequest))

	finalUrl := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalUrl = res.RawResponse.Request.URL.String()
	}
	section("RESPONSE")
	fmt.Fprintf(&out, "%d %s\n\n", res.StatusCode(), finalUrl)
	fmt.Fprintf(&out, "%s\n\n", formatHeaders(res.Header()))
	out.WriteString(res.String())

	return out.String()
}
