package util

import (
	"github.com/5HT2/coding-bot/bot"
	"github.com/5HT2C/http-bash-requests/httpBashRequests"
	"io"
	"net/http"
	"time"
)

// RequestUrl will return the bytes of the body of url
func RequestUrl(url string, method string) ([]byte, *http.Response, error) {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, nil, err
	}

	return RequestUrlReq(req)
}

// RequestUrlFn will execute fn on req, then return the bytes of the body of url
func RequestUrlFn(url string, method string, fn func(req *http.Request)) ([]byte, *http.Response, error) {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, nil, err
	}
	fn(req)

	return RequestUrlReq(req)
}

// RequestUrlReq will return the bytes of the body of request
func RequestUrlReq(req *http.Request) ([]byte, *http.Response, error) {
	res, err := bot.HttpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	if res.Body != nil {
		defer res.Body.Close()
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, nil, err
	}

	return body, res, nil
}

// RequestJson will GET url with an "Accept: application/json" header, re-trying once on failure
func RequestJson(url string) ([]byte, error) {
	return RetryFunc(func() ([]byte, error) {
		b, res, err := RequestUrlFn(url, http.MethodGet, func(req *http.Request) {
			req.Header.Set("Accept", "application/json")
			req.Header.Set("User-Agent", "coding-bot (https://github.com/5HT2/coding-bot)")
		})
		if err != nil {
			return nil, err
		}
		if res.StatusCode != http.StatusOK {
			return nil, bot.GenericError("RequestJson", "requesting "+url, "status was "+res.Status)
		}
		return b, nil
	}, 1, 500)
}

// RegisterHttpBashRequests sets up the local bash bridge used by operator commands
func RegisterHttpBashRequests() {
	client := httpBashRequests.Client{Addr: "http://localhost:6016", HttpClient: &http.Client{Timeout: 5 * time.Minute}}
	httpBashRequests.Setup(&client)
}
