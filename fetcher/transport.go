package fetcher

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// defaultHeaders заголовки браузера, без которых API отвечает ошибкой.
// Accept-Encoding не задается: транспорт сам запрашивает и распаковывает gzip.
var defaultHeaders = map[string]string{
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "tr,en-US;q=0.9",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
}

// newTransport создает транспорт с keep-alive.
// При insecure сервер доступен только без проверки сертификата и с устаревшими настройками TLS.
func newTransport(insecure bool) *http.Transport {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	if insecure {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // сертификат сервера не проходит проверку
			MinVersion:         tls.VersionTLS10,
			Renegotiation:      tls.RenegotiateFreelyAsClient,
		}
	}

	return transport
}
