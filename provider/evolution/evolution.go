package evolution

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	icpa "github.com/Davibfr13/ICPA"
)

type evolutionTransport struct {
	client *retryablehttp.Client

	url    string
	apiKey string
}

// NewEvolutionTransport sends media through the Evolution API sendMedia
// endpoint. The client never retries: each job gets exactly one delivery
// attempt and its outcome is recorded as-is.
func NewEvolutionTransport(url, apiKey string) icpa.GatewayTransport {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 0
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		return false, err
	}

	return &evolutionTransport{
		client: client,
		url:    url,
		apiKey: apiKey,
	}
}

func (t *evolutionTransport) Send(ctx context.Context, job *icpa.DeliveryJob, media []byte) error {
	payload := struct {
		Number    string `json:"number"`
		MediaType string `json:"mediatype"`
		Media     string `json:"media"`
		Caption   string `json:"caption"`
	}{
		Number:    job.Recipient,
		MediaType: string(job.MediaKind),
		Media:     base64.StdEncoding.EncodeToString(media),
		Caption:   job.Caption,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "Failed to encode gateway payload")
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", t.apiKey)
	req.Header.Set("User-Agent", icpa.UserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)

		return &icpa.GatewayError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	return nil
}
